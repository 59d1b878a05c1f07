package runs

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// row scans fixed column values the way database/sql does for these types:
// nil clears the destination and values are stored behind pointer
// destinations as needed.
type row []any

func (r row) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan: %d columns, %d destinations", len(r), len(dest))
	}

	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r[i] == nil {
			target.SetZero()
			continue
		}

		v := reflect.ValueOf(r[i])
		if target.Kind() == reflect.Pointer && v.Kind() != reflect.Pointer {
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(v.Convert(target.Type().Elem()))
			target.Set(p)
			continue
		}
		target.Set(v.Convert(target.Type()))
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestScanRecord(t *testing.T) {
	tests := []struct {
		name string
		row  row
		want classify.Record
	}{
		{
			name: "classified",
			row:  row{"Thrips", "1.jpg", "a photo of adult Thrips", "Thrips", 0.82, true},
			want: classify.Record{
				Class:           "Thrips",
				File:            "1.jpg",
				PredictedPrompt: ptr("a photo of adult Thrips"),
				PredictedClass:  ptr("Thrips"),
				Confidence:      0.82,
				Correct:         true,
			},
		},
		{
			name: "failed",
			row:  row{"Aphids", "2.jpg", nil, nil, 0.0, false},
			want: classify.Record{Class: "Aphids", File: "2.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanRecord(tt.row)
			if err != nil {
				t.Fatalf("scanRecord() failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scanRecord() mismatch (-want +got):\n%s", diff)
			}
			if got.Failed() != (tt.want.PredictedPrompt == nil) {
				t.Errorf("Failed() = %v", got.Failed())
			}
		})
	}
}

func TestScanRun(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	summary := []byte(`{"total_files":2}`)

	t.Run("completed", func(t *testing.T) {
		r := row{
			id, "completed", "clip", "/data/insects",
			nil, summary,
			2, 1, 50.0,
			nil, created, created, created, created,
		}

		got, err := scanRun(r)
		if err != nil {
			t.Fatalf("scanRun() failed: %v", err)
		}

		want := Run{
			ID:              id,
			Status:          StatusCompleted,
			Backend:         "clip",
			DatasetRoot:     "/data/insects",
			Summary:         json.RawMessage(summary),
			TotalFiles:      2,
			TotalCorrect:    1,
			OverallAccuracy: 50,
			StartedAt:       &created,
			CompletedAt:     &created,
			CreatedAt:       created,
			UpdatedAt:       created,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("scanRun() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pending has no json or times", func(t *testing.T) {
		r := row{
			id, "pending", "vision", "/data/insects",
			nil, nil,
			0, 0, 0.0,
			nil, nil, nil, created, created,
		}

		got, err := scanRun(r)
		if err != nil {
			t.Fatalf("scanRun() failed: %v", err)
		}
		if got.Params != nil || got.Summary != nil {
			t.Errorf("Params = %s, Summary = %s, want nil", got.Params, got.Summary)
		}
		if got.StartedAt != nil || got.CompletedAt != nil || got.ErrorMessage != nil {
			t.Errorf("optional fields set on pending run: %+v", got)
		}
	})
}

func TestScanStage(t *testing.T) {
	id, runID := uuid.New(), uuid.New()
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	r := row{
		id, runID, "scan", 2, "failed",
		[]byte(`{"dataset_root":"/data"}`), nil,
		120, "dataset root not found", created,
	}

	got, err := scanStage(r)
	if err != nil {
		t.Fatalf("scanStage() failed: %v", err)
	}

	want := Stage{
		ID:            id,
		RunID:         runID,
		NodeName:      "scan",
		Iteration:     2,
		Status:        StageFailed,
		InputSnapshot: json.RawMessage(`{"dataset_root":"/data"}`),
		DurationMs:    ptr(120),
		ErrorMessage:  ptr("dataset root not found"),
		CreatedAt:     created,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanStage() mismatch (-want +got):\n%s", diff)
	}
}
