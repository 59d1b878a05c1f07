// Package reports renders evaluation results into the report files kept with
// each run: detailed JSON, per-image and per-class CSV, a text summary, and a
// README.
package reports

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/JaimeStill/pest-lab/internal/classify"
	"github.com/JaimeStill/pest-lab/internal/stats"
	"github.com/JaimeStill/pest-lab/pkg/storage"
)

// TimestampLayout formats run timestamps in report bodies.
const TimestampLayout = "2006-01-02_15-04-05"

const failedValue = "failed"

// Results is everything a report needs: the summary, the ordered records of
// each class, and when the run happened.
type Results struct {
	Timestamp time.Time
	Summary   stats.RunSummary
	Records   map[string][]classify.Record
}

// FromAggregator captures the aggregator's current state.
func FromAggregator(agg *stats.Aggregator, ts time.Time) Results {
	res := Results{
		Timestamp: ts,
		Summary:   agg.Summarize(),
		Records:   make(map[string][]classify.Record),
	}
	for _, class := range agg.Classes() {
		res.Records[class] = agg.Records(class)
	}
	return res
}

// FromRecords rebuilds results from records stored in processing order,
// such as those read back from a persisted run.
func FromRecords(records []classify.Record, ts time.Time) Results {
	agg := stats.New()
	for _, rec := range records {
		agg.Add(rec)
	}
	return FromAggregator(agg, ts)
}

// Writer stores rendered reports through a storage system.
type Writer struct {
	cfg    *Config
	store  storage.System
	logger *slog.Logger
}

// NewWriter creates a report writer. cfg must be finalized.
func NewWriter(cfg *Config, store storage.System, logger *slog.Logger) *Writer {
	return &Writer{
		cfg:    cfg,
		store:  store,
		logger: logger.With("system", "reports"),
	}
}

// Write renders every enabled format and returns the storage keys written.
func (w *Writer) Write(ctx context.Context, res Results) ([]string, error) {
	keys := make([]string, 0, len(w.cfg.Formats))

	for _, f := range AllFormats() {
		if !w.cfg.Enabled(f) {
			continue
		}

		data, err := Render(f, res)
		if err != nil {
			return keys, fmt.Errorf("render %s: %w", f, err)
		}

		key := path.Join(w.cfg.Dir, f.File())
		if err := w.store.Store(ctx, key, data); err != nil {
			return keys, fmt.Errorf("store %s: %w", key, err)
		}

		w.logger.Info("report written", "format", f, "key", key, "bytes", len(data))
		keys = append(keys, key)
	}

	return keys, nil
}

// Render produces the file contents for a single format.
func Render(f Format, res Results) ([]byte, error) {
	switch f {
	case FormatJSON:
		return renderJSON(res)
	case FormatRecords:
		return renderRecords(res)
	case FormatSummary:
		return renderSummary(res)
	case FormatText:
		return renderText(res), nil
	case FormatReadme:
		return renderReadme(res), nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", f)
	}
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func conf(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
