package pagination_test

import (
	"testing"

	"github.com/JaimeStill/pest-lab/pkg/pagination"
)

func TestPageRequest_Normalize(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20, 0},
		{"over max", pagination.PageRequest{Page: 3, PageSize: 500}, 3, 100, 200},
		{"valid", pagination.PageRequest{Page: 2, PageSize: 10}, 2, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage || tt.req.PageSize != tt.wantPageSize {
				t.Errorf("Normalize() = page %d size %d, want %d and %d", tt.req.Page, tt.req.PageSize, tt.wantPage, tt.wantPageSize)
			}
			if tt.req.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", tt.req.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		req       pagination.PageRequest
		wantPages int
		wantNext  bool
	}{
		{"partial last page", 45, pagination.PageRequest{Page: 1, PageSize: 20}, 3, true},
		{"exact fit on last page", 40, pagination.PageRequest{Page: 2, PageSize: 20}, 2, false},
		{"empty", 0, pagination.PageRequest{Page: 1, PageSize: 20}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pagination.NewPageResult[int](nil, tt.total, tt.req)
			if r.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", r.TotalPages, tt.wantPages)
			}
			if r.HasNext() != tt.wantNext {
				t.Errorf("HasNext() = %v, want %v", r.HasNext(), tt.wantNext)
			}
			if r.Data == nil {
				t.Error("Data = nil, want empty slice")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 50, MaxPageSize: 10}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() succeeded with default above max, want error")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_PAGE_DEFAULT", "5")
	t.Setenv("TEST_PAGE_MAX", "not-a-number")

	cfg := pagination.Config{}
	env := &pagination.Env{DefaultPageSize: "TEST_PAGE_DEFAULT", MaxPageSize: "TEST_PAGE_MAX"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.DefaultPageSize != 5 {
		t.Errorf("DefaultPageSize = %d, want 5", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}
