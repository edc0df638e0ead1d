package pagination_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"topicfeed/internal/common/pagination"
)

func TestParseQueryParams(t *testing.T) {
	t.Parallel()

	cfg := pagination.DefaultConfig().WithDefaultLimit(pagination.DefaultNewsLimit)

	tests := []struct {
		name      string
		query     string
		want      pagination.Params
		wantError bool
	}{
		{name: "defaults", query: "", want: pagination.Params{Page: 1, Limit: 5}},
		{name: "explicit", query: "page=2&limit=30", want: pagination.Params{Page: 2, Limit: 30}},
		{name: "max limit", query: "limit=100", want: pagination.Params{Page: 1, Limit: 100}},
		{name: "zero page", query: "page=0", wantError: true},
		{name: "negative page", query: "page=-1", wantError: true},
		{name: "non numeric page", query: "page=abc", wantError: true},
		{name: "limit over max", query: "limit=101", wantError: true},
		{name: "zero limit", query: "limit=0", wantError: true},
		{name: "huge page", query: "page=922337203685477582&limit=10", want: pagination.Params{Page: 922337203685477582, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest("GET", "/news?"+tt.query, nil)
			got, err := pagination.ParseQueryParams(req, cfg)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.query)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParams_OffsetNeverNegative(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/news?page=922337203685477582&limit=10", nil)
	params, err := pagination.ParseQueryParams(req, pagination.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off := params.Offset(); off < 0 {
		t.Fatalf("Offset() = %d, want a non-negative offset", off)
	}

	resp := pagination.NewResponse[string](nil, params, 23)
	if len(resp.Data) != 0 || resp.Total != 23 || resp.TotalPages != 3 {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestConfig_WithDefaultLimit(t *testing.T) {
	t.Parallel()

	cfg := pagination.Config{DefaultPage: 1, DefaultLimit: 10, MaxLimit: 20}
	if got := cfg.WithDefaultLimit(50).DefaultLimit; got != 20 {
		t.Errorf("default limit should be capped at max, got %d", got)
	}
	if got := cfg.WithDefaultLimit(5).DefaultLimit; got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	if cfg.DefaultLimit != 10 {
		t.Errorf("WithDefaultLimit must not modify the receiver")
	}
}

func TestParams_ValidateAndDefaults(t *testing.T) {
	t.Parallel()

	cfg := pagination.DefaultConfig()
	if err := (pagination.Params{Page: 1, Limit: 10}).Validate(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (pagination.Params{Page: 0, Limit: 10}).Validate(cfg); err == nil {
		t.Error("expected error for page 0")
	}
	if err := (pagination.Params{Page: 1, Limit: 500}).Validate(cfg); err == nil {
		t.Error("expected error for limit 500")
	}

	got := pagination.Params{Page: -2, Limit: 500}.WithDefaults(cfg)
	if diff := cmp.Diff(pagination.Params{Page: 1, Limit: 100}, got); diff != "" {
		t.Errorf("WithDefaults mismatch (-want +got):\n%s", diff)
	}
}

func TestNewResponse_JSONShape(t *testing.T) {
	t.Parallel()

	resp := pagination.NewResponse[string](nil, pagination.Params{Page: 4, Limit: 10}, 23)
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"data":[],"page":4,"limit":10,"total":23,"totalPages":3}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}
