package pagination_test

import (
	"math"
	"testing"

	"topicfeed/internal/common/pagination"
)

func TestCalculateOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		page  int
		limit int
		want  int
	}{
		{"first page", 1, 10, 0},
		{"second page", 2, 10, 10},
		{"third page", 3, 10, 20},
		{"page 10 with limit 50", 10, 50, 450},
		{"zero page clamps to start", 0, 10, 0},
		{"zero limit", 3, 0, 0},
		{"overflowing page saturates", 922337203685477582, 10, math.MaxInt},
		{"max page with limit 1", math.MaxInt, 1, math.MaxInt - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pagination.CalculateOffset(tt.page, tt.limit); got != tt.want {
				t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"empty collection", 0, 10, 0},
		{"less than one page", 3, 10, 1},
		{"exactly one page", 10, 10, 1},
		{"one over", 11, 10, 2},
		{"23 items by 10", 23, 10, 3},
		{"zero limit", 23, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pagination.CalculateTotalPages(tt.total, tt.limit); got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}

// Pages over a 23 item collection with 10 per page.
func TestPagingWalk_23By10(t *testing.T) {
	t.Parallel()

	const total = 23
	items := make([]int, total)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		page      int
		wantCount int
	}{
		{1, 10},
		{2, 10},
		{3, 3},
		{4, 0},
	}

	for _, tt := range tests {
		params := pagination.Params{Page: tt.page, Limit: 10}
		offset := params.Offset()
		end := min(offset+params.Limit, total)
		var page []int
		if offset < total {
			page = items[offset:end]
		}

		resp := pagination.NewResponse(page, params, total)
		if len(resp.Data) != tt.wantCount {
			t.Errorf("page %d: got %d items, want %d", tt.page, len(resp.Data), tt.wantCount)
		}
		if resp.TotalPages != 3 {
			t.Errorf("page %d: totalPages = %d, want 3", tt.page, resp.TotalPages)
		}
		if resp.Total != total || resp.Page != tt.page || resp.Limit != 10 {
			t.Errorf("page %d: envelope = %+v", tt.page, resp)
		}
	}
}
