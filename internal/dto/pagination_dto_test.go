package dto

import "testing"

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name           string
		itemCount      int
		page           int
		limit          int
		total          int64
		wantTotalPages int
	}{
		{"exact division", 20, 1, 20, 40, 2},
		{"remainder rounds up", 20, 1, 20, 41, 3},
		{"empty", 0, 1, 20, 0, 0},
		{"single partial page", 3, 1, 20, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.itemCount)
			res := NewPaginatedResponse(items, tt.page, tt.limit, tt.total)

			if res.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", res.TotalPages, tt.wantTotalPages)
			}
			if res.Total != tt.total {
				t.Errorf("Total = %d, want %d", res.Total, tt.total)
			}
			if res.Items == nil {
				t.Error("Items must never be nil so JSON renders [] not null")
			}
		})
	}
}

func TestPaginationQueryNormalize(t *testing.T) {
	tests := []struct {
		name               string
		page, limit        int
		wantPage, wantLim  int
		wantOffset         int
	}{
		{"defaults", 0, 0, 1, 20, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"limit capped", 2, 500, 2, 100, 100},
		{"normal", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := PaginationQuery{Page: tt.page, Limit: tt.limit}
			q.Normalize()

			if q.Page != tt.wantPage || q.Limit != tt.wantLim {
				t.Errorf("normalized to page=%d limit=%d, want page=%d limit=%d", q.Page, q.Limit, tt.wantPage, tt.wantLim)
			}
			if q.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", q.Offset(), tt.wantOffset)
			}
		})
	}
}
