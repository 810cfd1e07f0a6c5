package resource_test

import (
	"math"
	"testing"

	"github.com/geocoder89/homage/internal/domain/resource"
)

func TestListParamsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   resource.ListParams
		want resource.ListParams
	}{
		{
			name: "defaults",
			in:   resource.ListParams{},
			want: resource.ListParams{Page: 1, PerPage: 10, SortBy: "created_at", SortDir: "desc"},
		},
		{
			name: "valid_values_kept",
			in:   resource.ListParams{Page: 3, PerPage: 25, SortBy: "name", SortDir: "asc"},
			want: resource.ListParams{Page: 3, PerPage: 25, SortBy: "name", SortDir: "asc"},
		},
		{
			name: "unknown_sort_falls_back",
			in:   resource.ListParams{Page: 1, PerPage: 10, SortBy: "password; drop table", SortDir: "sideways"},
			want: resource.ListParams{Page: 1, PerPage: 10, SortBy: "created_at", SortDir: "desc"},
		},
		{
			name: "per_page_clamped",
			in:   resource.ListParams{Page: 1, PerPage: 5000, SortBy: "id", SortDir: "asc"},
			want: resource.ListParams{Page: 1, PerPage: 100, SortBy: "id", SortDir: "asc"},
		},
		{
			name: "huge_page_capped",
			in:   resource.ListParams{Page: 1000000000000000000, PerPage: 10, SortBy: "id", SortDir: "asc"},
			want: resource.ListParams{Page: math.MaxInt / 10, PerPage: 10, SortBy: "id", SortDir: "asc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	tests := []struct {
		name string
		in   resource.ListParams
		want int
	}{
		{"third_page", resource.ListParams{Page: 3, PerPage: 10}, 20},
		{"zero_value", resource.ListParams{}, 0},
		{"huge_page_after_normalize", resource.ListParams{Page: math.MaxInt, PerPage: 100}.Normalize(), (math.MaxInt/100 - 1) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Offset()
			if got != tt.want {
				t.Fatalf("got offset %d, want %d", got, tt.want)
			}
			if got < 0 {
				t.Fatalf("offset must never be negative, got %d", got)
			}
		})
	}
}
