package search_test

import (
	"slices"
	"testing"
	"time"

	"github.com/alex-user-go/travelsearch/internal/search"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

func TestValidator_Validate(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2025, 11, 20, 15, 30, 0, 0, time.UTC)
	}
	v := search.NewValidator(120, clock)

	tests := []struct {
		name string
		req  types.SearchRequest
		want []string
	}{
		{
			name: "valid",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2025-11-21", ReturnDate: "2025-11-25", FlightClass: "b", TrainClass: "3A"},
		},
		{
			name: "today is allowed",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2025-11-20"},
		},
		{
			name: "last day of the window",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2026-03-20"},
		},
		{
			name: "missing fields",
			req:  types.SearchRequest{},
			want: []string{
				"From location is required and must be at least 2 characters",
				"To location is required and must be at least 2 characters",
				"Date is required",
			},
		},
		{
			name: "short names after trimming",
			req:  types.SearchRequest{From: " M ", To: "D", Date: "2025-11-21"},
			want: []string{
				"From location is required and must be at least 2 characters",
				"To location is required and must be at least 2 characters",
			},
		},
		{
			name: "bad date format",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "21/11/2025"},
			want: []string{"Date must be in YYYY-MM-DD format"},
		},
		{
			name: "past date",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2025-11-19"},
			want: []string{"Date cannot be in the past"},
		},
		{
			name: "beyond the window",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2026-03-21"},
			want: []string{"Date cannot be more than 120 days in the future"},
		},
		{
			name: "return before departure",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2025-11-25", ReturnDate: "2025-11-25"},
			want: []string{"Return date must be after departure date"},
		},
		{
			name: "bad return date format",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2025-11-25", ReturnDate: "soon"},
			want: []string{"Return date must be in YYYY-MM-DD format"},
		},
		{
			name: "unknown classes",
			req:  types.SearchRequest{From: "Mumbai", To: "Delhi", Date: "2025-11-25", FlightClass: "f", TrainClass: "EC"},
			want: []string{
				"Flight class must be one of e, b, w",
				"Train class must be one of 2S, SL, 3E, CC, 3A, 2A, 1A",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.req)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidator_CustomWindow(t *testing.T) {
	v := search.NewValidator(7, func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	got := v.Validate(types.SearchRequest{From: "Pune", To: "Goa", Date: "2025-01-09"})
	want := []string{"Date cannot be more than 7 days in the future"}
	if !slices.Equal(got, want) {
		t.Errorf("Validate() = %q, want %q", got, want)
	}
}

func TestNormalize(t *testing.T) {
	got := search.Normalize(types.SearchRequest{From: " Mumbai ", To: "Delhi", Date: "2025-11-21"})
	if got.From != "Mumbai" || got.FlightClass != "e" || got.TrainClass != "SL" {
		t.Errorf("Normalize() = %+v", got)
	}
}
