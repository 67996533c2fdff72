package search_test

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/alex-user-go/travelsearch/internal/search"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

func ids(opts []types.TravelOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.ID
	}
	return out
}

func TestRank_OrderAndFilter(t *testing.T) {
	unavailable := option(types.ModeBus, "sold-out", 100, "01:00")
	unavailable.Available = false

	in := []types.TravelOption{
		option(types.ModeFlight, "late", 1000, "21:30"),
		unavailable,
		option(types.ModeTrain, "early", 1000, "06:05"),
		option(types.ModeBus, "zero", 0, "00:00"),
		option(types.ModeBus, "negative", -5, "00:00"),
		option(types.ModeTrain, "cheap", 400, "23:59"),
		option(types.ModeBus, "no-time", 1000, "N/A"),
		option(types.ModeBus, "hour-only", 1000, "7"),
	}

	got := ids(search.Rank(in, search.MaxResults))
	want := []string{"cheap", "early", "hour-only", "late", "no-time"}
	if !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
	if len(in) != 8 || in[0].ID != "late" {
		t.Error("Rank modified its input")
	}
}

func TestRank_Deterministic(t *testing.T) {
	var in []types.TravelOption
	for i := 0; i < 60; i++ {
		in = append(in, option(types.ModeTrain, fmt.Sprintf("o%d", i), 100*(i%7+1), fmt.Sprintf("%02d:%02d", i%24, i%60)))
	}

	first := search.Rank(in, search.MaxResults)
	for range 5 {
		if again := search.Rank(in, search.MaxResults); !reflect.DeepEqual(first, again) {
			t.Fatal("repeated Rank calls produced different orderings")
		}
	}
}

func TestRank_TruncatesToCheapest(t *testing.T) {
	var in []types.TravelOption
	for i := 0; i < 120; i++ {
		in = append(in, option(types.ModeBus, fmt.Sprintf("o%03d", i), 1000+i, "10:00"))
	}
	rand.Shuffle(len(in), func(i, j int) { in[i], in[j] = in[j], in[i] })

	got := search.Rank(in, search.MaxResults)
	if len(got) != 50 {
		t.Fatalf("got %d options, want 50", len(got))
	}
	for i, o := range got {
		if want := fmt.Sprintf("o%03d", i); o.ID != want {
			t.Fatalf("position %d = %s, want %s", i, o.ID, want)
		}
	}
}

func TestRank_TieBreakOnDepartureTime(t *testing.T) {
	in := []types.TravelOption{
		option(types.ModeBus, "b", 500, "10:00"),
		option(types.ModeBus, "a", 500, "09:59"),
		option(types.ModeBus, "c", 500, "10:01"),
	}
	got := ids(search.Rank(in, 2))
	if want := []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}
