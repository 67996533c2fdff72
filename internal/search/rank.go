package search

import (
	"slices"
	"strconv"
	"strings"

	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// MaxResults caps the options returned by one search.
const MaxResults = 50

// unparsedTime sorts options with an unreadable departure time after all others.
const unparsedTime = 24 * 60

// Rank keeps available options with a positive price, orders them by price then
// departure time, and returns at most limit of them. The input is not modified.
func Rank(options []types.TravelOption, limit int) []types.TravelOption {
	ranked := make([]types.TravelOption, 0, len(options))
	for _, o := range options {
		if o.Available && o.Price.Amount > 0 {
			ranked = append(ranked, o)
		}
	}

	slices.SortStableFunc(ranked, func(a, b types.TravelOption) int {
		if a.Price.Amount != b.Price.Amount {
			return a.Price.Amount - b.Price.Amount
		}
		return minutesOfDay(a.From.Time) - minutesOfDay(b.From.Time)
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// minutesOfDay parses "HH:MM" into minutes since midnight.
func minutesOfDay(s string) int {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return unparsedTime
	}
	if !ok {
		return hours * 60
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return unparsedTime
	}
	return hours*60 + minutes
}
