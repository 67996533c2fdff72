package bus

import (
	"slices"
	"strings"

	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// Override forces a disambiguated place to the front for one ambiguous query.
// A location matches when its name contains Match and, if Region is set, its
// region equals Region.
type Override struct {
	Query  string `json:"query"`
	Match  string `json:"match"`
	Region string `json:"region"`
}

// Rank reorders bus locations for query: exact name matches first, then the
// preferred region, keeping upstream order otherwise. A matching override wins
// over both.
func Rank(locations []types.Location, query, preferredRegion string, overrides []Override) []types.Location {
	ranked := slices.Clone(locations)
	q := strings.ToLower(strings.TrimSpace(query))

	score := func(l types.Location) int {
		s := 0
		if strings.ToLower(l.Name) != q {
			s += 2
		}
		if preferredRegion == "" || l.Region != preferredRegion {
			s++
		}
		return s
	}
	slices.SortStableFunc(ranked, func(a, b types.Location) int {
		return score(a) - score(b)
	})

	for _, o := range overrides {
		if strings.ToLower(o.Query) != q {
			continue
		}
		i := slices.IndexFunc(ranked, func(l types.Location) bool {
			return strings.Contains(strings.ToLower(l.Name), strings.ToLower(o.Match)) &&
				(o.Region == "" || l.Region == o.Region)
		})
		if i > 0 {
			match := ranked[i]
			copy(ranked[1:i+1], ranked[:i])
			ranked[0] = match
		}
		break
	}
	return ranked
}
