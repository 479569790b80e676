package match

import (
	"math"
	"sort"
	"strings"

	"nutriplan"
)

// Score computes word-level Jaccard similarity between a suggested name and
// a reference description, in [0,1]. Returns 0 when the union is empty.
// Intentionally a cheap, explainable metric rather than an embedding:
// matches have to be auditable by a human reviewer.
func Score(suggested, description string) float64 {
	a := wordSet(suggested)
	b := wordSet(description)

	union := len(a)
	inter := 0
	for w := range b {
		if a[w] {
			inter++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:()")
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// Scored pairs a candidate with its similarity to the suggested name.
type Scored struct {
	Food  nutriplan.ReferenceFood
	Score float64
}

// Rank scores every candidate against the suggestion and sorts descending.
// Ties prefer the record whose stated serving size is closest to the
// suggested gram weight; records without a serving size lose the tie.
func Rank(suggested nutriplan.SuggestedFood, candidates []nutriplan.ReferenceFood) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Scored{Food: c, Score: Score(suggested.Name, c.Description)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return servingDelta(scored[i].Food, suggested) < servingDelta(scored[j].Food, suggested)
	})
	return scored
}

func servingDelta(ref nutriplan.ReferenceFood, suggested nutriplan.SuggestedFood) float64 {
	if ref.ServingSize <= 0 {
		return math.MaxFloat64
	}
	return math.Abs(ref.ServingSize - suggested.GramWeight)
}
