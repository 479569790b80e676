package planner

import (
	"nutriplan"
	"nutriplan/match"
)

// dayPhases rotate the nutritional emphasis over a three-day cycle so
// consecutive days pull from different corners of the plate.
var dayPhases = [3]string{
	"lean proteins and fresh vegetables",
	"whole grains and legumes",
	"omega-3 rich fish and colorful produce",
}

// SlotBudgets computes each slot's nutrition budget. Slots with a
// configured share use it directly; slot names outside the configuration
// split the remaining share evenly. Macro targets scale with the slot's
// calorie share of the day.
func SlotBudgets(slots []nutriplan.MealSlot, daily nutriplan.Nutrition, shares map[string]float64) []nutriplan.Nutrition {
	known := 0.0
	unknown := 0
	for _, s := range slots {
		if share, ok := shares[string(s)]; ok {
			known += share
		} else {
			unknown++
		}
	}

	evenShare := 0.0
	if unknown > 0 {
		remainder := 1 - known
		if remainder < 0 {
			remainder = 0
		}
		evenShare = remainder / float64(unknown)
	}

	budgets := make([]nutriplan.Nutrition, 0, len(slots))
	for _, s := range slots {
		share, ok := shares[string(s)]
		if !ok {
			share = evenShare
		}
		budgets = append(budgets, daily.Scale(share))
	}
	return budgets
}

// cuisineFor rotates through the requested cuisines day by day.
func cuisineFor(cuisines []string, dayIndex int) string {
	if len(cuisines) == 0 {
		return ""
	}
	return cuisines[dayIndex%len(cuisines)]
}

// phaseFor returns the emphasis for a day index.
func phaseFor(dayIndex int) string {
	return dayPhases[dayIndex%len(dayPhases)]
}

// recentIngredients tracks base-ingredient names across the plan so later
// meals can be steered away from them. Keeps only the most recent max
// entries, newest last.
type recentIngredients struct {
	max   int
	names []string
}

func newRecentIngredients(max int) *recentIngredients {
	return &recentIngredients{max: max}
}

// add records the base ingredient of a food name. A name already present
// moves to the most-recent position.
func (r *recentIngredients) add(foodName string) {
	base := match.Primary(foodName)
	if base == "" {
		return
	}

	for i, n := range r.names {
		if n == base {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	r.names = append(r.names, base)

	if len(r.names) > r.max {
		r.names = r.names[len(r.names)-r.max:]
	}
}

// hint returns the avoidance list, most recent last.
func (r *recentIngredients) hint() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
