// Package nutrition rolls verified per-food values up into per-meal,
// per-day, and per-plan totals, and computes accuracy scores. All
// functions are pure reductions; empty collections aggregate to zero
// rather than faulting.
package nutrition

import (
	"math"

	"nutriplan"
)

// MealTotal sums the verified nutrition of a meal's foods.
func MealTotal(foods []nutriplan.VerifiedFood) nutriplan.Nutrition {
	var total nutriplan.Nutrition
	for _, f := range foods {
		total = total.Add(f.Verified)
	}
	return total
}

// MealAccuracy is the mean match confidence across a meal's foods, 0 for
// an empty meal.
func MealAccuracy(foods []nutriplan.VerifiedFood) float64 {
	if len(foods) == 0 {
		return 0
	}
	var sum float64
	for _, f := range foods {
		sum += f.Confidence
	}
	return sum / float64(len(foods))
}

// DailyTotal sums a day's meal totals.
func DailyTotal(meals []nutriplan.VerifiedMealPlanSuggestion) nutriplan.Nutrition {
	var total nutriplan.Nutrition
	for _, m := range meals {
		total = total.Add(m.Total)
	}
	return total
}

// DailyAccuracy is the mean of a day's meal accuracies, 0 for an empty day.
func DailyAccuracy(meals []nutriplan.VerifiedMealPlanSuggestion) float64 {
	if len(meals) == 0 {
		return 0
	}
	var sum float64
	for _, m := range meals {
		sum += m.Accuracy
	}
	return sum / float64(len(meals))
}

// DailySummary rolls one day up.
func DailySummary(meals []nutriplan.VerifiedMealPlanSuggestion) nutriplan.NutritionSummary {
	return nutriplan.NutritionSummary{
		Total:           DailyTotal(meals),
		AverageAccuracy: DailyAccuracy(meals),
	}
}

// PlanTotal sums all daily totals.
func PlanTotal(days []nutriplan.DailyMealPlan) nutriplan.Nutrition {
	var total nutriplan.Nutrition
	for _, d := range days {
		total = total.Add(d.Summary.Total)
	}
	return total
}

// PlanDailyAverage is the mean daily nutrition, zero for an empty plan.
func PlanDailyAverage(days []nutriplan.DailyMealPlan) nutriplan.Nutrition {
	if len(days) == 0 {
		return nutriplan.Nutrition{}
	}
	return PlanTotal(days).Scale(1 / float64(len(days)))
}

// PlanAccuracy is the mean of daily accuracies, 0 for an empty plan.
func PlanAccuracy(days []nutriplan.DailyMealPlan) float64 {
	if len(days) == 0 {
		return 0
	}
	var sum float64
	for _, d := range days {
		sum += d.Summary.AverageAccuracy
	}
	return sum / float64(len(days))
}

// PlanSummary rolls a whole plan up.
func PlanSummary(days []nutriplan.DailyMealPlan) nutriplan.NutritionSummary {
	return nutriplan.NutritionSummary{
		Total:           PlanTotal(days),
		AverageAccuracy: PlanAccuracy(days),
	}
}

// Macros compares verified against estimated nutrition per macro. Each
// ratio is 1 minus the relative deviation, clamped to [0,1]. Accurate is
// set when every macro deviates by no more than threshold.
func Macros(verified, estimated nutriplan.Nutrition, threshold float64) nutriplan.MacroAccuracy {
	acc := nutriplan.MacroAccuracy{
		Calories: macroRatio(verified.Calories, estimated.Calories),
		Protein:  macroRatio(verified.Protein, estimated.Protein),
		Carbs:    macroRatio(verified.Carbs, estimated.Carbs),
		Fat:      macroRatio(verified.Fat, estimated.Fat),
	}
	floor := 1 - threshold
	acc.Accurate = acc.Calories >= floor && acc.Protein >= floor && acc.Carbs >= floor && acc.Fat >= floor
	return acc
}

func macroRatio(verified, estimated float64) float64 {
	if estimated == 0 {
		if verified == 0 {
			return 1
		}
		return 0
	}
	dev := math.Abs(verified-estimated) / estimated
	if dev > 1 {
		dev = 1
	}
	return 1 - dev
}
