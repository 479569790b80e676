package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nutriplan"
)

func food(cal, prot, carbs, fat, confidence float64) nutriplan.VerifiedFood {
	return nutriplan.VerifiedFood{
		Verified:   nutriplan.Nutrition{Calories: cal, Protein: prot, Carbs: carbs, Fat: fat},
		Confidence: confidence,
	}
}

func TestMealTotal(t *testing.T) {
	foods := []nutriplan.VerifiedFood{
		food(165, 31, 0, 3.6, 0.9),
		food(216, 5, 45, 1.8, 0.8),
		food(55, 3.7, 11, 0.6, 0.7),
	}

	total := MealTotal(foods)
	assert.InDelta(t, 436, total.Calories, 1e-6)
	assert.InDelta(t, 39.7, total.Protein, 1e-6)
	assert.InDelta(t, 56, total.Carbs, 1e-6)
	assert.InDelta(t, 6, total.Fat, 1e-6)
}

func TestMealTotalAdditive(t *testing.T) {
	foods := []nutriplan.VerifiedFood{
		food(100, 10, 20, 5, 0.5),
		food(200, 15, 30, 10, 0.6),
		food(300, 20, 40, 15, 0.7),
		food(50, 2, 5, 1, 0.8),
	}

	whole := MealTotal(foods)
	split := MealTotal(foods[:2]).Add(MealTotal(foods[2:]))

	assert.InDelta(t, whole.Calories, split.Calories, 1e-6)
	assert.InDelta(t, whole.Protein, split.Protein, 1e-6)
	assert.InDelta(t, whole.Carbs, split.Carbs, 1e-6)
	assert.InDelta(t, whole.Fat, split.Fat, 1e-6)
}

func TestAccuracyMeans(t *testing.T) {
	foods := []nutriplan.VerifiedFood{food(0, 0, 0, 0, 0.9), food(0, 0, 0, 0, 0.5)}
	assert.InDelta(t, 0.7, MealAccuracy(foods), 1e-9)

	meals := []nutriplan.VerifiedMealPlanSuggestion{{Accuracy: 0.8}, {Accuracy: 0.4}}
	assert.InDelta(t, 0.6, DailyAccuracy(meals), 1e-9)

	days := []nutriplan.DailyMealPlan{
		{Summary: nutriplan.NutritionSummary{AverageAccuracy: 0.9}},
		{Summary: nutriplan.NutritionSummary{AverageAccuracy: 0.3}},
	}
	assert.InDelta(t, 0.6, PlanAccuracy(days), 1e-9)
}

func TestEmptyCollectionsAggregateToZero(t *testing.T) {
	assert.Equal(t, nutriplan.Nutrition{}, MealTotal(nil))
	assert.Equal(t, 0.0, MealAccuracy(nil))
	assert.Equal(t, 0.0, DailyAccuracy(nil))
	assert.Equal(t, nutriplan.Nutrition{}, PlanDailyAverage(nil))
	assert.Equal(t, 0.0, PlanAccuracy(nil))
}

func TestPlanDailyAverage(t *testing.T) {
	days := []nutriplan.DailyMealPlan{
		{Summary: nutriplan.NutritionSummary{Total: nutriplan.Nutrition{Calories: 1800}}},
		{Summary: nutriplan.NutritionSummary{Total: nutriplan.Nutrition{Calories: 2200}}},
	}
	assert.InDelta(t, 2000, PlanDailyAverage(days).Calories, 1e-6)
	assert.InDelta(t, 4000, PlanTotal(days).Calories, 1e-6)
}

func TestMacros(t *testing.T) {
	tests := []struct {
		name      string
		verified  nutriplan.Nutrition
		estimated nutriplan.Nutrition
		accurate  bool
	}{
		{
			name:      "within 20 percent on every macro",
			verified:  nutriplan.Nutrition{Calories: 450, Protein: 28, Carbs: 52, Fat: 11},
			estimated: nutriplan.Nutrition{Calories: 500, Protein: 30, Carbs: 50, Fat: 12},
			accurate:  true,
		},
		{
			name:      "one macro beyond threshold",
			verified:  nutriplan.Nutrition{Calories: 500, Protein: 10, Carbs: 50, Fat: 12},
			estimated: nutriplan.Nutrition{Calories: 500, Protein: 30, Carbs: 50, Fat: 12},
			accurate:  false,
		},
		{
			name:      "identical values",
			verified:  nutriplan.Nutrition{Calories: 500, Protein: 30, Carbs: 50, Fat: 12},
			estimated: nutriplan.Nutrition{Calories: 500, Protein: 30, Carbs: 50, Fat: 12},
			accurate:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := Macros(tt.verified, tt.estimated, 0.20)
			assert.Equal(t, tt.accurate, acc.Accurate)
			for _, v := range []float64{acc.Calories, acc.Protein, acc.Carbs, acc.Fat} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		})
	}

	t.Run("zero estimate with zero verified is perfect", func(t *testing.T) {
		acc := Macros(nutriplan.Nutrition{}, nutriplan.Nutrition{}, 0.20)
		assert.True(t, acc.Accurate)
		assert.Equal(t, 1.0, acc.Calories)
	})
}
