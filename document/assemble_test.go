package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan"
)

func meal(name string, slot nutriplan.MealSlot, foods ...nutriplan.VerifiedFood) nutriplan.VerifiedMealPlanSuggestion {
	var total nutriplan.Nutrition
	for _, f := range foods {
		total = total.Add(f.Verified)
	}
	return nutriplan.VerifiedMealPlanSuggestion{
		Suggestion: nutriplan.MealPlanSuggestion{
			MealName:         name,
			Slot:             slot,
			PreparationNotes: "Season and grill.",
			Foods:            suggested(foods),
		},
		Foods: foods,
		Total: total,
	}
}

func suggested(foods []nutriplan.VerifiedFood) []nutriplan.SuggestedFood {
	out := make([]nutriplan.SuggestedFood, 0, len(foods))
	for _, f := range foods {
		out = append(out, f.Suggested)
	}
	return out
}

func vfood(name string, grams float64) nutriplan.VerifiedFood {
	return nutriplan.VerifiedFood{
		Suggested:  nutriplan.SuggestedFood{Name: name, Portion: "1 serving", GramWeight: grams},
		Verified:   nutriplan.Nutrition{Calories: grams * 1.5},
		IsVerified: true,
	}
}

func testPlan() *nutriplan.MultiDayMealPlan {
	grilled := meal("Pollo a la Parrilla", nutriplan.SlotDinner, vfood("chicken breast", 150), vfood("white rice", 100))
	oats := meal("Avena con Fresas", nutriplan.SlotBreakfast, vfood("oatmeal", 80))

	return &nutriplan.MultiDayMealPlan{
		ID:           "test-plan",
		StartDate:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		NumberOfDays: 2,
		Days: []nutriplan.DailyMealPlan{
			{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Meals: []nutriplan.VerifiedMealPlanSuggestion{oats, grilled}},
			{Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), Meals: []nutriplan.VerifiedMealPlanSuggestion{oats, grilled}},
		},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sectionOf(t *testing.T, sections []ContentSection, typ SectionType) ContentSection {
	t.Helper()
	for _, s := range sections {
		if s.Type == typ {
			return s
		}
	}
	t.Fatalf("section %s not found", typ)
	return ContentSection{}
}

func TestAssembleSectionOrder(t *testing.T) {
	sections := Assemble(testPlan(), "A. Reyes", DefaultOptions())

	types := make([]SectionType, 0, len(sections))
	for _, s := range sections {
		types = append(types, s.Type)
	}
	assert.Equal(t, []SectionType{
		SectionCover, SectionSummary, SectionDailyPlans,
		SectionRecipes, SectionShoppingList, SectionNutritionAnalysis,
	}, types)

	cover := sectionOf(t, sections, SectionCover)
	assert.True(t, cover.PageBreak)
	assert.Contains(t, cover.Lines, "Prepared for A. Reyes")
	assert.Contains(t, cover.Lines, "March 2, 2026 to March 3, 2026")
}

func TestAssembleOptionalSections(t *testing.T) {
	sections := Assemble(testPlan(), "", Options{IncludeRecipes: true})

	types := make([]SectionType, 0, len(sections))
	for _, s := range sections {
		types = append(types, s.Type)
	}
	assert.Equal(t, []SectionType{SectionCover, SectionSummary, SectionDailyPlans, SectionRecipes}, types)
}

func TestRecipesDeduplicatedByMealName(t *testing.T) {
	sections := Assemble(testPlan(), "", DefaultOptions())
	recipes := sectionOf(t, sections, SectionRecipes)

	count := 0
	for _, line := range recipes.Lines {
		if line == "Pollo a la Parrilla" {
			count++
		}
	}
	assert.Equal(t, 1, count, "a meal repeated across days appears once")
}

func TestShoppingListAggregatesAndSorts(t *testing.T) {
	sections := Assemble(testPlan(), "", DefaultOptions())
	list := sectionOf(t, sections, SectionShoppingList)

	// two days of each food, aggregated by name, alphabetical
	require.Equal(t, []string{
		"chicken breast — 300g",
		"oatmeal — 160g",
		"white rice — 200g",
	}, list.Lines)
}

func TestAssembleDeterministic(t *testing.T) {
	plan := testPlan()
	first := Assemble(plan, "label", DefaultOptions())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Assemble(plan, "label", DefaultOptions()))
	}
}
