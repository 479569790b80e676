// Package document converts a finished plan into an ordered sequence of
// semantic content sections for an external renderer. It emits structured
// text plus layout hints only; how sections are drawn is not its concern.
package document

import (
	"fmt"
	"sort"
	"strings"

	"nutriplan"
)

type SectionType string

const (
	SectionCover             SectionType = "cover"
	SectionSummary           SectionType = "summary"
	SectionDailyPlans        SectionType = "dailyPlans"
	SectionRecipes           SectionType = "recipes"
	SectionShoppingList      SectionType = "shoppingList"
	SectionNutritionAnalysis SectionType = "nutritionAnalysis"
)

// ContentSection is one renderable unit: a type tag, ordered text lines,
// and a page-break hint.
type ContentSection struct {
	Type      SectionType `json:"type"`
	Title     string      `json:"title"`
	Lines     []string    `json:"lines"`
	PageBreak bool        `json:"page_break"`
}

type Options struct {
	IncludeRecipes           bool
	IncludeShoppingList      bool
	IncludeNutritionAnalysis bool
}

func DefaultOptions() Options {
	return Options{
		IncludeRecipes:           true,
		IncludeShoppingList:      true,
		IncludeNutritionAnalysis: true,
	}
}

// Assemble is a deterministic pure transform from plan to sections.
func Assemble(plan *nutriplan.MultiDayMealPlan, patientLabel string, opts Options) []ContentSection {
	sections := []ContentSection{
		coverSection(plan, patientLabel),
		summarySection(plan),
		dailyPlansSection(plan),
	}

	if opts.IncludeRecipes {
		sections = append(sections, recipesSection(plan))
	}
	if opts.IncludeShoppingList {
		sections = append(sections, shoppingListSection(plan))
	}
	if opts.IncludeNutritionAnalysis {
		sections = append(sections, nutritionAnalysisSection(plan))
	}
	return sections
}

func coverSection(plan *nutriplan.MultiDayMealPlan, patientLabel string) ContentSection {
	lines := []string{
		fmt.Sprintf("%d-Day Meal Plan", plan.NumberOfDays),
	}
	if patientLabel != "" {
		lines = append(lines, fmt.Sprintf("Prepared for %s", patientLabel))
	}
	end := plan.StartDate.AddDate(0, 0, plan.NumberOfDays-1)
	lines = append(lines,
		fmt.Sprintf("%s to %s", plan.StartDate.Format("January 2, 2006"), end.Format("January 2, 2006")),
		fmt.Sprintf("Generated %s", plan.GeneratedAt.Format("January 2, 2006")),
	)
	return ContentSection{Type: SectionCover, Title: "Meal Plan", Lines: lines, PageBreak: true}
}

func summarySection(plan *nutriplan.MultiDayMealPlan) ContentSection {
	meals := 0
	for _, d := range plan.Days {
		meals += len(d.Meals)
	}
	lines := []string{
		fmt.Sprintf("Days: %d", plan.NumberOfDays),
		fmt.Sprintf("Meals: %d", meals),
		fmt.Sprintf("Average daily intake: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat",
			plan.DailyAverage.Calories, plan.DailyAverage.Protein, plan.DailyAverage.Carbs, plan.DailyAverage.Fat),
		fmt.Sprintf("Nutrition verification accuracy: %.0f%%", plan.Summary.AverageAccuracy*100),
	}
	return ContentSection{Type: SectionSummary, Title: "Summary", Lines: lines, PageBreak: false}
}

func dailyPlansSection(plan *nutriplan.MultiDayMealPlan) ContentSection {
	var lines []string
	for i, day := range plan.Days {
		lines = append(lines, fmt.Sprintf("Day %d — %s", i+1, day.Date.Format("Monday, January 2")))
		for _, meal := range day.Meals {
			lines = append(lines, fmt.Sprintf("  %s: %s (%.0f kcal)",
				titleCase(string(meal.Suggestion.Slot)), meal.Suggestion.MealName, meal.Total.Calories))
			for _, f := range meal.Foods {
				marker := "~"
				if f.IsVerified {
					marker = "✓"
				}
				lines = append(lines, fmt.Sprintf("    %s %s, %s (%.0fg)", marker, f.Suggested.Name, f.Suggested.Portion, f.Suggested.GramWeight))
			}
		}
		for _, note := range day.Notes {
			lines = append(lines, fmt.Sprintf("  Note: %s", note))
		}
	}
	return ContentSection{Type: SectionDailyPlans, Title: "Daily Plans", Lines: lines, PageBreak: true}
}

// recipesSection deduplicates by meal name, first occurrence wins, so a
// meal repeated across days is printed once.
func recipesSection(plan *nutriplan.MultiDayMealPlan) ContentSection {
	var lines []string
	seen := make(map[string]bool)
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			name := meal.Suggestion.MealName
			if seen[name] {
				continue
			}
			seen[name] = true

			lines = append(lines, name)
			for _, f := range meal.Foods {
				lines = append(lines, fmt.Sprintf("  - %s, %s (%.0fg)", f.Suggested.Name, f.Suggested.Portion, f.Suggested.GramWeight))
			}
			if meal.Suggestion.PreparationNotes != "" {
				lines = append(lines, fmt.Sprintf("  Preparation: %s", meal.Suggestion.PreparationNotes))
			}
		}
	}
	return ContentSection{Type: SectionRecipes, Title: "Recipes", Lines: lines, PageBreak: true}
}

// shoppingListSection aggregates gram weights per distinct ingredient name
// across the entire plan, sorted alphabetically.
func shoppingListSection(plan *nutriplan.MultiDayMealPlan) ContentSection {
	grams := make(map[string]float64)
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			for _, f := range meal.Foods {
				grams[strings.ToLower(f.Suggested.Name)] += f.Suggested.GramWeight
			}
		}
	}

	names := make([]string, 0, len(grams))
	for n := range grams {
		names = append(names, n)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("%s — %.0fg", n, grams[n]))
	}
	return ContentSection{Type: SectionShoppingList, Title: "Shopping List", Lines: lines, PageBreak: true}
}

func nutritionAnalysisSection(plan *nutriplan.MultiDayMealPlan) ContentSection {
	var lines []string
	for i, day := range plan.Days {
		s := day.Summary
		lines = append(lines, fmt.Sprintf("Day %d: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat (accuracy %.0f%%)",
			i+1, s.Total.Calories, s.Total.Protein, s.Total.Carbs, s.Total.Fat, s.AverageAccuracy*100))
	}
	lines = append(lines, fmt.Sprintf("Plan total: %.0f kcal over %d days", plan.Summary.Total.Calories, plan.NumberOfDays))
	lines = append(lines, fmt.Sprintf("Overall verification accuracy: %.0f%%", plan.Summary.AverageAccuracy*100))
	return ContentSection{Type: SectionNutritionAnalysis, Title: "Nutrition Analysis", Lines: lines, PageBreak: true}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
