package nutriplan

import (
	"context"
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MealProvider generates a single meal suggestion. Implemented by the
// bedrock (live) and mock (demo) providers.
type MealProvider interface {
	GenerateMeal(ctx context.Context, req MealPlanRequest) (*MealPlanSuggestion, error)
}

// FoodSearcher looks up reference foods for a normalized search term.
// The core re-ranks results with its own similarity scoring, so provider
// ordering carries no meaning here.
type FoodSearcher interface {
	Search(ctx context.Context, term string) ([]ReferenceFood, error)
}

// PlanArchive persists a finished plan.
type PlanArchive interface {
	Save(ctx context.Context, plan *MultiDayMealPlan) error
}

type Notifier interface {
	PostMessage(ctx context.Context, channel string, message string) error
}

// Nutrition holds macro values in kcal/grams. Used for per-food estimates,
// verified values, targets, and rolled-up summaries alike.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

func (n Nutrition) Scale(f float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * f,
		Protein:  n.Protein * f,
		Carbs:    n.Carbs * f,
		Fat:      n.Fat * f,
	}
}

func (n Nutrition) IsZero() bool {
	return n.Calories == 0 && n.Protein == 0 && n.Carbs == 0 && n.Fat == 0
}

// SuggestedFood is one food proposed by the model, with the model's own
// nutrition estimate. Immutable once parsed from the provider response.
type SuggestedFood struct {
	Name       string    `json:"name"`
	Portion    string    `json:"portion"`
	GramWeight float64   `json:"gram_weight"`
	Estimated  Nutrition `json:"estimated"`
}

// ReferenceFood is an authoritative nutrition-database record. Values are
// per 100 g. ServingSize is 0 when the record does not state one.
type ReferenceFood struct {
	FDCID       int64     `json:"fdc_id"`
	Description string    `json:"description"`
	BrandName   string    `json:"brand_name,omitempty"`
	DataType    string    `json:"data_type,omitempty"`
	ServingSize float64   `json:"serving_size,omitempty"`
	Per100g     Nutrition `json:"per_100g"`
}

// VerifiedFood pairs a suggestion with its verification outcome.
// IsVerified is true only when a reference record was matched at or above
// the auto-accept threshold, or a human confirmed a candidate.
type VerifiedFood struct {
	Suggested  SuggestedFood  `json:"suggested"`
	Matched    *ReferenceFood `json:"matched,omitempty"`
	Verified   Nutrition      `json:"verified"`
	Confidence float64        `json:"confidence"`
	IsVerified bool           `json:"is_verified"`
	Notes      string         `json:"notes,omitempty"`
}

// MealSlot names a meal of the day. The four canonical slots carry fixed
// calorie shares; unknown slot names split the remaining share evenly.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// VarietyGuidance carries the per-day hints the orchestrator composes to
// keep multi-day plans from repeating themselves.
type VarietyGuidance struct {
	Cuisine          string   `json:"cuisine,omitempty"`
	AvoidIngredients []string `json:"avoid_ingredients,omitempty"`
	Emphasis         string   `json:"emphasis,omitempty"`
}

// MealPlanRequest is the value object handed to the meal provider for one
// slot of one day.
type MealPlanRequest struct {
	Targets      Nutrition       `json:"targets"`
	Slot         MealSlot        `json:"slot"`
	Restrictions []string        `json:"restrictions,omitempty"`
	Conditions   []string        `json:"conditions,omitempty"`
	PatientRef   string          `json:"patient_ref,omitempty"`
	Variety      VarietyGuidance `json:"variety,omitempty"`
	Language     string          `json:"language,omitempty"`
}

// MealPlanSuggestion is the provider's answer for one slot.
type MealPlanSuggestion struct {
	MealName         string          `json:"meal_name"`
	Slot             MealSlot        `json:"slot"`
	Foods            []SuggestedFood `json:"foods"`
	PreparationNotes string          `json:"preparation_notes,omitempty"`
	NutritionistNote string          `json:"nutritionist_note,omitempty"`
}

// MacroAccuracy is the post-hoc comparison between verified and estimated
// nutrition, per macro, in [0,1]. Accurate applies the deviation threshold
// from the tuning config; it is deliberately independent of the match
// confidence band.
type MacroAccuracy struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Accurate bool    `json:"accurate"`
}

// VerifiedMealPlanSuggestion is one meal after verification: the original
// suggestion, its verified foods, and the rolled-up nutrition/accuracy.
type VerifiedMealPlanSuggestion struct {
	Suggestion MealPlanSuggestion `json:"suggestion"`
	Foods      []VerifiedFood     `json:"foods"`
	Total      Nutrition          `json:"total"`
	Accuracy   float64            `json:"accuracy"`
	Macros     MacroAccuracy      `json:"macros"`
	Notes      string             `json:"notes,omitempty"`
}

// NutritionSummary is a rolled-up total plus the mean confidence of what
// went into it.
type NutritionSummary struct {
	Total           Nutrition `json:"total"`
	AverageAccuracy float64   `json:"average_accuracy"`
}

type DailyMealPlan struct {
	Date    time.Time                    `json:"date"`
	Meals   []VerifiedMealPlanSuggestion `json:"meals"`
	Summary NutritionSummary             `json:"summary"`
	Notes   []string                     `json:"notes,omitempty"`
}

// MultiDayMealPlan is the root aggregate. Immutable once assembled; the
// caller owns it after Generate returns.
type MultiDayMealPlan struct {
	ID           string           `json:"id"`
	PatientRef   string           `json:"patient_ref,omitempty"`
	StartDate    time.Time        `json:"start_date"`
	NumberOfDays int              `json:"number_of_days"`
	Days         []DailyMealPlan  `json:"days"`
	Summary      NutritionSummary `json:"summary"`
	DailyAverage Nutrition        `json:"daily_average"`
	Language     string           `json:"language,omitempty"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// MultiDayPlanRequest describes a whole plan-generation run.
type MultiDayPlanRequest struct {
	PatientRef   string     `json:"patient_ref,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	NumberOfDays int        `json:"number_of_days"`
	DailyTargets Nutrition  `json:"daily_targets"`
	Slots        []MealSlot `json:"slots"`
	Cuisines     []string   `json:"cuisines,omitempty"`
	Restrictions []string   `json:"restrictions,omitempty"`
	Conditions   []string   `json:"conditions,omitempty"`
	Language     string     `json:"language,omitempty"`
}

// Validate rejects a request before any network call is made.
func (r MultiDayPlanRequest) Validate() error {
	if r.NumberOfDays <= 0 {
		return ErrInvalidRequest
	}
	if r.DailyTargets.Calories <= 0 {
		return ErrInvalidRequest
	}
	if len(r.Slots) == 0 {
		return ErrInvalidRequest
	}
	return nil
}
