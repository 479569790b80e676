// Package mock is the demo-mode meal provider: deterministic, offline,
// and honest about its limits. It serves meals from a small built-in
// table, honors cuisine preference and the avoid-repeat hint, and scales
// portions toward the slot's calorie target, which is enough to exercise
// the whole verification pipeline without a model endpoint.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nutriplan"
	"nutriplan/match"
)

type option struct {
	name    string
	cuisine string
	foods   []nutriplan.SuggestedFood
	prep    string
}

var menu = map[nutriplan.MealSlot][]option{
	nutriplan.SlotBreakfast: {
		{
			name:    "Avena con Fresas",
			cuisine: "mexican",
			prep:    "Simmer the oats in milk, top with sliced strawberries and almonds.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Oatmeal, cooked", Portion: "1 cup", GramWeight: 234, Estimated: nutriplan.Nutrition{Calories: 166, Protein: 6, Carbs: 28, Fat: 3.6}},
				{Name: "Strawberries", Portion: "1 cup", GramWeight: 150, Estimated: nutriplan.Nutrition{Calories: 48, Protein: 1, Carbs: 11.5, Fat: 0.5}},
				{Name: "Almonds", Portion: "1 oz", GramWeight: 28, Estimated: nutriplan.Nutrition{Calories: 164, Protein: 6, Carbs: 6, Fat: 14}},
			},
		},
		{
			name:    "Greek Yogurt Bowl",
			cuisine: "mediterranean",
			prep:    "Layer the yogurt with banana and a drizzle of honey.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Greek yogurt, plain", Portion: "1 cup", GramWeight: 245, Estimated: nutriplan.Nutrition{Calories: 146, Protein: 20, Carbs: 9, Fat: 4}},
				{Name: "Banana", Portion: "1 medium", GramWeight: 118, Estimated: nutriplan.Nutrition{Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4}},
			},
		},
		{
			name:    "Huevos Revueltos",
			cuisine: "mexican",
			prep:    "Scramble the eggs, serve on a warm corn tortilla with avocado.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Eggs, scrambled", Portion: "2 large", GramWeight: 100, Estimated: nutriplan.Nutrition{Calories: 149, Protein: 13, Carbs: 1.6, Fat: 10}},
				{Name: "Corn tortilla", Portion: "1 tortilla", GramWeight: 30, Estimated: nutriplan.Nutrition{Calories: 65, Protein: 1.7, Carbs: 13.4, Fat: 0.9}},
				{Name: "Avocado", Portion: "1/2 fruit", GramWeight: 68, Estimated: nutriplan.Nutrition{Calories: 109, Protein: 1.4, Carbs: 5.8, Fat: 10}},
			},
		},
	},
	nutriplan.SlotLunch: {
		{
			name:    "Grilled Chicken Salad",
			cuisine: "mediterranean",
			prep:    "Grill the chicken, toss with greens, tomato, and olive oil.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Chicken breast, grilled", Portion: "1 breast", GramWeight: 150, Estimated: nutriplan.Nutrition{Calories: 248, Protein: 46, Carbs: 0, Fat: 5.4}},
				{Name: "Spinach, raw", Portion: "2 cups", GramWeight: 60, Estimated: nutriplan.Nutrition{Calories: 14, Protein: 1.7, Carbs: 2.2, Fat: 0.2}},
				{Name: "Olive oil", Portion: "1 tbsp", GramWeight: 14, Estimated: nutriplan.Nutrition{Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5}},
			},
		},
		{
			name:    "Arroz con Pollo",
			cuisine: "mexican",
			prep:    "Simmer the chicken with rice, tomato, and onion until tender.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Chicken thigh, stewed", Portion: "1 thigh", GramWeight: 110, Estimated: nutriplan.Nutrition{Calories: 229, Protein: 25, Carbs: 0, Fat: 14}},
				{Name: "White rice, cooked", Portion: "1 cup", GramWeight: 158, Estimated: nutriplan.Nutrition{Calories: 205, Protein: 4.3, Carbs: 44.5, Fat: 0.4}},
				{Name: "Tomato", Portion: "1 medium", GramWeight: 123, Estimated: nutriplan.Nutrition{Calories: 22, Protein: 1.1, Carbs: 4.8, Fat: 0.2}},
			},
		},
		{
			name:    "Lentil Soup",
			cuisine: "mediterranean",
			prep:    "Simmer lentils with carrot, onion, and cumin; finish with olive oil.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Lentils, cooked", Portion: "1 cup", GramWeight: 198, Estimated: nutriplan.Nutrition{Calories: 230, Protein: 18, Carbs: 40, Fat: 0.8}},
				{Name: "Carrots, cooked", Portion: "1/2 cup", GramWeight: 78, Estimated: nutriplan.Nutrition{Calories: 27, Protein: 0.6, Carbs: 6.4, Fat: 0.1}},
				{Name: "Olive oil", Portion: "1 tsp", GramWeight: 5, Estimated: nutriplan.Nutrition{Calories: 40, Protein: 0, Carbs: 0, Fat: 4.5}},
			},
		},
	},
	nutriplan.SlotDinner: {
		{
			name:    "Pollo a la Parrilla",
			cuisine: "mexican",
			prep:    "Grill the marinated chicken, serve with roasted sweet potato and broccoli.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Chicken breast, grilled", Portion: "1 breast", GramWeight: 150, Estimated: nutriplan.Nutrition{Calories: 248, Protein: 46, Carbs: 0, Fat: 5.4}},
				{Name: "Sweet potato, roasted", Portion: "1 medium", GramWeight: 130, Estimated: nutriplan.Nutrition{Calories: 117, Protein: 2.6, Carbs: 27, Fat: 0.1}},
				{Name: "Broccoli, steamed", Portion: "1 cup", GramWeight: 156, Estimated: nutriplan.Nutrition{Calories: 55, Protein: 3.7, Carbs: 11.2, Fat: 0.6}},
			},
		},
		{
			name:    "Baked Salmon with Quinoa",
			cuisine: "mediterranean",
			prep:    "Bake the salmon with lemon, serve over quinoa with steamed asparagus.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Salmon, baked", Portion: "1 fillet", GramWeight: 154, Estimated: nutriplan.Nutrition{Calories: 280, Protein: 39, Carbs: 0, Fat: 12.5}},
				{Name: "Quinoa, cooked", Portion: "1 cup", GramWeight: 185, Estimated: nutriplan.Nutrition{Calories: 222, Protein: 8.1, Carbs: 39.4, Fat: 3.6}},
				{Name: "Asparagus, steamed", Portion: "1 cup", GramWeight: 180, Estimated: nutriplan.Nutrition{Calories: 40, Protein: 4.3, Carbs: 7.4, Fat: 0.4}},
			},
		},
		{
			name:    "Tacos de Pescado",
			cuisine: "mexican",
			prep:    "Sear the fish, serve in corn tortillas with cabbage and lime.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Tilapia, cooked", Portion: "1 fillet", GramWeight: 87, Estimated: nutriplan.Nutrition{Calories: 111, Protein: 22.8, Carbs: 0, Fat: 2.3}},
				{Name: "Corn tortilla", Portion: "2 tortillas", GramWeight: 60, Estimated: nutriplan.Nutrition{Calories: 130, Protein: 3.4, Carbs: 26.8, Fat: 1.8}},
				{Name: "Cabbage, shredded", Portion: "1 cup", GramWeight: 70, Estimated: nutriplan.Nutrition{Calories: 18, Protein: 0.9, Carbs: 4.1, Fat: 0.1}},
			},
		},
	},
	nutriplan.SlotSnack: {
		{
			name:    "Apple with Walnuts",
			cuisine: "",
			prep:    "Slice the apple, serve with a small handful of walnuts.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Apple", Portion: "1 medium", GramWeight: 182, Estimated: nutriplan.Nutrition{Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3}},
				{Name: "Walnuts", Portion: "1/2 oz", GramWeight: 14, Estimated: nutriplan.Nutrition{Calories: 92, Protein: 2.1, Carbs: 1.9, Fat: 9.2}},
			},
		},
		{
			name:    "Hummus with Carrots",
			cuisine: "mediterranean",
			prep:    "Serve the hummus with carrot sticks.",
			foods: []nutriplan.SuggestedFood{
				{Name: "Hummus", Portion: "1/4 cup", GramWeight: 60, Estimated: nutriplan.Nutrition{Calories: 100, Protein: 4.7, Carbs: 8.6, Fat: 5.8}},
				{Name: "Carrots, raw", Portion: "1 cup", GramWeight: 128, Estimated: nutriplan.Nutrition{Calories: 52, Protein: 1.2, Carbs: 12.3, Fat: 0.3}},
			},
		},
	},
}

// Provider is the deterministic demo MealProvider.
type Provider struct{}

func NewProvider() *Provider { return &Provider{} }

// GenerateMeal picks the first menu option for the slot that matches the
// cuisine preference and is not built on a recently used ingredient, then
// scales portions toward the calorie target. Same request, same meal.
func (p *Provider) GenerateMeal(ctx context.Context, req nutriplan.MealPlanRequest) (*nutriplan.MealPlanSuggestion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	options, ok := menu[req.Slot]
	if !ok || len(options) == 0 {
		return nil, fmt.Errorf("no demo meals for slot %q", req.Slot)
	}

	chosen := pick(options, req)
	factor := scaleFactor(chosen, req.Targets.Calories)

	foods := make([]nutriplan.SuggestedFood, 0, len(chosen.foods))
	for _, f := range chosen.foods {
		foods = append(foods, nutriplan.SuggestedFood{
			Name:       f.Name,
			Portion:    f.Portion,
			GramWeight: f.GramWeight * factor,
			Estimated:  f.Estimated.Scale(factor),
		})
	}

	slog.Info("MOCK_PROVIDER: Serving demo meal", "slot", req.Slot, "meal", chosen.name, "scale", factor)

	return &nutriplan.MealPlanSuggestion{
		MealName:         chosen.name,
		Slot:             req.Slot,
		Foods:            foods,
		PreparationNotes: chosen.prep,
		NutritionistNote: fmt.Sprintf("Portioned for a %.0f kcal %s with emphasis on %s.", req.Targets.Calories, req.Slot, req.Variety.Emphasis),
	}, nil
}

func pick(options []option, req nutriplan.MealPlanRequest) option {
	avoided := make(map[string]bool, len(req.Variety.AvoidIngredients))
	for _, a := range req.Variety.AvoidIngredients {
		avoided[strings.ToLower(a)] = true
	}

	fresh := func(o option) bool {
		return !avoided[match.Primary(o.foods[0].Name)]
	}

	// cuisine match and not recently used, then just not recently used,
	// then cuisine match, then first
	for _, o := range options {
		if o.cuisine == strings.ToLower(req.Variety.Cuisine) && fresh(o) {
			return o
		}
	}
	for _, o := range options {
		if fresh(o) {
			return o
		}
	}
	for _, o := range options {
		if o.cuisine == strings.ToLower(req.Variety.Cuisine) {
			return o
		}
	}
	return options[0]
}

// scaleFactor nudges portions toward the calorie target without producing
// absurd servings.
func scaleFactor(o option, targetCalories float64) float64 {
	if targetCalories <= 0 {
		return 1
	}
	var base float64
	for _, f := range o.foods {
		base += f.Estimated.Calories
	}
	if base <= 0 {
		return 1
	}
	factor := targetCalories / base
	if factor < 0.5 {
		return 0.5
	}
	if factor > 2 {
		return 2
	}
	return factor
}
