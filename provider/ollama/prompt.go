package ollama

import (
	"fmt"
	"strings"

	"nutriplan"
)

const systemPrompt = `You are a clinical dietitian composing a single meal for a medically supervised meal plan.

RULES:
- Meet the calorie and macro targets as closely as practical.
- Respect every dietary restriction and medical condition without exception.
- Use common whole foods with realistic gram weights; name each food plainly (e.g. "Chicken breast, grilled") so it can be checked against a nutrition database.
- Do not reuse any ingredient listed as recently used.
- Estimate calories, protein, carbs, and fat for every food as served.
- Respond with a single JSON object, no prose: {"meal_name": string, "foods": [{"name": string, "portion": string, "gram_weight": number, "calories": number, "protein": number, "carbs": number, "fat": number}], "preparation_notes": string, "nutritionist_note": string}`

// userPrompt composes the per-slot task from the request.
func userPrompt(req nutriplan.MealPlanRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Compose one %s with these targets: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat.\n",
		req.Slot, req.Targets.Calories, req.Targets.Protein, req.Targets.Carbs, req.Targets.Fat)

	if req.Variety.Cuisine != "" {
		fmt.Fprintf(&b, "Cuisine preference: %s.\n", req.Variety.Cuisine)
	}
	if len(req.Restrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s.\n", strings.Join(req.Restrictions, ", "))
	}
	if len(req.Conditions) > 0 {
		fmt.Fprintf(&b, "Medical conditions to account for: %s.\n", strings.Join(req.Conditions, ", "))
	}
	if len(req.Variety.AvoidIngredients) > 0 {
		fmt.Fprintf(&b, "Recently used ingredients, do not repeat: %s.\n", strings.Join(req.Variety.AvoidIngredients, ", "))
	}
	if req.Variety.Emphasis != "" {
		fmt.Fprintf(&b, "Today's emphasis: %s.\n", req.Variety.Emphasis)
	}
	if req.Language != "" && req.Language != "en" {
		fmt.Fprintf(&b, "Write meal and food names in language %q.\n", req.Language)
	}

	return b.String()
}
