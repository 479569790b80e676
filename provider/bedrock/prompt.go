package bedrock

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutriplan"
)

const mealToolName = "meal_suggestion"

const systemPrompt = `You are a clinical dietitian composing a single meal for a medically supervised meal plan.

RULES:
- Meet the calorie and macro targets as closely as practical.
- Respect every dietary restriction and medical condition without exception.
- Use common whole foods with realistic gram weights; name each food plainly (e.g. "Chicken breast, grilled") so it can be checked against a nutrition database.
- Do not reuse any ingredient listed as recently used.
- Estimate calories, protein, carbs, and fat for every food as served.
- Respond only by calling the meal_suggestion tool.`

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

// mealToolSchema describes the forced tool input: the meal suggestion
// itself.
func mealToolSchema() *jsonschema.Schema {
	minGrams := 1.0
	minMacro := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"meal_name": {Type: "string"},
			"foods": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":        {Type: "string"},
						"portion":     {Type: "string"},
						"gram_weight": {Type: "number", Minimum: &minGrams},
						"calories":    {Type: "number", Minimum: &minMacro},
						"protein":     {Type: "number", Minimum: &minMacro},
						"carbs":       {Type: "number", Minimum: &minMacro},
						"fat":         {Type: "number", Minimum: &minMacro},
					},
					Required: []string{"name", "portion", "gram_weight", "calories", "protein", "carbs", "fat"},
				},
			},
			"preparation_notes": {Type: "string"},
			"nutritionist_note": {Type: "string"},
		},
		Required: []string{"meal_name", "foods"},
	}
}

// mealToolSchemaDocument converts the schema into the document form the
// Converse API expects.
func mealToolSchemaDocument() (document.Interface, error) {
	b, err := json.Marshal(mealToolSchema())
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return document.NewLazyDocument(m), nil
}
