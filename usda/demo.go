package usda

import (
	"context"
	"strings"

	"nutriplan"
)

// DemoSearcher serves a small static slice of FoodData Central records so
// the pipeline runs end to end without an API key. Matching is a substring
// check in either direction; the caller re-ranks by similarity anyway.
type DemoSearcher struct{}

func NewDemoSearcher() *DemoSearcher {
	return &DemoSearcher{}
}

func (d *DemoSearcher) Search(_ context.Context, term string) ([]nutriplan.ReferenceFood, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}

	var out []nutriplan.ReferenceFood
	for _, f := range demoFoods {
		desc := strings.ToLower(f.Description)
		if strings.Contains(desc, term) || strings.Contains(term, firstWord(desc)) {
			out = append(out, f)
		}
	}
	return out, nil
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " ,"); i > 0 {
		return s[:i]
	}
	return s
}

// demoFoods mirrors real SR Legacy records: FDC IDs, descriptions, and
// per-100g macros are taken from the published database.
var demoFoods = []nutriplan.ReferenceFood{
	{FDCID: 171477, Description: "Chicken, broilers or fryers, breast, meat only, cooked, grilled", DataType: "SR Legacy", ServingSize: 100, Per100g: nutriplan.Nutrition{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}},
	{FDCID: 175167, Description: "Fish, salmon, Atlantic, farmed, cooked, dry heat", DataType: "SR Legacy", ServingSize: 85, Per100g: nutriplan.Nutrition{Calories: 206, Protein: 22.1, Carbs: 0, Fat: 12.4}},
	{FDCID: 168878, Description: "Rice, white, long-grain, regular, cooked", DataType: "SR Legacy", ServingSize: 158, Per100g: nutriplan.Nutrition{Calories: 130, Protein: 2.7, Carbs: 28.2, Fat: 0.3}},
	{FDCID: 168917, Description: "Quinoa, cooked", DataType: "SR Legacy", ServingSize: 185, Per100g: nutriplan.Nutrition{Calories: 120, Protein: 4.4, Carbs: 21.3, Fat: 1.9}},
	{FDCID: 173904, Description: "Oats, regular and quick, cooked with water", DataType: "SR Legacy", ServingSize: 234, Per100g: nutriplan.Nutrition{Calories: 71, Protein: 2.5, Carbs: 12, Fat: 1.5}},
	{FDCID: 171287, Description: "Egg, whole, cooked, scrambled", DataType: "SR Legacy", ServingSize: 61, Per100g: nutriplan.Nutrition{Calories: 149, Protein: 10, Carbs: 1.6, Fat: 11}},
	{FDCID: 172421, Description: "Lentils, mature seeds, cooked, boiled, without salt", DataType: "SR Legacy", ServingSize: 198, Per100g: nutriplan.Nutrition{Calories: 116, Protein: 9, Carbs: 20.1, Fat: 0.4}},
	{FDCID: 170026, Description: "Beans, black, mature seeds, cooked, boiled, without salt", DataType: "SR Legacy", ServingSize: 172, Per100g: nutriplan.Nutrition{Calories: 132, Protein: 8.9, Carbs: 23.7, Fat: 0.5}},
	{FDCID: 168482, Description: "Sweet potato, cooked, baked in skin, flesh, without salt", DataType: "SR Legacy", ServingSize: 100, Per100g: nutriplan.Nutrition{Calories: 90, Protein: 2, Carbs: 20.7, Fat: 0.2}},
	{FDCID: 170417, Description: "Broccoli, cooked, boiled, drained, without salt", DataType: "SR Legacy", ServingSize: 156, Per100g: nutriplan.Nutrition{Calories: 35, Protein: 2.4, Carbs: 7.2, Fat: 0.4}},
	{FDCID: 169967, Description: "Tomatoes, red, ripe, raw, year round average", DataType: "SR Legacy", ServingSize: 123, Per100g: nutriplan.Nutrition{Calories: 18, Protein: 0.9, Carbs: 3.9, Fat: 0.2}},
	{FDCID: 169986, Description: "Strawberries, raw", DataType: "SR Legacy", ServingSize: 152, Per100g: nutriplan.Nutrition{Calories: 32, Protein: 0.7, Carbs: 7.7, Fat: 0.3}},
	{FDCID: 173944, Description: "Bananas, raw", DataType: "SR Legacy", ServingSize: 118, Per100g: nutriplan.Nutrition{Calories: 89, Protein: 1.1, Carbs: 22.8, Fat: 0.3}},
	{FDCID: 171705, Description: "Avocados, raw, all commercial varieties", DataType: "SR Legacy", ServingSize: 150, Per100g: nutriplan.Nutrition{Calories: 160, Protein: 2, Carbs: 8.5, Fat: 14.7}},
	{FDCID: 170567, Description: "Nuts, almonds, dry roasted, without salt added", DataType: "SR Legacy", ServingSize: 28, Per100g: nutriplan.Nutrition{Calories: 598, Protein: 20.9, Carbs: 21, Fat: 52.5}},
	{FDCID: 170903, Description: "Yogurt, Greek, plain, nonfat", DataType: "SR Legacy", ServingSize: 170, Per100g: nutriplan.Nutrition{Calories: 59, Protein: 10.2, Carbs: 3.6, Fat: 0.4}},
	{FDCID: 168409, Description: "Tortillas, ready-to-bake or -fry, corn", DataType: "SR Legacy", ServingSize: 26, Per100g: nutriplan.Nutrition{Calories: 218, Protein: 5.7, Carbs: 44.6, Fat: 2.9}},
	{FDCID: 175177, Description: "Fish, tilapia, cooked, dry heat", DataType: "SR Legacy", ServingSize: 87, Per100g: nutriplan.Nutrition{Calories: 128, Protein: 26.2, Carbs: 0, Fat: 2.7}},
	{FDCID: 169057, Description: "Bread, whole-wheat, commercially prepared", DataType: "SR Legacy", ServingSize: 32, Per100g: nutriplan.Nutrition{Calories: 254, Protein: 12.3, Carbs: 43.1, Fat: 3.6}},
	{FDCID: 171688, Description: "Apples, raw, with skin", DataType: "SR Legacy", ServingSize: 182, Per100g: nutriplan.Nutrition{Calories: 52, Protein: 0.3, Carbs: 13.8, Fat: 0.2}},
	{FDCID: 170457, Description: "Spinach, raw", DataType: "SR Legacy", ServingSize: 30, Per100g: nutriplan.Nutrition{Calories: 23, Protein: 2.9, Carbs: 3.6, Fat: 0.4}},
	{FDCID: 173424, Description: "Olive oil, salad or cooking", DataType: "SR Legacy", ServingSize: 14, Per100g: nutriplan.Nutrition{Calories: 884, Protein: 0, Carbs: 0, Fat: 100}},
}
