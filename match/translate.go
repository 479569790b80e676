package match

import "strings"

// foodTerms maps a source language to food-term translations into English,
// the language of the reference database. One table keyed by (language,
// term) rather than per-language string types.
var foodTerms = map[string]map[string]string{
	"es": {
		"pollo":       "chicken",
		"pechuga":     "breast",
		"res":         "beef",
		"carne":       "meat",
		"cerdo":       "pork",
		"pescado":     "fish",
		"salmón":      "salmon",
		"salmon":      "salmon",
		"atún":        "tuna",
		"atun":        "tuna",
		"camarones":   "shrimp",
		"huevo":       "egg",
		"huevos":      "eggs",
		"arroz":       "rice",
		"frijoles":    "beans",
		"lentejas":    "lentils",
		"garbanzos":   "chickpeas",
		"avena":       "oats",
		"pan":         "bread",
		"tortilla":    "tortilla",
		"queso":       "cheese",
		"leche":       "milk",
		"yogur":       "yogurt",
		"yogurt":      "yogurt",
		"manzana":     "apple",
		"plátano":     "banana",
		"platano":     "banana",
		"fresa":       "strawberry",
		"fresas":      "strawberries",
		"aguacate":    "avocado",
		"espinaca":    "spinach",
		"espinacas":   "spinach",
		"brócoli":     "broccoli",
		"brocoli":     "broccoli",
		"zanahoria":   "carrot",
		"tomate":      "tomato",
		"cebolla":     "onion",
		"ajo":         "garlic",
		"papa":        "potato",
		"papas":       "potatoes",
		"camote":      "sweet potato",
		"maíz":        "corn",
		"maiz":        "corn",
		"aceite":      "oil",
		"oliva":       "olive",
		"mantequilla": "butter",
		"nueces":      "walnuts",
		"almendras":   "almonds",
		"quinoa":      "quinoa",
		"asado":       "roasted",
		"asada":       "roasted",
		"a la parrilla": "grilled",
		"al vapor":    "steamed",
		"frito":       "fried",
		"cocido":      "cooked",
		"integral":    "whole grain",
	},
}

// TranslateTerm translates a food name from the given language into
// reference-database English by case-insensitive term substitution.
// A name with no translatable term passes through unchanged, whether the
// language is known or not. English input is returned as-is.
func TranslateTerm(lang, name string) string {
	table, ok := foodTerms[strings.ToLower(lang)]
	if !ok {
		return name
	}

	lowered := strings.ToLower(name)
	translated := false

	// multi-word phrases first so "a la parrilla" beats "la"
	for _, term := range phraseFirst(table) {
		if idx := indexWord(lowered, term); idx >= 0 {
			lowered = lowered[:idx] + table[term] + lowered[idx+len(term):]
			translated = true
		}
	}

	if !translated {
		return name
	}
	return lowered
}

// phraseFirst returns table keys ordered longest first so multi-word
// phrases are replaced before their constituent words.
func phraseFirst(table map[string]string) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && len(keys[j]) > len(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// SearchTerms produces the ordered reference-database search terms for a
// suggested food name in the given language.
func SearchTerms(lang, name string) []string {
	return Candidates(TranslateTerm(lang, name))
}
