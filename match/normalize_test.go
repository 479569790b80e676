package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		primary string
	}{
		{
			name:    "usda style compound description",
			input:   "Chicken, broilers or fryers, breast, meat only, cooked, grilled",
			want:    []string{"chicken", "broilers or fryers", "breast", "meat only", "cooked", "grilled"},
			primary: "chicken",
		},
		{
			name:    "preparation connector",
			input:   "Spinach, sautéed in olive oil",
			want:    []string{"spinach", "olive oil"},
			primary: "spinach",
		},
		{
			name:    "with connector",
			input:   "Oatmeal with blueberries",
			want:    []string{"oatmeal", "blueberries"},
			primary: "oatmeal",
		},
		{
			name:    "and connector",
			input:   "Rice and beans",
			want:    []string{"rice", "beans"},
			primary: "rice",
		},
		{
			name:    "connector only at word boundaries",
			input:   "Grand padano cheese",
			want:    []string{"grand padano cheese"},
			primary: "grand padano cheese",
		},
		{
			name:    "simple name passes through lowered",
			input:   "  Salmon  ",
			want:    []string{"salmon"},
			primary: "salmon",
		},
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.primary != "" {
				assert.Equal(t, tt.primary, Primary(tt.input))
			}
		})
	}
}

func TestCandidatesDeterministic(t *testing.T) {
	input := "Chicken breast, grilled, served with rice and beans"
	first := Candidates(input)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Candidates(input))
	}
}

func TestTranslateTerm(t *testing.T) {
	tests := []struct {
		name string
		lang string
		in   string
		want string
	}{
		{"spanish single term", "es", "Pollo", "chicken"},
		{"spanish compound", "es", "Pechuga de pollo a la parrilla", "breast de chicken grilled"},
		{"untranslatable passes through with case intact", "es", "Kimchi", "Kimchi"},
		{"untranslatable compound unchanged", "es", "Bibimbap con Kimchi", "Bibimbap con Kimchi"},
		{"unknown language unchanged", "fr", "Poulet", "Poulet"},
		{"english unchanged", "en", "Grilled chicken", "Grilled chicken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateTerm(tt.lang, tt.in))
		})
	}
}

func TestSearchTerms(t *testing.T) {
	got := SearchTerms("es", "Arroz con pollo, frito")
	require.NotEmpty(t, got)
	assert.Contains(t, got[0], "rice")
}
