package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nutriplan"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical strings", "chicken breast grilled", "chicken breast grilled", 1.0},
		{"identical ignoring case", "Chicken Breast", "chicken breast", 1.0},
		{"disjoint words", "salmon fillet", "white rice", 0.0},
		{"partial overlap", "chicken breast", "chicken thigh", 1.0 / 3.0},
		{"both empty", "", "", 0.0},
		{"one empty", "chicken", "", 0.0},
		{"punctuation stripped", "chicken, grilled", "chicken grilled", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.a, tt.b), 1e-9)
		})
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"chicken breast grilled", "grilled chicken"},
		{"brown rice cooked", "rice"},
		{"spinach", "spinach raw"},
		{"", "olive oil"},
	}

	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "score(%q,%q)", p[0], p[1])
	}
}

func TestRankTieBreaksOnServingSize(t *testing.T) {
	suggested := nutriplan.SuggestedFood{Name: "chicken breast", GramWeight: 120}

	far := nutriplan.ReferenceFood{FDCID: 1, Description: "chicken breast", ServingSize: 300}
	near := nutriplan.ReferenceFood{FDCID: 2, Description: "chicken breast", ServingSize: 100}
	unstated := nutriplan.ReferenceFood{FDCID: 3, Description: "chicken breast"}

	ranked := Rank(suggested, []nutriplan.ReferenceFood{far, unstated, near})

	assert.Equal(t, int64(2), ranked[0].Food.FDCID, "closest serving size wins the tie")
	assert.Equal(t, int64(1), ranked[1].Food.FDCID)
	assert.Equal(t, int64(3), ranked[2].Food.FDCID, "record without a serving size loses")
}
