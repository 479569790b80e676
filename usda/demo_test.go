package usda

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSearcher(t *testing.T) {
	d := NewDemoSearcher()

	t.Run("finds chicken records", func(t *testing.T) {
		foods, err := d.Search(context.Background(), "chicken")
		require.NoError(t, err)
		require.NotEmpty(t, foods)
		assert.Equal(t, int64(171477), foods[0].FDCID)
	})

	t.Run("matches term containing the description head", func(t *testing.T) {
		foods, err := d.Search(context.Background(), "quinoa cooked")
		require.NoError(t, err)
		require.NotEmpty(t, foods)
		assert.Contains(t, foods[0].Description, "Quinoa")
	})

	t.Run("empty term returns nothing", func(t *testing.T) {
		foods, err := d.Search(context.Background(), "   ")
		require.NoError(t, err)
		assert.Empty(t, foods)
	})

	t.Run("unknown food returns nothing", func(t *testing.T) {
		foods, err := d.Search(context.Background(), "durian")
		require.NoError(t, err)
		assert.Empty(t, foods)
	})

	t.Run("all records carry per-100g energy", func(t *testing.T) {
		for _, f := range demoFoods {
			assert.Greater(t, f.Per100g.Calories, 0.0, f.Description)
		}
	})
}
