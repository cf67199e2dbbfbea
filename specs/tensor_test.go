package specs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVectorSpec(t *testing.T) {
	t.Run("creates rank-1 spec from values", func(t *testing.T) {
		spec := NewVectorSpec(1.5, 2, 3)

		assert.Equal(t, []int{3}, spec.Shape)
		assert.Equal(t, []float64{1.5, 2, 3}, spec.Values)
	})

	t.Run("with no values creates an empty vector", func(t *testing.T) {
		spec := NewVectorSpec()

		assert.Equal(t, []int{0}, spec.Shape)
		assert.Empty(t, spec.Values)
	})
}

func TestNewMatrixSpec(t *testing.T) {
	t.Run("creates rank-2 spec in row-major order", func(t *testing.T) {
		spec, err := NewMatrixSpec([][]float64{
			{1, 2},
			{3, 4},
			{5, 6},
		})

		require.NoError(t, err)
		assert.Equal(t, []int{3, 2}, spec.Shape)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, spec.Values)
	})

	t.Run("with no rows returns error", func(t *testing.T) {
		_, err := NewMatrixSpec(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "needs at least one row")
	})

	t.Run("with ragged rows returns error", func(t *testing.T) {
		_, err := NewMatrixSpec([][]float64{
			{1, 2},
			{3},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1 has 1 values, want 2")
	})
}

func TestNewCubeSpec(t *testing.T) {
	t.Run("creates rank-3 spec in row-major order", func(t *testing.T) {
		spec, err := NewCubeSpec([][][]float64{
			{{1, 2}, {3, 4}},
			{{5, 6}, {7, 8}},
		})

		require.NoError(t, err)
		assert.Equal(t, []int{2, 2, 2}, spec.Shape)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, spec.Values)
	})

	t.Run("with no cells returns error", func(t *testing.T) {
		_, err := NewCubeSpec(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one cell along every axis")
	})

	t.Run("with ragged planes returns error", func(t *testing.T) {
		_, err := NewCubeSpec([][][]float64{
			{{1, 2}, {3, 4}},
			{{5, 6}},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "plane 1 has 1 rows, want 2")
	})

	t.Run("with ragged rows returns error", func(t *testing.T) {
		_, err := NewCubeSpec([][][]float64{
			{{1, 2}, {3, 4}},
			{{5, 6}, {7}},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1 of plane 1 has 1 values, want 2")
	})
}
