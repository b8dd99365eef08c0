package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssrl/fastind/pkg/indicator"
)

func TestParseNDArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		shape []int
		data  []float64
		err   error
	}{
		{name: "1d", input: `[1, 2.5, -3]`, shape: []int{3}, data: []float64{1, 2.5, -3}},
		{name: "empty", input: `[]`, shape: []int{0}},
		{name: "2d", input: `[[1, 2], [3, 4]]`, shape: []int{2, 2}, data: []float64{1, 2, 3, 4}},
		{name: "scalar", input: `5`, shape: []int{}, data: []float64{5}},
		{name: "nested empty", input: `[[]]`, shape: []int{1, 0}},
		{name: "ragged rows", input: `[[1], [2, 3]]`, err: errRaggedArray},
		{name: "scalar then row", input: `[1, [2]]`, err: errRaggedArray},
		{name: "row then scalar", input: `[[1], 2]`, err: errRaggedArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseNDArray([]byte(tt.input))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.shape, a.Shape)
			assert.Equal(t, tt.data, a.Data)
		})
	}
}

func TestParseNDArray_Null(t *testing.T) {
	a, err := parseNDArray([]byte(`[1, null, 3]`))
	require.NoError(t, err)
	require.Len(t, a.Data, 3)
	assert.True(t, math.IsNaN(a.Data[1]))
}

func TestParseNDArray_Invalid(t *testing.T) {
	_, err := parseNDArray([]byte(`{"x": [1, 2]}`))
	assert.Error(t, err)

	_, err = parseNDArray([]byte(`[1, 2`))
	assert.Error(t, err)

	_, err = parseNDArray([]byte(`["1"]`))
	assert.Error(t, err)
}

func TestMarshalFloats(t *testing.T) {
	assert.Equal(t, `[1,1.5,null,null]`, string(marshalFloats([]float64{1, 1.5, math.NaN(), math.Inf(-1)})))
	assert.Equal(t, `[]`, string(marshalFloats(nil)))
}

func TestEMACommand(t *testing.T) {
	out, err := executeCommand(t, "ema", "--span", "3", "--", "1", "2", "3")
	require.NoError(t, err)
	assert.Equal(t, "[1,1.5,2.25]\n", out)
}

func TestEMACommand_Input(t *testing.T) {
	dir := t.TempDir()

	flat := filepath.Join(dir, "flat.json")
	require.NoError(t, os.WriteFile(flat, []byte(`[10, 11, 12, 11, 10]`), 0o644))

	out, err := executeCommand(t, "ema", "--span", "3", "--input", flat)
	require.NoError(t, err)
	assert.Equal(t, "[10,10.5,11.25,11.125,10.5625]\n", out)

	nested := filepath.Join(dir, "nested.json")
	require.NoError(t, os.WriteFile(nested, []byte(`[[1, 2], [3, 4]]`), 0o644))

	_, err = executeCommand(t, "ema", "--span", "3", "--input", nested)
	assert.ErrorIs(t, err, indicator.ErrInvalidShape)

	// the span is validated before the shape
	_, err = executeCommand(t, "ema", "--span", "0", "--input", nested)
	assert.ErrorIs(t, err, indicator.ErrInvalidSpan)
}

func TestEMACommand_Empty(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o644))

	out, err := executeCommand(t, "ema", "--span", "5", "--input", empty)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}
