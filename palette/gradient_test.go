package palette

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func TestFromGradientEndpoints(t *testing.T) {
	g := EvenStops([]color.Color{black, color.NRGBA{255, 0, 0, 255}, white})

	p, err := FromGradient(g, "ends", 2, false)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, black, p.Entries[0].Color)
	assert.Equal(t, white, p.Entries[1].Color)
	assert.Equal(t, "", p.Entries[0].Name)
	assert.Equal(t, "ends", p.Name)
}

func TestFromGradientEvenSpacing(t *testing.T) {
	g := EvenStops([]color.Color{black, white})

	p, err := FromGradient(g, "", 5, false)
	require.NoError(t, err)
	assert.Equal(t, []color.Color{gray(0), gray(64), gray(128), gray(191), gray(255)}, p.Colors())

	p, err = FromGradient(g, "", 5, true)
	require.NoError(t, err)
	assert.Equal(t, []color.Color{gray(255), gray(191), gray(128), gray(64), gray(0)}, p.Colors())
}

func TestFromGradientFunc(t *testing.T) {
	var positions []float64
	g := GradientFunc(func(t float64) color.Color {
		positions = append(positions, t)
		return color.Gray{uint8(t * 100)}
	})

	p, err := FromGradient(g, "", 3, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, positions)
	assert.Equal(t, []color.Color{gray(0), gray(50), gray(100)}, p.Colors())
}

func TestFromGradientErrors(t *testing.T) {
	_, err := FromGradient(nil, "", 4, false)
	assert.ErrorIs(t, err, ErrInvalidGradient)

	_, err = FromGradient(Stops{}, "", 4, false)
	assert.ErrorIs(t, err, ErrInvalidGradient)

	var f GradientFunc
	_, err = FromGradient(f, "", 4, false)
	assert.ErrorIs(t, err, ErrInvalidGradient)

	_, err = FromGradient(EvenStops([]color.Color{black, white}), "", 1, false)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestStopsAt(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	g := SortStops([]Stop{
		{Offset: 0.75, Color: white},
		{Offset: 0.25, Color: black},
		{Offset: 0.5, Color: red},
	})

	tests := []struct {
		name string
		t    float64
		want color.NRGBA
	}{
		{"before first stop", 0, black},
		{"negative", -1, black},
		{"first stop", 0.25, black},
		{"middle stop", 0.5, red},
		{"between", 0.375, color.NRGBA{128, 0, 0, 255}},
		{"last stop", 0.75, white},
		{"past end", 2, white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.At(tt.t))
		})
	}
}

func TestStopsHardEdge(t *testing.T) {
	g := SortStops([]Stop{
		{Offset: 0, Color: black},
		{Offset: 0.5, Color: black},
		{Offset: 0.5, Color: white},
		{Offset: 1, Color: white},
	})
	assert.Equal(t, black, g.At(0.49))
	assert.Equal(t, white, g.At(0.51))
}

func TestEvenStopsSingle(t *testing.T) {
	g := EvenStops([]color.Color{white})
	require.Len(t, g, 1)
	assert.Equal(t, white, g.At(0))
	assert.Equal(t, white, g.At(1))
}
