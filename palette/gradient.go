package palette

import (
	"image/color"
	"sort"
)

// Gradient maps a position in [0, 1] to a color.
type Gradient interface {
	At(t float64) color.Color
}

// GradientFunc adapts an ordinary function to the Gradient interface.
type GradientFunc func(t float64) color.Color

// At calls f(t).
func (f GradientFunc) At(t float64) color.Color {
	return f(t)
}

// Stop is a color at a position along a Stops gradient.
type Stop struct {
	Offset float64 // 0.0 to 1.0
	Color  color.NRGBA
}

// Stops is a gradient that linearly interpolates non-premultiplied sRGB
// between its stops. Positions before the first stop or after the last one
// take the color of that stop.
//
// Stops must be sorted by offset, see SortStops.
type Stops []Stop

// SortStops returns a copy of stops ordered by offset. Stops with equal
// offsets keep their relative order, which allows hard color edges.
func SortStops(stops []Stop) Stops {
	sorted := make(Stops, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

// EvenStops spreads colors evenly over [0, 1].
func EvenStops(colors []color.Color) Stops {
	stops := make(Stops, len(colors))
	for i, c := range colors {
		var offset float64
		if len(colors) > 1 {
			offset = float64(i) / float64(len(colors)-1)
		}
		stops[i] = Stop{
			Offset: offset,
			Color:  color.NRGBAModel.Convert(c).(color.NRGBA),
		}
	}
	return stops
}

// At returns the color at t, which is clamped to [0, 1]. An empty Stops is
// transparent black.
func (s Stops) At(t float64) color.Color {
	if len(s) == 0 {
		return color.NRGBA{}
	}
	t = clamp01(t)

	if t <= s[0].Offset {
		return s[0].Color
	}
	last := s[len(s)-1]
	if t >= last.Offset {
		return last.Color
	}

	for i := 1; i < len(s); i++ {
		if t > s[i].Offset {
			continue
		}
		a, b := s[i-1], s[i]
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		return lerpColor(a.Color, b.Color, (t-a.Offset)/span)
	}
	return last.Color
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		v := float64(x) + (float64(y)-float64(x))*t
		return uint8(v + 0.5)
	}
	return color.NRGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}

// FromGradient samples g at n evenly spaced positions, both ends included,
// and returns the samples as unnamed entries in sampling order. When reverse
// is true the gradient is sampled from 1 to 0.
func FromGradient(g Gradient, name string, n int, reverse bool) (*Palette, error) {
	if g == nil {
		return nil, ErrInvalidGradient
	}
	if f, ok := g.(GradientFunc); ok && f == nil {
		return nil, ErrInvalidGradient
	}
	if s, ok := g.(Stops); ok && len(s) == 0 {
		return nil, ErrInvalidGradient
	}
	if n < 2 {
		return nil, ErrInvalidCount
	}

	p := New(name)
	for i := 0; i < n; i++ {
		// Computed per sample instead of accumulated, so the last
		// position is exactly 1
		t := float64(i) / float64(n-1)
		if reverse {
			t = 1 - t
		}
		p.Add("", g.At(t))
	}
	return p, nil
}
