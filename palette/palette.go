// Package palette builds named color palettes from images, gradients and
// the color tables of indexed images.
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	ErrInvalidImage     = errors.New("palette: invalid image")
	ErrInvalidCount     = errors.New("palette: number of colors must be at least 2")
	ErrInvalidThreshold = errors.New("palette: threshold must be at least 1")
	ErrInvalidGradient  = errors.New("palette: invalid gradient")
	ErrNotIndexed       = errors.New("palette: image is not indexed")
)

// Entry is a single palette color. Name may be empty.
type Entry struct {
	Name  string
	Color color.NRGBA
}

// Palette is an ordered, named list of colors.
type Palette struct {
	Name string

	// Columns is a display hint, 0 means unset.
	Columns int

	Entries []Entry
}

// New returns an empty palette.
func New(name string) *Palette {
	return &Palette{Name: name, Entries: make([]Entry, 0)}
}

// Add appends a color to the end of the palette.
func (p *Palette) Add(name string, c color.Color) {
	p.Entries = append(p.Entries, Entry{
		Name:  name,
		Color: color.NRGBAModel.Convert(c).(color.NRGBA),
	})
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.Entries)
}

// Colors returns the entry colors in order. All returned colors are
// color.NRGBA.
func (p *Palette) Colors() []color.Color {
	colors := make([]color.Color, len(p.Entries))
	for i := range p.Entries {
		colors[i] = p.Entries[i].Color
	}
	return colors
}

// Opaque returns the entry colors with alpha forced to 255.
func (p *Palette) Opaque() []color.Color {
	colors := make([]color.Color, len(p.Entries))
	for i := range p.Entries {
		c := p.Entries[i].Color
		c.A = 255
		colors[i] = c
	}
	return colors
}

// Hex returns the entry colors as "#rrggbb" strings. Entries that are not
// fully opaque get an alpha byte appended: "#rrggbbaa".
func (p *Palette) Hex() []string {
	hex := make([]string, len(p.Entries))
	for i := range p.Entries {
		hex[i] = toHex(p.Entries[i].Color)
	}
	return hex
}

func toHex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
