package palette

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// WriteGPL writes p in the GIMP palette format.
func WriteGPL(w io.Writer, p *Palette) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "GIMP Palette")
	fmt.Fprintf(bw, "Name: %s\n", p.Name)
	if p.Columns > 0 {
		fmt.Fprintf(bw, "Columns: %d\n", p.Columns)
	}
	fmt.Fprintln(bw, "#")

	for _, e := range p.Entries {
		name := e.Name
		if name == "" {
			name = "Untitled"
		}
		fmt.Fprintf(bw, "%3d %3d %3d\t%s\n", e.Color.R, e.Color.G, e.Color.B, name)
	}
	return bw.Flush()
}

// WriteHex writes one hex color per line.
func WriteHex(w io.Writer, p *Palette) error {
	bw := bufio.NewWriter(w)
	for _, h := range p.Hex() {
		fmt.Fprintln(bw, h)
	}
	return bw.Flush()
}

type jsonEntry struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color"`
}

type jsonPalette struct {
	Name    string      `json:"name"`
	Columns int         `json:"columns,omitempty"`
	Entries []jsonEntry `json:"entries"`
}

// WriteJSON writes p as an indented JSON object, with colors as hex strings.
func WriteJSON(w io.Writer, p *Palette) error {
	jp := jsonPalette{
		Name:    p.Name,
		Columns: p.Columns,
		Entries: make([]jsonEntry, len(p.Entries)),
	}
	for i, e := range p.Entries {
		jp.Entries[i] = jsonEntry{Name: e.Name, Color: toHex(e.Color)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&jp)
}

// Swatch draws the palette as a grid of square cells, cell pixels wide,
// filled in row order. If columns is 0 or less the palette's Columns is
// used, and if that is unset too, all colors go on one row. Cells past the
// last entry are left transparent.
func Swatch(p *Palette, cell, columns int) *image.NRGBA {
	if cell < 1 {
		cell = 1
	}
	if columns <= 0 {
		columns = p.Columns
	}
	if columns <= 0 || columns > p.Len() {
		columns = p.Len()
	}
	if columns == 0 {
		return imaging.New(cell, cell, color.NRGBA{})
	}
	rows := (p.Len() + columns - 1) / columns

	img := imaging.New(columns*cell, rows*cell, color.NRGBA{})
	for i, e := range p.Entries {
		fillCell(img, (i%columns)*cell, (i/columns)*cell, cell, e.Color)
	}
	return img
}

// fillCell sets the pixels of one square cell in place, keeping
// translucent colors exact.
func fillCell(img *image.NRGBA, x0, y0, cell int, c color.NRGBA) {
	for y := y0; y < y0+cell; y++ {
		row := img.Pix[img.PixOffset(x0, y):img.PixOffset(x0+cell, y)]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}
