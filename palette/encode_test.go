package palette

import (
	"bytes"
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette() *Palette {
	p := New("Sunset")
	p.Add("Deep", color.NRGBA{12, 3, 40, 255})
	p.Add("", color.NRGBA{255, 128, 0, 255})
	p.Add("Haze", color.NRGBA{250, 250, 250, 128})
	return p
}

func TestWriteGPL(t *testing.T) {
	p := testPalette()
	p.Columns = 3

	var buf bytes.Buffer
	require.NoError(t, WriteGPL(&buf, p))
	assert.Equal(t, "GIMP Palette\n"+
		"Name: Sunset\n"+
		"Columns: 3\n"+
		"#\n"+
		" 12   3  40\tDeep\n"+
		"255 128   0\tUntitled\n"+
		"250 250 250\tHaze\n",
		buf.String())
}

func TestWriteGPLNoColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGPL(&buf, New("empty")))
	assert.Equal(t, "GIMP Palette\nName: empty\n#\n", buf.String())
}

func TestWriteHex(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHex(&buf, testPalette()))
	assert.Equal(t, "#0c0328\n#ff8000\n#fafafa80\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testPalette()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Sunset", got["name"])
	assert.NotContains(t, got, "columns")

	entries := got["entries"].([]interface{})
	require.Len(t, entries, 3)
	assert.Equal(t, map[string]interface{}{"name": "Deep", "color": "#0c0328"}, entries[0])
	assert.Equal(t, map[string]interface{}{"color": "#ff8000"}, entries[1])
}

func TestSwatch(t *testing.T) {
	p := testPalette()

	img := Swatch(p, 4, 2)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	assert.Equal(t, p.Entries[0].Color, img.NRGBAAt(0, 0))
	assert.Equal(t, p.Entries[1].Color, img.NRGBAAt(7, 3))
	assert.Equal(t, p.Entries[2].Color, img.NRGBAAt(3, 7))
	// Unused cell
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(7, 7))
}

func TestSwatchColumns(t *testing.T) {
	p := testPalette()

	// One row when nothing is set
	img := Swatch(p, 2, 0)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	p.Columns = 1
	img = Swatch(p, 2, 0)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	img = Swatch(New(""), 3, 0)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestSwatchManyCells(t *testing.T) {
	p := New("")
	for i := 0; i < 256; i++ {
		p.Add("", color.NRGBA{uint8(i), uint8(255 - i), 7, 255})
	}

	img := Swatch(p, 3, 16)
	require.Equal(t, 48, img.Bounds().Dx())
	require.Equal(t, 48, img.Bounds().Dy())
	for i, e := range p.Entries {
		x, y := (i%16)*3, (i/16)*3
		assert.Equal(t, e.Color, img.NRGBAAt(x, y), i)
		assert.Equal(t, e.Color, img.NRGBAAt(x+2, y+2), i)
	}
}

func TestPaletteOpaque(t *testing.T) {
	p := testPalette()
	colors := p.Opaque()
	require.Len(t, colors, 3)
	assert.Equal(t, color.NRGBA{250, 250, 250, 255}, colors[2])
	// Original is untouched
	assert.Equal(t, uint8(128), p.Entries[2].Color.A)
}
