package palette

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imagePaletted(pal color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	img.SetColorIndex(1, 1, 2)
	return img
}

func TestFromIndexed(t *testing.T) {
	pal := color.Palette{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 0, 0, 0},
		color.RGBA{0, 0, 255, 255},
		color.RGBA{255, 0, 0, 255},
	}
	img := imagePaletted(pal)

	p, err := FromIndexed(img, "indexed")
	require.NoError(t, err)
	require.Equal(t, len(pal), p.Len())
	assert.Equal(t, []color.Color{
		color.NRGBA{255, 0, 0, 255},
		color.NRGBA{0, 0, 0, 255},
		color.NRGBA{0, 0, 255, 255},
		color.NRGBA{255, 0, 0, 255},
	}, p.Colors())
	for _, e := range p.Entries {
		assert.Empty(t, e.Name)
	}
}

func TestFromIndexedErrors(t *testing.T) {
	_, err := FromIndexed(nil, "")
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = FromIndexed(nrgbaImage(1, 1, black), "")
	assert.ErrorIs(t, err, ErrNotIndexed)
}
