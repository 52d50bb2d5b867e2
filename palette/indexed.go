package palette

import (
	"image"
	"image/color"
)

// FromIndexed copies the color table of an indexed image. Entries are
// unnamed, fully opaque, and in index order. Images that aren't
// *image.Paletted return ErrNotIndexed.
func FromIndexed(img image.Image, name string) (*Palette, error) {
	if img == nil {
		return nil, ErrInvalidImage
	}
	p, ok := img.(*image.Paletted)
	if !ok {
		return nil, ErrNotIndexed
	}

	pal := New(name)
	for _, c := range p.Palette {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		nc.A = 255
		pal.Add("", nc)
	}
	return pal, nil
}
