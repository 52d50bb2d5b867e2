package main

import (
	"image"
	"image/color"

	"github.com/makeworld-the-better-one/palgrab/palette"
)

// paletteQuantizer implements draw.Quantizer by ignoring the image and
// always handing back the opaque colors of a palette. image/gif only
// takes a color table through a draw.Quantizer.
//
// Like in the dither library, see
// https://github.com/makeworld-the-better-one/dither/blob/3714c39500bc23a87a4fa14053344f201cc5beff/draw.go#L128-L156
type paletteQuantizer struct {
	colors color.Palette
}

func newPaletteQuantizer(p *palette.Palette) *paletteQuantizer {
	return &paletteQuantizer{colors: p.Opaque()}
}

// Quantize appends as many palette colors as fit in the capacity of pal.
func (pq *paletteQuantizer) Quantize(pal color.Palette, _ image.Image) color.Palette {
	n := cap(pal) - len(pal)
	if n > len(pq.colors) {
		n = len(pq.colors)
	}
	return append(pal, pq.colors[:n]...)
}
