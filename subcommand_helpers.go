package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/makeworld-the-better-one/palgrab/palette"
	"golang.org/x/image/colornames"
)

// Width of a color cell in PNG swatch output
const swatchCell = 16

// parsePercentArg takes a string like "0.5" or "50%" and will return a float
// like 50 or 0.5, depending on the second argument. An empty string returns 0.
//
// If `maxOne` is true, then "50%" will return 0.5. Otherwise it will return 50.
func parsePercentArg(arg string, maxOne bool) (float64, error) {
	if arg == "" {
		return 0, nil
	}
	if strings.HasSuffix(arg, "%") {
		arg = arg[:len(arg)-1]
		f64, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, err
		}
		if maxOne {
			f64 /= 100.0
		}
		return f64, nil
	}
	f64, err := strconv.ParseFloat(arg, 64)
	if !maxOne {
		f64 *= 100.0
	}
	return f64, err
}

// parseArgs takes arguments and splits them using the provided split characters.
func parseArgs(args []string, splitRunes string) []string {
	finalArgs := make([]string, 0)
	for _, arg := range args {
		finalArgs = append(finalArgs, strings.FieldsFunc(arg, func(c rune) bool {
			for _, c2 := range splitRunes {
				if c == c2 {
					return true
				}
			}
			return false
		})...)
	}
	return finalArgs
}

func hexToColor(hex string) (color.NRGBA, error) {
	// Modified from https://github.com/lucasb-eyer/go-colorful/blob/v1.2.0/colors.go#L333

	hex = strings.TrimPrefix(hex, "#")

	if len(hex) == 8 {
		var r, g, b, a uint8
		n, err := fmt.Sscanf(strings.ToLower(hex), "%02x%02x%02x%02x", &r, &g, &b, &a)
		if err != nil {
			return color.NRGBA{}, err
		}
		if n != 4 {
			return color.NRGBA{}, fmt.Errorf("%s is not a hex color", hex)
		}
		return color.NRGBA{r, g, b, a}, nil
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%s is not a hex color", hex)
	}

	format := "%02x%02x%02x"
	var r, g, b uint8
	n, err := fmt.Sscanf(strings.ToLower(hex), format, &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 3 {
		return color.NRGBA{}, fmt.Errorf("%s is not a hex color", hex)
	}
	return color.NRGBA{r, g, b, 255}, nil
}

func rgbToColor(s string) (color.NRGBA, error) {
	format := "%d,%d,%d"
	var r, g, b uint8
	n, err := fmt.Sscanf(s, format, &r, &g, &b)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 3 {
		return color.NRGBA{}, fmt.Errorf("%s is not an RGB tuple", s)
	}
	return color.NRGBA{r, g, b, 255}, nil
}

func rgbaToColor(s string) (color.NRGBA, error) {
	format := "%d,%d,%d,%d"
	var r, g, b, a uint8
	n, err := fmt.Sscanf(s, format, &r, &g, &b, &a)
	if err != nil {
		return color.NRGBA{}, err
	}
	if n != 4 {
		return color.NRGBA{}, fmt.Errorf("%s is not an RGBA tuple", s)
	}
	// Parse as non-premult, as that's more user-friendly
	return color.NRGBA{r, g, b, a}, nil
}

// parseColor turns a single argument into a color.
func parseColor(arg string) (color.NRGBA, error) {
	// Try to parse as RGB numbers, then RGBA, then hex, then grayscale,
	// then SVG colors, then fail

	switch strings.Count(arg, ",") {
	case 2:
		c, err := rgbToColor(arg)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%s is not a valid RGB tuple. Example: 25,200,150", arg)
		}
		return c, nil
	case 3:
		c, err := rgbaToColor(arg)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%s is not a valid RGBA tuple. Example: 25,200,150,100", arg)
		}
		return c, nil
	}

	hexColor, err := hexToColor(arg)
	if err == nil {
		return hexColor, nil
	}

	n, err := strconv.Atoi(arg)
	if err == nil {
		if n > 255 || n < 0 {
			return color.NRGBA{}, fmt.Errorf("single numbers like %d must be in the range 0-255", n)
		}
		return color.NRGBA{uint8(n), uint8(n), uint8(n), 255}, nil
	}

	htmlColor, ok := colornames.Map[strings.ToLower(arg)]
	if ok {
		return color.NRGBAModel.Convert(htmlColor).(color.NRGBA), nil
	}

	return color.NRGBA{}, fmt.Errorf("%s not recognized as an RGB tuple, hex code, number 0-255, or SVG color name", arg)
}

// parseStops turns args like "red@0.25" or "blue@50%" into gradient stops.
// Stops without a position are placed as if all the stops were evenly spaced.
func parseStops(args []string) (palette.Stops, error) {
	stops := make([]palette.Stop, len(args))

	for i, arg := range args {
		colorArg := arg
		var offset float64
		if len(args) > 1 {
			offset = float64(i) / float64(len(args)-1)
		}

		if at := strings.LastIndex(arg, "@"); at != -1 {
			colorArg = arg[:at]
			pos, err := parsePercentArg(arg[at+1:], true)
			if err != nil || arg[at+1:] == "" {
				return nil, fmt.Errorf("%s: position must be a number or percentage. Example: red@0.5 or red@50%%", arg)
			}
			if pos < 0 || pos > 1 {
				return nil, fmt.Errorf("%s: position must be between 0 and 1, or 0%% and 100%%", arg)
			}
			offset = pos
		}

		c, err := parseColor(colorArg)
		if err != nil {
			return nil, err
		}
		stops[i] = palette.Stop{Offset: offset, Color: c}
	}

	return palette.SortStops(stops), nil
}

// getInputImage takes an input image arg and returns an image that has
// modifications applied.
func getInputImage(arg string) (image.Image, error) {
	var img image.Image
	var err error

	if arg == "-" {
		img, err = imaging.Decode(os.Stdin, autoOrientation)
	} else {
		img, err = imaging.Open(arg, autoOrientation)
	}
	if err != nil {
		return nil, err
	}

	if width != 0 || height != 0 {
		// Box sampling is quick and fast, and better then others at downscaling
		// Downscaling will be a much more common use case for palettes
		// https://pkg.go.dev/github.com/disintegration/imaging#ResampleFilter
		img = imaging.Resize(img, width, height, imaging.Box)
	}

	if grayscale {
		img = imaging.Grayscale(img)
	}
	if saturation != 0 {
		img = imaging.AdjustSaturation(img, saturation)
	}
	if contrast != 0 {
		img = imaging.AdjustContrast(img, contrast)
	}
	if brightness != 0 {
		img = imaging.AdjustBrightness(img, brightness)
	}

	return img, nil
}

// loadMask loads a selection mask. Black or transparent pixels are
// unselected, anything else is selected. The mask is resized the same way
// input images are, but no other modifications are applied.
func loadMask(path string) (*image.Alpha, error) {
	img, err := imaging.Open(path, autoOrientation)
	if err != nil {
		return nil, err
	}
	if width != 0 || height != 0 {
		img = imaging.Resize(img, width, height, imaging.Box)
	}

	// Always starts at 0,0 with no stride padding
	g := imaging.Grayscale(img)
	mask := image.NewAlpha(g.Bounds())
	for i := range mask.Pix {
		v, a := uint16(g.Pix[i*4]), uint16(g.Pix[i*4+3])
		mask.Pix[i] = uint8(v * a / 255)
	}
	return mask, nil
}

// createOutput opens path for writing, or returns stdout for "-".
func createOutput(path string) (io.WriteCloser, string, error) {
	if path == "-" {
		return os.Stdout, "stdout", nil
	}
	file, err := os.OpenFile(path, outFileFlags, 0644)
	if err != nil {
		return nil, path, fmt.Errorf("'%s': %w", path, err)
	}
	return file, path, nil
}

// writePalette writes the palette to the output in the chosen format.
func writePalette(p *palette.Palette) error {
	file, path, err := createOutput(outPath)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer file.Close()
	}

	switch outFormat {
	case "gpl":
		err = palette.WriteGPL(file, p)
	case "hex":
		err = palette.WriteHex(file, p)
	case "json":
		err = palette.WriteJSON(file, p)
	case "png":
		err = imaging.Encode(file, palette.Swatch(p, swatchCell, 0), imaging.PNG)
	default:
		err = fmt.Errorf(unsupportedFormat, outFormat)
	}
	if err != nil {
		return fmt.Errorf("error writing palette to '%s': %w", path, err)
	}
	return nil
}

// writePreview dithers img with the palette and writes it to the preview
// path, as a PNG or GIF. If img is nil the first input image is loaded.
func writePreview(p *palette.Palette, img image.Image) error {
	if p.Len() < 2 {
		return fmt.Errorf("preview needs a palette with at least two colors, got %d", p.Len())
	}
	isGIF := strings.ToLower(filepath.Ext(previewPath)) == ".gif"
	if isGIF && p.Len() > 256 {
		return errors.New("the GIF format only supports 256 colors or less in the palette")
	}

	if img == nil {
		if len(inputImages) == 0 {
			return errors.New("preview needs an input image, set with --in")
		}
		if inputImages[0] == "-" {
			return errors.New("preview can't read stdin again, it was already used")
		}
		var err error
		img, err = getInputImage(inputImages[0])
		if err != nil {
			return fmt.Errorf("error loading '%s': %w", inputImages[0], err)
		}
	}

	// Dithering doesn't support transparent palette colors
	d := dither.NewDitherer(p.Opaque())
	d.Matrix = dither.FloydSteinberg

	file, path, err := createOutput(previewPath)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer file.Close()
	}

	if isGIF {
		// GIF encoder calls the ditherer
		// Adapted from:
		// https://github.com/makeworld-the-better-one/dither/blob/v2.0.0/examples/gif_image.go
		err = gif.Encode(
			file, img,
			&gif.Options{
				NumColors: p.Len(),
				Quantizer: newPaletteQuantizer(p),
				Drawer:    d,
			},
		)
	} else {
		err = imaging.Encode(file, d.Dither(img), imaging.PNG)
	}
	if err != nil {
		return fmt.Errorf("error writing preview to '%s': %w", path, err)
	}
	return nil
}
