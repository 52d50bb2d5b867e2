package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/palgrab/internal/logger"
	"github.com/makeworld-the-better-one/palgrab/palette"
	"github.com/mccutchen/palettor"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const (
	unsupportedFormat string = "'%s' is an unsupported format, only 'gpl', 'hex', 'json', or 'png' are accepted"
)

var (
	log zerolog.Logger

	inputImages []string

	outPath      string
	outFormat    string // "gpl", "hex", "json", or "png"
	outFileFlags int    // For os.OpenFile

	// Set by the --name flag, may be empty
	paletteName string

	// numColors is the maximum palette size, always 2 or above
	numColors int
	columns   int

	grayscale bool

	// Range -100,100

	saturation float64
	brightness float64
	contrast   float64

	autoOrientation imaging.DecodeOption

	width  int
	height int

	previewPath string
)

// preProcess is automatically called by the app before anything else.
// It's run in the global context.
func preProcess(c *cli.Context) error {
	log = logger.New(os.Stderr, c.Bool("verbose"), c.Bool("quiet"))

	var err error

	saturation, err = parsePercentArg(c.String("saturation"), false)
	if err != nil {
		return fmt.Errorf("saturation: %w", err)
	}
	grayscale = c.Bool("grayscale")
	if saturation <= -100 {
		grayscale = true
		saturation = 0
	}
	brightness, err = parsePercentArg(c.String("brightness"), false)
	if err != nil {
		return fmt.Errorf("brightness: %w", err)
	}
	contrast, err = parsePercentArg(c.String("contrast"), false)
	if err != nil {
		return fmt.Errorf("contrast: %w", err)
	}

	autoOrientation = imaging.AutoOrientation(!c.Bool("no-exif-rotation"))

	inputImages = make([]string, 0)
	for _, path := range c.StringSlice("in") {
		if strings.Contains(path, "*") {
			// Parse as glob
			paths, err := filepath.Glob(path)
			if err != nil {
				return fmt.Errorf("bad glob pattern '%s': %w", path, err)
			}
			inputImages = append(inputImages, paths...)
		} else {
			inputImages = append(inputImages, path)
		}
	}

	numColors = c.Int("colors")
	if numColors < 2 {
		return errors.New("the palette must have at least two colors")
	}
	columns = int(c.Uint("columns"))
	paletteName = c.String("name")

	// Figure out output format

	formatVal := c.String("format")
	if !validFormat(formatVal) {
		return fmt.Errorf(unsupportedFormat, formatVal)
	}

	outPath = c.String("out")

	if outPath == "-" || c.IsSet("format") {
		// Writing to stdout, or the user has chosen, so just use the flag
		outFormat = formatVal
	} else {
		// Format wasn't set, so ignore default value of "gpl"
		// Try to figure out format from output filename
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(outPath), "."))
		switch {
		case ext == "":
			outFormat = "gpl"
		case ext == "txt":
			outFormat = "hex"
		case validFormat(ext):
			outFormat = ext
		default:
			return fmt.Errorf(unsupportedFormat, ext)
		}
	}

	if c.Bool("no-overwrite") {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	} else {
		outFileFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	// Set here for convenience
	width = int(c.Uint("width"))
	height = int(c.Uint("height"))

	previewPath = c.String("preview")
	if previewPath != "" {
		ext := strings.ToLower(filepath.Ext(previewPath))
		if ext != ".png" && ext != ".gif" {
			return fmt.Errorf("preview '%s' must be a .png or .gif file", previewPath)
		}
	}

	return nil
}

func validFormat(f string) bool {
	return f == "gpl" || f == "hex" || f == "json" || f == "png"
}

// defaultName returns the name the palette should have, which is the
// --name flag or the name of the first input file.
func defaultName(fallback string) string {
	if paletteName != "" {
		return paletteName
	}
	if len(inputImages) > 0 && inputImages[0] != "-" {
		base := filepath.Base(inputImages[0])
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return fallback
}

// finish applies global options to a finished palette and writes it out,
// along with the preview if one was requested. first is the already loaded
// first input image, used for the preview, and may be nil.
func finish(p *palette.Palette, first image.Image) error {
	if columns > 0 {
		p.Columns = columns
	}

	err := writePalette(p)
	if err != nil {
		return err
	}
	log.Info().Str("name", p.Name).Int("colors", p.Len()).Str("out", outPath).Msg("wrote palette")

	if previewPath == "" {
		return nil
	}
	err = writePreview(p, first)
	if err != nil {
		return err
	}
	log.Info().Str("preview", previewPath).Msg("wrote preview")
	return nil
}

func imageCmd(c *cli.Context) error {
	if len(inputImages) == 0 {
		return errors.New("image needs at least one input image, set with --in")
	}

	q, err := palette.NewQuantizer(c.Int("threshold"), c.Int("max-buckets"))
	if err != nil {
		return err
	}

	var mask image.Image
	if c.String("mask") != "" {
		mask, err = loadMask(c.String("mask"))
		if err != nil {
			return fmt.Errorf("error loading mask '%s': %w", c.String("mask"), err)
		}
	}

	var first image.Image
	for i, inputPath := range inputImages {
		img, err := getInputImage(inputPath)
		if err != nil {
			return fmt.Errorf("error loading '%s': %w", inputPath, err)
		}
		if i == 0 {
			first = img
		}
		if mask != nil && !mask.Bounds().Eq(img.Bounds()) {
			return fmt.Errorf(
				"mask '%s' isn't the same size as '%s'",
				c.String("mask"), inputPath,
			)
		}

		err = q.ScanMasked(img, mask)
		if err != nil {
			return fmt.Errorf("'%s': %w", inputPath, err)
		}
		log.Debug().Str("image", inputPath).Int("buckets", q.Len()).Int("pixels", q.Pixels()).Msg("scanned")
	}

	if q.Dropped() > 0 {
		log.Warn().Int("dropped", q.Dropped()).Int("buckets", q.Len()).
			Msg("too many distinct colors, some pixels were ignored")
	}

	p, err := q.Palette(defaultName("Untitled"), numColors)
	if err != nil {
		return err
	}
	return finish(p, first)
}

func kmeans(c *cli.Context) error {
	if len(inputImages) == 0 {
		return errors.New("kmeans needs an input image, set with --in")
	}
	if len(inputImages) > 1 {
		log.Warn().Str("image", inputImages[0]).Msg("kmeans only uses the first input image")
	}

	img, err := getInputImage(inputImages[0])
	if err != nil {
		return fmt.Errorf("error loading image for palette extraction '%s': %w", inputImages[0], err)
	}

	// Resize: keep palettor.Extract fast. See the palettor CLI source:
	// https://github.com/mccutchen/palettor/blob/3eaed180/cmd/palettor/palettor.go#L57
	thumbnail := imaging.Resize(img, 200, 200, imaging.NearestNeighbor)

	colors, weight := distinctColors(thumbnail, numColors)
	if colors != nil {
		// Clustering can't do better than the exact colors
		log.Debug().Int("colors", len(colors)).Msg("few distinct colors, skipping k-means")
	} else {
		extracted, err := palettor.Extract(numColors, c.Int("iterations"), thumbnail)
		if err != nil {
			return fmt.Errorf("error extracting image palette: %w", err)
		}
		colors, weight = extracted.Colors(), extracted.Weight
		log.Debug().Int("clusters", len(colors)).Msg("k-means finished")
	}

	p := palette.New(defaultName("Untitled"))
	for _, wc := range byWeight(colors, weight) {
		p.Add(fmt.Sprintf("Untitled (weight %.1f%%)", wc.weight*100), wc.c)
	}
	return finish(p, img)
}

// distinctColors returns the exact colors of img and a weight function for
// them, or nil if img has more than limit colors.
func distinctColors(img *image.NRGBA, limit int) ([]color.Color, func(color.Color) float64) {
	counts := make(map[color.NRGBA]int)
	total := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if _, ok := counts[c]; !ok && len(counts) == limit {
				return nil, nil
			}
			counts[c]++
			total++
		}
	}

	colors := make([]color.Color, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	weight := func(c color.Color) float64 {
		return float64(counts[color.NRGBAModel.Convert(c).(color.NRGBA)]) / float64(total)
	}
	return colors, weight
}

type weightedColor struct {
	c      color.NRGBA
	weight float64
}

// byWeight orders colors by descending weight, breaking ties by hex value.
func byWeight(colors []color.Color, weight func(color.Color) float64) []weightedColor {
	wcs := make([]weightedColor, len(colors))
	for i, c := range colors {
		wcs[i] = weightedColor{
			c:      color.NRGBAModel.Convert(c).(color.NRGBA),
			weight: weight(c),
		}
	}
	sort.Slice(wcs, func(i, j int) bool {
		if wcs[i].weight != wcs[j].weight {
			return wcs[i].weight > wcs[j].weight
		}
		a, b := wcs[i].c, wcs[j].c
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})
	return wcs
}

func gradient(c *cli.Context) error {
	args := parseArgs(c.Args().Slice(), " ")
	if len(args) < 2 {
		return errors.New("gradient needs at least two colors. Example: black red@25% white")
	}

	stops, err := parseStops(args)
	if err != nil {
		return err
	}

	p, err := palette.FromGradient(stops, defaultName("Gradient"), numColors, c.Bool("reverse"))
	if err != nil {
		return err
	}
	return finish(p, nil)
}

func indexed(c *cli.Context) error {
	if len(inputImages) != 1 {
		return errors.New("indexed needs exactly one input image, set with --in")
	}
	path := inputImages[0]

	// No modifications are applied, they would turn the image into RGB
	var img image.Image
	var err error
	if path == "-" {
		img, err = imaging.Decode(os.Stdin)
	} else {
		img, err = imaging.Open(path)
	}
	if err != nil {
		return fmt.Errorf("error loading '%s': %w", path, err)
	}

	p, err := palette.FromIndexed(img, defaultName("Untitled"))
	if err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}
	return finish(p, img)
}
