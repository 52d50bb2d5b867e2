package palette

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
)

// DefaultMaxBuckets is the number of distinct quantized colors a Quantizer
// keeps track of unless told otherwise.
const DefaultMaxBuckets = 20000

const (
	// Occurrence counts saturate here
	countCeiling = math.MaxInt32 - 1

	// Deviation sums above this are divided by the bucket count
	deviationCeiling = math.MaxInt32 - 255
)

// bucket accumulates every pixel that quantized to the same key.
type bucket struct {
	key     uint32
	r, g, b uint8 // Quantized channels

	count int64

	// Sums of (actual - quantized) per channel
	rDev, gDev, bDev int64
}

func (bk *bucket) add(r, g, b uint8) {
	if bk.count < countCeiling {
		bk.count++
	}
	bk.rDev += int64(r) - int64(bk.r)
	bk.gDev += int64(g) - int64(bk.g)
	bk.bDev += int64(b) - int64(bk.b)

	// Lose precision rather than overflow
	if bk.rDev > deviationCeiling {
		bk.rDev /= bk.count
	}
	if bk.gDev > deviationCeiling {
		bk.gDev /= bk.count
	}
	if bk.bDev > deviationCeiling {
		bk.bDev /= bk.count
	}
}

// mean returns the quantized color adjusted by the average deviation.
func (bk *bucket) mean() color.NRGBA {
	adjust := func(q uint8, dev int64) uint8 {
		v := int64(q) + dev/bk.count
		if v > 255 {
			return 255
		}
		if v < 0 {
			return 0
		}
		return uint8(v)
	}
	return color.NRGBA{
		R: adjust(bk.r, bk.rDev),
		G: adjust(bk.g, bk.gDev),
		B: adjust(bk.b, bk.bDev),
		A: 255,
	}
}

func packKey(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Quantizer builds a frequency ranked palette from pixel data. Colors are
// merged into buckets by truncating each channel to a multiple of the
// threshold.
//
// A Quantizer can scan any number of images before Palette is called; all
// of them feed the same buckets. It is not safe for concurrent use.
type Quantizer struct {
	threshold  int
	maxBuckets int

	buckets map[uint32]*bucket

	pixels  int
	dropped int

	row []color.NRGBA
}

// NewQuantizer returns a Quantizer that merges channel values within
// threshold of each other. A maxBuckets of 0 or less means DefaultMaxBuckets.
func NewQuantizer(threshold, maxBuckets int) (*Quantizer, error) {
	if threshold < 1 {
		return nil, ErrInvalidThreshold
	}
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	return &Quantizer{
		threshold:  threshold,
		maxBuckets: maxBuckets,
		buckets:    make(map[uint32]*bucket),
	}, nil
}

// Len returns the number of distinct quantized colors seen so far.
func (q *Quantizer) Len() int {
	return len(q.buckets)
}

// Pixels returns the number of pixels that were counted into a bucket.
func (q *Quantizer) Pixels() int {
	return q.pixels
}

// Dropped returns the number of pixels that were ignored because their
// quantized color would have needed a new bucket after the cap was reached.
func (q *Quantizer) Dropped() int {
	return q.dropped
}

// Scan adds every non-transparent pixel of img to the buckets.
func (q *Quantizer) Scan(img image.Image) error {
	return q.ScanMasked(img, nil)
}

// ScanMasked is like Scan, but pixels where the mask has zero alpha are
// skipped. The mask uses the same coordinate space as img. A nil mask
// selects everything.
func (q *Quantizer) ScanMasked(img, mask image.Image) error {
	if img == nil {
		return ErrInvalidImage
	}

	b := img.Bounds()
	if cap(q.row) < b.Dx() {
		q.row = make([]color.NRGBA, b.Dx())
	}
	row := q.row[:b.Dx()]
	rr := newRowReader(img)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		rr.read(y, row)
		for i, c := range row {
			if c.A == 0 {
				continue
			}
			if mask != nil {
				if _, _, _, a := mask.At(b.Min.X+i, y).RGBA(); a == 0 {
					continue
				}
			}
			q.store(c)
		}
	}
	return nil
}

func (q *Quantizer) quantize(v uint8) uint8 {
	return uint8((int(v) / q.threshold) * q.threshold)
}

func (q *Quantizer) store(c color.NRGBA) {
	qr, qg, qb := q.quantize(c.R), q.quantize(c.G), q.quantize(c.B)
	key := packKey(qr, qg, qb)

	bk, ok := q.buckets[key]
	if !ok {
		if len(q.buckets) >= q.maxBuckets {
			// Don't add any more new ones
			q.dropped++
			return
		}
		bk = &bucket{key: key, r: qr, g: qg, b: qb}
		q.buckets[key] = bk
	}
	bk.add(c.R, c.G, c.B)
	q.pixels++
}

// rowReader reads one scanline at a time as non-premultiplied colors.
type rowReader struct {
	img image.Image

	// Converted color table for *image.Paletted
	table []color.NRGBA
}

func newRowReader(img image.Image) *rowReader {
	rr := &rowReader{img: img}
	if p, ok := img.(*image.Paletted); ok {
		rr.table = make([]color.NRGBA, len(p.Palette))
		for i, c := range p.Palette {
			rr.table[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
	}
	return rr
}

// read fills dst with row y. len(dst) must be the image width.
func (rr *rowReader) read(y int, dst []color.NRGBA) {
	b := rr.img.Bounds()

	switch src := rr.img.(type) {
	case *image.NRGBA:
		i := src.PixOffset(b.Min.X, y)
		for x := range dst {
			s := src.Pix[i : i+4 : i+4]
			dst[x] = color.NRGBA{s[0], s[1], s[2], s[3]}
			i += 4
		}
	case *image.Paletted:
		i := src.PixOffset(b.Min.X, y)
		for x := range dst {
			idx := int(src.Pix[i+x])
			if idx < len(rr.table) {
				dst[x] = rr.table[idx]
			} else {
				// Out of range, treat as transparent
				dst[x] = color.NRGBA{}
			}
		}
	default:
		for x := range dst {
			dst[x] = color.NRGBAModel.Convert(rr.img.At(b.Min.X+x, y)).(color.NRGBA)
		}
	}
}

// sorted returns the buckets by descending count. Equal counts are ordered
// by ascending key so the result doesn't depend on map iteration order.
func (q *Quantizer) sorted() []*bucket {
	list := make([]*bucket, 0, len(q.buckets))
	for _, bk := range q.buckets {
		list = append(list, bk)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].key < list[j].key
	})
	return list
}

// Palette returns at most n of the most frequent colors seen so far, most
// frequent first. Each color is the mean of the pixels in its bucket.
func (q *Quantizer) Palette(name string, n int) (*Palette, error) {
	if n < 2 {
		return nil, ErrInvalidCount
	}

	p := New(name)
	for _, bk := range q.sorted() {
		if p.Len() >= n {
			break
		}
		p.Add(fmt.Sprintf("Untitled (occurs %d)", bk.count), bk.mean())
	}
	return p, nil
}

// FromImage creates a palette of at most n colors from img, using the
// default bucket cap.
func FromImage(img image.Image, name string, n, threshold int) (*Palette, error) {
	if img == nil {
		return nil, ErrInvalidImage
	}
	if n < 2 {
		return nil, ErrInvalidCount
	}
	q, err := NewQuantizer(threshold, 0)
	if err != nil {
		return nil, err
	}
	if err := q.Scan(img); err != nil {
		return nil, err
	}
	return q.Palette(name, n)
}
