package boxstack

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// Canvas is the working buffer threaded through the pipeline.
// It is owned by a single StackBuilder run. AverageBlocks and MapToPalette
// overwrite it in place; every later stage only reads it.
type Canvas struct {
	W, H int
	Pix  []uint8 // Interleaved non-premultiplied RGBA, len = W*H*4
}

// ColorKey identifies a colour exactly as 0xRRGGBB.
type ColorKey uint32

// Pixel is an image-space coordinate.
type Pixel struct {
	X, Y int
}

func KeyOf(r, g, b uint8) ColorKey {
	return ColorKey(r)<<16 | ColorKey(g)<<8 | ColorKey(b)
}

func (k ColorKey) RGB() (r, g, b uint8) {
	return uint8(k >> 16), uint8(k >> 8), uint8(k)
}

// Colorful converts the key to a go-colorful colour in [0,1].
func (k ColorKey) Colorful() colorful.Color {
	r, g, b := k.RGB()
	return colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
}

// Hex returns the key as "#rrggbb".
func (k ColorKey) Hex() string {
	return k.Colorful().Hex()
}

func (k ColorKey) String() string { return k.Hex() }

// KeyFromColor rounds c to 8 bits per channel.
func KeyFromColor(c colorful.Color) ColorKey {
	r, g, b := c.Clamped().RGB255()
	return KeyOf(r, g, b)
}

// ParseKey parses "#rrggbb" (or "#rgb").
func ParseKey(s string) (ColorKey, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, err
	}
	return KeyFromColor(c), nil
}

// NewCanvas copies img into a fresh buffer. The bounds origin is moved to (0,0).
func NewCanvas(img image.Image) *Canvas {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	c := &Canvas{W: w, H: h, Pix: make([]uint8, w*h*4)}
	if src, ok := img.(*image.NRGBA); ok {
		for y := range h {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(c.Pix[y*w*4:(y+1)*w*4], row[:w*4])
		}
		return c
	}
	for y := range h {
		for x := range w {
			n := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := c.offset(x, y)
			c.Pix[off] = n.R
			c.Pix[off+1] = n.G
			c.Pix[off+2] = n.B
			c.Pix[off+3] = n.A
		}
	}
	return c
}

func (c *Canvas) offset(x, y int) int {
	return (y*c.W + x) * 4
}

// At returns the RGBA bytes at (x, y).
func (c *Canvas) At(x, y int) (r, g, b, a uint8) {
	off := c.offset(x, y)
	return c.Pix[off], c.Pix[off+1], c.Pix[off+2], c.Pix[off+3]
}

// Set overwrites the RGB bytes at (x, y), leaving alpha untouched.
func (c *Canvas) Set(x, y int, r, g, b uint8) {
	off := c.offset(x, y)
	c.Pix[off] = r
	c.Pix[off+1] = g
	c.Pix[off+2] = b
}

// Opaque reports whether the pixel takes part in processing (alpha != 0).
func (c *Canvas) Opaque(x, y int) bool {
	return c.Pix[c.offset(x, y)+3] != 0
}

func (c *Canvas) Clone() *Canvas {
	pix := make([]uint8, len(c.Pix))
	copy(pix, c.Pix)
	return &Canvas{W: c.W, H: c.H, Pix: pix}
}

// Image exposes the buffer as an *image.NRGBA sharing no memory with c.
func (c *Canvas) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.W, c.H))
	copy(img.Pix, c.Pix)
	return img
}

// Samples is the quantizer input: one RGB row per sampled pixel,
// channels in [0,255].
type Samples struct {
	m *mat.Dense
}

// Samples collects every non-transparent pixel of the canvas in raster order.
// When maxSamples > 0 and the canvas holds more pixels, a regular grid stride
// is applied first.
func (c *Canvas) Samples(maxSamples int) Samples {
	step := 1
	if maxSamples > 0 && c.W*c.H > maxSamples {
		step = int(math.Sqrt(float64(c.W*c.H)/float64(maxSamples))) + 1
	}
	data := make([]float64, 0, 3*((c.W+step-1)/step)*((c.H+step-1)/step))
	for y := 0; y < c.H; y += step {
		for x := 0; x < c.W; x += step {
			r, g, b, a := c.At(x, y)
			if a == 0 {
				continue
			}
			data = append(data, float64(r), float64(g), float64(b))
		}
	}
	return NewSamples(data)
}

// NewSamples wraps interleaved RGB triples. len(rgb) must be a multiple of 3.
func NewSamples(rgb []float64) Samples {
	if len(rgb) < 3 {
		return Samples{}
	}
	return Samples{m: mat.NewDense(len(rgb)/3, 3, rgb[:len(rgb)/3*3])}
}

func (s Samples) Len() int {
	if s.m == nil {
		return 0
	}
	r, _ := s.m.Dims()
	return r
}

// Row returns sample i as a 3-element slice backed by the sample matrix.
func (s Samples) Row(i int) []float64 {
	return s.m.RawRowView(i)
}
