package boxstack

import (
	"image"
	"image/color"
	"math/rand/v2"
)

var (
	red   = color.NRGBA{R: 220, G: 20, B: 30, A: 255}
	green = color.NRGBA{R: 10, G: 200, B: 40, A: 255}
	blue  = color.NRGBA{R: 20, G: 30, B: 210, A: 255}
	none  = color.NRGBA{}
)

func keyOf(c color.NRGBA) ColorKey { return KeyOf(c.R, c.G, c.B) }

// imageFromRows builds an NRGBA image, rows[y][x].
func imageFromRows(rows [][]color.NRGBA) *image.NRGBA {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y, row := range rows {
		for x, c := range row {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// noiseImage fills a w×h image with seeded pseudo-random opaque colours.
func noiseImage(w, h int, seed uint64) *image.NRGBA {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.IntN(256))
		img.Pix[i+1] = uint8(rng.IntN(256))
		img.Pix[i+2] = uint8(rng.IntN(256))
		img.Pix[i+3] = 255
	}
	return img
}

// gradientImage has smooth horizontal and vertical ramps, with a
// transparent hole in the middle.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			a := uint8(255)
			if x > w/3 && x < w/2 && y > h/3 && y < h/2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(1, w-1)),
				G: uint8(y * 255 / max(1, h-1)),
				B: uint8((x + y) * 127 / max(1, w+h-2)),
				A: a,
			})
		}
	}
	return img
}

func distinctOpaque(c *Canvas) map[ColorKey]bool {
	set := map[ColorKey]bool{}
	for y := range c.H {
		for x := range c.W {
			r, g, b, a := c.At(x, y)
			if a != 0 {
				set[KeyOf(r, g, b)] = true
			}
		}
	}
	return set
}

// coverage expands boxes of one layer into pixels, counting repeats.
func coverage(boxes []Box) map[Pixel]int {
	out := map[Pixel]int{}
	for _, b := range boxes {
		for dy := range max(1, b.Rows) {
			for dx := range b.Len {
				out[Pixel{X: b.X + dx, Y: b.Y + dy}]++
			}
		}
	}
	return out
}
