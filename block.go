package boxstack

import "math"

// BlockSide converts a physical block size (nozzle width) into a block side
// length in pixels. The result is never below 1.
func BlockSide(blockSize, pixelsPerUnit float64) int {
	return max(1, int(math.Round(blockSize*pixelsPerUnit)))
}

// AverageBlocks overwrites every side×side block with the mean RGB of its
// non-transparent pixels. Blocks on the right and bottom edges are clipped to
// the image. Alpha is untouched and transparent pixels keep their colour.
// side <= 1 leaves the canvas unchanged.
func (c *Canvas) AverageBlocks(side, workers int) {
	if side <= 1 {
		return
	}
	bw, bh := c.blocks(side)
	forEach(bh, workers, func(by int) {
		for bx := range bw {
			x0, y0, x1, y1 := c.blockRect(bx, by, side)
			var sr, sg, sb, n int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					r, g, b, a := c.At(x, y)
					if a == 0 {
						continue
					}
					sr += int(r)
					sg += int(g)
					sb += int(b)
					n++
				}
			}
			if n == 0 {
				continue
			}
			r := uint8((sr + n/2) / n)
			g := uint8((sg + n/2) / n)
			b := uint8((sb + n/2) / n)
			c.fillBlock(x0, y0, x1, y1, r, g, b)
		}
	})
}

// MapToPalette replaces each block's colour with its nearest palette entry
// (squared RGB distance, ties to the lowest index). With side <= 1 every
// pixel is mapped on its own. Afterwards the canvas holds at most len(p)
// distinct opaque colours.
func (c *Canvas) MapToPalette(side int, p Palette, workers int) {
	if len(p) == 0 {
		return
	}
	side = max(1, side)
	cents := p.rgb255()
	keys := p.Keys()
	bw, bh := c.blocks(side)
	forEach(bh, workers, func(by int) {
		px := make([]float64, 3)
		for bx := range bw {
			x0, y0, x1, y1 := c.blockRect(bx, by, side)
			// Per pixel, memoising the last lookup; averaged blocks are uniform.
			last := ColorKey(1 << 24)
			var mr, mg, mb uint8
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					r, g, b, a := c.At(x, y)
					if a == 0 {
						continue
					}
					k := KeyOf(r, g, b)
					if k != last {
						px[0], px[1], px[2] = float64(r), float64(g), float64(b)
						ci, _ := nearest(px, cents)
						last = k
						mr, mg, mb = keys[ci].RGB()
					}
					c.Set(x, y, mr, mg, mb)
				}
			}
		}
	})
}

func (c *Canvas) blocks(side int) (bw, bh int) {
	return (c.W + side - 1) / side, (c.H + side - 1) / side
}

func (c *Canvas) blockRect(bx, by, side int) (x0, y0, x1, y1 int) {
	x0, y0 = bx*side, by*side
	return x0, y0, min(x0+side, c.W), min(y0+side, c.H)
}

func (c *Canvas) fillBlock(x0, y0, x1, y1 int, r, g, b uint8) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if c.Opaque(x, y) {
				c.Set(x, y, r, g, b)
			}
		}
	}
}
