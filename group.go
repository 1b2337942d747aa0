package boxstack

// PixelGroups partitions the opaque pixels of a canvas by exact colour.
type PixelGroups struct {
	W, H int
	// Pixels of each colour in raster order.
	Pixels map[ColorKey][]Pixel
	// Colours in first-discovery order.
	Order []ColorKey
}

// GroupPixels scans c row-major (y outer, x inner), skipping transparent
// pixels. A colour's first visit fixes its position in Order.
func GroupPixels(c *Canvas) *PixelGroups {
	g := &PixelGroups{W: c.W, H: c.H, Pixels: map[ColorKey][]Pixel{}}
	for y := range c.H {
		for x := range c.W {
			r, gr, b, a := c.At(x, y)
			if a == 0 {
				continue
			}
			k := KeyOf(r, gr, b)
			px, ok := g.Pixels[k]
			if !ok {
				g.Order = append(g.Order, k)
			}
			g.Pixels[k] = append(px, Pixel{X: x, Y: y})
		}
	}
	return g
}

// Count returns the number of pixels with colour k.
func (g *PixelGroups) Count(k ColorKey) int {
	return len(g.Pixels[k])
}

// Total returns the number of grouped (opaque) pixels.
func (g *PixelGroups) Total() int {
	n := 0
	for _, px := range g.Pixels {
		n += len(px)
	}
	return n
}
