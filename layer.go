package boxstack

// Layer is one colour slab of the stack. Index 0 is the base plate.
type Layer struct {
	Index int
	Color ColorKey
	// Footprint in raster order.
	Footprint []Pixel
}

// BuildLayers turns ordered colour groups into a cumulative stack.
//
// Layer 0 covers the full image rectangle in order[0]'s colour. Layer i >= 1
// covers the union of the pixels of order[i:] in order[i]'s colour, so every
// footprint above the base contains the one above it.
func BuildLayers(g *PixelGroups, order []ColorKey) []Layer {
	if len(order) == 0 {
		return nil
	}
	layers := make([]Layer, len(order))
	base := make([]Pixel, 0, g.W*g.H)
	for y := range g.H {
		for x := range g.W {
			base = append(base, Pixel{X: x, Y: y})
		}
	}
	layers[0] = Layer{Index: 0, Color: order[0], Footprint: base}

	mask := make([]bool, g.W*g.H)
	count := 0
	for i := len(order) - 1; i >= 1; i-- {
		for _, p := range g.Pixels[order[i]] {
			if !mask[p.Y*g.W+p.X] {
				mask[p.Y*g.W+p.X] = true
				count++
			}
		}
		fp := make([]Pixel, 0, count)
		for idx, on := range mask {
			if on {
				fp = append(fp, Pixel{X: idx % g.W, Y: idx / g.W})
			}
		}
		layers[i] = Layer{Index: i, Color: order[i], Footprint: fp}
	}
	return layers
}
