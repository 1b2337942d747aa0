package boxstack

import "gonum.org/v1/gonum/spatial/r3"

// Placement maps pixel-space boxes into world space. The stack is centred on
// the image midpoint in X/Y; image row 0 is the top (largest Y).
type Placement struct {
	// World units per image pixel.
	PixelSize float64
	// World height of one layer.
	LayerHeight float64
	// Image size in pixels.
	Width, Height int
}

// PlacedBox is a box positioned in world space. Position is the centre.
type PlacedBox struct {
	Position r3.Vec
	Size     r3.Vec
	Color    ColorKey
	Layer    int
}

func (p Placement) Place(b Box) PlacedBox {
	ps := p.PixelSize
	rows := max(1, b.Rows)
	run := float64(b.Len) * ps
	return PlacedBox{
		Position: r3.Vec{
			X: float64(b.X)*ps + run/2 - float64(p.Width)*ps/2,
			Y: float64(p.Height)*ps/2 - float64(b.Y)*ps - float64(rows-1)*ps/2,
			Z: float64(b.Layer) * p.LayerHeight,
		},
		Size:  r3.Vec{X: run, Y: float64(rows) * ps, Z: p.LayerHeight},
		Color: b.Color,
		Layer: b.Layer,
	}
}

// PlaceAll positions boxes in order.
func (p Placement) PlaceAll(boxes []Box) []PlacedBox {
	out := make([]PlacedBox, len(boxes))
	for i, b := range boxes {
		out[i] = p.Place(b)
	}
	return out
}

// Bounds returns the box's axis-aligned extent.
func (b PlacedBox) Bounds() r3.Box {
	half := r3.Scale(0.5, b.Size)
	return r3.Box{Min: r3.Sub(b.Position, half), Max: r3.Add(b.Position, half)}
}
