package boxstack

import (
	"image"
	"image/color"
)

// Stack is the pipeline result: layers bottom to top and their placed boxes,
// base plate boxes first.
type Stack struct {
	Width, Height int
	Palette       Palette
	Order         []ColorKey
	Layers        []Layer
	Boxes         []PlacedBox
	Placement     Placement
	Stats         Stats

	canvas *Canvas
}

// LayerSummary describes one layer of a Stack.
type LayerSummary struct {
	Index  int
	Color  ColorKey
	Pixels int
	Boxes  int
	// Bottom and top of the layer in world units.
	ZMin, ZMax float64
}

// Summary lists every layer with its pixel and box counts.
func (s *Stack) Summary() []LayerSummary {
	out := make([]LayerSummary, len(s.Layers))
	for i, l := range s.Layers {
		z := float64(l.Index) * s.Placement.LayerHeight
		out[i] = LayerSummary{
			Index:  l.Index,
			Color:  l.Color,
			Pixels: len(l.Footprint),
			ZMin:   z - s.Placement.LayerHeight/2,
			ZMax:   z + s.Placement.LayerHeight/2,
		}
	}
	for _, b := range s.Boxes {
		if b.Layer >= 0 && b.Layer < len(out) {
			out[b.Layer].Boxes++
		}
	}
	return out
}

// BoxesByLayer groups placed boxes by layer index.
func (s *Stack) BoxesByLayer() [][]PlacedBox {
	out := make([][]PlacedBox, len(s.Layers))
	for _, b := range s.Boxes {
		if b.Layer >= 0 && b.Layer < len(out) {
			out[b.Layer] = append(out[b.Layer], b)
		}
	}
	return out
}

// Preview returns the quantized image the layers were built from.
func (s *Stack) Preview() *image.NRGBA {
	if s.canvas == nil {
		return image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	}
	return s.canvas.Image()
}

// LayerMasks renders one image per layer: footprint pixels in the layer
// colour, everything else transparent.
func (s *Stack) LayerMasks() []*image.NRGBA {
	if len(s.Layers) == 0 || s.Width == 0 || s.Height == 0 {
		return nil
	}
	out := make([]*image.NRGBA, len(s.Layers))
	for i, l := range s.Layers {
		layer := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
		r, g, b := l.Color.RGB()
		c := color.NRGBA{R: r, G: g, B: b, A: 255}
		for _, p := range l.Footprint {
			layer.SetNRGBA(p.X, p.Y, c)
		}
		out[i] = layer
	}
	return out
}

// Reconstruct composites the layer masks bottom to top, i.e. the colour seen
// from above when every layer is opaque.
func (s *Stack) Reconstruct() *image.NRGBA {
	recon := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for _, l := range s.Layers {
		r, g, b := l.Color.RGB()
		c := color.NRGBA{R: r, G: g, B: b, A: 255}
		for _, p := range l.Footprint {
			recon.SetNRGBA(p.X, p.Y, c)
		}
	}
	return recon
}
