package boxstack

import (
	"cmp"
	"context"
	"slices"
)

// Box is a pixel-space rectangle of one layer: Len columns starting at X,
// Rows rows starting at Y.
type Box struct {
	X, Y  int
	Len   int
	Rows  int
	Layer int
	Color ColorKey
}

// Merger collapses a layer footprint into boxes covering exactly that
// footprint, with no two boxes overlapping.
type Merger interface {
	Merge(l Layer) []Box
}

// RowMerger joins horizontally contiguous pixels of the same row into runs.
// Runs on consecutive rows are never joined.
type RowMerger struct{}

func (RowMerger) Merge(l Layer) []Box {
	if len(l.Footprint) == 0 {
		return nil
	}
	px := slices.Clone(l.Footprint)
	slices.SortFunc(px, func(a, b Pixel) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})

	var out []Box
	cur := Box{X: px[0].X, Y: px[0].Y, Len: 1, Rows: 1, Layer: l.Index, Color: l.Color}
	prev := px[0]
	for _, p := range px[1:] {
		switch {
		case p == prev:
			continue
		case p.Y == cur.Y && p.X == prev.X+1:
			cur.Len++
		default:
			out = append(out, cur)
			cur = Box{X: p.X, Y: p.Y, Len: 1, Rows: 1, Layer: l.Index, Color: l.Color}
		}
		prev = p
	}
	return append(out, cur)
}

// StripMerger runs RowMerger and then stacks runs with identical X and Len on
// consecutive rows into taller boxes. It is greedy, not a minimal
// rectangle partition.
type StripMerger struct{}

func (StripMerger) Merge(l Layer) []Box {
	runs := RowMerger{}.Merge(l)
	if len(runs) == 0 {
		return nil
	}
	type span struct{ x, n int }
	open := map[span]int{}
	out := make([]Box, 0, len(runs))
	for _, r := range runs {
		key := span{r.X, r.Len}
		if i, ok := open[key]; ok && out[i].Y+out[i].Rows == r.Y {
			out[i].Rows++
			continue
		}
		open[key] = len(out)
		out = append(out, r)
	}
	return out
}

// ParseMerger maps "row" or "strip" to a Merger.
func ParseMerger(name string) (Merger, error) {
	switch name {
	case "", "row":
		return RowMerger{}, nil
	case "strip":
		return StripMerger{}, nil
	}
	return nil, &ConfigError{Field: "Merger", Value: name}
}

// MergeLayers merges every layer independently and concatenates the boxes
// in layer order. Layers with empty footprints contribute nothing.
func MergeLayers(ctx context.Context, layers []Layer, m Merger, workers int) ([]Box, error) {
	perLayer := make([][]Box, len(layers))
	forEach(len(layers), workers, func(i int) {
		if ctx.Err() != nil {
			return
		}
		perLayer[i] = m.Merge(layers[i])
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Box
	for i, boxes := range perLayer {
		if len(boxes) == 0 {
			Logger().Debug("boxstack: empty layer", "layer", i, "color", layers[i].Color)
		}
		out = append(out, boxes...)
	}
	return out, nil
}
