package boxstack

import (
	"context"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// KMeansQuantizer clusters with github.com/muesli/kmeans. Seeding is random,
// so repeated runs agree only up to the learned palette.
// Clusters are returned most populated first.
type KMeansQuantizer struct{}

func (KMeansQuantizer) Quantize(ctx context.Context, s Samples, k int) (Palette, error) {
	if k <= 0 {
		return nil, &ConfigError{Field: "Colors", Value: k}
	}
	n := s.Len()
	if n == 0 {
		return padPalette(nil, k), nil
	}
	dataset := make(clusters.Observations, 0, n)
	for i := range n {
		row := s.Row(i)
		dataset = append(dataset, clusters.Coordinates{row[0] / 255.0, row[1] / 255.0, row[2] / 255.0})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, min(k, n))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})
	p := make(Palette, 0, k)
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		p = append(p, colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped())
	}
	return padPalette(p, k), nil
}

// DominantQuantizer picks k diverse colours from dominantcolor candidates,
// seeded with the heaviest candidate.
type DominantQuantizer struct{}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

func (DominantQuantizer) Quantize(ctx context.Context, s Samples, k int) (Palette, error) {
	if k <= 0 {
		return nil, &ConfigError{Field: "Colors", Value: k}
	}
	if s.Len() == 0 {
		return padPalette(nil, k), nil
	}
	candidates := dominantcolor.FindWeight(s.tile(), max(24, k*8))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: w})
	}
	return padPalette(selectDiverse(weighted, k), k), nil
}

// FallbackQuantizer tries Primary and switches to Secondary when it fails.
type FallbackQuantizer struct {
	Primary, Secondary Quantizer
}

func (f FallbackQuantizer) Quantize(ctx context.Context, s Samples, k int) (Palette, error) {
	p, err := f.Primary.Quantize(ctx, s, k)
	if err == nil && len(p) != 0 {
		return p, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	Logger().Warn("boxstack: quantizer failed, falling back", "err", err)
	return f.Secondary.Quantize(ctx, s, k)
}

// tile lays the samples out on a near-square opaque image, repeating
// samples to fill the last row.
func (s Samples) tile() image.Image {
	n := s.Len()
	side := int(math.Ceil(math.Sqrt(float64(n))))
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := range side * side {
		row := s.Row(i % n)
		off := i * 4
		img.Pix[off] = uint8(row[0])
		img.Pix[off+1] = uint8(row[1])
		img.Pix[off+2] = uint8(row[2])
		img.Pix[off+3] = 255
	}
	return img
}

// selectDiverse greedily picks k candidates maximising Lab distance to the
// already selected set, scaled by candidate weight.
func selectDiverse(cands []weightedColor, k int) Palette {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		col := c.Col.Clamped()
		l, a, b := col.Lab()
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		maxW = max(maxW, w)
		items = append(items, item{col: col, lab: [3]float64{l, a, b}, w: w})
	}
	k = min(k, len(items))

	selectedIdx := make([]int, 0, k)
	selected := make([]bool, len(items))

	bestSeed := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[bestSeed].w {
			bestSeed = i
		}
	}
	selectedIdx = append(selectedIdx, bestSeed)
	selected[bestSeed] = true

	for len(selectedIdx) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range selectedIdx {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		selectedIdx = append(selectedIdx, bestIdx)
	}

	out := make(Palette, 0, len(selectedIdx))
	for _, idx := range selectedIdx {
		out = append(out, items[idx].col)
	}
	return out
}
