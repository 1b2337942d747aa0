package boxstack

import (
	"context"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// Palette holds the K centroids produced by a Quantizer.
type Palette []colorful.Color

// Keys returns the 8-bit key of every centroid, in palette order.
func (p Palette) Keys() []ColorKey {
	out := make([]ColorKey, len(p))
	for i, c := range p {
		out[i] = KeyFromColor(c)
	}
	return out
}

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, k := range p.Keys() {
		out[i] = k.Hex()
	}
	return out
}

// Quantizer reduces a sample set to exactly k colours.
type Quantizer interface {
	Quantize(ctx context.Context, s Samples, k int) (Palette, error)
}

const (
	defaultMaxIter = 64
	defaultEpsilon = 1e-6
)

// LloydQuantizer is iterative relocation (k-means) clustering in RGB space.
//
// Seeding is deterministic farthest-point: centroid 0 is the first sample and
// each following centroid is the sample farthest from its nearest chosen
// centroid, ties to the lowest sample index. A centroid left without samples
// is moved to the sample farthest from its own centroid; if every sample
// already sits on a centroid it keeps its previous value.
type LloydQuantizer struct {
	// Iteration cap. Zero means 64.
	MaxIter int
	// Convergence threshold on squared centroid movement. Zero means 1e-6.
	Epsilon float64
}

// LloydStats describes one clustering run.
type LloydStats struct {
	Iterations int
	// Reseeds counts empty-cluster relocations.
	Reseeds int
}

func (q LloydQuantizer) Quantize(ctx context.Context, s Samples, k int) (Palette, error) {
	p, _, err := q.Run(ctx, s, k)
	return p, err
}

// Run clusters s into k centroids and reports iteration statistics.
func (q LloydQuantizer) Run(ctx context.Context, s Samples, k int) (Palette, LloydStats, error) {
	var st LloydStats
	if k <= 0 {
		return nil, st, &ConfigError{Field: "Colors", Value: k}
	}
	maxIter := q.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	eps := q.Epsilon
	if eps <= 0 {
		eps = defaultEpsilon
	}

	n := s.Len()
	centroids := make([][]float64, k)
	if n == 0 {
		for i := range centroids {
			centroids[i] = make([]float64, 3)
		}
		return toPalette(centroids), st, nil
	}
	seedFarthest(s, centroids)

	assign := make([]int, n)
	sums := make([][]float64, k)
	for i := range sums {
		sums[i] = make([]float64, 3)
	}
	counts := make([]int, k)

	for iter := range maxIter {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		st.Iterations = iter + 1

		for i := range k {
			clear(sums[i])
			counts[i] = 0
		}
		for i := range n {
			row := s.Row(i)
			ci, _ := nearest(row, centroids)
			assign[i] = ci
			floats.Add(sums[ci], row)
			counts[ci]++
		}

		moved := false
		used := map[int]bool{}
		for ci := range k {
			var next []float64
			if counts[ci] == 0 {
				idx := farthestAssigned(s, centroids, assign, used)
				if idx < 0 {
					continue
				}
				used[idx] = true
				next = append([]float64(nil), s.Row(idx)...)
				st.Reseeds++
			} else {
				next = make([]float64, 3)
				floats.ScaleTo(next, 1/float64(counts[ci]), sums[ci])
			}
			if sqDist(next, centroids[ci]) > eps {
				moved = true
			}
			centroids[ci] = next
		}
		if !moved {
			break
		}
	}
	Logger().Debug("boxstack: quantized",
		"samples", n, "k", k, "iterations", st.Iterations, "reseeds", st.Reseeds)
	return toPalette(centroids), st, nil
}

// seedFarthest fills centroids with farthest-point seeds taken from s.
func seedFarthest(s Samples, centroids [][]float64) {
	n := s.Len()
	centroids[0] = append([]float64(nil), s.Row(0)...)
	best := make([]float64, n)
	for i := range n {
		best[i] = sqDist(s.Row(i), centroids[0])
	}
	for ci := 1; ci < len(centroids); ci++ {
		far := 0
		for i := 1; i < n; i++ {
			if best[i] > best[far] {
				far = i
			}
		}
		centroids[ci] = append([]float64(nil), s.Row(far)...)
		for i := range n {
			best[i] = min(best[i], sqDist(s.Row(i), centroids[ci]))
		}
	}
}

// farthestAssigned returns the sample with the largest distance to its
// assigned centroid, skipping samples in used. It returns -1 when that
// distance is zero.
func farthestAssigned(s Samples, centroids [][]float64, assign []int, used map[int]bool) int {
	far, farD := -1, 0.0
	for i := range s.Len() {
		if used[i] {
			continue
		}
		d := sqDist(s.Row(i), centroids[assign[i]])
		if d > farD {
			far, farD = i, d
		}
	}
	return far
}

// nearest returns the index of the centroid with minimum squared RGB
// distance to c, ties to the lowest index.
func nearest(c []float64, centroids [][]float64) (int, float64) {
	best, bestD := 0, math.MaxFloat64
	for i, cc := range centroids {
		if d := sqDist(c, cc); d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}

func sqDist(a, b []float64) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

func toPalette(centroids [][]float64) Palette {
	p := make(Palette, len(centroids))
	for i, c := range centroids {
		p[i] = colorful.Color{R: c[0] / 255.0, G: c[1] / 255.0, B: c[2] / 255.0}
	}
	return p
}

// rgb255 converts palette entries back to [0,255] rows for distance checks.
func (p Palette) rgb255() [][]float64 {
	out := make([][]float64, len(p))
	for i, c := range p {
		out[i] = []float64{c.R * 255.0, c.G * 255.0, c.B * 255.0}
	}
	return out
}

// padPalette repeats the last colour until p has k entries.
func padPalette(p Palette, k int) Palette {
	if len(p) == 0 {
		p = Palette{colorful.Color{}}
	}
	for len(p) < k {
		p = append(p, p[len(p)-1])
	}
	return p[:k]
}
