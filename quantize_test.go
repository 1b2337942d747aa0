package boxstack

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func samplesOf(rgb ...[3]float64) Samples {
	data := make([]float64, 0, len(rgb)*3)
	for _, c := range rgb {
		data = append(data, c[0], c[1], c[2])
	}
	return NewSamples(data)
}

func TestLloydTwoColorsConvergeExactly(t *testing.T) {
	a := [3]float64{200, 40, 10}
	b := [3]float64{15, 90, 250}
	tests := []struct {
		name    string
		samples Samples
	}{
		{"a-first", samplesOf(a, b, a, b, a, b)},
		{"b-first", samplesOf(b, b, b, a, a, a)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LloydQuantizer{}.Quantize(context.Background(), tt.samples, 2)
			if err != nil {
				t.Fatalf("Quantize: %v", err)
			}
			got := p.Keys()
			slices.Sort(got)
			want := []ColorKey{KeyOf(200, 40, 10), KeyOf(15, 90, 250)}
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Errorf("centroids = %v, want %v", got, want)
			}
		})
	}
}

func TestLloydDeterministic(t *testing.T) {
	s := NewCanvas(noiseImage(32, 24, 7)).Samples(0)
	q := LloydQuantizer{}
	p1, st1, err := q.Run(context.Background(), s, 6)
	if err != nil {
		t.Fatal(err)
	}
	p2, st2, err := q.Run(context.Background(), s, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(p1, p2) {
		t.Errorf("palettes differ:\n%v\n%v", p1.Hex(), p2.Hex())
	}
	if st1 != st2 {
		t.Errorf("stats differ: %+v vs %+v", st1, st2)
	}
	if st1.Iterations < 1 || st1.Iterations > defaultMaxIter {
		t.Errorf("iterations = %d", st1.Iterations)
	}
}

func TestLloydMoreClustersThanColors(t *testing.T) {
	c := [3]float64{12, 34, 56}
	p, err := LloydQuantizer{}.Quantize(context.Background(), samplesOf(c, c, c), 4)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(p) != 4 {
		t.Fatalf("len = %d, want 4", len(p))
	}
	for i, k := range p.Keys() {
		if k != KeyOf(12, 34, 56) {
			t.Errorf("centroid %d = %v, want #0c2238", i, k)
		}
	}
}

func TestLloydEmptySamples(t *testing.T) {
	p, err := LloydQuantizer{}.Quantize(context.Background(), Samples{}, 3)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(p) != 3 {
		t.Errorf("len = %d, want 3", len(p))
	}
}

func TestLloydInvalidK(t *testing.T) {
	_, err := LloydQuantizer{}.Quantize(context.Background(), samplesOf([3]float64{1, 2, 3}), 0)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLloydCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LloydQuantizer{}.Quantize(ctx, samplesOf([3]float64{1, 2, 3}, [3]float64{9, 9, 9}), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNearestTiesLowestIndex(t *testing.T) {
	cents := [][]float64{{0, 0, 0}, {2, 2, 2}, {0, 0, 0}}
	if got, _ := nearest([]float64{1, 1, 1}, cents); got != 0 {
		t.Errorf("nearest = %d, want 0", got)
	}
	if got, _ := nearest([]float64{2, 2, 1}, cents); got != 1 {
		t.Errorf("nearest = %d, want 1", got)
	}
}

func TestFarthestAssigned(t *testing.T) {
	s := samplesOf([3]float64{0, 0, 0}, [3]float64{3, 0, 0}, [3]float64{10, 0, 0})
	cents := [][]float64{{0, 0, 0}, {10, 0, 0}}
	assign := []int{0, 0, 1}
	if got := farthestAssigned(s, cents, assign, map[int]bool{}); got != 1 {
		t.Errorf("farthest = %d, want 1", got)
	}
	if got := farthestAssigned(s, cents, assign, map[int]bool{1: true}); got != -1 {
		t.Errorf("farthest with all remaining on centroids = %d, want -1", got)
	}
}

func TestSeedFarthest(t *testing.T) {
	s := samplesOf([3]float64{0, 0, 0}, [3]float64{5, 0, 0}, [3]float64{100, 0, 0}, [3]float64{50, 0, 0})
	cents := make([][]float64, 3)
	seedFarthest(s, cents)
	want := []float64{0, 100, 50}
	for i, c := range cents {
		if c[0] != want[i] {
			t.Errorf("seed %d = %v, want R=%v", i, c, want[i])
		}
	}
}

func TestAlternativeQuantizersReturnK(t *testing.T) {
	s := NewCanvas(gradientImage(24, 16)).Samples(0)
	for _, q := range []Quantizer{KMeansQuantizer{}, DominantQuantizer{}} {
		p, err := q.Quantize(context.Background(), s, 3)
		if err != nil {
			t.Fatalf("%T: %v", q, err)
		}
		if len(p) != 3 {
			t.Errorf("%T: len = %d, want 3", q, len(p))
		}
	}
}

type failingQuantizer struct{}

func (failingQuantizer) Quantize(context.Context, Samples, int) (Palette, error) {
	return nil, errors.New("boom")
}

func TestFallbackQuantizer(t *testing.T) {
	q := FallbackQuantizer{Primary: failingQuantizer{}, Secondary: LloydQuantizer{}}
	p, err := q.Quantize(context.Background(), samplesOf([3]float64{1, 2, 3}), 2)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(p) != 2 {
		t.Errorf("len = %d, want 2", len(p))
	}
}

func TestPadPalette(t *testing.T) {
	if got := padPalette(nil, 2); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
