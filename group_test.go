package boxstack

import (
	"image/color"
	"slices"
	"testing"
)

func TestGroupPixelsDiscoveryOrder(t *testing.T) {
	c := NewCanvas(imageFromRows([][]color.NRGBA{
		{none, green, red},
		{red, blue, green},
	}))
	g := GroupPixels(c)

	wantOrder := []ColorKey{keyOf(green), keyOf(red), keyOf(blue)}
	if !slices.Equal(g.Order, wantOrder) {
		t.Errorf("order = %v, want %v", g.Order, wantOrder)
	}
	wantRed := []Pixel{{X: 2, Y: 0}, {X: 0, Y: 1}}
	if got := g.Pixels[keyOf(red)]; !slices.Equal(got, wantRed) {
		t.Errorf("red pixels = %v, want %v", got, wantRed)
	}
	if g.Total() != 5 {
		t.Errorf("total = %d, want 5", g.Total())
	}
}

func TestGroupPixelsEveryOpaquePixelOnce(t *testing.T) {
	c := NewCanvas(gradientImage(20, 14))
	g := GroupPixels(c)
	seen := map[Pixel]int{}
	for _, k := range g.Order {
		for _, p := range g.Pixels[k] {
			seen[p]++
		}
	}
	for y := range c.H {
		for x := range c.W {
			n := seen[Pixel{X: x, Y: y}]
			switch {
			case c.Opaque(x, y) && n != 1:
				t.Fatalf("opaque (%d,%d) grouped %d times", x, y, n)
			case !c.Opaque(x, y) && n != 0:
				t.Fatalf("transparent (%d,%d) grouped", x, y)
			}
		}
	}
}

func TestGroupPixelsAllTransparent(t *testing.T) {
	c := NewCanvas(imageFromRows([][]color.NRGBA{{none, none}, {none, none}}))
	g := GroupPixels(c)
	if len(g.Order) != 0 || len(g.Pixels) != 0 {
		t.Errorf("got order %v, %d groups", g.Order, len(g.Pixels))
	}
}
