package boxstack

import (
	"image"
	"image/color"
	"testing"
)

func TestNewCanvasNormalisesBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetRGBA(7, 6, color.RGBA{R: 64, A: 128})
	c := NewCanvas(src)
	if c.W != 3 || c.H != 2 {
		t.Fatalf("size = %dx%d, want 3x2", c.W, c.H)
	}
	if r, g, b, a := c.At(0, 0); r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("(0,0) = %d,%d,%d,%d", r, g, b, a)
	}
	// premultiplied 64 at alpha 128 becomes ~127 straight
	if r, _, _, a := c.At(2, 1); a != 128 || r < 126 || r > 128 {
		t.Errorf("(2,1) r=%d a=%d", r, a)
	}
}

func TestNewCanvasSubImage(t *testing.T) {
	full := noiseImage(10, 10, 4)
	sub := full.SubImage(image.Rect(2, 3, 6, 5)).(*image.NRGBA)
	c := NewCanvas(sub)
	if c.W != 4 || c.H != 2 {
		t.Fatalf("size = %dx%d", c.W, c.H)
	}
	want := full.NRGBAAt(3, 4)
	if r, g, b, a := c.At(1, 1); r != want.R || g != want.G || b != want.B || a != want.A {
		t.Errorf("(1,1) = %d,%d,%d,%d want %v", r, g, b, a, want)
	}
}

func TestSamplesSkipTransparent(t *testing.T) {
	c := NewCanvas(imageFromRows([][]color.NRGBA{{red, none, blue}}))
	s := c.Samples(0)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if row := s.Row(1); row[0] != float64(blue.R) || row[2] != float64(blue.B) {
		t.Errorf("row 1 = %v, want blue", row)
	}
}

func TestSamplesStride(t *testing.T) {
	s := NewCanvas(noiseImage(100, 100, 9)).Samples(1000)
	if s.Len() == 0 || s.Len() > 1000 {
		t.Errorf("len = %d, want (0,1000]", s.Len())
	}
}

func TestColorKeyHex(t *testing.T) {
	k := KeyOf(0x12, 0xab, 0x0f)
	if k.Hex() != "#12ab0f" {
		t.Errorf("Hex = %s", k.Hex())
	}
	back, err := ParseKey("#12ab0f")
	if err != nil || back != k {
		t.Errorf("ParseKey = %v, %v", back, err)
	}
	if _, err := ParseKey("zz"); err == nil {
		t.Error("expected parse error")
	}
}
