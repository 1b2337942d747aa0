package cli

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/setanarut/boxstack/utils"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			c := color.NRGBA{R: 20, G: 20, B: 20, A: 255}
			if x >= 4 {
				c = color.NRGBA{R: 230, G: 200, B: 10, A: 255}
			}
			if y >= 6 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	p := filepath.Join(t.TempDir(), "fixture.png")
	if err := utils.SaveImage(img, p); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	in := writeFixture(t)
	outDir := t.TempDir()
	out, err := run(t, "build", in, "-o", outDir, "-k", "2", "--block-size", "0.1", "--zstd", "--boxes")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(out, "Layers:   2") {
		t.Errorf("report output:\n%s", out)
	}

	stls, _ := filepath.Glob(filepath.Join(outDir, "fixture.*_layer*.stl"))
	if len(stls) != 2 {
		t.Errorf("stl files = %v, want 2", stls)
	}
	reports, _ := filepath.Glob(filepath.Join(outDir, "*.report.json.zst"))
	if len(reports) != 1 {
		t.Fatalf("reports = %v", reports)
	}
	r, err := utils.ReadReport(reports[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(r.Boxes) == 0 || len(r.Layers) != 2 {
		t.Errorf("report: %d boxes, %d layers", len(r.Boxes), len(r.Layers))
	}

	out, err = run(t, "inspect", reports[0])
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, r.Source.Hash) {
		t.Errorf("inspect output missing hash:\n%s", out)
	}
}

func TestBuildCommandRejectsBadConfig(t *testing.T) {
	in := writeFixture(t)
	outDir := filepath.Join(t.TempDir(), "never")
	if _, err := run(t, "build", in, "-o", outDir, "-k", "0"); err == nil {
		t.Fatal("expected error for -k 0")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("output dir created despite invalid config")
	}
	if _, err := run(t, "build", in, "--order", "sideways"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestPaletteCommand(t *testing.T) {
	in := writeFixture(t)
	swatch := filepath.Join(t.TempDir(), "swatch.png")
	out, err := run(t, "palette", in, "-k", "2", "--swatch", swatch)
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	if !strings.Contains(out, "#141414") || !strings.Contains(out, "#e6c80a") {
		t.Errorf("palette output:\n%s", out)
	}
	if _, err := os.Stat(swatch); err != nil {
		t.Errorf("swatch: %v", err)
	}
}

func TestBuildMissingFile(t *testing.T) {
	if _, err := run(t, "build", filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing input")
	}
}
