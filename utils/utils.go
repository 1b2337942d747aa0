package utils

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/setanarut/boxstack"

	// Extra input formats beyond the png/jpeg/gif decoders imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ReadImage decodes the file at path, applying EXIF orientation.
// Failures wrap boxstack.ErrInvalidInput.
func ReadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no image selected", boxstack.ErrInvalidInput)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", boxstack.ErrInvalidInput, err)
	}
	return img, nil
}

// SaveImage encodes img with the format implied by the file extension.
func SaveImage(img image.Image, filename string) error {
	return imaging.Save(img, filename)
}

// SaveLayerMasks writes one PNG per layer as dir/<prefix>_layerNN.png and
// returns the written paths.
func SaveLayerMasks(images []*image.NRGBA, dir, prefix string) ([]string, error) {
	paths := make([]string, 0, len(images))
	for i := range images {
		p := filepath.Join(dir, fmt.Sprintf("%s_layer%02d.png", prefix, i))
		if err := SaveImage(images[i], p); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// SavePalette writes the palette as a strip of square swatches.
func SavePalette(palette boxstack.Palette, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := range h {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}

	return SaveImage(img, filename)
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
