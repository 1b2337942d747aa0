package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/setanarut/boxstack"
)

// ReportVersion is bumped whenever the report layout changes.
const ReportVersion = 1

// Report is the JSON description of a built stack.
type Report struct {
	Version     int           `json:"version"`
	Source      SourceInfo    `json:"source"`
	Palette     []string      `json:"palette"`
	PixelSize   float64       `json:"pixel_size"`
	LayerHeight float64       `json:"layer_height"`
	Layers      []LayerReport `json:"layers"`
	Boxes       []BoxReport   `json:"boxes,omitempty"`
	Stats       StatsReport   `json:"stats"`
}

type SourceInfo struct {
	Path   string `json:"path,omitempty"`
	Hash   string `json:"hash,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type LayerReport struct {
	Index  int     `json:"index"`
	Color  string  `json:"color"`
	Pixels int     `json:"pixels"`
	Boxes  int     `json:"boxes"`
	ZMin   float64 `json:"z_min"`
	ZMax   float64 `json:"z_max"`
}

// BoxReport is one placed box: centre position, size, colour and layer.
type BoxReport struct {
	Position [3]float64 `json:"position"`
	Size     [3]float64 `json:"size"`
	Color    string     `json:"color"`
	Layer    int        `json:"layer"`
}

type StatsReport struct {
	BlockSide  int   `json:"block_side"`
	Samples    int   `json:"samples"`
	Iterations int   `json:"iterations"`
	Reseeds    int   `json:"reseeds"`
	Opaque     int   `json:"opaque_pixels"`
	EmptyLayer int   `json:"empty_layers"`
	Boxes      int   `json:"boxes"`
	ElapsedMS  int64 `json:"elapsed_ms"`
}

// NewReport describes s. Boxes are listed only when withBoxes is set.
func NewReport(s *boxstack.Stack, src SourceInfo, withBoxes bool) *Report {
	src.Width, src.Height = s.Width, s.Height
	r := &Report{
		Version:     ReportVersion,
		Source:      src,
		Palette:     s.Palette.Hex(),
		PixelSize:   s.Placement.PixelSize,
		LayerHeight: s.Placement.LayerHeight,
		Stats: StatsReport{
			BlockSide:  s.Stats.BlockSide,
			Samples:    s.Stats.Samples,
			Iterations: s.Stats.Iterations,
			Reseeds:    s.Stats.Reseeds,
			Opaque:     s.Stats.OpaquePixels,
			EmptyLayer: s.Stats.EmptyLayers,
			Boxes:      s.Stats.Boxes,
			ElapsedMS:  s.Stats.Elapsed.Milliseconds(),
		},
	}
	for _, l := range s.Summary() {
		r.Layers = append(r.Layers, LayerReport{
			Index:  l.Index,
			Color:  l.Color.Hex(),
			Pixels: l.Pixels,
			Boxes:  l.Boxes,
			ZMin:   l.ZMin,
			ZMax:   l.ZMax,
		})
	}
	if withBoxes {
		r.Boxes = make([]BoxReport, len(s.Boxes))
		for i, b := range s.Boxes {
			r.Boxes[i] = BoxReport{
				Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
				Size:     [3]float64{b.Size.X, b.Size.Y, b.Size.Z},
				Color:    b.Color.Hex(),
				Layer:    b.Layer,
			}
		}
	}
	return r
}

// WriteReport writes r as indented JSON. Paths ending in ".zst" are
// zstd-compressed.
func WriteReport(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var zw *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		zw, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		w = zw
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("zstd close: %w", err)
		}
	}
	return f.Close()
}

// ReadReport reads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rd io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		rd = zr
	}
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if r.Version != ReportVersion {
		return nil, fmt.Errorf("unsupported report version %d", r.Version)
	}
	return &r, nil
}
