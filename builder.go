package boxstack

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
)

type Options struct {
	// Number of palette colours (K).
	// Each colour becomes one layer, so this is also the layer count upper bound.
	Colors int
	// Physical block size, usually the nozzle/extrusion width in world units.
	// Together with PixelsPerUnit it sets the block side used for averaging.
	BlockSize float64
	// Image pixels per world unit used to convert BlockSize into pixels.
	PixelsPerUnit float64
	// World units per image pixel in the output geometry.
	PixelSize float64
	// Height of one print layer.
	LayerHeight float64
	// Print layers per colour layer. colorLayerHeight = LayerHeight*ColorLayerCount.
	ColorLayerCount int
	// Downscale inputs wider than this (nearest neighbour). 0 disables.
	MaxWidth int
	// Regular-grid cap on quantizer samples. 0 samples every pixel.
	MaxSamples int
	// Goroutines for block and layer stages. 0 means runtime.NumCPU().
	Workers int

	// Nil fields fall back to LloydQuantizer, DiscoveryOrder and RowMerger.
	Quantizer Quantizer
	Order     StackOrder
	Merger    Merger
}

func DefaultOptions() Options {
	return Options{
		Colors:          4,
		BlockSize:       0.4,
		PixelsPerUnit:   10,
		PixelSize:       0.1,
		LayerHeight:     0.08,
		ColorLayerCount: 5,
	}
}

// OptionsFromSize scales pixel size so the longer image side prints at
// roughly 100 world units (millimetres), clamped to [0.05, 1].
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	longest := max(size.X, size.Y)
	if longest <= 0 {
		return opt
	}
	ps := max(0.05, min(1.0, 100.0/float64(longest)))
	opt.PixelSize = ps
	opt.PixelsPerUnit = 1 / ps
	if size.X*size.Y > 1024*1024 {
		opt.MaxSamples = 250_000
	}
	return opt
}

// Validate reports the first non-positive required field.
func (o Options) Validate() error {
	switch {
	case o.Colors <= 0:
		return &ConfigError{Field: "Colors", Value: o.Colors}
	case o.BlockSize <= 0:
		return &ConfigError{Field: "BlockSize", Value: o.BlockSize}
	case o.PixelsPerUnit <= 0:
		return &ConfigError{Field: "PixelsPerUnit", Value: o.PixelsPerUnit}
	case o.PixelSize <= 0:
		return &ConfigError{Field: "PixelSize", Value: o.PixelSize}
	case o.LayerHeight <= 0:
		return &ConfigError{Field: "LayerHeight", Value: o.LayerHeight}
	case o.ColorLayerCount <= 0:
		return &ConfigError{Field: "ColorLayerCount", Value: o.ColorLayerCount}
	case o.MaxWidth < 0:
		return &ConfigError{Field: "MaxWidth", Value: o.MaxWidth}
	}
	return nil
}

// ColorLayerHeight is the world height of one colour layer.
func (o Options) ColorLayerHeight() float64 {
	return o.LayerHeight * float64(o.ColorLayerCount)
}

func (o Options) quantizer() Quantizer {
	if o.Quantizer == nil {
		return LloydQuantizer{}
	}
	return o.Quantizer
}

func (o Options) order() StackOrder {
	if o.Order == nil {
		return DiscoveryOrder{}
	}
	return o.Order
}

func (o Options) merger() Merger {
	if o.Merger == nil {
		return RowMerger{}
	}
	return o.Merger
}

// Stats counts what each stage produced.
type Stats struct {
	BlockSide    int
	Samples      int
	Iterations   int
	Reseeds      int
	OpaquePixels int
	Layers       int
	EmptyLayers  int
	Boxes        int
	Elapsed      time.Duration
}

// StackBuilder runs the pipeline over one input image. Intermediate results
// stay on the builder for inspection after Build.
type StackBuilder struct {
	InputImage image.Image
	Canvas     *Canvas
	Palette    Palette
	Groups     *PixelGroups
	Order      []ColorKey
	Layers     []Layer
	Boxes      []Box
	Stats      Stats
}

func NewStackBuilder(input image.Image) *StackBuilder {
	return &StackBuilder{InputImage: input}
}

// Build converts the input image into placed boxes, base plate first.
// Configuration errors are returned before any processing. An image without
// opaque pixels yields an empty stack, not an error.
func (sb *StackBuilder) Build(ctx context.Context, opt Options) (*Stack, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if sb.InputImage == nil {
		return nil, fmt.Errorf("%w: no image", ErrInvalidInput)
	}
	start := time.Now()
	log := Logger()

	img := sb.InputImage
	if opt.MaxWidth > 0 && img.Bounds().Dx() > opt.MaxWidth {
		img = imaging.Resize(img, opt.MaxWidth, 0, imaging.NearestNeighbor)
		log.Debug("boxstack: resized input", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	}
	sb.Canvas = NewCanvas(img)
	sb.Stats = Stats{BlockSide: BlockSide(opt.BlockSize, opt.PixelsPerUnit)}

	samples := sb.Canvas.Samples(opt.MaxSamples)
	sb.Stats.Samples = samples.Len()

	sb.Canvas.AverageBlocks(sb.Stats.BlockSide, opt.Workers)
	log.Debug("boxstack: averaged blocks", "side", sb.Stats.BlockSide, "w", sb.Canvas.W, "h", sb.Canvas.H)

	var err error
	if lq, ok := opt.quantizer().(LloydQuantizer); ok {
		var st LloydStats
		sb.Palette, st, err = lq.Run(ctx, samples, opt.Colors)
		sb.Stats.Iterations, sb.Stats.Reseeds = st.Iterations, st.Reseeds
	} else {
		sb.Palette, err = opt.quantizer().Quantize(ctx, samples, opt.Colors)
	}
	if err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}

	sb.Canvas.MapToPalette(sb.Stats.BlockSide, sb.Palette, opt.Workers)

	sb.Groups = GroupPixels(sb.Canvas)
	sb.Stats.OpaquePixels = sb.Groups.Total()
	sb.Order = opt.order().Order(sb.Groups)
	log.Debug("boxstack: grouped pixels", "colors", len(sb.Order), "opaque", sb.Stats.OpaquePixels)

	sb.Layers = BuildLayers(sb.Groups, sb.Order)
	sb.Stats.Layers = len(sb.Layers)
	for _, l := range sb.Layers {
		if len(l.Footprint) == 0 {
			sb.Stats.EmptyLayers++
		}
	}

	sb.Boxes, err = MergeLayers(ctx, sb.Layers, opt.merger(), opt.Workers)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	sb.Stats.Boxes = len(sb.Boxes)

	placement := Placement{
		PixelSize:   opt.PixelSize,
		LayerHeight: opt.ColorLayerHeight(),
		Width:       sb.Canvas.W,
		Height:      sb.Canvas.H,
	}
	sb.Stats.Elapsed = time.Since(start)
	log.Info("boxstack: built stack",
		"layers", sb.Stats.Layers, "boxes", sb.Stats.Boxes, "elapsed", sb.Stats.Elapsed)

	return &Stack{
		Width:     sb.Canvas.W,
		Height:    sb.Canvas.H,
		Palette:   sb.Palette,
		Order:     sb.Order,
		Layers:    sb.Layers,
		Boxes:     placement.PlaceAll(sb.Boxes),
		Placement: placement,
		Stats:     sb.Stats,
		canvas:    sb.Canvas,
	}, nil
}

// Build is shorthand for NewStackBuilder(img).Build(ctx, opt).
func Build(ctx context.Context, img image.Image, opt Options) (*Stack, error) {
	return NewStackBuilder(img).Build(ctx, opt)
}
