package cli

import (
	"fmt"

	"github.com/setanarut/boxstack"
	"github.com/spf13/cobra"
)

// pipelineFlags binds boxstack.Options onto command flags.
type pipelineFlags struct {
	opt       boxstack.Options
	quantizer string
	order     string
	merger    string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	d := boxstack.DefaultOptions()
	fl := cmd.Flags()
	fl.IntVarP(&f.opt.Colors, "colors", "k", d.Colors, "palette size (layer count)")
	fl.Float64Var(&f.opt.BlockSize, "block-size", d.BlockSize, "physical block size (nozzle width)")
	fl.Float64Var(&f.opt.PixelsPerUnit, "pixels-per-unit", d.PixelsPerUnit, "image pixels per world unit for block sizing")
	fl.Float64Var(&f.opt.PixelSize, "pixel-size", d.PixelSize, "world units per image pixel")
	fl.Float64Var(&f.opt.LayerHeight, "layer-height", d.LayerHeight, "print layer height")
	fl.IntVar(&f.opt.ColorLayerCount, "color-layers", d.ColorLayerCount, "print layers per colour layer")
	fl.IntVar(&f.opt.MaxWidth, "max-width", 0, "downscale wider inputs (0 = off)")
	fl.IntVar(&f.opt.MaxSamples, "max-samples", 0, "cap on quantizer samples (0 = all pixels)")
	fl.IntVarP(&f.opt.Workers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	fl.StringVar(&f.quantizer, "quantizer", "lloyd", "lloyd|kmeans|dominant")
	fl.StringVar(&f.order, "order", "discovery", "discovery|coverage|luminance|light-first|priority:#rrggbb,...")
	fl.StringVar(&f.merger, "merge", "row", "row|strip")
}

// options resolves the strategy names and validates the result.
func (f *pipelineFlags) options() (boxstack.Options, error) {
	opt := f.opt
	q, err := parseQuantizer(f.quantizer)
	if err != nil {
		return opt, err
	}
	opt.Quantizer = q
	if opt.Order, err = boxstack.ParseOrder(f.order); err != nil {
		return opt, err
	}
	if opt.Merger, err = boxstack.ParseMerger(f.merger); err != nil {
		return opt, err
	}
	return opt, opt.Validate()
}

func parseQuantizer(name string) (boxstack.Quantizer, error) {
	switch name {
	case "", "lloyd":
		return boxstack.LloydQuantizer{}, nil
	case "kmeans":
		return boxstack.FallbackQuantizer{
			Primary:   boxstack.KMeansQuantizer{},
			Secondary: boxstack.DominantQuantizer{},
		}, nil
	case "dominant":
		return boxstack.DominantQuantizer{}, nil
	}
	return nil, fmt.Errorf("unknown quantizer %q", name)
}
