package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/setanarut/boxstack"
	"github.com/setanarut/boxstack/utils"
	"github.com/spf13/cobra"
)

type buildFlags struct {
	pipelineFlags
	outDir    string
	compress  bool
	withBoxes bool
	previews  bool
	noSTL     bool
}

func newBuildCmd() *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build <image>",
		Short: "Build per-layer STL files and a report from an image",
		Long: `Quantizes the image, stacks one cumulative layer per palette colour and
writes <name>.<hash>_layerNN_<rrggbb>.stl for every non-empty layer together
with <name>.<hash>.report.json. The hash is the xxHash64 of the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, f, args[0])
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "./boxstack_out", "output directory")
	cmd.Flags().BoolVar(&f.compress, "zstd", false, "zstd-compress the report")
	cmd.Flags().BoolVar(&f.withBoxes, "boxes", false, "include every placed box in the report")
	cmd.Flags().BoolVar(&f.previews, "previews", true, "write quantized preview, palette and layer masks")
	cmd.Flags().BoolVar(&f.noSTL, "no-stl", false, "skip STL export")
	return cmd
}

func runBuild(cmd *cobra.Command, f *buildFlags, input string) error {
	start := time.Now()
	opt, err := f.options()
	if err != nil {
		return err
	}
	img, err := utils.ReadImage(input)
	if err != nil {
		return err
	}
	hash, err := utils.HashFile(input, 8)
	if err != nil {
		return fmt.Errorf("hash input: %w", err)
	}
	if err := utils.EnsureDir(f.outDir); err != nil {
		return err
	}

	stack, err := boxstack.Build(cmd.Context(), img, opt)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	prefix := base + "." + hash
	var written []string

	if !f.noSTL {
		paths, err := utils.ExportSTL(stack, f.outDir, prefix)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		written = append(written, paths...)
	}
	if f.previews && len(stack.Layers) > 0 {
		p := filepath.Join(f.outDir, prefix+".preview.png")
		if err := utils.SaveImage(stack.Preview(), p); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		written = append(written, p)
		p = filepath.Join(f.outDir, prefix+".palette.png")
		if err := utils.SavePalette(stack.Palette, 64, p); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
		written = append(written, p)
		masks, err := utils.SaveLayerMasks(stack.LayerMasks(), f.outDir, prefix)
		if err != nil {
			return fmt.Errorf("layer masks: %w", err)
		}
		written = append(written, masks...)
	}

	reportPath := filepath.Join(f.outDir, prefix+".report.json")
	if f.compress {
		reportPath += ".zst"
	}
	abs, _ := filepath.Abs(input)
	r := utils.NewReport(stack, utils.SourceInfo{Path: abs, Hash: hash}, f.withBoxes)
	if err := utils.WriteReport(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	written = append(written, reportPath)

	printBuildReport(cmd.OutOrStdout(), r, written, time.Since(start))
	return nil
}

func printBuildReport(w io.Writer, r *utils.Report, written []string, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Image:    %dx%d (%s)\n", r.Source.Width, r.Source.Height, r.Source.Hash)
	fmt.Fprintf(w, "  Palette:  %s\n", strings.Join(r.Palette, " "))
	fmt.Fprintf(w, "  Layers:   %d\n", len(r.Layers))
	for _, l := range r.Layers {
		fmt.Fprintf(w, "    %2d  %s  %8d px  %6d boxes  z %.2f..%.2f\n",
			l.Index, l.Color, l.Pixels, l.Boxes, l.ZMin, l.ZMax)
	}
	fmt.Fprintf(w, "  Boxes:    %d\n", r.Stats.Boxes)
	fmt.Fprintf(w, "  Time:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Files:    %d\n", len(written))
	for _, p := range written {
		fmt.Fprintf(w, "    %s\n", p)
	}
	fmt.Fprintln(w)
}
