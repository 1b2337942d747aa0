package cli

import (
	"fmt"

	"github.com/setanarut/boxstack"
	"github.com/setanarut/boxstack/utils"
	"github.com/spf13/cobra"
)

func newPaletteCmd() *cobra.Command {
	f := &pipelineFlags{}
	var swatch string
	cmd := &cobra.Command{
		Use:   "palette <image>",
		Short: "Print the quantized palette of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := f.options()
			if err != nil {
				return err
			}
			img, err := utils.ReadImage(args[0])
			if err != nil {
				return err
			}
			samples := boxstack.NewCanvas(img).Samples(opt.MaxSamples)
			p, err := opt.Quantizer.Quantize(cmd.Context(), samples, opt.Colors)
			if err != nil {
				return fmt.Errorf("quantize: %w", err)
			}
			for i, h := range p.Hex() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", i, h)
			}
			if swatch != "" {
				return utils.SavePalette(p, 64, swatch)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&swatch, "swatch", "", "also write a palette PNG here")
	return cmd
}
