package cli

import (
	"time"

	"github.com/setanarut/boxstack/utils"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <report.json[.zst]>",
		Short: "Print a build report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := utils.ReadReport(args[0])
			if err != nil {
				return err
			}
			printBuildReport(cmd.OutOrStdout(), r, nil, time.Duration(r.Stats.ElapsedMS)*time.Millisecond)
			return nil
		},
	}
}
