package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"zillow-wholesale/config"
)

func newPresetsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in search strategies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tROI\tFEE\tDOWN\tMIN DOM\tBUILT AFTER")
			for _, name := range config.PresetNames() {
				cfg, err := config.Preset(name)
				if err != nil {
					return err
				}
				built := "any"
				if y := cfg.Property.MinYearBuilt(); y > 0 {
					built = fmt.Sprint(y)
				}
				fmt.Fprintf(tw, "%s\t%.1f%%\t%.0f%%\t%.0f%%\t%d\t%s\n", name, cfg.TargetROI,
					cfg.Management.FeeRate()*100, cfg.Investment.DownPaymentRate()*100,
					cfg.MinDaysOnMarket, built)
			}
			return tw.Flush()
		},
	}
}
