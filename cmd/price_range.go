package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"zillow-wholesale/config"
	"zillow-wholesale/services"
)

func newPriceRangeCommand(a *app) *cobra.Command {
	strategy := &strategyFlags{}

	c := &cobra.Command{
		Use:   "price-range",
		Short: "Print the search parameters for an average monthly rent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			cfg := strategy.apply(fs, a.search)

			avgRent, err := optionalFloat(fs, "avg-rent")
			if err != nil {
				return err
			}

			pipeline := services.NewPipeline(a.logger, a.metrics, 1)
			_, params, err := pipeline.ResolveParams(cfg, avgRent)
			if err != nil {
				return err
			}
			return printParams(cmd, params)
		},
	}

	fs := c.Flags()
	strategy.register(fs)
	fs.Float64("avg-rent", 0, "average monthly rent")
	_ = c.MarkFlagRequired("avg-rent")
	return c
}

func printParams(cmd *cobra.Command, params config.SearchParams) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}
