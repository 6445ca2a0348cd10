package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zillow-wholesale/config"
	"zillow-wholesale/metrics"
	"zillow-wholesale/utils"
)

// app carries what every subcommand needs once the root has parsed its flags.
type app struct {
	configPath string
	preset     string
	logLevel   string

	env     *config.Config
	search  config.SearchConfig
	logger  *utils.Logger
	metrics *metrics.Registry
}

// NewRootCommand builds the wholesale command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wholesale",
		Short: "Find and rank wholesale deals from Zillow listings",
		Long: `wholesale searches Zillow for stale for-sale listings that fit a rental
investment strategy, scores each listing by how long it has sat on the market
and writes a call sheet ranked by urgency.

Examples:
  wholesale price-range --avg-rent 1400
  wholesale search --preset subject-to --zip 27601 --avg-rent 1400 --postgres
  wholesale analyze --input raw_listings.json --csv call_sheet.csv
  wholesale serve --addr :8080`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML search strategy overlay (default $SEARCH_CONFIG)")
	pf.StringVar(&a.preset, "preset", "", fmt.Sprintf("start from a named strategy %v", config.PresetNames()))
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")

	root.AddCommand(
		newSearchCommand(a),
		newAnalyzeCommand(a),
		newPriceRangeCommand(a),
		newPresetsCommand(a),
		newServeCommand(a),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the environment, the logger and the search strategy. The
// strategy is the preset (or the defaults) with the YAML overlay on top;
// subcommand flags are applied afterwards by each subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	a.env = env

	a.logger = utils.NewConsoleLogger(cmd.ErrOrStderr())
	level := env.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger.SetLevel(level)
	a.metrics = metrics.NewRegistry()

	search := config.DefaultSearchConfig()
	if a.preset != "" {
		if search, err = config.Preset(a.preset); err != nil {
			return err
		}
	}

	overlay := a.configPath
	if overlay == "" {
		overlay = env.SearchConfigPath
	}
	if overlay != "" {
		if search, err = config.LoadSearchConfig(overlay, search); err != nil {
			return err
		}
		a.logger.Debug("[cli] Applied search overlay %s", overlay)
	}

	a.search = search
	return nil
}
