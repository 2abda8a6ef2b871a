package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ItsCxdy/google-maps-scraper/storage"
)

var processOpts outputFlags

func init() {
	addOutputFlags(processCmd, &processOpts)
	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process <results.json>",
	Short: "Re-filters and re-sorts a JSON file written by scrape.",
	Long: "Loads places from a JSON output file, runs deduplication, filters and " +
		"sorting again, and writes the result next to the input (or to --output).",
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	cfg := processOpts.apply(cmd, env.cfg)
	out, err := processOpts.parse()
	if err != nil {
		return err
	}

	input := args[0]
	places, err := storage.LoadJSON(input)
	if err != nil {
		return err
	}
	logger.Info("Loaded %d places from %s", len(places), input)

	places = processOpts.pipeline(cfg, out, logger).Run(places)
	summarize(places, logger)

	base := strings.TrimSuffix(input, filepath.Ext(input)) + "_processed"
	if cmd.Flags().Changed("output") {
		base = filepath.Join(cfg.OutputDir, filepath.Base(base))
	}
	if err := writeOutputs(places, out.format, base, logger); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
