package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ItsCxdy/google-maps-scraper/scraper/gmaps"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <panel.html>",
	Short: "Reads a place from a saved detail-panel HTML file.",
	Long: "Runs the field selectors against a saved copy of a Google Maps detail " +
		"panel and prints the resulting place as JSON. Useful for checking " +
		"selectors after Google changes its markup.",
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := gmaps.NewHTMLSource(f)
	if err != nil {
		return err
	}

	assembler := gmaps.NewAssembler(env.logger)
	assembler.FormatPhone = env.cfg.FormatPhone

	place, ok := assembler.Assemble(cmd.Context(), src)
	if !ok {
		return errors.New("no place found in the panel")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(place); err != nil {
		return fmt.Errorf("encode place: %w", err)
	}
	return nil
}
