package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ItsCxdy/google-maps-scraper/config"
	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/scraper/gmaps"
	"github.com/ItsCxdy/google-maps-scraper/services"
	"github.com/ItsCxdy/google-maps-scraper/storage"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

var scrapeOpts struct {
	search      string
	location    string
	maxResults  int
	headless    bool
	formatPhone bool
	output      outputFlags
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeOpts.search, "search", "s", "", "Search query, e.g. \"coffee shops\".")
	scrapeCmd.Flags().StringVarP(&scrapeOpts.location, "location", "l", "", "Location to search in (default from config).")
	scrapeCmd.Flags().IntVarP(&scrapeOpts.maxResults, "max-results", "m", 0, "Maximum number of places to visit (default from config).")
	scrapeCmd.Flags().BoolVar(&scrapeOpts.headless, "headless", true, "Run the browser without a window; --headless=false shows it.")
	scrapeCmd.Flags().BoolVar(&scrapeOpts.formatPhone, "format-phone", false, "Rewrite phone numbers as (XXX) XXX-XXXX or +digits (default from config).")
	addOutputFlags(scrapeCmd, &scrapeOpts.output)
	_ = scrapeCmd.MarkFlagRequired("search")

	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape --search <query> [--location <place>]",
	Short: "Searches Google Maps and writes the places found to files.",
	Args:  cobra.NoArgs,
	RunE:  runScrape,
}

func runScrape(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	cfg := scrapeOpts.output.apply(cmd, env.cfg)
	if cmd.Flags().Changed("max-results") {
		cfg = cfg.WithMaxResults(scrapeOpts.maxResults)
	}
	if cmd.Flags().Changed("headless") {
		cfg = cfg.WithHeadless(scrapeOpts.headless)
	}
	if cmd.Flags().Changed("format-phone") {
		cfg = cfg.WithFormatPhone(scrapeOpts.formatPhone)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := scrapeOpts.output.parse()
	if err != nil {
		return err
	}

	query := strings.TrimSpace(scrapeOpts.search)
	if query == "" {
		return errors.New("--search must not be empty")
	}
	location := strings.TrimSpace(scrapeOpts.location)
	if location == "" {
		location = cfg.DefaultLocation
	}

	printBanner(query, location, cfg)
	logger.Info("Starting search: %q (location: %q, max results: %d)", query, location, cfg.MaxResults)

	runAt := time.Now()
	places, err := gmaps.New(cfg, logger).Search(ctx, query, location)
	interrupted := ctx.Err() != nil
	if err != nil && !interrupted {
		return fmt.Errorf("scraping failed: %w", err)
	}

	if len(places) == 0 {
		if interrupted {
			return ctx.Err()
		}
		fmt.Println("⚠️  No results found. Please try a different search query or location.")
		logger.Warn("No results found for: %s in %s", query, location)
		return nil
	}
	if interrupted {
		logger.Warn("Interrupted; keeping the %d places collected so far", len(places))
	}
	fmt.Printf("✅ Found %d places\n\n", len(places))

	places = scrapeOpts.output.pipeline(cfg, out, logger).Run(places)

	summarize(places, logger)

	base := filepath.Join(cfg.OutputDir, storage.OutputFilename(query, location, runAt))
	saveErr := writeOutputs(places, out.format, base, logger)

	if cfg.PostgresDSN != "" {
		// the export still runs after an interrupt, so it cannot share ctx
		if err := exportPostgres(context.WithoutCancel(ctx), cfg.PostgresDSN, query, runAt, places, logger); err != nil {
			logger.Error("PostgreSQL export failed: %v", err)
			saveErr = errors.Join(saveErr, err)
		}
	}

	if interrupted {
		return ctx.Err()
	}
	return saveErr
}

func printBanner(query, location string, cfg config.Config) {
	sep := strings.Repeat("=", 60)
	fmt.Printf("\n%s\n🗺️  GOOGLE MAPS SCRAPER\n%s\n", sep, sep)
	fmt.Printf("📍 Search Query: %s\n", query)
	if location != "" {
		fmt.Printf("📍 Location: %s\n", location)
	}
	fmt.Printf("📊 Max Results: %d\n", cfg.MaxResults)
	fmt.Printf("⏱️  Please wait... this may take a few minutes...\n%s\n\n", sep)
}

func summarize(places []*models.Place, logger *utils.Logger) {
	svc := services.NewSummaryService(logger)
	svc.Print(os.Stdout, places, svc.Generate(places))
}

// writeOutputs saves places under base in format, creating the output
// directory first.
func writeOutputs(places []*models.Place, format storage.Format, base string, logger *utils.Logger) error {
	if err := storage.EnsureDir(filepath.Dir(base)); err != nil {
		return err
	}

	paths, err := storage.Save(places, base, format, logger)
	for _, p := range paths {
		fmt.Printf("💾 Saved: %s\n", p)
	}
	return err
}

func exportPostgres(ctx context.Context, dsn, query string, runAt time.Time, places []*models.Place, logger *utils.Logger) error {
	pw, err := storage.NewPostgresWriter(ctx, dsn, query, runAt)
	if err != nil {
		return err
	}
	defer pw.Close()

	if err := pw.Write(places); err != nil {
		return err
	}
	logger.Info("Stored %d places in PostgreSQL (table: places)", len(places))
	return nil
}
