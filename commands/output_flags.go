package commands

import (
	"github.com/spf13/cobra"

	"github.com/ItsCxdy/google-maps-scraper/config"
	"github.com/ItsCxdy/google-maps-scraper/services"
	"github.com/ItsCxdy/google-maps-scraper/storage"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

// outputFlags are shared by every command that post-processes and writes
// places.
type outputFlags struct {
	minRating float64
	sortBy    string
	category  string
	format    string
	outputDir string
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().Float64Var(&f.minRating, "min-rating", 0, "Keep only places rated at least this (0 disables the filter).")
	cmd.Flags().StringVar(&f.sortBy, "sort-by", "", "Sort results by rating, reviews or name.")
	cmd.Flags().StringVar(&f.category, "category", "", "Keep only places whose category contains this text.")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(storage.FormatXLSX), "Output format: xlsx, csv, json or both.")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "Directory for output files (default from config).")
}

// parsed holds the validated form of outputFlags.
type parsed struct {
	format storage.Format
	sortBy services.SortKey
}

func (f *outputFlags) parse() (parsed, error) {
	format, err := storage.ParseFormat(f.format)
	if err != nil {
		return parsed{}, err
	}
	sortBy, err := services.ParseSortKey(f.sortBy)
	if err != nil {
		return parsed{}, err
	}
	return parsed{format: format, sortBy: sortBy}, nil
}

// apply layers the flags the user actually set over cfg.
func (f *outputFlags) apply(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed("category") {
		cfg = cfg.WithCategoryFilter(f.category)
	}
	if cmd.Flags().Changed("output") {
		cfg = cfg.WithOutputDir(f.outputDir)
	}
	return cfg
}

func (f *outputFlags) pipeline(cfg config.Config, p parsed, logger *utils.Logger) *services.Pipeline {
	pl := services.NewPipeline(logger)
	if f.minRating > 0 {
		threshold := f.minRating
		pl.MinRating = &threshold
	}
	pl.Category = cfg.CategoryFilter
	pl.SortBy = p.sortBy
	return pl
}
