package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

// Format selects which files Save writes.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	// FormatBoth writes the spreadsheet and the JSON file.
	FormatBoth Format = "both"
)

// ParseFormat accepts the CLI spelling of a format. "excel" is an alias for
// xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatJSON, FormatBoth:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown output format %q (want xlsx, csv, json or both)", s)
}

// Extensions lists the file extensions f produces, without the dot.
func (f Format) Extensions() []string {
	if f == FormatBoth {
		return []string{string(FormatXLSX), string(FormatJSON)}
	}
	return []string{string(f)}
}

// Save writes places to base plus one extension per file of format and
// returns the paths written. Feed artifacts are dropped first; when nothing
// is left no file is written. A failing file does not stop the others; all
// failures are returned joined.
func Save(places []*models.Place, base string, format Format, logger *utils.Logger) ([]string, error) {
	places = dropArtifacts(places)
	if len(places) == 0 {
		logger.Warn("No places to save.")
		return nil, nil
	}

	var (
		written []string
		errs    []error
	)
	for _, ext := range format.Extensions() {
		path := base + "." + ext
		if err := writeFile(path, ext, places); err != nil {
			logger.Error("Failed to write %s: %v", path, err)
			errs = append(errs, err)
			continue
		}
		logger.Info("Saved %d places to %s", len(places), path)
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func writeFile(path, ext string, places []*models.Place) (err error) {
	w, err := newWriter(path, ext)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return w.Write(places)
}

func newWriter(path, ext string) (PlaceWriter, error) {
	switch Format(ext) {
	case FormatXLSX:
		return NewXLSXWriter(path)
	case FormatCSV:
		return NewCSVWriter(path)
	case FormatJSON:
		return NewJSONWriter(path)
	}
	return nil, fmt.Errorf("no writer for %q", ext)
}

var unsafeFilenameChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	"/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
)

// OutputFilename names the output files of a run, without extension:
// google_maps_<query>[_<location>]_<YYYYmmdd_HHMMSS>, with characters
// illegal in Windows file names replaced by underscores.
func OutputFilename(query, location string, now time.Time) string {
	parts := []string{"google_maps", query}
	if location != "" {
		parts = append(parts, location)
	}
	parts = append(parts, now.Format("20060102_150405"))
	return unsafeFilenameChars.Replace(strings.Join(parts, "_"))
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir %q: %w", dir, err)
	}
	return nil
}

// dropArtifacts is the last guard against feed labels reaching an output.
func dropArtifacts(places []*models.Place) []*models.Place {
	out := make([]*models.Place, 0, len(places))
	for _, p := range places {
		if p == nil || models.IsArtifactName(p.Name) {
			continue
		}
		out = append(out, p)
	}
	return out
}
