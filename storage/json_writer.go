package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ItsCxdy/google-maps-scraper/models"
)

// JSONWriter writes places as one indented JSON array.
type JSONWriter struct {
	file *os.File
}

func NewJSONWriter(path string) (*JSONWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("json: create file %q: %w", path, err)
	}
	return &JSONWriter{file: f}, nil
}

// Write encodes places as the whole content of the file. Non-ASCII text and
// URLs are written as-is.
func (j *JSONWriter) Write(places []*models.Place) error {
	if places == nil {
		places = []*models.Place{}
	}

	enc := json.NewEncoder(j.file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(places); err != nil {
		return fmt.Errorf("json: encode: %w", err)
	}
	return nil
}

func (j *JSONWriter) Close() error {
	return j.file.Close()
}

// LoadJSON reads a file written by JSONWriter.
func LoadJSON(path string) ([]*models.Place, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", path, err)
	}

	var places []*models.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, fmt.Errorf("json: decode %q: %w", path, err)
	}

	for _, p := range places {
		if p.Rating == "" {
			p.Rating = models.DefaultRating
		}
		if p.Reviews == "" {
			p.Reviews = models.DefaultReviews
		}
	}
	return places, nil
}
