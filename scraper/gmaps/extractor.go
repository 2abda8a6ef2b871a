package gmaps

import (
	"context"
	"strings"

	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

// FieldSpec describes where one field of a place lives in the detail panel.
type FieldSpec struct {
	Name string
	// Selectors are tried in order; the first non-empty value wins.
	Selectors []string
	// Attr names the attribute to read. Empty means the element's text.
	Attr string
	// TrimPrefix is removed from the value, e.g. "Address: " in aria-labels.
	TrimPrefix string
	// FirstLine keeps only the first line of multi-line text.
	FirstLine bool
}

// Extractor reads fields through a selector fallback list.
type Extractor struct {
	logger *utils.Logger
}

func NewExtractor(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the first non-empty value any of spec's selectors yields.
// A failed attempt only moves on to the next selector; when all of them miss
// the field is reported as not found.
func (e *Extractor) Extract(ctx context.Context, src Source, spec FieldSpec) models.Field {
	for _, sel := range spec.Selectors {
		var (
			raw string
			err error
		)
		if spec.Attr != "" {
			raw, err = src.Attr(ctx, sel, spec.Attr)
		} else {
			raw, err = src.Text(ctx, sel)
		}
		if err != nil {
			e.logger.Debug("[extract] %s: %s missed: %v", spec.Name, sel, err)
			continue
		}

		if val := spec.clean(raw); val != "" {
			return models.Field{Value: val, Found: true}
		}
		e.logger.Debug("[extract] %s: %s matched an empty value", spec.Name, sel)
	}
	return models.Field{}
}

func (spec FieldSpec) clean(raw string) string {
	val := strings.TrimSpace(raw)
	if spec.FirstLine {
		if i := strings.IndexByte(val, '\n'); i >= 0 {
			val = strings.TrimSpace(val[:i])
		}
	}
	if spec.TrimPrefix != "" {
		val = strings.TrimSpace(strings.TrimPrefix(val, spec.TrimPrefix))
	}
	return val
}
