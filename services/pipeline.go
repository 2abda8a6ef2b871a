package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

// SortKey selects the final ordering of the pipeline output.
type SortKey string

const (
	SortNone    SortKey = ""
	SortRating  SortKey = "rating"
	SortReviews SortKey = "reviews"
	SortName    SortKey = "name"
)

// ParseSortKey accepts the CLI spelling of a sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortRating, SortReviews, SortName:
		return k, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q (want rating, reviews or name)", s)
}

// Pipeline post-processes the places of one run. Zero values disable each
// optional step.
type Pipeline struct {
	// MinRating keeps only places with a defined rating at or above it.
	MinRating *float64
	// Category keeps only places whose category contains it, ignoring case.
	Category string
	SortBy   SortKey

	logger *utils.Logger
}

// NewPipeline creates a Pipeline with no filters and no sorting.
func NewPipeline(logger *utils.Logger) *Pipeline {
	return &Pipeline{logger: logger}
}

// Run drops feed artifacts, normalizes ratings, then deduplicates, filters
// and sorts, in that order. The input slice is not reordered.
func (p *Pipeline) Run(places []*models.Place) []*models.Place {
	out := make([]*models.Place, 0, len(places))
	for _, pl := range places {
		if models.IsArtifactName(pl.Name) {
			p.logger.Debug("[pipeline] Dropping non-place entry %q", pl.Name)
			continue
		}
		NormalizeRating(pl)
		out = append(out, pl)
	}

	before := len(out)
	out = Dedupe(out)
	p.logger.Info("[pipeline] Removed %d duplicates — %d places left", before-len(out), len(out))

	if p.MinRating != nil {
		before = len(out)
		out = FilterByRating(out, *p.MinRating)
		p.logger.Info("[pipeline] Rating >= %.1f: %d → %d places", *p.MinRating, before, len(out))
	}

	if p.Category != "" {
		before = len(out)
		out = FilterByCategory(out, p.Category)
		p.logger.Info("[pipeline] Category %q: %d → %d places", p.Category, before, len(out))
	}

	if p.SortBy != SortNone {
		Sort(out, p.SortBy)
		p.logger.Debug("[pipeline] Sorted by %s", p.SortBy)
	}

	return out
}

// NormalizeRating rewrites the rating field to its parsed one-decimal form.
// Text without a rating is left as it is, so it stays undefined.
func NormalizeRating(p *models.Place) {
	if v, ok := ParseRating(p.Rating); ok {
		p.Rating = FormatRating(v)
	}
}

// DedupeKey identifies a place by its whitespace-collapsed name and address.
func DedupeKey(p *models.Place) string {
	return CleanText(p.Name) + "\x00" + CleanText(p.Address)
}

// Dedupe keeps the first place seen for each DedupeKey, preserving order.
func Dedupe(places []*models.Place) []*models.Place {
	seen := utils.NewKeySet()
	out := make([]*models.Place, 0, len(places))
	for _, p := range places {
		if !seen.Add(DedupeKey(p)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterByRating keeps places whose rating is defined and at least min.
func FilterByRating(places []*models.Place, min float64) []*models.Place {
	out := make([]*models.Place, 0, len(places))
	for _, p := range places {
		if v, ok := ParseRating(p.Rating); ok && v >= min {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory keeps places whose category contains substr, ignoring case.
func FilterByCategory(places []*models.Place, substr string) []*models.Place {
	needle := strings.ToLower(substr)
	out := make([]*models.Place, 0, len(places))
	for _, p := range places {
		if strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders places in place. Ties keep their previous relative order.
func Sort(places []*models.Place, key SortKey) {
	switch key {
	case SortRating:
		sort.SliceStable(places, func(i, j int) bool {
			return ratingOrZero(places[i]) > ratingOrZero(places[j])
		})
	case SortReviews:
		sort.SliceStable(places, func(i, j int) bool {
			return ParseReviews(places[i].Reviews) > ParseReviews(places[j].Reviews)
		})
	case SortName:
		sort.SliceStable(places, func(i, j int) bool {
			return strings.ToLower(CleanText(places[i].Name)) < strings.ToLower(CleanText(places[j].Name))
		})
	}
}
