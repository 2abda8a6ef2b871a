package gmaps

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/services"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	redirectMarker  = "google.com/url?"
)

// Assembler turns the currently open detail panel into a Place.
type Assembler struct {
	// FormatPhone rewrites the phone field with services.FormatPhone.
	FormatPhone bool

	extractor *Extractor
	fields    []FieldSpec
	logger    *utils.Logger
	now       func() time.Time
}

func NewAssembler(logger *utils.Logger) *Assembler {
	return &Assembler{
		extractor: NewExtractor(logger),
		fields:    PanelFields,
		logger:    logger,
		now:       time.Now,
	}
}

// Assemble reads every field of the panel. It reports false when the panel
// shows no place: the name is missing or is a feed label such as "Results".
func (a *Assembler) Assemble(ctx context.Context, src Source) (*models.Place, bool) {
	fields := make(map[string]models.Field, len(a.fields))
	for _, spec := range a.fields {
		f := a.extractor.Extract(ctx, src, spec)
		if spec.Name == FieldName && (!f.Found || models.IsArtifactName(f.Value)) {
			a.logger.Debug("[assemble] No place in panel (name %q)", f.String())
			return nil, false
		}
		fields[spec.Name] = f
	}

	place := &models.Place{
		Name:        fields[FieldName].Value,
		Address:     fields[FieldAddress].String(),
		Phone:       fields[FieldPhone].String(),
		Website:     models.NotAvailable,
		Category:    fields[FieldCategory].String(),
		Rating:      fields[FieldRating].String(),
		Reviews:     models.DefaultReviews,
		ExtractedAt: a.now().Format(timestampLayout),
	}
	if f := fields[FieldWebsite]; f.Found {
		place.Website = CleanWebsiteURL(f.Value)
	}
	if f := fields[FieldPhone]; f.Found && a.FormatPhone {
		place.Phone = services.FormatPhone(f.Value)
	}
	if f := fields[FieldReviews]; f.Found {
		place.Reviews = strconv.Itoa(services.ParseReviews(f.Value))
	}
	return place, true
}

// CleanWebsiteURL unwraps Google's redirect links to the destination held in
// their q parameter. Any other URL is returned unchanged.
func CleanWebsiteURL(raw string) string {
	if !strings.Contains(raw, redirectMarker) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if dest := u.Query().Get("q"); dest != "" {
		return dest
	}
	return raw
}
