package gmaps

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

// flakySource fails selectors listed in errs and counts every attempt.
type flakySource struct {
	values   map[string]string
	errs     map[string]error
	attempts []string
}

func (f *flakySource) Text(_ context.Context, selector string) (string, error) {
	f.attempts = append(f.attempts, selector)
	if err, ok := f.errs[selector]; ok {
		return "", err
	}
	if v, ok := f.values[selector]; ok {
		return v, nil
	}
	return "", ErrNoMatch
}

func (f *flakySource) Attr(ctx context.Context, selector, _ string) (string, error) {
	return f.Text(ctx, selector)
}

func TestExtractFirstNonEmptyWins(t *testing.T) {
	src := &flakySource{
		values: map[string]string{"b": "  \n ", "c": " Cafe One ", "d": "unused"},
		errs:   map[string]error{"a": errors.New("stale node")},
	}
	spec := FieldSpec{Name: "name", Selectors: []string{"a", "b", "c", "d"}}

	got := NewExtractor(utils.NewNopLogger()).Extract(context.Background(), src, spec)

	if !got.Found || got.Value != "Cafe One" {
		t.Errorf("Extract = %+v; want found %q", got, "Cafe One")
	}
	if strings.Join(src.attempts, ",") != "a,b,c" {
		t.Errorf("attempts = %v; want a,b,c", src.attempts)
	}
}

func TestExtractAllMissReturnsSentinel(t *testing.T) {
	src := &flakySource{errs: map[string]error{"x": errors.New("timeout")}}
	spec := FieldSpec{Name: "phone", Selectors: []string{"x", "y"}}

	got := NewExtractor(utils.NewNopLogger()).Extract(context.Background(), src, spec)

	if got.Found {
		t.Errorf("Extract should report not found, got %+v", got)
	}
	if got.String() != models.NotAvailable {
		t.Errorf("String() = %q; want %q", got.String(), models.NotAvailable)
	}
}

func TestFieldSpecClean(t *testing.T) {
	tests := []struct {
		spec FieldSpec
		raw  string
		want string
	}{
		{FieldSpec{TrimPrefix: "Address: "}, " Address: 1 Main St ", "1 Main St"},
		{FieldSpec{TrimPrefix: "Phone: "}, "(212) 555-0134", "(212) 555-0134"},
		{FieldSpec{FirstLine: true}, "4.6\n(1,234)", "4.6"},
		{FieldSpec{}, "\t", ""},
	}
	for _, tt := range tests {
		if got := tt.spec.clean(tt.raw); got != tt.want {
			t.Errorf("clean(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestHTMLSourceMissingAttribute(t *testing.T) {
	src, err := NewHTMLSource(strings.NewReader(`<a data-item-id="authority">site</a>`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Attr(context.Background(), `a[data-item-id="authority"]`, "href"); err == nil {
		t.Error("expected an error for a missing attribute")
	}
	if _, err := src.Text(context.Background(), "h1"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("Text on a missing element: got %v, want ErrNoMatch", err)
	}
}

func TestBuildSearchURL(t *testing.T) {
	tests := []struct {
		query, location, want string
	}{
		{"coffee shops", "", "https://www.google.com/maps/search/coffee+shops"},
		{"coffee shops", "San Francisco", "https://www.google.com/maps/search/coffee+shops+in+San+Francisco"},
		{"fish & chips", "", "https://www.google.com/maps/search/fish+%26+chips"},
	}
	for _, tt := range tests {
		if got := BuildSearchURL(tt.query, tt.location); got != tt.want {
			t.Errorf("BuildSearchURL(%q, %q) = %q; want %q", tt.query, tt.location, got, tt.want)
		}
	}
}
