package services

import (
	"testing"

	"github.com/ItsCxdy/google-maps-scraper/models"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"4.6", 4.6, true},
		{"4.6\n(1,234)", 4.6, true},
		{"Rated 3.9 stars", 3.9, true},
		{"10.0", 10.0, true},
		{"0.0", 0, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"New", 0, false},
		{"4", 0, false},
		{"123.4", 0, false},
		{"(2,123.4)", 0, false},
		{"Rating:4.2", 4.2, true},
	}

	for _, tt := range tests {
		got, ok := ParseRating(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRating(%q) = %.1f, %v; want %.1f, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseRatingIdempotent(t *testing.T) {
	for _, raw := range []string{"4.6\n(88)", "3.0", "5.0 stars", "10.0"} {
		first, ok := ParseRating(raw)
		if !ok {
			t.Fatalf("ParseRating(%q) found no rating", raw)
		}
		second, ok := ParseRating(FormatRating(first))
		if !ok || second != first {
			t.Errorf("ParseRating(FormatRating(%.1f)) = %.1f, %v; want %.1f", first, second, ok, first)
		}
	}
}

func TestParseReviews(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1,234 reviews", 1234},
		{"", 0},
		{"(58)", 58},
		{"no reviews", 0},
		{"99999999999999999999999", 0},
	}

	for _, tt := range tests {
		got := ParseReviews(tt.raw)
		if got != tt.want {
			t.Errorf("ParseReviews(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  Joe's   Pizza \n", "Joe's Pizza"},
		{"\t", ""},
		{"a b", "a b"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.raw); got != tt.want {
			t.Errorf("CleanText(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"212-555-0134", "(212) 555-0134"},
		{"+44 20 7946 0958", "+442079460958"},
		{"N/A", "N/A"},
	}
	for _, tt := range tests {
		if got := FormatPhone(tt.raw); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseAddress(t *testing.T) {
	got := ParseAddress("42 E 20th St, New York, NY 10003, United States")
	want := models.Address{Street: "42 E 20th St", City: "New York", State: "NY 10003", Country: "United States"}
	if got != want {
		t.Errorf("ParseAddress = %+v; want %+v", got, want)
	}

	if got := ParseAddress(models.NotAvailable); got != (models.Address{}) {
		t.Errorf("ParseAddress(N/A) = %+v; want zero value", got)
	}
}
