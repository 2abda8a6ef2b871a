package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ItsCxdy/google-maps-scraper/models"
)

func samplePlaces() []*models.Place {
	return []*models.Place{
		{Name: "Cafe A", Address: "1 Main St, Austin, TX, United States", Category: "Cafe", Rating: "4.9", Reviews: "(120)"},
		{Name: "Cafe B", Address: "2 Main St, Austin, TX, United States", Category: "Cafe", Rating: "4.5", Reviews: "1,000"},
		{Name: "Bar C", Address: "3 Main St, Dallas, TX, United States", Category: "Bar", Rating: "4.8", Reviews: "80"},
		{Name: "Shop D", Address: "N/A", Category: "N/A", Rating: "N/A", Reviews: "0"},
		{Name: "Bar E", Address: "5 Main St, Dallas, TX, United States", Category: "Bar", Rating: "4.7", Reviews: ""},
		{Name: "Bar F", Address: "6 Main St, Dallas, TX, United States", Category: "Bar", Rating: "3.1", Reviews: "2"},
		{Name: "Bar G", Address: "7 Main St, Dallas, TX, United States", Category: "Bar", Rating: "4.0", Reviews: "3"},
	}
}

func TestSummaryCounts(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	s := svc.Generate(samplePlaces())
	if s.TotalPlaces != 7 {
		t.Errorf("TotalPlaces: got %d, want 7", s.TotalPlaces)
	}
	if s.RatedPlaces != 6 {
		t.Errorf("RatedPlaces: got %d, want 6", s.RatedPlaces)
	}
	if s.TotalReviews != 1205 {
		t.Errorf("TotalReviews: got %d, want 1205", s.TotalReviews)
	}
}

func TestSummaryAverageRating(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	s := svc.Generate(samplePlaces())
	want := 4.33
	if s.AverageRating != want {
		t.Errorf("AverageRating: got %.2f, want %.2f", s.AverageRating, want)
	}
}

func TestSummaryTopRated(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	s := svc.Generate(samplePlaces())
	if len(s.TopRated) != 5 {
		t.Fatalf("TopRated len: got %d, want 5", len(s.TopRated))
	}
	if s.TopRated[0].Name != "Cafe A" {
		t.Errorf("TopRated[0]: got %q, want %q", s.TopRated[0].Name, "Cafe A")
	}
	if s.TopRated[4].Name != "Bar G" {
		t.Errorf("TopRated[4]: got %q, want %q", s.TopRated[4].Name, "Bar G")
	}
}

func TestSummaryGrouping(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	s := svc.Generate(samplePlaces())
	if s.ByCategory["Bar"] != 4 {
		t.Errorf("Bar count: got %d, want 4", s.ByCategory["Bar"])
	}
	if _, ok := s.ByCategory[models.NotAvailable]; ok {
		t.Error("N/A must not be counted as a category")
	}
	if s.ByCity["Dallas"] != 4 || s.ByCity["Austin"] != 2 {
		t.Errorf("ByCity: got %v", s.ByCity)
	}
}

func TestSummaryCountsZeroRating(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	s := svc.Generate([]*models.Place{
		{Name: "Closed Kiosk", Rating: "0.0"},
		{Name: "Good Cafe", Rating: "4.0"},
		{Name: "Unrated Shop", Rating: models.NotAvailable},
	})
	if s.RatedPlaces != 2 {
		t.Errorf("RatedPlaces: got %d, want 2 (a zero rating is still a rating)", s.RatedPlaces)
	}
	if s.AverageRating != 2.0 {
		t.Errorf("AverageRating: got %.2f, want 2.00", s.AverageRating)
	}
}

func TestSummaryEmptyInput(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	s := svc.Generate(nil)
	if s.TotalPlaces != 0 {
		t.Errorf("expected 0 total places for empty input")
	}
}

func TestSummaryPrint(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	places := samplePlaces()

	var buf bytes.Buffer
	svc.Print(&buf, places, svc.Generate(places))

	out := buf.String()
	for _, want := range []string{
		"Cafe A", "Bar E", "... and 2 more places", "Total places   : 7",
		"Bar G", "CATEGORY", "CITY",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Print output missing %q", want)
		}
	}
	if strings.Contains(out, "Bar F") {
		t.Error("Bar F is neither among the first five places nor the top rated")
	}
}

func TestSummaryPrintCityBreakdown(t *testing.T) {
	svc := NewSummaryService(newTestLogger())
	places := samplePlaces()

	var buf bytes.Buffer
	svc.Print(&buf, places, svc.Generate(places))

	rows := map[string]string{}
	for _, line := range strings.Split(buf.String(), "\n") {
		cells := strings.Fields(strings.ReplaceAll(line, "│", " "))
		if len(cells) == 2 {
			rows[cells[0]] = cells[1]
		}
	}
	if rows["Dallas"] != "4" || rows["Austin"] != "2" {
		t.Errorf("city rows: got Dallas=%q Austin=%q, want 4 and 2", rows["Dallas"], rows["Austin"])
	}
}
