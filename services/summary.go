package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

const previewCount = 5

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(places []*models.Place) *models.Summary {
	summary := &models.Summary{
		ByCategory: make(map[string]int),
		ByCity:     make(map[string]int),
	}

	if len(places) == 0 {
		return summary
	}

	summary.TotalPlaces = len(places)

	var rated []*models.Place
	var total float64

	for _, p := range places {
		if v, ok := ParseRating(p.Rating); ok {
			rated = append(rated, p)
			total += v
		}
		summary.TotalReviews += ParseReviews(p.Reviews)

		if cat := CleanText(p.Category); cat != "" && cat != models.NotAvailable {
			summary.ByCategory[cat]++
		}
		if city := ParseAddress(p.Address).City; city != "" {
			summary.ByCity[city]++
		}
	}

	summary.RatedPlaces = len(rated)
	if len(rated) > 0 {
		summary.AverageRating = round2(total / float64(len(rated)))
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return ratingOrZero(rated[i]) > ratingOrZero(rated[j])
	})
	if len(rated) > previewCount {
		rated = rated[:previewCount]
	}
	summary.TopRated = rated

	s.logger.Debug("[summary] %d places, %d rated, %d categories, %d cities",
		summary.TotalPlaces, summary.RatedPlaces, len(summary.ByCategory), len(summary.ByCity))
	return summary
}

// Print writes the run summary: the first places in output order, the
// aggregate figures, the top rated places and the breakdowns by category and
// city.
func (s *SummaryService) Print(w io.Writer, places []*models.Place, summary *models.Summary) {
	sep := strings.Repeat("═", 60)
	fmt.Fprintf(w, "\n%s\n  📊 RESULTS SUMMARY\n%s\n", sep, sep)

	if len(places) == 0 {
		fmt.Fprintln(w, "  No places to show")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Name", "Address", "Phone", "Rating", "Reviews"})
	for i, p := range places {
		if i == previewCount {
			break
		}
		t.AppendRow(table.Row{
			i + 1,
			truncate(p.Name, 40),
			truncate(p.Address, 50),
			p.Phone,
			p.Rating,
			ParseReviews(p.Reviews),
		})
	}
	t.Render()

	if len(places) > previewCount {
		fmt.Fprintf(w, "  ... and %d more places\n", len(places)-previewCount)
	}

	fmt.Fprintf(w, "\n  Total places   : %d\n", summary.TotalPlaces)
	fmt.Fprintf(w, "  Rated places   : %d\n", summary.RatedPlaces)
	if summary.RatedPlaces > 0 {
		fmt.Fprintf(w, "  Average rating : %.2f ★\n", summary.AverageRating)
	}
	fmt.Fprintf(w, "  Total reviews  : %d\n", summary.TotalReviews)

	if len(summary.TopRated) > 0 {
		tt := newTable(w)
		tt.SetTitle("Top rated")
		tt.AppendHeader(table.Row{"#", "Name", "Rating", "Reviews"})
		for i, p := range summary.TopRated {
			tt.AppendRow(table.Row{i + 1, truncate(p.Name, 40), p.Rating, ParseReviews(p.Reviews)})
		}
		fmt.Fprintln(w)
		tt.Render()
	}

	printCounts(w, "Category", summary.ByCategory)
	printCounts(w, "City", summary.ByCity)

	fmt.Fprintf(w, "%s\n\n", sep)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// printCounts renders a breakdown table, largest group first.
func printCounts(w io.Writer, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	t := newTable(w)
	t.AppendHeader(table.Row{label, "Places"})
	for _, k := range keys {
		t.AppendRow(table.Row{truncate(k, 40), counts[k]})
	}
	fmt.Fprintln(w)
	t.Render()
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
