package models

import "strings"

const (
	// NotAvailable is stored in any field the detail panel did not yield.
	NotAvailable = "N/A"

	DefaultRating  = "0.0"
	DefaultReviews = "0"
)

// Place is one business record read from the Google Maps detail panel.
// Every field is kept as the text the panel showed; numeric views of Rating
// and Reviews are produced by the services package.
type Place struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Category    string `json:"category"`
	Rating      string `json:"rating"`
	Reviews     string `json:"reviews"`
	ExtractedAt string `json:"extracted_at"`
}

// Columns is the header row shared by every tabular writer.
func (Place) Columns() []string {
	return []string{"name", "address", "phone", "website", "category", "rating", "reviews", "extracted_at"}
}

// Row returns the place's values in Columns order.
func (p *Place) Row() []string {
	return []string{p.Name, p.Address, p.Phone, p.Website, p.Category, p.Rating, p.Reviews, p.ExtractedAt}
}

// IsArtifactName reports whether name labels a UI element of the results
// feed rather than a business.
func IsArtifactName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "results", "sponsored":
		return true
	}
	return false
}

// Field is the outcome of reading one value from the panel.
type Field struct {
	Value string
	Found bool
}

// String returns the value, or NotAvailable when nothing was found.
func (f Field) String() string {
	return f.Or(NotAvailable)
}

// Or returns the value, or fallback when nothing was found.
func (f Field) Or(fallback string) string {
	if !f.Found {
		return fallback
	}
	return f.Value
}

// Address is a best-effort comma split of a free-text address.
type Address struct {
	Street  string
	City    string
	State   string
	Country string
}

// Summary holds the figures printed at the end of a run.
type Summary struct {
	TotalPlaces   int
	RatedPlaces   int
	AverageRating float64
	TotalReviews  int
	TopRated      []*Place
	ByCategory    map[string]int
	ByCity        map[string]int
}
