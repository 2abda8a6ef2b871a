package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ItsCxdy/google-maps-scraper/models"
)

var (
	// ratingRegexp captures the star rating, e.g. "4.6" out of "4.6\n(1,234)".
	// The rating must not be the tail of a longer number.
	ratingRegexp = regexp.MustCompile(`(?:^|[^\d])(\d{1,2}\.\d)`)
	// nonDigitRegexp matches everything a review count can be wrapped in.
	nonDigitRegexp = regexp.MustCompile(`\D`)
)

// ParseRating extracts the first "d.d" or "dd.d" fragment from raw rating
// text. The second return value is false when raw carries no rating at all,
// which is distinct from a rating of zero.
func ParseRating(raw string) (float64, bool) {
	m := ratingRegexp.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// FormatRating renders a rating with one decimal place. ParseRating of the
// result yields the same value.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ratingOrZero is the sort key for a place: undefined ratings sort as zero.
func ratingOrZero(p *models.Place) float64 {
	v, _ := ParseRating(p.Rating)
	return v
}

// ParseReviews keeps only the digits of raw and parses them.
// Examples:
//
//	"1,234 reviews" → 1234
//	"(58)"          → 58
//	""              → 0
func ParseReviews(raw string) int {
	digits := nonDigitRegexp.ReplaceAllString(raw, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// CleanText strips leading/trailing whitespace and collapses internal whitespace.
func CleanText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

// FormatPhone renders ten-digit numbers as (XXX) XXX-XXXX and any other digit
// run as +digits. Input without digits is returned unchanged.
func FormatPhone(raw string) string {
	digits := nonDigitRegexp.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) > 0:
		return "+" + digits
	}
	return raw
}

// ParseAddress splits a free-text address on commas. Only the first three
// parts and the last are interpreted; anything else is ignored.
func ParseAddress(raw string) models.Address {
	if strings.TrimSpace(raw) == "" || raw == models.NotAvailable {
		return models.Address{}
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = CleanText(parts[i])
	}

	addr := models.Address{Street: parts[0], Country: parts[len(parts)-1]}
	if len(parts) > 1 {
		addr.City = parts[1]
	}
	if len(parts) > 2 {
		addr.State = parts[2]
	}
	return addr
}
