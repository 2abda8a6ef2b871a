package gmaps

// CSS selectors for Google Maps. The class names are generated by Google's
// build and change without notice; keep fallbacks ordered from most to least
// specific.
const (
	// Search results page
	feedSelector       = `div[role="feed"]`
	resultLinkSelector = `a.hfpxzc`

	// Detail panel is open once one of these is present
	panelReadySelector = `h1.DUwDvf, div.fontHeadlineLarge, h1.text-headline-1`
)

// Field names, also the keys of the JSON output.
const (
	FieldName     = "name"
	FieldCategory = "category"
	FieldAddress  = "address"
	FieldPhone    = "phone"
	FieldWebsite  = "website"
	FieldRating   = "rating"
	FieldReviews  = "reviews"
)

// PanelFields is the extraction table for the detail panel.
var PanelFields = []FieldSpec{
	{
		Name:      FieldName,
		Selectors: []string{`h1.DUwDvf`, `div.fontHeadlineLarge`, `h1.text-headline-1`},
	},
	{
		Name:      FieldCategory,
		Selectors: []string{`button.DkEaL`, `button[jsaction*="category"]`},
	},
	{
		Name:       FieldAddress,
		Selectors:  []string{`button[data-item-id="address"]`, `div[data-item-id="address"]`},
		Attr:       "aria-label",
		TrimPrefix: "Address: ",
	},
	{
		Name:       FieldPhone,
		Selectors:  []string{`button[data-item-id^="phone:tel:"]`, `div[data-item-id^="phone:tel:"]`},
		Attr:       "aria-label",
		TrimPrefix: "Phone: ",
	},
	{
		Name:      FieldWebsite,
		Selectors: []string{`a[data-item-id="authority"]`, `a[aria-label^="Website:"]`},
		Attr:      "href",
	},
	{
		Name:      FieldRating,
		Selectors: []string{`div.F7k0ve span[aria-hidden="true"]`, `div.F7k0ve`, `div.fontDisplayLarge`},
		FirstLine: true,
	},
	{
		Name:      FieldReviews,
		Selectors: []string{`span.fontBodyMedium > span > span`, `div.F7k0ve span[role="img"] + span`},
	},
}
