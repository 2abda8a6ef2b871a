package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ItsCxdy/google-maps-scraper/models"
	"github.com/ItsCxdy/google-maps-scraper/utils"
)

func testPlaces() []*models.Place {
	return []*models.Place{
		{
			Name: "Café Münster", Address: "Domplatz 1, 48143 Münster, Germany",
			Phone: "+49 251 123456", Website: "https://example.com/?a=1&b=2",
			Category: "Café", Rating: "4.7", Reviews: "1234", ExtractedAt: "2024-05-01 10:00:00",
		},
		{
			Name: "Results", Address: models.NotAvailable, Phone: models.NotAvailable,
			Website: models.NotAvailable, Category: models.NotAvailable,
			Rating: models.NotAvailable, Reviews: "0", ExtractedAt: "2024-05-01 10:00:01",
		},
		{
			Name: "Corner Deli", Address: "12 Main St, Springfield", Phone: models.NotAvailable,
			Website: models.NotAvailable, Category: "Deli", Rating: models.NotAvailable,
			Reviews: "0", ExtractedAt: "2024-05-01 10:00:02",
		},
	}
}

func TestSaveEmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()

	paths, err := Save(nil, filepath.Join(dir, "out"), FormatBoth, utils.NewNopLogger())
	require.NoError(t, err)
	require.Empty(t, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSaveOnlyArtifactsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	places := []*models.Place{{Name: "Results"}, {Name: "sponsored"}}

	paths, err := Save(places, filepath.Join(dir, "out"), FormatXLSX, utils.NewNopLogger())
	require.NoError(t, err)
	require.Empty(t, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSaveBothWritesSpreadsheetAndJSON(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")

	paths, err := Save(testPlaces(), base, FormatBoth, utils.NewNopLogger())
	require.NoError(t, err)
	require.Equal(t, []string{base + ".xlsx", base + ".json"}, paths)

	for _, p := range paths {
		require.FileExists(t, p)
	}
}

func TestXLSXDropsArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")

	_, err := Save(testPlaces(), base, FormatXLSX, utils.NewNopLogger())
	require.NoError(t, err)

	f, err := excelize.OpenFile(base + ".xlsx")
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, models.Place{}.Columns(), rows[0])
	require.Equal(t, "Café Münster", rows[1][0])
	require.Equal(t, "Corner Deli", rows[2][0])
	require.Equal(t, models.NotAvailable, rows[2][5])

	style, err := f.GetCellStyle(sheetName, "A1")
	require.NoError(t, err)
	require.NotZero(t, style, "header row should carry the bold style")

	width, err := f.GetColWidth(sheetName, "H")
	require.NoError(t, err)
	require.Equal(t, 28.0, width)
}

func TestCSVRows(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")

	_, err := Save(testPlaces(), base, FormatCSV, utils.NewNopLogger())
	require.NoError(t, err)

	f, err := os.Open(base + ".csv")
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "Domplatz 1, 48143 Münster, Germany", records[1][1])
}

func TestJSONRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	places := testPlaces()

	_, err := Save(places, base, FormatJSON, utils.NewNopLogger())
	require.NoError(t, err)

	raw, err := os.ReadFile(base + ".json")
	require.NoError(t, err)
	require.Contains(t, string(raw), "Café Münster")
	require.Contains(t, string(raw), "https://example.com/?a=1&b=2")
	require.Contains(t, string(raw), "\n  {\n    \"name\"")

	loaded, err := LoadJSON(base + ".json")
	require.NoError(t, err)
	require.Equal(t, []*models.Place{places[0], places[2]}, loaded)
}

func TestLoadJSONFillsMissingNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Old Place"}]`), 0o644))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, models.DefaultRating, loaded[0].Rating)
	require.Equal(t, models.DefaultReviews, loaded[0].Reviews)
}

func TestLoadJSONErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadJSON(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0o644))
	_, err = LoadJSON(bad)
	require.Error(t, err)
}

func TestOutputFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		query, location, want string
	}{
		{"coffee shops", "", "google_maps_coffee shops_20240309_140507"},
		{"coffee", "New York, NY", "google_maps_coffee_New York, NY_20240309_140507"},
		{`a/b\c:d*e?f"g<h>i|j`, "", "google_maps_a_b_c_d_e_f_g_h_i_j_20240309_140507"},
	}
	for _, tt := range tests {
		got := OutputFilename(tt.query, tt.location, now)
		if got != tt.want {
			t.Errorf("OutputFilename(%q, %q) = %q; want %q", tt.query, tt.location, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"xlsx": FormatXLSX, "Excel": FormatXLSX, "csv": FormatCSV,
		" json ": FormatJSON, "BOTH": FormatBoth,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	require.Error(t, err)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.DirExists(t, dir)
	require.NoError(t, EnsureDir(dir))
}
