package sheet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"perfumeprj/internal/extract"
	"perfumeprj/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func value(r model.RawRow, key string) any {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

func TestRead_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrape.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"product-name", "a-price-whole", "amazon-product-link", "s-image src (2)"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Versace Eros EDT 100ml", "1,299", "https://www.amazon.co.za/dp/B0EROS0001", "eros.jpg"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"", "", "", ""}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Gucci Bloom", "", "", ""}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "scrape.xlsx:2", rows[0].Source)
	assert.Equal(t, "Versace Eros EDT 100ml", value(rows[0], "product-name"))
	assert.Equal(t, "scrape.xlsx:4", rows[1].Source)
	assert.Len(t, rows[1].Fields, 1)

	c := extract.New().Extract(rows[0])
	assert.Equal(t, "Versace Eros EDT 100ml", c.Name)
	assert.Equal(t, "1299", c.Price.Decimal.String())
	assert.Equal(t, "https://www.amazon.co.za/dp/B0EROS0001", c.AmazonURL)
	assert.Equal(t, "eros.jpg", c.ImageURL)
}

func TestRead_CSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sheet.csv",
		"\ufeffName,Brand,Price,Notes\n"+
			"Aventus,Creed,\"R 4,500.00\",\"pineapple; birch; musk\"\n"+
			",,,\n"+
			"Light Blue,Dolce & Gabbana,899\n")

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aventus", value(rows[0], "Name"))
	assert.Equal(t, "R 4,500.00", value(rows[0], "Price"))
	assert.Equal(t, "sheet.csv:4", rows[1].Source)
	assert.Nil(t, value(rows[1], "Notes"))
}

func TestRead_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "feed.json", `[
		{"title": "Acqua di Gio", "brand": "Armani", "price": 1150.5, "is available": true, "notes": ["marine", "citrus"], "asin": null},
		"junk",
		{"title": "Bleu de Chanel"}
	]`)

	rows, err := Read(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1150.5, value(rows[0], "price"))
	assert.Equal(t, true, value(rows[0], "is available"))
	assert.Equal(t, "marine, citrus", value(rows[0], "notes"))
	assert.Nil(t, value(rows[0], "asin"))
	assert.Equal(t, "feed.json[2]", rows[1].Source)

	c := extract.New().Extract(rows[0])
	assert.Equal(t, []string{"marine", "citrus"}, c.Notes)
	require.NotNil(t, c.Available)
	assert.True(t, *c.Available)
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read("legacy.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "imageOverrides.json", `[
		{"brand": "Creed", "name": "Aventus", "image_url": "https://cdn.example.com/aventus.png"},
		{"brand": "Creed", "name": "Viking"}
	]`)

	got, err := ReadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, []model.ImageOverride{{Brand: "Creed", Name: "Aventus", ImageURL: "https://cdn.example.com/aventus.png"}}, got)

	bad := writeFile(t, t.TempDir(), "bad.json", `{"brand": "Creed"}`)
	_, err = ReadOverrides(bad)
	assert.Error(t, err)
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "old.xlsx", "x")
	csvPath := writeFile(t, dir, "new.csv", "x")
	xlsxPath := writeFile(t, dir, "new.xlsx", "x")
	writeFile(t, dir, "notes.txt", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0o755))

	base := time.Now()
	require.NoError(t, os.Chtimes(old, base.Add(-time.Hour), base.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(csvPath, base, base))
	require.NoError(t, os.Chtimes(xlsxPath, base, base))

	got, err := Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, xlsxPath, got)

	require.NoError(t, os.Chtimes(csvPath, base.Add(time.Minute), base.Add(time.Minute)))
	got, err = Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, csvPath, got)
}

func TestLatest_Empty(t *testing.T) {
	_, err := Latest(t.TempDir())
	assert.ErrorIs(t, err, ErrNoSpreadsheet)

	_, err = Latest(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNoSpreadsheet)
}
