package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfumeprj/internal/model"
)

func row(kv ...any) model.RawRow {
	var r model.RawRow
	for i := 0; i+1 < len(kv); i += 2 {
		r.Add(kv[i].(string), kv[i+1])
	}
	return r
}

func TestExtract_NameHeaderAnyCasing(t *testing.T) {
	for _, header := range []string{"name", "Name", "  PRODUCT NAME ", "Product   Name", "title", "product-name", "Product_Name"} {
		c := New().Extract(row(header, "  Oud Wood  "))
		assert.Equal(t, "Oud Wood", c.Name, "header %q", header)
	}
}

func TestExtract_AliasPriority(t *testing.T) {
	c := New().Extract(row("Title", "From title", "Name", "From name"))
	assert.Equal(t, "From name", c.Name)
}

func TestExtract_SkipsEmptyValues(t *testing.T) {
	c := New().Extract(row("Name", "   ", "Title", "Bleu de Chanel", "Brand", nil))
	assert.Equal(t, "Bleu de Chanel", c.Name)
	assert.Empty(t, c.Brand)
}

func TestExtract_FullRow(t *testing.T) {
	c := New().Extract(row(
		"Product Name", "Oud Wood",
		"Manufacturer", "Tom Ford",
		"Cost", "R1,250.00",
		"ASIN", "B000TESTAS",
		"Amazon Link", "https://www.amazon.co.za/dp/B000TESTAS",
		"Image", "https://m.media-amazon.com/images/I/x.jpg",
		"Longevity Rating", "4",
		"Sillage", 3.0,
		"Fragrance Notes", "oud; rosewood | cardamom,, ",
		"Best Season", "Autumn, Winter",
		"Best For", "Evening",
		"Fragrance Type", "Eau de Parfum",
		"In Stock", "Only 2 left in stock",
		"Unmapped", "ignored",
	))

	assert.Equal(t, "Oud Wood", c.Name)
	assert.Equal(t, "Tom Ford", c.Brand)
	require.True(t, c.Price.Valid)
	assert.Equal(t, "1250", c.Price.Decimal.String())
	assert.Equal(t, "B000TESTAS", c.AmazonASIN)
	assert.Equal(t, "https://www.amazon.co.za/dp/B000TESTAS", c.AmazonURL)
	assert.Equal(t, "https://m.media-amazon.com/images/I/x.jpg", c.ImageURL)
	require.NotNil(t, c.Longevity)
	assert.Equal(t, 4, *c.Longevity)
	require.NotNil(t, c.Sillage)
	assert.Equal(t, 3, *c.Sillage)
	assert.Nil(t, c.Projection)
	assert.Equal(t, []string{"oud", "rosewood", "cardamom"}, c.Notes)
	assert.Equal(t, []string{"Autumn", "Winter"}, c.Season)
	assert.Equal(t, []string{"Evening"}, c.Occasion)
	assert.Equal(t, "Eau de Parfum", c.Category)
	require.NotNil(t, c.Available)
	assert.True(t, *c.Available)
}

func TestExtract_BadPriceOmitted(t *testing.T) {
	c := New().Extract(row("name", "X", "price", "call for price"))
	assert.False(t, c.Price.Valid)
}

func TestExtract_OutOfRangeRatingKept(t *testing.T) {
	// range checks belong to the validator
	c := New().Extract(row("longevity", "7"))
	require.NotNil(t, c.Longevity)
	assert.Equal(t, 7, *c.Longevity)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"R1,250.00":    "1250",
		"ZAR 1 250,00": "1250",
		"R 899.99":     "899.99",
		"12,50":        "12.5",
		"1.250.000":    "1250000",
		"1.250,75":     "1250.75",
		"$1,000":       "1000",
		"R1,250.00.":   "1250",
		"-R250.00":     "-250",
		"R -1,250.00":  "-1250",
	}
	for in, want := range cases {
		d, ok := ParsePrice(in)
		require.True(t, ok, in)
		assert.Equal(t, want, d.String(), in)
	}

	d, ok := ParsePrice(349.5)
	require.True(t, ok)
	assert.Equal(t, "349.5", d.String())

	for _, bad := range []any{"", "n/a", nil, "R"} {
		_, ok := ParsePrice(bad)
		assert.False(t, ok, "%v", bad)
	}
}

func TestParsePrice_CurrencyFloat(t *testing.T) {
	d, ok := ParsePrice("R1,250.00")
	require.True(t, ok)
	assert.Equal(t, 1250.0, d.InexactFloat64())
}

func TestParseRating(t *testing.T) {
	n, ok := ParseRating("4/5")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	n, ok = ParseRating("4.5")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = ParseRating("strong")
	assert.False(t, ok)
}

func TestParseAvailability(t *testing.T) {
	cases := map[any]bool{
		"Yes":                   true,
		"in stock":              true,
		"Currently unavailable": false,
		"Out of Stock":          false,
		"0":                     false,
		true:                    true,
		1.0:                     true,
	}
	for in, want := range cases {
		got, ok := ParseAvailability(in)
		require.True(t, ok, "%v", in)
		assert.Equal(t, want, got, "%v", in)
	}

	_, ok := ParseAvailability("maybe")
	assert.False(t, ok)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "d"}, SplitList(" a, b;c | d ;;"))
	assert.Nil(t, SplitList("  "))
}
