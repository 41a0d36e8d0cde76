// Package extract maps loosely-labelled spreadsheet rows and scraped fields
// onto candidate perfume records.
package extract

import (
	"github.com/shopspring/decimal"

	"perfumeprj/internal/model"
)

type Extractor struct {
	synonyms []Synonym
}

func New() *Extractor {
	return &Extractor{synonyms: Synonyms}
}

// Extract keeps only the fields it could map and coerce. Failed coercions
// leave the field unset rather than defaulted.
func (e *Extractor) Extract(row model.RawRow) model.Candidate {
	index := indexRow(row)
	var c model.Candidate

	for _, syn := range e.synonyms {
		v, ok := lookup(index, syn.Aliases)
		if !ok {
			continue
		}
		switch syn.Field {
		case FieldName:
			c.Name = Text(v)
		case FieldBrand:
			c.Brand = Text(v)
		case FieldDescription:
			c.Description = Text(v)
		case FieldPrice:
			if p, ok := ParsePrice(v); ok {
				c.Price = decimal.NullDecimal{Decimal: p, Valid: true}
			}
		case FieldCurrency:
			c.Currency = Text(v)
		case FieldAmazonURL:
			c.AmazonURL = Text(v)
		case FieldAmazonASIN:
			c.AmazonASIN = Text(v)
		case FieldImageURL:
			c.ImageURL = Text(v)
		case FieldFragranticaURL:
			c.FragranticaURL = Text(v)
		case FieldAvailability:
			if b, ok := ParseAvailability(v); ok {
				c.Available = &b
			}
		case FieldLongevity:
			c.Longevity = rating(v)
		case FieldSillage:
			c.Sillage = rating(v)
		case FieldProjection:
			c.Projection = rating(v)
		case FieldCategory:
			c.Category = Text(v)
		case FieldNotes:
			c.Notes = SplitList(v)
		case FieldSeason:
			c.Season = SplitList(v)
		case FieldOccasion:
			c.Occasion = SplitList(v)
		}
	}
	return c
}

func rating(v any) *int {
	n, ok := ParseRating(v)
	if !ok {
		return nil
	}
	return &n
}

// indexRow keys the row by normalized header; the first non-empty value for a
// header wins.
func indexRow(row model.RawRow) map[string]any {
	index := make(map[string]any, len(row.Fields))
	for _, f := range row.Fields {
		if Text(f.Value) == "" {
			continue
		}
		k := normalizeKey(f.Key)
		if _, seen := index[k]; !seen {
			index[k] = f.Value
		}
	}
	return index
}

func lookup(index map[string]any, aliases []string) (any, bool) {
	for _, a := range aliases {
		if v, ok := index[normalizeKey(a)]; ok {
			return v, true
		}
	}
	return nil, false
}
