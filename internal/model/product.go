package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the perfumes table.
type Product struct {
	ID             string
	Name           string
	Brand          string
	Description    string
	Price          decimal.NullDecimal
	Currency       string
	AmazonURL      string
	AmazonASIN     string
	ImageURL       string
	FragranticaURL string
	IsAvailable    bool
	Longevity      *int
	Sillage        *int
	Projection     *int
	Category       string
	Notes          []string
	Season         []string
	Occasion       []string
	LastScrapedAt  time.Time
}

// Candidate is a raw row projected onto the Product shape. Only fields the
// extractor could map are set; it is never persisted as is.
type Candidate struct {
	Name           string              `json:"name,omitempty"`
	Brand          string              `json:"brand,omitempty"`
	BrandInferred  bool                `json:"brand_inferred,omitempty"`
	Description    string              `json:"description,omitempty"`
	Price          decimal.NullDecimal `json:"price"`
	Currency       string              `json:"currency,omitempty"`
	AmazonURL      string              `json:"amazon_url,omitempty"`
	AmazonASIN     string              `json:"amazon_asin,omitempty"`
	ImageURL       string              `json:"image_url,omitempty"`
	FragranticaURL string              `json:"fragrantica_url,omitempty"`
	Available      *bool               `json:"is_available,omitempty"`
	Longevity      *int                `json:"longevity,omitempty"`
	Sillage        *int                `json:"sillage,omitempty"`
	Projection     *int                `json:"projection,omitempty"`
	Category       string              `json:"category,omitempty"`
	Notes          []string            `json:"notes,omitempty"`
	Season         []string            `json:"season,omitempty"`
	Occasion       []string            `json:"occasion,omitempty"`
}

// NaturalKey is the ASIN when known, otherwise brand and name.
func (c Candidate) NaturalKey() string {
	if c.AmazonASIN != "" {
		return "asin:" + c.AmazonASIN
	}
	return "brand+name:" + c.Brand + "|" + c.Name
}
