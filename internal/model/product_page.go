package model

// ProductPage is what a product detail page yields for the image refresher.
type ProductPage struct {
	ASIN     string
	ImageURL string
	// Available is nil when the page had no recognisable stock line.
	Available *bool
}

// ImageOverride pins an image for a (brand, name) pair.
type ImageOverride struct {
	Brand    string `json:"brand"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}
