package extract

// Field is a canonical candidate attribute.
type Field string

const (
	FieldName           Field = "name"
	FieldBrand          Field = "brand"
	FieldDescription    Field = "description"
	FieldPrice          Field = "price"
	FieldCurrency       Field = "currency"
	FieldAmazonURL      Field = "amazon_url"
	FieldAmazonASIN     Field = "amazon_asin"
	FieldImageURL       Field = "image_url"
	FieldFragranticaURL Field = "fragrantica_url"
	FieldAvailability   Field = "availability"
	FieldLongevity      Field = "longevity"
	FieldSillage        Field = "sillage"
	FieldProjection     Field = "projection"
	FieldCategory       Field = "category"
	FieldNotes          Field = "notes"
	FieldSeason         Field = "season"
	FieldOccasion       Field = "occasion"
)

// Synonym lists the header spellings accepted for one field, most specific first.
type Synonym struct {
	Field   Field
	Aliases []string
}

// Synonyms covers hand-made sheets, Amazon web-scraper exports
// ("a-price-whole", "s-image src (2)") and our own search parser keys.
var Synonyms = []Synonym{
	{FieldName, []string{"name", "product name", "title"}},
	{FieldBrand, []string{"brand", "manufacturer", "company"}},
	{FieldDescription, []string{"description", "product description", "details", "about"}},
	{FieldPrice, []string{"price", "cost", "amount", "a-offscreen", "a-price", "a-price-whole"}},
	{FieldCurrency, []string{"currency"}},
	{FieldAmazonURL, []string{"amazon url", "amazon link", "amazon-product-link", "product url", "product link", "url", "link"}},
	{FieldAmazonASIN, []string{"asin", "amazon asin", "product id"}},
	{FieldImageURL, []string{"image url", "image", "product-image-source", "image src", "img", "picture", "photo", "s-image src (2)"}},
	{FieldFragranticaURL, []string{"fragrantica url", "fragrantica link", "fragrantica"}},
	{FieldAvailability, []string{"availability", "is available", "in stock", "available"}},
	{FieldLongevity, []string{"longevity", "longevity rating"}},
	{FieldSillage, []string{"sillage", "sillage rating"}},
	{FieldProjection, []string{"projection", "projection rating"}},
	{FieldCategory, []string{"category", "fragrance type", "type"}},
	{FieldNotes, []string{"notes", "fragrance notes", "scent notes"}},
	{FieldSeason, []string{"season", "seasons", "best season"}},
	{FieldOccasion, []string{"occasion", "occasions", "best for"}},
}
