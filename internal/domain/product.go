package domain

// Product is a packaged food/beverage item from the catalog. Products are
// read-only inputs to the evaluation engine; ReportNo is the stable
// identifier used across all tag and text lookups.
type Product struct {
	ReportNo string
	Name     string
	Seller   string
	Capacity string
	ImageURL string

	// Structured attributes. Tag order is the declaration order on the
	// product record and is preserved end-to-end: warning messages enumerate
	// matched names in this order.
	AllergenTags  []int64
	SweetenerTags []int64

	// Free-text fields scanned by the heuristic matcher. A missing field is
	// an empty string, never an error.
	IngredientText string
	NutrientText   string
}

// ProductTexts is the pair of free-text fields the heuristic matcher scans,
// bulk-loaded per batch keyed by ReportNo.
type ProductTexts struct {
	IngredientText string
	NutrientText   string
}

// HasAllergenTag reports whether the product declares the given allergen.
func (p Product) HasAllergenTag(id int64) bool {
	for _, t := range p.AllergenTags {
		if t == id {
			return true
		}
	}
	return false
}
