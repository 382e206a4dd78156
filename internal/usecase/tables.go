package usecase

// Tables holds the static lookup data the engine matches against.
// Build one at startup (usually via DefaultTables) and treat it as
// immutable afterwards; the engine never mutates it. Tests can substitute
// their own tables to exercise alternate mappings.
type Tables struct {
	// BrandPrefixes are store-brand phrases stripped during normalization,
	// regardless of retailer
	BrandPrefixes []string

	// StoreBrands maps a retailer ID to its house-brand phrases, used by
	// the brand-aware matching strategy
	StoreBrands map[string][]string

	// Categories maps a category keyword to known product name variations,
	// used by the category-substitution strategy
	Categories map[string][]string

	// ClampPolicies caps the requested quantity per cart line for products
	// whose name contains the keyword. Covers household paper goods that
	// are only stocked in fixed pack sizes.
	ClampPolicies map[string]float64
}

// DefaultTables returns the shipped brand, category, and clamp mappings
func DefaultTables() Tables {
	return Tables{
		BrandPrefixes: []string{
			"great value", "market pantry", "good & gather", "kroger brand",
			"simple truth", "private selection", "marketside", "equate",
			"sam's choice", "up & up", "favorite day", "heritage farm",
		},
		StoreBrands: map[string][]string{
			"walmart": {"great value", "marketside", "equate", "sam's choice", "parent's choice"},
			"target":  {"market pantry", "good & gather", "up & up", "favorite day"},
			"kroger":  {"kroger brand", "simple truth", "private selection", "heritage farm"},
		},
		Categories: map[string][]string{
			"milk":    {"whole milk", "2% milk", "1% milk", "skim milk", "almond milk", "oat milk", "soy milk"},
			"bread":   {"white bread", "wheat bread", "whole wheat bread", "sourdough bread", "multigrain bread"},
			"eggs":    {"large eggs", "extra large eggs", "dozen eggs", "egg whites"},
			"cheese":  {"cheddar cheese", "mozzarella cheese", "swiss cheese", "american cheese", "shredded cheese"},
			"butter":  {"salted butter", "unsalted butter", "butter sticks"},
			"chicken": {"chicken breast", "chicken thighs", "whole chicken", "ground chicken"},
			"rice":    {"white rice", "brown rice", "jasmine rice", "basmati rice"},
			"cereal":  {"corn flakes", "oat cereal", "granola", "bran flakes"},
		},
		ClampPolicies: map[string]float64{
			"paper towels": 6,
			"toilet paper": 12,
			"napkins":      6,
		},
	}
}
