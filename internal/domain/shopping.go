package domain

import "time"

// Unit is the measurement unit of a shopping list item
type Unit string

const (
	UnitCount Unit = "count"
	UnitOunce Unit = "oz"
	UnitPound Unit = "lb"
	UnitGram  Unit = "g"
	UnitLiter Unit = "l"
)

// ShoppingListItem represents one entry on a user's shopping list
type ShoppingListItem struct {
	ID          string  `json:"id"`
	ProductName string  `json:"productName" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Unit        Unit    `json:"unit,omitempty"`
}

// RetailerProduct represents a product from a retailer's catalog.
// Price is in minor currency units (cents); Quantity is the pack size.
type RetailerProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	IsNameBrand bool   `json:"isNameBrand"`
}

// PackSize returns the product's pack size, defaulting to 1
func (p RetailerProduct) PackSize() int {
	if p.Quantity <= 0 {
		return 1
	}
	return p.Quantity
}

// Deal represents an advertised price reduction at a retailer.
// Prices are in minor currency units (cents).
type Deal struct {
	ID           string    `json:"id"`
	ProductName  string    `json:"productName"`
	RetailerID   string    `json:"retailerId"`
	RegularPrice int       `json:"regularPrice"`
	SalePrice    int       `json:"salePrice"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

// ActiveAt reports whether the deal is running at time t.
// The window is inclusive of the start and exclusive of the end.
func (d Deal) ActiveAt(t time.Time) bool {
	return !t.Before(d.StartDate) && t.Before(d.EndDate)
}

// UserPreferences holds a user's shopping preferences.
// A nil *UserPreferences means no preference bonuses are applied.
type UserPreferences struct {
	PreferNameBrand       bool `json:"preferNameBrand"`
	PreferOrganic         bool `json:"preferOrganic"`
	BuyInBulk             bool `json:"buyInBulk"`
	PrioritizeCostSavings bool `json:"prioritizeCostSavings"`
}
