package retailer

// Wire DTOs for the retailer aggregation API. Prices come over the wire
// in dollars; dates are strings. The mapper converts them to domain types.

type productDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	IsNameBrand bool    `json:"isNameBrand"`
}

type productsResponse struct {
	RetailerID string       `json:"retailerId"`
	Products   []productDTO `json:"products"`
}

type dealDTO struct {
	ID           string  `json:"id"`
	ProductName  string  `json:"productName"`
	RetailerID   string  `json:"retailerId"`
	RegularPrice float64 `json:"regularPrice"`
	SalePrice    float64 `json:"salePrice"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
}

type dealsResponse struct {
	Deals []dealDTO `json:"deals"`
}

type preferencesDTO struct {
	PreferNameBrand       bool `json:"preferNameBrand"`
	PreferOrganic         bool `json:"preferOrganic"`
	BuyInBulk             bool `json:"buyInBulk"`
	PrioritizeCostSavings bool `json:"prioritizeCostSavings"`
}
