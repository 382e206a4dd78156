package retailer

import (
	"math"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

// dealDateLayouts are the date formats retailer feeds have been seen to use
var dealDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// dollarsToCents converts a dollar amount to integer minor currency units
func dollarsToCents(dollars float64) int {
	return int(math.Round(dollars * 100))
}

// parseDealDate parses a deal date in any known feed format
func parseDealDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dealDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// mapProducts converts wire products to domain products
func mapProducts(dtos []productDTO) []domain.RetailerProduct {
	products := make([]domain.RetailerProduct, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, domain.RetailerProduct{
			ID:          dto.ID,
			Name:        dto.Name,
			Price:       dollarsToCents(dto.Price),
			Quantity:    dto.Quantity,
			IsNameBrand: dto.IsNameBrand,
		})
	}
	return products
}

// mapDeals converts wire deals to domain deals, dropping entries whose
// dates fail to parse since an undated deal cannot be checked for activity
func mapDeals(dtos []dealDTO) []domain.Deal {
	deals := make([]domain.Deal, 0, len(dtos))
	for _, dto := range dtos {
		start, okStart := parseDealDate(dto.StartDate)
		end, okEnd := parseDealDate(dto.EndDate)
		if !okStart || !okEnd {
			continue
		}
		deals = append(deals, domain.Deal{
			ID:           dto.ID,
			ProductName:  dto.ProductName,
			RetailerID:   dto.RetailerID,
			RegularPrice: dollarsToCents(dto.RegularPrice),
			SalePrice:    dollarsToCents(dto.SalePrice),
			StartDate:    start,
			EndDate:      end,
		})
	}
	return deals
}

// mapPreferences converts wire preferences to the domain record
func mapPreferences(dto *preferencesDTO) *domain.UserPreferences {
	if dto == nil {
		return nil
	}
	return &domain.UserPreferences{
		PreferNameBrand:       dto.PreferNameBrand,
		PreferOrganic:         dto.PreferOrganic,
		BuyInBulk:             dto.BuyInBulk,
		PrioritizeCostSavings: dto.PrioritizeCostSavings,
	}
}
