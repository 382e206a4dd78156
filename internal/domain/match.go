package domain

// MatchType identifies which matching strategy produced a candidate
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchBrand    MatchType = "brand"
	MatchFuzzy    MatchType = "fuzzy"
	MatchCategory MatchType = "category"
	MatchNone     MatchType = "none"
)

// Candidate is a product surfaced by one of the matching strategies
type Candidate struct {
	Product    RetailerProduct `json:"product"`
	MatchType  MatchType       `json:"matchType"`
	Confidence float64         `json:"confidence"`
	Deal       *Deal           `json:"deal,omitempty"`
}

// MatchResult is the outcome of matching one shopping list item.
// A MatchNone result carries zero confidence and no product.
type MatchResult struct {
	Confidence  float64          `json:"confidence"`
	MatchType   MatchType        `json:"matchType"`
	Product     *RetailerProduct `json:"retailerProduct,omitempty"`
	Deal        *Deal            `json:"deal,omitempty"`
	Explanation string           `json:"explanation"`
}

// CartLine is one matched item in the aggregated cart
type CartLine struct {
	Item                ShoppingListItem `json:"item"`
	Product             RetailerProduct  `json:"product"`
	Deal                *Deal            `json:"deal,omitempty"`
	EstimatedPrice      int              `json:"estimatedPrice"`
	OriginalPrice       int              `json:"originalPrice"`
	Savings             int              `json:"savings"`
	CostPerUnit         float64          `json:"costPerUnit"`
	MatchType           MatchType        `json:"matchType"`
	MatchConfidence     float64          `json:"matchConfidence"`
	MatchExplanation    string           `json:"matchExplanation"`
	PreferenceAlignment float64          `json:"preferenceAlignment"`
}

// UnmatchedItem is a shopping list item that could not be matched with
// sufficient confidence
type UnmatchedItem struct {
	Item   ShoppingListItem `json:"item"`
	Reason string           `json:"reason"`
}

// CostAnalysis summarizes the value characteristics of a built cart
type CostAnalysis struct {
	AverageCostPerUnit    float64 `json:"averageCostPerUnit"`
	TotalSavingsFromDeals int     `json:"totalSavingsFromDeals"`
	PreferenceAlignment   float64 `json:"preferenceAlignment"`
}

// CartPayload is the aggregate result of matching a full shopping list.
// Every input item appears either in Items or in UnmatchedItems.
type CartPayload struct {
	Items               []CartLine        `json:"items"`
	TotalEstimatedValue int               `json:"totalEstimatedValue"`
	DealsSaved          int               `json:"dealsSaved"`
	UnmatchedItems      []UnmatchedItem   `json:"unmatchedItems"`
	MatchSummary        map[MatchType]int `json:"matchSummary"`
	CostAnalysis        CostAnalysis      `json:"costAnalysis"`
}
