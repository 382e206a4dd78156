package usecase

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/cartwise/backend/internal/domain"
)

// CartConfig holds configuration for the cart service
type CartConfig struct {
	// LineConfidenceThreshold is the minimum match confidence for an item
	// to become a cart line rather than an unmatched entry
	LineConfidenceThreshold float64
	EnableDebugLogging      bool
}

// CartService aggregates per-item match results into a cart payload
type CartService struct {
	engine             *MatchEngine
	lineThreshold      float64
	enableDebugLogging bool
}

// NewCartService creates a cart service around the given match engine
func NewCartService(engine *MatchEngine, config CartConfig) *CartService {
	threshold := config.LineConfidenceThreshold
	if threshold <= 0 {
		threshold = 0.6
	}

	return &CartService{
		engine:             engine,
		lineThreshold:      threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Engine returns the underlying match engine
func (s *CartService) Engine() *MatchEngine {
	return s.engine
}

// BuildCart matches every shopping list item against the catalog and deals
// and aggregates the winners into a cart payload. Every input item appears
// exactly once, either as a cart line (confidence above the threshold) or
// as an unmatched entry. An empty catalog or deals list is not an error;
// it simply lowers the match rate.
func (s *CartService) BuildCart(
	ctx context.Context,
	items []domain.ShoppingListItem,
	retailerID string,
	products []domain.RetailerProduct,
	deals []domain.Deal,
	prefs *domain.UserPreferences,
) (*domain.CartPayload, error) {
	if strings.TrimSpace(retailerID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductName) == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidArgument
		}
	}

	payload := &domain.CartPayload{
		Items:          []domain.CartLine{},
		UnmatchedItems: []domain.UnmatchedItem{},
		MatchSummary:   make(map[domain.MatchType]int),
	}

	var weightedCostPerUnit float64
	var unitWeight float64
	var preferenceSum float64

	for _, item := range items {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidates, err := s.engine.FindCandidates(item.ProductName, retailerID, products)
		if err != nil {
			return nil, err
		}

		if len(candidates) == 0 {
			result := NoMatchResult(item.ProductName)
			payload.MatchSummary[result.MatchType]++
			payload.UnmatchedItems = append(payload.UnmatchedItems, domain.UnmatchedItem{
				Item:   item,
				Reason: result.Explanation,
			})
			continue
		}

		for i := range candidates {
			candidates[i].Deal = s.engine.FindDealForProduct(candidates[i].Product, deals)
		}

		best := s.engine.SelectBest(candidates, prefs)
		payload.MatchSummary[best.Result.MatchType]++

		if best.Result.Confidence <= s.lineThreshold {
			payload.UnmatchedItems = append(payload.UnmatchedItems, domain.UnmatchedItem{
				Item:   item,
				Reason: best.Result.Explanation,
			})
			continue
		}

		product := *best.Result.Product
		quantity := s.clampQuantity(item, product)

		estimated := product.Price
		original := product.Price
		savings := 0
		if best.Result.Deal != nil {
			estimated = best.Result.Deal.SalePrice
			if best.Result.Deal.RegularPrice > 0 {
				original = best.Result.Deal.RegularPrice
			}
			if original > estimated {
				savings = original - estimated
			}
		}

		line := domain.CartLine{
			Item:                item,
			Product:             product,
			Deal:                best.Result.Deal,
			EstimatedPrice:      estimated,
			OriginalPrice:       original,
			Savings:             savings,
			CostPerUnit:         best.CostPerUnit,
			MatchType:           best.Result.MatchType,
			MatchConfidence:     best.Result.Confidence,
			MatchExplanation:    best.Result.Explanation,
			PreferenceAlignment: best.PreferenceScore,
		}
		payload.Items = append(payload.Items, line)

		payload.TotalEstimatedValue += int(math.Round(float64(estimated) * quantity))
		payload.DealsSaved += int(math.Round(float64(savings) * quantity))

		weightedCostPerUnit += best.CostPerUnit * quantity
		unitWeight += quantity
		preferenceSum += best.PreferenceScore

		if s.enableDebugLogging {
			slog.Debug("cart line added",
				"item", item.ProductName,
				"product", product.Name,
				"matchType", best.Result.MatchType,
				"confidence", best.Result.Confidence,
				"estimated", estimated,
				"savings", savings)
		}
	}

	if unitWeight > 0 {
		payload.CostAnalysis.AverageCostPerUnit = weightedCostPerUnit / unitWeight
	}
	payload.CostAnalysis.TotalSavingsFromDeals = payload.DealsSaved
	if prefs != nil && len(payload.Items) > 0 {
		payload.CostAnalysis.PreferenceAlignment = preferenceSum / float64(len(payload.Items))
	}

	return payload, nil
}

// clampQuantity caps the requested quantity for products covered by a
// pack-size clamp policy (household paper goods sold in fixed packs)
func (s *CartService) clampQuantity(item domain.ShoppingListItem, product domain.RetailerProduct) float64 {
	quantity := item.Quantity
	normalized := s.engine.Normalize(product.Name)

	for keyword, max := range s.engine.tables.ClampPolicies {
		if strings.Contains(normalized, keyword) && quantity > max {
			quantity = max
		}
	}
	return quantity
}
