package usecase

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

// Strategy confidence levels
const (
	exactMatchConfidence    = 1.0
	brandMatchConfidence    = 0.9
	categoryMatchConfidence = 0.8
)

// EngineConfig holds configuration for the match engine
type EngineConfig struct {
	// FuzzyThreshold is the minimum similarity for a fuzzy candidate
	FuzzyThreshold float64
	// BrandSimilarityThreshold is the minimum similarity between a
	// brand-stripped product name and the item name
	BrandSimilarityThreshold float64
	// DealSimilarityThreshold is the minimum similarity between a deal's
	// product name and a candidate's name for the deal to attach
	DealSimilarityThreshold float64
	EnableDebugLogging      bool
}

// MatchEngine matches shopping list items against retailer catalogs.
// It is stateless apart from its immutable lookup tables and is safe for
// concurrent use.
type MatchEngine struct {
	tables                   Tables
	fuzzyThreshold           float64
	brandSimilarityThreshold float64
	dealSimilarityThreshold  float64
	enableDebugLogging       bool
	now                      func() time.Time
}

// NewMatchEngine creates a match engine with the given lookup tables and
// configuration, applying defaults for unset thresholds
func NewMatchEngine(tables Tables, config EngineConfig) *MatchEngine {
	fuzzy := config.FuzzyThreshold
	if fuzzy <= 0 {
		fuzzy = 0.6
	}
	brand := config.BrandSimilarityThreshold
	if brand <= 0 {
		brand = 0.8
	}
	deal := config.DealSimilarityThreshold
	if deal <= 0 {
		deal = 0.9
	}

	return &MatchEngine{
		tables:                   tables,
		fuzzyThreshold:           fuzzy,
		brandSimilarityThreshold: brand,
		dealSimilarityThreshold:  deal,
		enableDebugLogging:       config.EnableDebugLogging,
		now:                      time.Now,
	}
}

// FindCandidates evaluates all four matching strategies against the
// catalog and returns every discovered candidate, deduplicated per
// product with the highest-confidence strategy winning. Strategies run
// in precedence order: exact, brand-aware, fuzzy, category.
func (e *MatchEngine) FindCandidates(
	itemName string,
	retailerID string,
	products []domain.RetailerProduct,
) ([]domain.Candidate, error) {
	if strings.TrimSpace(itemName) == "" || strings.TrimSpace(retailerID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	normalized := e.Normalize(itemName)

	index := make(map[string]int)
	var candidates []domain.Candidate
	add := func(p domain.RetailerProduct, mt domain.MatchType, confidence float64) {
		if i, ok := index[p.ID]; ok {
			if confidence > candidates[i].Confidence {
				candidates[i].MatchType = mt
				candidates[i].Confidence = confidence
			}
			return
		}
		index[p.ID] = len(candidates)
		candidates = append(candidates, domain.Candidate{
			Product:    p,
			MatchType:  mt,
			Confidence: confidence,
		})
	}

	// Strategy 1: exact. Normalized names equal or one contains the other.
	if normalized != "" {
		for _, p := range products {
			pn := e.Normalize(p.Name)
			if pn == "" {
				continue
			}
			if pn == normalized || strings.Contains(pn, normalized) || strings.Contains(normalized, pn) {
				add(p, domain.MatchExact, exactMatchConfidence)
			}
		}
	}

	// Strategy 2: brand-aware. Strip the retailer's house-brand phrase and
	// compare the remainder against the item name.
	for _, phrase := range e.tables.StoreBrands[strings.ToLower(strings.TrimSpace(retailerID))] {
		for _, p := range products {
			lower := strings.ToLower(p.Name)
			if !strings.Contains(lower, phrase) {
				continue
			}
			remainder := e.Normalize(stripPhrase(lower, phrase))
			if Similarity(remainder, normalized) > e.brandSimilarityThreshold {
				add(p, domain.MatchBrand, brandMatchConfidence)
			}
		}
	}

	// Strategy 3: fuzzy. Edit-distance similarity over the full names.
	if normalized != "" {
		for _, p := range products {
			sim := Similarity(normalized, e.Normalize(p.Name))
			if sim > e.fuzzyThreshold {
				add(p, domain.MatchFuzzy, sim)
			}
		}
	}

	// Strategy 4: category substitution via the category variation table.
	for keyword, variations := range e.tables.Categories {
		if !strings.Contains(normalized, keyword) {
			continue
		}
		for _, p := range products {
			pn := e.Normalize(p.Name)
			for _, variation := range variations {
				if strings.Contains(pn, variation) {
					add(p, domain.MatchCategory, categoryMatchConfidence)
					break
				}
			}
		}
	}

	if e.enableDebugLogging {
		slog.Debug("candidate search complete",
			"item", itemName,
			"normalized", normalized,
			"retailer", retailerID,
			"candidates", len(candidates))
	}

	return candidates, nil
}

// NoMatchResult builds the result returned when no strategy surfaced a
// candidate for the item. The explanation names the original item name,
// not the normalized form.
func NoMatchResult(itemName string) domain.MatchResult {
	return domain.MatchResult{
		Confidence:  0,
		MatchType:   domain.MatchNone,
		Explanation: "no product match found for \"" + itemName + "\"",
	}
}

// FindDealForProduct returns the first currently active deal whose
// normalized product name equals or is near-identical to the candidate's
// normalized name, or nil if none applies
func (e *MatchEngine) FindDealForProduct(product domain.RetailerProduct, deals []domain.Deal) *domain.Deal {
	pn := e.Normalize(product.Name)
	now := e.now()

	for _, d := range deals {
		if !d.ActiveAt(now) {
			continue
		}
		dn := e.Normalize(d.ProductName)
		if dn == pn || Similarity(dn, pn) > e.dealSimilarityThreshold {
			deal := d
			return &deal
		}
	}
	return nil
}

// Similarity computes normalized edit-distance similarity in [0,1]:
// 1 - levenshtein(a,b) / max(len(a), len(b)). Two empty strings are
// defined as identical. Symmetric and reflexive.
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshteinDistance(ra, rb))/float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two rune slices
// using two rows instead of a full matrix for space efficiency
func levenshteinDistance(r1, r2 []rune) int {
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	m := len(r1)
	n := len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
