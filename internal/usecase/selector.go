package usecase

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/cartwise/backend/internal/domain"
)

// Scoring bonuses applied on top of confidence * 100
const (
	organicBonus        = 20.0 // preferred organic/natural product
	nameBrandBonus      = 15.0 // preferred name brand matched
	storeBrandBonus     = 10.0 // store brand when no name-brand preference
	bulkBonus           = 25.0 // preferred bulk pack (> 6 units)
	smallPackBonus      = 10.0 // small pack when no bulk preference
	dealRatioMultiplier = 30.0 // discount ratio weight under cost-savings
	dealPresenceBonus   = 15.0 // any active deal attached
	exactTypeBonus      = 50.0
	brandTypeBonus      = 30.0
	fuzzyTypeBonus      = 10.0
	categoryTypeBonus   = 5.0
	bulkPackThreshold   = 6
)

// ScoredMatch is the selector's winning candidate with its full score
// breakdown, used by cart aggregation
type ScoredMatch struct {
	Result          domain.MatchResult
	Score           float64
	CostPerUnit     float64
	PreferenceScore float64
}

// SelectBest re-scores every candidate under the user's preferences and
// returns the winner. Candidates must be non-empty; callers with no
// candidates return NoMatchResult directly. Ties on the final score break
// deterministically by lower cost per unit, then lexical product name.
func (e *MatchEngine) SelectBest(candidates []domain.Candidate, prefs *domain.UserPreferences) ScoredMatch {
	var best ScoredMatch
	haveBest := false

	for _, c := range candidates {
		scored := e.scoreCandidate(c, prefs)
		if !haveBest || scoredBeats(scored, best) {
			best = scored
			haveBest = true
		}
	}

	if e.enableDebugLogging && haveBest {
		slog.Debug("selected best candidate",
			"product", best.Result.Product.Name,
			"matchType", best.Result.MatchType,
			"score", best.Score)
	}

	return best
}

// scoredBeats reports whether a should replace b as the running winner
func scoredBeats(a, b ScoredMatch) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.CostPerUnit != b.CostPerUnit {
		return a.CostPerUnit < b.CostPerUnit
	}
	return a.Result.Product.Name < b.Result.Product.Name
}

// scoreCandidate applies the additive scoring rules to one candidate
func (e *MatchEngine) scoreCandidate(c domain.Candidate, prefs *domain.UserPreferences) ScoredMatch {
	score := c.Confidence * 100
	prefScore := 0.0
	var phrases []string

	nameLower := strings.ToLower(c.Product.Name)
	packSize := float64(c.Product.PackSize())

	effectivePrice := float64(c.Product.Price)
	dealRatio := 0.0
	if c.Deal != nil {
		effectivePrice = float64(c.Deal.SalePrice)
		if c.Deal.RegularPrice > 0 {
			dealRatio = float64(c.Deal.RegularPrice-c.Deal.SalePrice) / float64(c.Deal.RegularPrice)
		}
	}
	costPerUnit := effectivePrice / packSize

	// Organic bonus
	if prefs != nil && prefs.PreferOrganic &&
		(strings.Contains(nameLower, "organic") || strings.Contains(nameLower, "natural")) {
		score += organicBonus
		prefScore += organicBonus
		phrases = append(phrases, "organic as preferred")
	}

	// Brand-preference bonus: reward name brands when preferred, store
	// brands when the user has no name-brand preference
	if prefs != nil && prefs.PreferNameBrand {
		if c.Product.IsNameBrand {
			score += nameBrandBonus
			prefScore += nameBrandBonus
			phrases = append(phrases, "name brand as preferred")
		}
	} else if !c.Product.IsNameBrand {
		score += storeBrandBonus
		if prefs != nil {
			prefScore += storeBrandBonus
		}
	}

	// Bulk bonus
	if prefs != nil && prefs.BuyInBulk {
		if c.Product.PackSize() > bulkPackThreshold {
			score += bulkBonus
			prefScore += bulkBonus
			phrases = append(phrases, "bulk size as preferred")
		}
	} else if c.Product.PackSize() <= bulkPackThreshold {
		score += smallPackBonus
		if prefs != nil {
			prefScore += smallPackBonus
		}
	}

	// Cost-savings bonus
	if prefs != nil && prefs.PrioritizeCostSavings {
		bonus := 0.0
		if c.Deal != nil {
			bonus += dealRatio * dealRatioMultiplier
		}
		bonus += math.Max(0, 20-costPerUnit/10)
		score += bonus
		prefScore += bonus
		if bonus > 0 {
			phrases = append(phrases, "great value")
		}
	}

	// Universal cost-efficiency bonus, applied regardless of preferences
	score += math.Max(0, 50-costPerUnit/5)

	// Deal-presence bonus
	if c.Deal != nil {
		score += dealPresenceBonus
	}

	// Match-type tie-break bonus
	switch c.MatchType {
	case domain.MatchExact:
		score += exactTypeBonus
	case domain.MatchBrand:
		score += brandTypeBonus
	case domain.MatchFuzzy:
		score += fuzzyTypeBonus
	case domain.MatchCategory:
		score += categoryTypeBonus
	}

	product := c.Product
	return ScoredMatch{
		Result: domain.MatchResult{
			Confidence:  c.Confidence,
			MatchType:   c.MatchType,
			Product:     &product,
			Deal:        c.Deal,
			Explanation: buildExplanation(c, costPerUnit, dealRatio, phrases),
		},
		Score:           score,
		CostPerUnit:     costPerUnit,
		PreferenceScore: prefScore,
	}
}

// buildExplanation produces the human-readable match summary: match type,
// deal discount, cost per unit, then any preference-alignment phrases
func buildExplanation(c domain.Candidate, costPerUnit, dealRatio float64, phrases []string) string {
	parts := []string{matchTypeDescription(c)}

	if c.Deal != nil && dealRatio > 0 {
		parts = append(parts, fmt.Sprintf("%.0f%% off with deal", dealRatio*100))
	}

	parts = append(parts, fmt.Sprintf("$%.2f per unit", costPerUnit/100))
	parts = append(parts, phrases...)

	return strings.Join(parts, ", ")
}

func matchTypeDescription(c domain.Candidate) string {
	switch c.MatchType {
	case domain.MatchExact:
		return "exact name match"
	case domain.MatchBrand:
		return "store brand equivalent"
	case domain.MatchFuzzy:
		return fmt.Sprintf("close name match (%.0f%% similar)", c.Confidence*100)
	case domain.MatchCategory:
		return "category substitution"
	default:
		return "no match"
	}
}
