package usecase

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

func TestScoreCandidate(t *testing.T) {
	engine := NewMatchEngine(DefaultTables(), EngineConfig{})

	t.Run("cheap fuzzy match vs expensive exact match", func(t *testing.T) {
		// Exact match at $5.00 per unit, fuzzy match at $2.00 per unit,
		// cost savings prioritized, no deals. The arithmetic must be
		// reproducible: exact scores 170, fuzzy scores 110, exact wins.
		prefs := &domain.UserPreferences{PrioritizeCostSavings: true}

		exact := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p1", Name: "Almond Butter", Price: 500, Quantity: 1},
			MatchType:  domain.MatchExact,
			Confidence: 1.0,
		}
		fuzzy := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p2", Name: "Almond Buttr Spread", Price: 200, Quantity: 1},
			MatchType:  domain.MatchFuzzy,
			Confidence: 0.7,
		}

		exactScored := engine.scoreCandidate(exact, prefs)
		fuzzyScored := engine.scoreCandidate(fuzzy, prefs)

		// exact: 100 (confidence) + 10 (store brand) + 10 (small pack)
		//        + 0 (cost bonuses at 500c/unit) + 50 (exact)
		if math.Abs(exactScored.Score-170) > 1e-9 {
			t.Errorf("exact score = %v, want 170", exactScored.Score)
		}
		// fuzzy: 70 + 10 + 10 + 0 (20-200/10) + 10 (50-200/5) + 10 (fuzzy)
		if math.Abs(fuzzyScored.Score-110) > 1e-9 {
			t.Errorf("fuzzy score = %v, want 110", fuzzyScored.Score)
		}

		best := engine.SelectBest([]domain.Candidate{fuzzy, exact}, prefs)
		if best.Result.Product.ID != "p1" {
			t.Errorf("winner = %v, want exact match p1", best.Result.Product.ID)
		}
	})

	t.Run("organic bonus applies with preference", func(t *testing.T) {
		prefs := &domain.UserPreferences{PreferOrganic: true}
		c := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p1", Name: "Organic Spinach", Price: 299, Quantity: 1},
			MatchType:  domain.MatchExact,
			Confidence: 1.0,
		}

		with := engine.scoreCandidate(c, prefs)
		without := engine.scoreCandidate(c, nil)

		if with.Score-without.Score != organicBonus {
			t.Errorf("organic bonus delta = %v, want %v", with.Score-without.Score, organicBonus)
		}
		if !strings.Contains(with.Result.Explanation, "organic as preferred") {
			t.Errorf("explanation %q missing organic phrase", with.Result.Explanation)
		}
	})

	t.Run("bulk bonus rewards large packs", func(t *testing.T) {
		prefs := &domain.UserPreferences{BuyInBulk: true}
		bulk := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p1", Name: "Paper Towels", Price: 1299, Quantity: 12},
			MatchType:  domain.MatchExact,
			Confidence: 1.0,
		}
		single := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p2", Name: "Paper Towels", Price: 199, Quantity: 1},
			MatchType:  domain.MatchExact,
			Confidence: 1.0,
		}

		bulkScored := engine.scoreCandidate(bulk, prefs)
		singleScored := engine.scoreCandidate(single, prefs)

		// Both also collect the store-brand bonus since no name-brand
		// preference is set.
		if bulkScored.PreferenceScore != bulkBonus+storeBrandBonus {
			t.Errorf("bulk preference score = %v, want %v", bulkScored.PreferenceScore, bulkBonus+storeBrandBonus)
		}
		if singleScored.PreferenceScore != storeBrandBonus {
			t.Errorf("single-pack preference score = %v, want %v", singleScored.PreferenceScore, storeBrandBonus)
		}
		if !strings.Contains(bulkScored.Result.Explanation, "bulk size as preferred") {
			t.Errorf("explanation %q missing bulk phrase", bulkScored.Result.Explanation)
		}
	})

	t.Run("deal adds ratio and presence bonuses", func(t *testing.T) {
		now := time.Now()
		deal := &domain.Deal{
			ID: "d1", ProductName: "Cereal", RegularPrice: 400, SalePrice: 300,
			StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		}
		withDeal := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p1", Name: "Cereal", Price: 400, Quantity: 1},
			MatchType:  domain.MatchExact,
			Confidence: 1.0,
			Deal:       deal,
		}
		noDeal := withDeal
		noDeal.Deal = nil

		prefs := &domain.UserPreferences{PrioritizeCostSavings: true}
		dealScored := engine.scoreCandidate(withDeal, prefs)
		plainScored := engine.scoreCandidate(noDeal, prefs)

		// Both per-unit bonuses are zero at these prices, so the deal
		// contributes its ratio bonus 0.25*30 = 7.5 plus the presence bonus.
		wantDelta := 7.5 + dealPresenceBonus
		if math.Abs((dealScored.Score-plainScored.Score)-wantDelta) > 1e-9 {
			t.Errorf("deal score delta = %v, want %v", dealScored.Score-plainScored.Score, wantDelta)
		}
		if !strings.Contains(dealScored.Result.Explanation, "25% off with deal") {
			t.Errorf("explanation %q missing discount", dealScored.Result.Explanation)
		}
	})

	t.Run("explanation includes cost per unit in dollars", func(t *testing.T) {
		c := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p1", Name: "Eggs", Price: 599, Quantity: 12},
			MatchType:  domain.MatchExact,
			Confidence: 1.0,
		}
		scored := engine.scoreCandidate(c, nil)
		if !strings.Contains(scored.Result.Explanation, "$0.50 per unit") {
			t.Errorf("explanation %q missing cost per unit", scored.Result.Explanation)
		}
	})
}

func TestSelectBestTieBreak(t *testing.T) {
	engine := NewMatchEngine(DefaultTables(), EngineConfig{})

	t.Run("equal scores break by lower cost per unit", func(t *testing.T) {
		// Both priced above the cost-efficiency cutoff so the per-unit
		// bonuses are zero and the scores are identical.
		a := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p1", Name: "Olive Oil", Price: 400, Quantity: 1},
			MatchType:  domain.MatchFuzzy,
			Confidence: 0.8,
		}
		b := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p2", Name: "Olive Oil", Price: 300, Quantity: 1},
			MatchType:  domain.MatchFuzzy,
			Confidence: 0.8,
		}

		best := engine.SelectBest([]domain.Candidate{a, b}, nil)
		if best.Result.Product.ID != "p2" {
			t.Errorf("winner = %v, want cheaper p2", best.Result.Product.ID)
		}
		// Order independence
		best = engine.SelectBest([]domain.Candidate{b, a}, nil)
		if best.Result.Product.ID != "p2" {
			t.Errorf("winner = %v after reorder, want p2", best.Result.Product.ID)
		}
	})

	t.Run("full ties break by lexical product name", func(t *testing.T) {
		a := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p1", Name: "Banana Chips", Price: 300, Quantity: 1},
			MatchType:  domain.MatchFuzzy,
			Confidence: 0.8,
		}
		b := domain.Candidate{
			Product:    domain.RetailerProduct{ID: "p2", Name: "Apple Chips", Price: 300, Quantity: 1},
			MatchType:  domain.MatchFuzzy,
			Confidence: 0.8,
		}

		best := engine.SelectBest([]domain.Candidate{a, b}, nil)
		if best.Result.Product.Name != "Apple Chips" {
			t.Errorf("winner = %v, want Apple Chips", best.Result.Product.Name)
		}
	})
}
