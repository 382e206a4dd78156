package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartwise/backend/config"
	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/infrastructure/cache"
	"github.com/cartwise/backend/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct {
	products []domain.RetailerProduct
	err      error
	calls    int
}

func (s *stubCatalog) GetProducts(ctx context.Context, retailerID string) ([]domain.RetailerProduct, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type stubDeals struct {
	deals []domain.Deal
	err   error
}

func (s *stubDeals) GetActiveDeals(ctx context.Context, retailerID string) ([]domain.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.deals, nil
}

type stubPrefs struct {
	prefs *domain.UserPreferences
	err   error
	calls int
}

func (s *stubPrefs) GetUserPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.prefs, nil
}

func newTestRouter(catalog *stubCatalog, deals *stubDeals, prefs *stubPrefs) *gin.Engine {
	engine := usecase.NewMatchEngine(usecase.DefaultTables(), usecase.EngineConfig{})
	cart := usecase.NewCartService(engine, usecase.CartConfig{})
	handler := NewHandler(cart, catalog, deals, prefs, cache.NewMemoryCache(10), time.Minute)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}

	return SetupRouter(cfg, handler)
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubCatalog{}, &stubDeals{}, &stubPrefs{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "cartwise-backend")
}

func TestBuildCartEndpoint(t *testing.T) {
	catalogMilk := []domain.RetailerProduct{
		{ID: "p1", Name: "Whole Milk", Price: 329, Quantity: 1},
	}

	t.Run("happy path", func(t *testing.T) {
		router := newTestRouter(&stubCatalog{products: catalogMilk}, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/cart/build", gin.H{
			"retailerId": "walmart",
			"items": []gin.H{
				{"id": "i1", "productName": "whole milk", "quantity": 1},
			},
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var payload domain.CartPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		require.Len(t, payload.Items, 1)
		assert.Equal(t, 329, payload.TotalEstimatedValue)
		assert.Equal(t, domain.MatchExact, payload.Items[0].MatchType)
		assert.Empty(t, payload.UnmatchedItems)
	})

	t.Run("missing retailer id", func(t *testing.T) {
		router := newTestRouter(&stubCatalog{products: catalogMilk}, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/cart/build", gin.H{
			"items": []gin.H{{"id": "i1", "productName": "whole milk", "quantity": 1}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid item quantity", func(t *testing.T) {
		router := newTestRouter(&stubCatalog{products: catalogMilk}, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/cart/build", gin.H{
			"retailerId": "walmart",
			"items": []gin.H{
				{"id": "i1", "productName": "whole milk", "quantity": 0},
			},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown retailer", func(t *testing.T) {
		router := newTestRouter(&stubCatalog{err: domain.ErrRetailerNotFound}, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/cart/build", gin.H{
			"retailerId": "bodega",
			"items":      []gin.H{{"id": "i1", "productName": "whole milk", "quantity": 1}},
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		router := newTestRouter(&stubCatalog{err: domain.ErrRetailerAPIFailure}, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/cart/build", gin.H{
			"retailerId": "walmart",
			"items":      []gin.H{{"id": "i1", "productName": "whole milk", "quantity": 1}},
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("catalog served from cache on repeat requests", func(t *testing.T) {
		catalog := &stubCatalog{products: catalogMilk}
		router := newTestRouter(catalog, &stubDeals{}, &stubPrefs{})

		body := gin.H{
			"retailerId": "walmart",
			"items":      []gin.H{{"id": "i1", "productName": "whole milk", "quantity": 1}},
		}
		require.Equal(t, http.StatusOK, postJSON(router, "/api/v1/cart/build", body).Code)
		require.Equal(t, http.StatusOK, postJSON(router, "/api/v1/cart/build", body).Code)

		assert.Equal(t, 1, catalog.calls)
	})

	t.Run("inline preferences skip the provider", func(t *testing.T) {
		prefs := &stubPrefs{prefs: &domain.UserPreferences{PreferOrganic: true}}
		router := newTestRouter(&stubCatalog{products: catalogMilk}, &stubDeals{}, prefs)

		w := postJSON(router, "/api/v1/cart/build", gin.H{
			"retailerId":  "walmart",
			"userId":      "u1",
			"items":       []gin.H{{"id": "i1", "productName": "whole milk", "quantity": 1}},
			"preferences": gin.H{"preferNameBrand": true},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, prefs.calls)
	})

	t.Run("preferences lookup failure degrades to no preferences", func(t *testing.T) {
		prefs := &stubPrefs{err: domain.ErrRetailerAPIFailure}
		router := newTestRouter(&stubCatalog{products: catalogMilk}, &stubDeals{}, prefs)

		w := postJSON(router, "/api/v1/cart/build", gin.H{
			"retailerId": "walmart",
			"userId":     "u1",
			"items":      []gin.H{{"id": "i1", "productName": "whole milk", "quantity": 1}},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, prefs.calls)

		var payload domain.CartPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Zero(t, payload.CostAnalysis.PreferenceAlignment)
	})
}

func TestFindCandidatesEndpoint(t *testing.T) {
	t.Run("inline products", func(t *testing.T) {
		catalog := &stubCatalog{}
		router := newTestRouter(catalog, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/match/candidates", gin.H{
			"itemName":   "whole milk",
			"retailerId": "walmart",
			"products": []gin.H{
				{"id": "p1", "name": "Whole Milk", "price": 329, "quantity": 1},
			},
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Zero(t, catalog.calls, "inline products should not hit the catalog provider")

		var resp struct {
			Candidates []domain.Candidate `json:"candidates"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Candidates, 1)
		assert.Equal(t, domain.MatchExact, resp.Candidates[0].MatchType)
	})

	t.Run("falls back to catalog provider", func(t *testing.T) {
		catalog := &stubCatalog{products: []domain.RetailerProduct{
			{ID: "p1", Name: "Whole Milk", Price: 329, Quantity: 1},
		}}
		router := newTestRouter(catalog, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/match/candidates", gin.H{
			"itemName":   "whole milk",
			"retailerId": "walmart",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1, catalog.calls)
	})

	t.Run("no candidates yields empty array", func(t *testing.T) {
		router := newTestRouter(&stubCatalog{}, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/match/candidates", gin.H{
			"itemName":   "dragon fruit",
			"retailerId": "walmart",
			"products":   []gin.H{{"id": "p1", "name": "Motor Oil", "price": 1299, "quantity": 1}},
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"candidates":[]`)
	})

	t.Run("missing item name", func(t *testing.T) {
		router := newTestRouter(&stubCatalog{}, &stubDeals{}, &stubPrefs{})

		w := postJSON(router, "/api/v1/match/candidates", gin.H{"retailerId": "walmart"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNormalizeNameEndpoint(t *testing.T) {
	router := newTestRouter(&stubCatalog{}, &stubDeals{}, &stubPrefs{})

	w := postJSON(router, "/api/v1/name/normalize", gin.H{"name": "Great Value 2% Milk 128 oz"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Normalized string `json:"normalized"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2% milk", resp.Normalized)
}
