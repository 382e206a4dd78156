package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	cart     *usecase.CartService
	catalog  domain.CatalogProvider
	deals    domain.DealsProvider
	prefs    domain.PreferencesProvider
	cache    domain.PriceCache
	cacheTTL time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cart *usecase.CartService,
	catalog domain.CatalogProvider,
	deals domain.DealsProvider,
	prefs domain.PreferencesProvider,
	cache domain.PriceCache,
	cacheTTL time.Duration,
) *Handler {
	return &Handler{
		cart:     cart,
		catalog:  catalog,
		deals:    deals,
		prefs:    prefs,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartwise-backend",
		"version": "1.0.0",
	})
}

type buildCartRequest struct {
	RetailerID  string                    `json:"retailerId" binding:"required"`
	UserID      string                    `json:"userId"`
	Items       []domain.ShoppingListItem `json:"items" binding:"required"`
	Preferences *domain.UserPreferences   `json:"preferences"`
}

// BuildCart matches a shopping list against a retailer's catalog and
// deals and returns the aggregated cart payload
func (h *Handler) BuildCart(c *gin.Context) {
	var req buildCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	products, err := h.fetchProducts(c, req.RetailerID)
	if err != nil {
		h.writeProviderError(c, err)
		return
	}

	deals, err := h.fetchDeals(c, req.RetailerID)
	if err != nil {
		h.writeProviderError(c, err)
		return
	}

	prefs := req.Preferences
	if prefs == nil && req.UserID != "" {
		prefs, err = h.prefs.GetUserPreferences(c.Request.Context(), req.UserID)
		if err != nil {
			// Missing preferences degrade the result, they don't fail it
			slog.Warn("preferences lookup failed", "user", req.UserID, "error", err)
			prefs = nil
		}
	}

	payload, err := h.cart.BuildCart(c.Request.Context(), req.Items, req.RetailerID, products, deals, prefs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid shopping list item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build cart"})
		return
	}

	c.JSON(http.StatusOK, payload)
}

type findCandidatesRequest struct {
	ItemName   string                   `json:"itemName" binding:"required"`
	RetailerID string                   `json:"retailerId" binding:"required"`
	Products   []domain.RetailerProduct `json:"products"`
}

// FindCandidates returns all candidate matches for a single item name.
// Products may be supplied inline; otherwise the retailer's catalog is
// fetched through the catalog provider.
func (h *Handler) FindCandidates(c *gin.Context) {
	var req findCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	products := req.Products
	if products == nil {
		var err error
		products, err = h.fetchProducts(c, req.RetailerID)
		if err != nil {
			h.writeProviderError(c, err)
			return
		}
	}

	candidates, err := h.cart.Engine().FindCandidates(req.ItemName, req.RetailerID, products)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid item name or retailer"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find candidates"})
		return
	}

	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

type normalizeRequest struct {
	Name string `json:"name"`
}

// NormalizeName returns the canonical form of a product name
func (h *Handler) NormalizeName(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"normalized": h.cart.Engine().Normalize(req.Name)})
}

// fetchProducts reads the retailer catalog through the price cache
func (h *Handler) fetchProducts(c *gin.Context, retailerID string) ([]domain.RetailerProduct, error) {
	ctx := c.Request.Context()
	key := "catalog:" + retailerID

	if cached, err := h.cache.Get(ctx, key); err == nil {
		if products, ok := cached.([]domain.RetailerProduct); ok {
			return products, nil
		}
	}

	products, err := h.catalog.GetProducts(ctx, retailerID)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, key, products, h.cacheTTL); err != nil {
		slog.Warn("failed to cache catalog", "retailer", retailerID, "error", err)
	}
	return products, nil
}

// fetchDeals reads the retailer's active deals through the price cache
func (h *Handler) fetchDeals(c *gin.Context, retailerID string) ([]domain.Deal, error) {
	ctx := c.Request.Context()
	key := "deals:" + retailerID

	if cached, err := h.cache.Get(ctx, key); err == nil {
		if deals, ok := cached.([]domain.Deal); ok {
			return deals, nil
		}
	}

	deals, err := h.deals.GetActiveDeals(ctx, retailerID)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, key, deals, h.cacheTTL); err != nil {
		slog.Warn("failed to cache deals", "retailer", retailerID, "error", err)
	}
	return deals, nil
}

func (h *Handler) writeProviderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRetailerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "retailer not found"})
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid retailer"})
	default:
		slog.Error("provider request failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream retailer API unavailable"})
	}
}
