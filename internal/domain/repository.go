package domain

import (
	"context"
	"time"
)

// CatalogProvider supplies a retailer's product catalog
type CatalogProvider interface {
	GetProducts(ctx context.Context, retailerID string) ([]RetailerProduct, error)
}

// DealsProvider supplies currently advertised deals, optionally scoped
// to a single retailer (empty retailerID means all retailers)
type DealsProvider interface {
	GetActiveDeals(ctx context.Context, retailerID string) ([]Deal, error)
}

// PreferencesProvider supplies a user's shopping preferences.
// A nil result with nil error means the user has no stored preferences.
type PreferencesProvider interface {
	GetUserPreferences(ctx context.Context, userID string) (*UserPreferences, error)
}

// PriceCache defines the interface for the read-through cache in front of
// the catalog and deals providers
type PriceCache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
