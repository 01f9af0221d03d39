package domain

import (
	"context"
	"time"
)

// DensityCache caches resolved densities by ingredient name. A found=true with
// a nil record is a cached negative result, so failed external lookups are not
// retried within a run.
type DensityCache interface {
	Get(ctx context.Context, name string) (record *DensityRecord, found bool, err error)
	Set(ctx context.Context, name string, record *DensityRecord, ttl time.Duration) error
}

// FDCClient talks to the USDA FoodData Central API.
type FDCClient interface {
	SearchFoods(ctx context.Context, query string, limit int) (*FDCSearchResponse, error)
	GetFood(ctx context.Context, fdcID int) (*FDCFoodDetail, error)
}

// DensityFinder resolves an ingredient name to a density estimate. Returns
// ErrDensityNotFound when all strategies are exhausted.
type DensityFinder interface {
	FindDensity(ctx context.Context, ingredientName string) (*DensityRecord, error)
}

// Enricher is an optional capability hook (e.g. an LLM collaborator) that can
// refine an ingredient beyond rule-based normalization. A nil result with nil
// error means no enhancement was produced.
type Enricher interface {
	Enrich(ctx context.Context, ingredient Ingredient) (*Ingredient, error)
}
