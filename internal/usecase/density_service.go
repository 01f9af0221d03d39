package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/platewise/backend/internal/domain"
	"github.com/platewise/backend/internal/infrastructure/densitydb"
	"github.com/platewise/backend/internal/infrastructure/fdc"
)

// DensityServiceConfig holds tunables for density matching. The similarity
// threshold and external confidence are heuristics, not physical constants.
type DensityServiceConfig struct {
	MinSimilarity      float64
	ExternalConfidence float64
	CacheTTL           time.Duration
	SearchLimit        int
	EnableDebugLogging bool
}

// DensityService resolves ingredient names to density estimates, trying
// progressively less precise strategies: the local reference table (exact,
// fuzzy, word-level), then FoodData Central with response caching.
type DensityService struct {
	table  *densitydb.Table
	fdc    domain.FDCClient
	cache  domain.DensityCache
	group  singleflight.Group
	logger *zap.Logger

	minSimilarity      float64
	externalConfidence float64
	cacheTTL           time.Duration
	searchLimit        int
	debug              bool
}

// NewDensityService creates a density service. fdcClient may be nil to disable
// the external fallback.
func NewDensityService(
	table *densitydb.Table,
	fdcClient domain.FDCClient,
	densityCache domain.DensityCache,
	config DensityServiceConfig,
	logger *zap.Logger,
) *DensityService {
	minSimilarity := config.MinSimilarity
	if minSimilarity <= 0 {
		minSimilarity = 0.6
	}
	externalConfidence := config.ExternalConfidence
	if externalConfidence <= 0 {
		externalConfidence = 0.8
	}
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // 30 days
	}
	searchLimit := config.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DensityService{
		table:              table,
		fdc:                fdcClient,
		cache:              densityCache,
		logger:             logger,
		minSimilarity:      minSimilarity,
		externalConfidence: externalConfidence,
		cacheTTL:           cacheTTL,
		searchLimit:        searchLimit,
		debug:              config.EnableDebugLogging,
	}
}

// FindDensity resolves an ingredient name to a density estimate. A failed
// lookup returns ErrDensityNotFound; callers treat it as "density unknown,
// cross-family conversion unavailable", never as a hard error.
func (s *DensityService) FindDensity(ctx context.Context, ingredientName string) (*domain.DensityRecord, error) {
	if ingredientName == "" {
		return nil, domain.ErrDensityNotFound
	}

	if match, ok := s.table.Find(ingredientName, s.minSimilarity); ok {
		if s.debug {
			s.logger.Debug("density matched locally",
				zap.String("query", ingredientName),
				zap.String("matched", match.Entry.Name),
				zap.Float64("score", match.Score))
		}
		return &domain.DensityRecord{
			Name:       match.Entry.Name,
			DensityGML: match.Entry.DensityGML,
			Source:     domain.SourceLocal,
			Confidence: match.Score,
		}, nil
	}

	if s.fdc == nil {
		return nil, domain.ErrDensityNotFound
	}
	return s.findExternal(ctx, ingredientName)
}

// findExternal queries FoodData Central, caching every result (including
// negatives) by normalized name. Concurrent lookups for the same name collapse
// into one in-flight request.
func (s *DensityService) findExternal(ctx context.Context, ingredientName string) (*domain.DensityRecord, error) {
	key := densitydb.NormalizeName(ingredientName)
	if key == "" {
		return nil, domain.ErrDensityNotFound
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if record, found, err := s.cache.Get(ctx, key); err == nil && found {
			if record == nil {
				return nil, domain.ErrDensityNotFound
			}
			return record, nil
		}

		record := s.queryFDC(ctx, ingredientName)
		if err := s.cache.Set(ctx, key, record, s.cacheTTL); err != nil {
			s.logger.Warn("caching density result failed",
				zap.String("ingredient", ingredientName), zap.Error(err))
		}
		if record == nil {
			return nil, domain.ErrDensityNotFound
		}
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.DensityRecord), nil
}

// queryFDC derives a density from FoodData Central portion data. Network or
// parse failures degrade to nil (a negative result), matching the soft-failure
// contract of density lookup.
func (s *DensityService) queryFDC(ctx context.Context, ingredientName string) *domain.DensityRecord {
	search, err := s.fdc.SearchFoods(ctx, ingredientName, s.searchLimit)
	if err != nil {
		if !errors.Is(err, domain.ErrFoodNotFound) {
			s.logger.Warn("external density lookup failed",
				zap.String("ingredient", ingredientName), zap.Error(err))
		}
		return nil
	}

	for _, food := range search.Foods {
		detail, err := s.fdc.GetFood(ctx, food.FdcID)
		if err != nil {
			continue
		}
		for _, portion := range detail.Portions {
			if portion.GramWeight <= 0 {
				continue
			}
			amount, unit, err := fdc.ParsePortion(portion.Description)
			if err != nil {
				continue // not a volume portion, try the next candidate
			}
			density, err := fdc.DensityFromPortion(amount, unit, portion.GramWeight)
			if err != nil {
				if errors.Is(err, domain.ErrImplausibleDensity) && s.debug {
					s.logger.Debug("rejected implausible density",
						zap.String("food", detail.Description),
						zap.String("portion", portion.Description))
				}
				continue
			}

			s.logger.Debug("density derived from FoodData Central",
				zap.String("ingredient", ingredientName),
				zap.String("food", detail.Description),
				zap.Float64("density_g_ml", density))
			return &domain.DensityRecord{
				Name:       detail.Description,
				DensityGML: density,
				Source:     domain.SourceFDC,
				Confidence: s.externalConfidence,
			}
		}
	}

	return nil
}

// Suggestions returns local table entries matching a partial ingredient name.
func (s *DensityService) Suggestions(partial string, limit int) []domain.DensityRecord {
	entries := s.table.Suggestions(partial, limit)
	out := make([]domain.DensityRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.DensityRecord{
			Name:       e.Name,
			DensityGML: e.DensityGML,
			Source:     domain.SourceLocal,
			Confidence: 1.0,
		})
	}
	return out
}
