package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/platewise/backend/internal/domain"
	"github.com/platewise/backend/internal/infrastructure/densitydb"
)

// fakeFDCClient scripts FoodData Central responses and counts calls.
type fakeFDCClient struct {
	mu          sync.Mutex
	searchCalls int
	foods       []domain.FDCFood
	details     map[int]*domain.FDCFoodDetail
	searchErr   error
}

func (f *fakeFDCClient) SearchFoods(_ context.Context, _ string, _ int) (*domain.FDCSearchResponse, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &domain.FDCSearchResponse{Foods: f.foods, TotalHits: len(f.foods)}, nil
}

func (f *fakeFDCClient) GetFood(_ context.Context, fdcID int) (*domain.FDCFoodDetail, error) {
	detail, ok := f.details[fdcID]
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	return detail, nil
}

func (f *fakeFDCClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

// fakeCache is a map-backed density cache without expiry.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]*domain.DensityRecord
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]*domain.DensityRecord)}
}

func (c *fakeCache) Get(_ context.Context, name string) (*domain.DensityRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, found := c.data[name]
	return record, found, nil
}

func (c *fakeCache) Set(_ context.Context, name string, record *domain.DensityRecord, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[name] = record
	return nil
}

func mustLoadTable(t *testing.T) *densitydb.Table {
	t.Helper()
	table, err := densitydb.Load()
	if err != nil {
		t.Fatalf("loading density table: %v", err)
	}
	return table
}

func TestFindDensity_LocalTable(t *testing.T) {
	svc := NewDensityService(mustLoadTable(t), nil, newFakeCache(), DensityServiceConfig{}, nil)
	ctx := context.Background()

	t.Run("exact match has full confidence", func(t *testing.T) {
		record, err := svc.FindDensity(ctx, "flour")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.DensityGML != 0.54 {
			t.Errorf("DensityGML = %v, want 0.54", record.DensityGML)
		}
		if record.Confidence != 1.0 {
			t.Errorf("Confidence = %v, want 1.0", record.Confidence)
		}
		if record.Source != domain.SourceLocal {
			t.Errorf("Source = %v, want local", record.Source)
		}
	})

	t.Run("descriptors are stripped before matching", func(t *testing.T) {
		record, err := svc.FindDensity(ctx, "Fresh Whole Milk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.DensityGML != 1.03 {
			t.Errorf("DensityGML = %v, want 1.03", record.DensityGML)
		}
	})

	t.Run("word-level match succeeds below full confidence", func(t *testing.T) {
		record, err := svc.FindDensity(ctx, "kosher salt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.DensityGML != 1.2 {
			t.Errorf("DensityGML = %v, want 1.2", record.DensityGML)
		}
		if record.Confidence >= 1.0 || record.Confidence < 0.6 {
			t.Errorf("Confidence = %v, want in [0.6, 1.0)", record.Confidence)
		}
	})

	t.Run("empty name is not found", func(t *testing.T) {
		_, err := svc.FindDensity(ctx, "")
		if !errors.Is(err, domain.ErrDensityNotFound) {
			t.Errorf("error = %v, want ErrDensityNotFound", err)
		}
	})

	t.Run("no match without external fallback", func(t *testing.T) {
		_, err := svc.FindDensity(ctx, "unobtainium powder")
		if !errors.Is(err, domain.ErrDensityNotFound) {
			t.Errorf("error = %v, want ErrDensityNotFound", err)
		}
	})
}

func TestFindDensity_ExternalFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("derives density from portion data", func(t *testing.T) {
		client := &fakeFDCClient{
			foods: []domain.FDCFood{{FdcID: 42, Description: "Dragonfruit puree"}},
			details: map[int]*domain.FDCFoodDetail{
				42: {
					FdcID:       42,
					Description: "Dragonfruit puree",
					Portions: []domain.FDCPortion{
						{Description: "1 cup", GramWeight: 120},
					},
				},
			},
		}
		svc := NewDensityService(mustLoadTable(t), client, newFakeCache(), DensityServiceConfig{}, nil)

		record, err := svc.FindDensity(ctx, "dragonfruit puree")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.Source != domain.SourceFDC {
			t.Errorf("Source = %v, want external-api", record.Source)
		}
		if record.Confidence != 0.8 {
			t.Errorf("Confidence = %v, want 0.8", record.Confidence)
		}
		want := 120 / 236.588
		if diff := record.DensityGML - want; diff > 0.001 || diff < -0.001 {
			t.Errorf("DensityGML = %v, want ~%v", record.DensityGML, want)
		}
		if !domain.PlausibleDensity(record.DensityGML) {
			t.Errorf("DensityGML = %v outside the plausible band", record.DensityGML)
		}
	})

	t.Run("implausible portions are rejected", func(t *testing.T) {
		client := &fakeFDCClient{
			foods: []domain.FDCFood{{FdcID: 7, Description: "Mystery paste"}},
			details: map[int]*domain.FDCFoodDetail{
				7: {
					FdcID:       7,
					Description: "Mystery paste",
					Portions: []domain.FDCPortion{
						{Description: "1 cup", GramWeight: 5000},
					},
				},
			},
		}
		svc := NewDensityService(mustLoadTable(t), client, newFakeCache(), DensityServiceConfig{}, nil)

		_, err := svc.FindDensity(ctx, "mystery paste zzz")
		if !errors.Is(err, domain.ErrDensityNotFound) {
			t.Errorf("error = %v, want ErrDensityNotFound", err)
		}
	})

	t.Run("negative results are cached", func(t *testing.T) {
		client := &fakeFDCClient{searchErr: domain.ErrFoodNotFound}
		svc := NewDensityService(mustLoadTable(t), client, newFakeCache(), DensityServiceConfig{}, nil)

		for i := 0; i < 3; i++ {
			_, err := svc.FindDensity(ctx, "imaginarium dust")
			if !errors.Is(err, domain.ErrDensityNotFound) {
				t.Fatalf("error = %v, want ErrDensityNotFound", err)
			}
		}
		if client.calls() != 1 {
			t.Errorf("search calls = %d, want 1 (negative result cached)", client.calls())
		}
	})

	t.Run("positive results are cached", func(t *testing.T) {
		client := &fakeFDCClient{
			foods: []domain.FDCFood{{FdcID: 42, Description: "Dragonfruit puree"}},
			details: map[int]*domain.FDCFoodDetail{
				42: {
					FdcID:       42,
					Description: "Dragonfruit puree",
					Portions: []domain.FDCPortion{
						{Description: "1 cup", GramWeight: 120},
					},
				},
			},
		}
		svc := NewDensityService(mustLoadTable(t), client, newFakeCache(), DensityServiceConfig{}, nil)

		for i := 0; i < 3; i++ {
			if _, err := svc.FindDensity(ctx, "dragonfruit puree"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if client.calls() != 1 {
			t.Errorf("search calls = %d, want 1 (result cached)", client.calls())
		}
	})

	t.Run("network failure degrades to not found", func(t *testing.T) {
		client := &fakeFDCClient{searchErr: domain.ErrExternalLookup}
		svc := NewDensityService(mustLoadTable(t), client, newFakeCache(), DensityServiceConfig{}, nil)

		_, err := svc.FindDensity(ctx, "dodo egg powder")
		if !errors.Is(err, domain.ErrDensityNotFound) {
			t.Errorf("error = %v, want ErrDensityNotFound", err)
		}
	})
}

func TestDensitySuggestions(t *testing.T) {
	svc := NewDensityService(mustLoadTable(t), nil, newFakeCache(), DensityServiceConfig{}, nil)

	t.Run("matches partial names", func(t *testing.T) {
		suggestions := svc.Suggestions("flour", 10)
		if len(suggestions) == 0 {
			t.Fatal("expected at least one suggestion for 'flour'")
		}
		for _, s := range suggestions {
			if s.Source != domain.SourceLocal {
				t.Errorf("Source = %v, want local", s.Source)
			}
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		suggestions := svc.Suggestions("s", 2)
		if len(suggestions) > 2 {
			t.Errorf("got %d suggestions, want at most 2", len(suggestions))
		}
	})

	t.Run("empty query yields nothing", func(t *testing.T) {
		if got := svc.Suggestions("", 5); len(got) != 0 {
			t.Errorf("got %d suggestions for empty query, want 0", len(got))
		}
	})
}
