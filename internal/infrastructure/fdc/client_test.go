package fdc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		APIKey:     "test-api-key",
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		RetryCount: 1,
	}, zap.NewNop())
}

func TestSearchFoods(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/foods/search", r.URL.Path)
			assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "flour", r.URL.Query().Get("query"))
			assert.Equal(t, "3", r.URL.Query().Get("pageSize"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(domain.FDCSearchResponse{
				Foods: []domain.FDCFood{
					{FdcID: 123, Description: "Wheat flour", DataType: "SR Legacy"},
				},
				TotalHits: 1,
			})
		}))
		defer server.Close()

		resp, err := newTestClient(server.URL).SearchFoods(context.Background(), "flour", 3)
		require.NoError(t, err)
		require.Len(t, resp.Foods, 1)
		assert.Equal(t, 123, resp.Foods[0].FdcID)
		assert.Equal(t, "Wheat flour", resp.Foods[0].Description)
	})

	t.Run("empty result set", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(domain.FDCSearchResponse{})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).SearchFoods(context.Background(), "nonexistent", 3)
		assert.ErrorIs(t, err, domain.ErrFoodNotFound)
	})

	t.Run("not found status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).SearchFoods(context.Background(), "flour", 3)
		assert.ErrorIs(t, err, domain.ErrFoodNotFound)
	})

	t.Run("server errors surface as lookup failures", func(t *testing.T) {
		var requests int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).SearchFoods(context.Background(), "flour", 3)
		assert.ErrorIs(t, err, domain.ErrExternalLookup)
		assert.Greater(t, requests, 1, "5xx responses should be retried")
	})
}

func TestGetFood(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/food/123", r.URL.Path)
			assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(domain.FDCFoodDetail{
				FdcID:       123,
				Description: "Wheat flour",
				Portions: []domain.FDCPortion{
					{Description: "1 cup", GramWeight: 125},
				},
			})
		}))
		defer server.Close()

		detail, err := newTestClient(server.URL).GetFood(context.Background(), 123)
		require.NoError(t, err)
		assert.Equal(t, 123, detail.FdcID)
		require.Len(t, detail.Portions, 1)
		assert.Equal(t, "1 cup", detail.Portions[0].Description)
		assert.Equal(t, 125.0, detail.Portions[0].GramWeight)
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetFood(context.Background(), 999)
		assert.ErrorIs(t, err, domain.ErrFoodNotFound)
	})
}
