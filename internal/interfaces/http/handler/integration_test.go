package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appintegration "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/domain/catalog"
	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

type integrationFixture struct {
	integrations *MockIntegrationManager
	bulk         *MockBulkActionPerformer
	health       *MockHealthReporter
	router       *gin.Engine
}

func newIntegrationFixture() *integrationFixture {
	f := &integrationFixture{
		integrations: new(MockIntegrationManager),
		bulk:         new(MockBulkActionPerformer),
		health:       new(MockHealthReporter),
	}
	h := NewIntegrationHandler(f.integrations, f.bulk, f.health)
	r := gin.New()
	r.GET("/integrations", h.List)
	r.POST("/integrations", h.Upsert)
	r.POST("/integrations/bulk", h.Bulk)
	r.GET("/integrations/health", h.Health)
	r.GET("/integrations/:id", h.Get)
	r.POST("/integrations/products/:productId/changes", h.ProductChanged)
	f.router = r
	return f
}

func sampleIntegration() integration.ProductIntegration {
	msg := "timeout"
	return integration.ProductIntegration{
		ID:              9,
		ProductID:       42,
		IntegrationType: integration.IntegrationTypeMarketplace,
		IntegrationID:   "takealot",
		IntegrationName: "takealot",
		IsEnabled:       true,
		IsActive:        true,
		SyncSchedule:    integration.SyncScheduleDaily,
		ErrorMessage:    &msg,
		Product: &catalog.Product{
			ID:          42,
			SKU:         "SHOP-42",
			Name:        "Hammer",
			Price:       decimal.NewFromInt(100),
			StockStatus: catalog.StockStatusInStock,
		},
	}
}

func TestIntegrationHandler_List(t *testing.T) {
	t.Run("filters pass through", func(t *testing.T) {
		f := newIntegrationFixture()
		f.integrations.On("List", mock.Anything, integration.ListFilter{
			Type:   integration.IntegrationTypeMarketplace,
			Status: integration.StatusFilterError,
		}).Return([]integration.ProductIntegration{sampleIntegration()}, nil)

		w := performRequest(t, f.router, http.MethodGet, "/integrations?type=marketplace&status=error", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[dto.IntegrationListResponse](t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.Count)
		require.Len(t, resp.Integrations, 1)
		assert.Equal(t, "SHOP-42", resp.Integrations[0].Product.SKU)
		assert.Equal(t, "timeout", *resp.Integrations[0].ErrorMessage)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		f := newIntegrationFixture()
		f.integrations.On("List", mock.Anything, integration.ListFilter{}).Return([]integration.ProductIntegration{}, nil)

		w := performRequest(t, f.router, http.MethodGet, "/integrations", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"integrations":[]`)
	})

	t.Run("invalid status rejected before the service", func(t *testing.T) {
		f := newIntegrationFixture()

		w := performRequest(t, f.router, http.MethodGet, "/integrations?status=broken", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.integrations.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestIntegrationHandler_Get(t *testing.T) {
	f := newIntegrationFixture()
	pi := sampleIntegration()
	f.integrations.On("Get", mock.Anything, int64(9)).Return(&pi, nil)
	f.integrations.On("Get", mock.Anything, int64(10)).Return(nil, integration.ErrProductIntegrationNotFound)

	w := performRequest(t, f.router, http.MethodGet, "/integrations/9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), decodeBody[dto.IntegrationEnvelope](t, w).Integration.ID)

	w = performRequest(t, f.router, http.MethodGet, "/integrations/10", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Code)
}

func TestIntegrationHandler_Upsert(t *testing.T) {
	t.Run("binds and converts", func(t *testing.T) {
		f := newIntegrationFixture()
		pi := sampleIntegration()
		f.integrations.On("Upsert", mock.Anything, mock.MatchedBy(func(in integration.ProductIntegrationInput) bool {
			return in.ProductID == 42 &&
				in.IntegrationType == integration.IntegrationTypeMarketplace &&
				in.IntegrationID == "takealot" &&
				in.MarginPercentage != nil && in.MarginPercentage.Equal(decimal.NewFromInt(20)) &&
				in.SyncSchedule == integration.SyncScheduleDaily
		})).Return(&pi, nil)

		w := performRequest(t, f.router, http.MethodPost, "/integrations", `{
			"productId": 42,
			"integrationType": "marketplace",
			"integrationId": " takealot ",
			"isEnabled": true,
			"marginPercentage": "20",
			"syncSchedule": "daily",
			"autoSync": true
		}`)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		f.integrations.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		f := newIntegrationFixture()

		w := performRequest(t, f.router, http.MethodPost, "/integrations", `{"productId": 0, "integrationType": "carrier"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeError(t, w).Code)
		f.integrations.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newIntegrationFixture()
		f.integrations.On("Upsert", mock.Anything, mock.Anything).Return(nil, catalog.ErrProductNotFound)

		w := performRequest(t, f.router, http.MethodPost, "/integrations", `{"productId": 7, "integrationType": "supplier", "integrationId": "3"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIntegrationHandler_Bulk(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(f *integrationFixture)
		wantStatus int
		wantCode   string
	}{
		{
			name: "enable with mixed id encodings",
			body: `{"type": "enable", "integrationIds": [1, "2", 3]}`,
			setup: func(f *integrationFixture) {
				f.bulk.On("PerformBulkAction", mock.Anything, integration.BulkActionType("enable"), []int64{1, 2, 3}).
					Return(&appintegration.BulkActionResult{Action: integration.BulkActionEnable, Affected: 3}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non numeric id",
			body:       `{"type": "enable", "integrationIds": ["abc"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidJSON,
		},
		{
			name: "invalid action",
			body: `{"type": "archive", "integrationIds": [1]}`,
			setup: func(f *integrationFixture) {
				f.bulk.On("PerformBulkAction", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, integration.ErrInvalidBulkAction)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name: "empty ids",
			body: `{"type": "sync", "integrationIds": []}`,
			setup: func(f *integrationFixture) {
				f.bulk.On("PerformBulkAction", mock.Anything, mock.Anything, []int64{}).
					Return(nil, integration.ErrEmptyBulkSelection)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIntegrationFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			w := performRequest(t, f.router, http.MethodPost, "/integrations/bulk", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
				return
			}
			resp := decodeBody[dto.BulkActionResponse](t, w)
			assert.Equal(t, "enable", resp.Action)
			assert.Equal(t, int64(3), resp.Affected)
		})
	}
}

func TestIntegrationHandler_Health(t *testing.T) {
	t.Run("report", func(t *testing.T) {
		f := newIntegrationFixture()
		pi := sampleIntegration()
		stats := integration.NewHealthStats()
		stats.Add(&pi, integration.HealthError, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
		f.health.On("Report", mock.Anything, "error").Return(&appintegration.HealthReport{
			Stats: stats,
			Integrations: []appintegration.IntegrationHealth{
				{ProductIntegration: pi, Health: integration.HealthError},
			},
		}, nil)

		w := performRequest(t, f.router, http.MethodGet, "/integrations/health?health=error", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[dto.HealthResponse](t, w)
		assert.Equal(t, 1, resp.Stats.Total)
		assert.Equal(t, 1, resp.Stats.WithErrors)
		assert.Equal(t, 1, resp.Stats.ByHealth["error"])
		require.Len(t, resp.Integrations, 1)
		assert.Equal(t, "error", resp.Integrations[0].Health)
	})

	t.Run("invalid filter", func(t *testing.T) {
		f := newIntegrationFixture()
		f.health.On("Report", mock.Anything, "sick").Return(nil, integration.ErrInvalidHealthFilter)

		w := performRequest(t, f.router, http.MethodGet, "/integrations/health?health=sick", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure is masked", func(t *testing.T) {
		f := newIntegrationFixture()
		f.health.On("Report", mock.Anything, "").Return(nil, errors.New("pq: relation missing"))

		w := performRequest(t, f.router, http.MethodGet, "/integrations/health", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}

func TestIntegrationHandler_ProductChanged(t *testing.T) {
	f := newIntegrationFixture()
	f.integrations.On("NotifyProductChanged", mock.Anything, int64(42), integration.ProductChange{Price: true}).
		Return(int64(2), nil)

	w := performRequest(t, f.router, http.MethodPost, "/integrations/products/42/changes", `{"price": true}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), decodeBody[dto.ProductChangeResponse](t, w).Queued)

	w = performRequest(t, f.router, http.MethodPost, "/integrations/products/0/changes", `{"price": true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
