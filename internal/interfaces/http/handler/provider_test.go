package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

func newProviderRouter(m *MockProviderConfigManager) *gin.Engine {
	h := NewProviderHandler(m)
	r := gin.New()
	r.GET("/providers/:type", h.List)
	r.GET("/providers/:type/:name", h.Get)
	r.PUT("/providers/:type/:name", h.Update)
	r.DELETE("/providers/:type/:name", h.Delete)
	return r
}

func takealotConfig() *integration.ProviderConfig {
	return &integration.ProviderConfig{
		ID:           1,
		ProviderType: integration.ProviderTypeMarketplace,
		ProviderName: "takealot",
		IsEnabled:    true,
		IsActive:     true,
		ConfigData:   integration.Settings{"sellerId": "S1"},
		Credentials:  integration.Settings{"apiKey": "super-secret"},
	}
}

func TestProviderHandler_GetStripsCredentials(t *testing.T) {
	m := new(MockProviderConfigManager)
	m.On("Get", mock.Anything, integration.ProviderType("marketplace"), "takealot").Return(takealotConfig(), nil)

	w := performRequest(t, newProviderRouter(m), http.MethodGet, "/providers/marketplace/takealot", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret")
	assert.NotContains(t, w.Body.String(), `"credentials"`)
	resp := decodeBody[dto.ProviderEnvelope](t, w)
	assert.True(t, resp.Provider.HasCredentials)
	assert.Equal(t, "S1", resp.Provider.ConfigData["sellerId"])
}

func TestProviderHandler_GetNotFound(t *testing.T) {
	m := new(MockProviderConfigManager)
	m.On("Get", mock.Anything, mock.Anything, "nope").Return(nil, integration.ErrProviderConfigNotFound)

	w := performRequest(t, newProviderRouter(m), http.MethodGet, "/providers/marketplace/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProviderHandler_List(t *testing.T) {
	m := new(MockProviderConfigManager)
	m.On("ListByType", mock.Anything, integration.ProviderType("marketplace")).
		Return([]integration.ProviderConfig{*takealotConfig()}, nil)
	m.On("ListByType", mock.Anything, integration.ProviderType("fax")).
		Return(nil, integration.ErrInvalidProviderType)

	r := newProviderRouter(m)

	w := performRequest(t, r, http.MethodGet, "/providers/marketplace", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[dto.ProviderListResponse](t, w).Count)
	assert.NotContains(t, w.Body.String(), "super-secret")

	w = performRequest(t, r, http.MethodGet, "/providers/fax", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProviderHandler_Update(t *testing.T) {
	t.Run("partial patch", func(t *testing.T) {
		m := new(MockProviderConfigManager)
		m.On("Upsert", mock.Anything, integration.ProviderType("marketplace"), "takealot",
			mock.MatchedBy(func(p integration.ProviderConfigPatch) bool {
				return p.IsEnabled != nil && *p.IsEnabled &&
					p.IsActive == nil &&
					p.Credentials["apiKey"] == "super-secret"
			})).Return(takealotConfig(), nil)

		w := performRequest(t, newProviderRouter(m), http.MethodPut, "/providers/marketplace/takealot",
			`{"isEnabled": true, "credentials": {"apiKey": "super-secret"}}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotContains(t, w.Body.String(), "super-secret")
		m.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		m := new(MockProviderConfigManager)
		m.On("Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, &integration.MissingFieldsError{
			ProviderType: integration.ProviderTypeMarketplace,
			ProviderName: "takealot",
			Missing:      []string{"apiKey"},
		})

		w := performRequest(t, newProviderRouter(m), http.MethodPut, "/providers/marketplace/takealot", `{"isEnabled": true}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		info := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeMissingConfigFields, info.Code)
		assert.Equal(t, []string{"apiKey"}, info.MissingFields)
	})

	t.Run("malformed body", func(t *testing.T) {
		m := new(MockProviderConfigManager)

		w := performRequest(t, newProviderRouter(m), http.MethodPut, "/providers/marketplace/takealot", `{"isEnabled": "yes"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProviderHandler_Delete(t *testing.T) {
	m := new(MockProviderConfigManager)
	m.On("Delete", mock.Anything, integration.ProviderType("email"), "sendgrid").Return(nil)
	m.On("Delete", mock.Anything, integration.ProviderType("email"), "ghost").Return(integration.ErrProviderConfigNotFound)

	r := newProviderRouter(m)

	w := performRequest(t, r, http.MethodDelete, "/providers/email/sendgrid", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, r, http.MethodDelete, "/providers/email/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
