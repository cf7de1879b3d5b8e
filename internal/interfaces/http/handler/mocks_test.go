package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appintegration "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockSyncRunner struct{ mock.Mock }

func (m *MockSyncRunner) Run(ctx context.Context) (*appintegration.SyncRunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.SyncRunResult), args.Error(1)
}

func (m *MockSyncRunner) SyncOne(ctx context.Context, id int64) (*appintegration.SyncRunResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.SyncRunResult), args.Error(1)
}

type MockIntegrationManager struct{ mock.Mock }

func (m *MockIntegrationManager) List(ctx context.Context, filter integration.ListFilter) ([]integration.ProductIntegration, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.ProductIntegration), args.Error(1)
}

func (m *MockIntegrationManager) Get(ctx context.Context, id int64) (*integration.ProductIntegration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductIntegration), args.Error(1)
}

func (m *MockIntegrationManager) Upsert(ctx context.Context, in integration.ProductIntegrationInput) (*integration.ProductIntegration, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductIntegration), args.Error(1)
}

func (m *MockIntegrationManager) NotifyProductChanged(ctx context.Context, productID int64, change integration.ProductChange) (int64, error) {
	args := m.Called(ctx, productID, change)
	return args.Get(0).(int64), args.Error(1)
}

type MockBulkActionPerformer struct{ mock.Mock }

func (m *MockBulkActionPerformer) PerformBulkAction(ctx context.Context, action integration.BulkActionType, ids []int64) (*appintegration.BulkActionResult, error) {
	args := m.Called(ctx, action, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.BulkActionResult), args.Error(1)
}

type MockHealthReporter struct{ mock.Mock }

func (m *MockHealthReporter) Report(ctx context.Context, healthFilter string) (*appintegration.HealthReport, error) {
	args := m.Called(ctx, healthFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appintegration.HealthReport), args.Error(1)
}

type MockProviderConfigManager struct{ mock.Mock }

func (m *MockProviderConfigManager) Get(ctx context.Context, providerType integration.ProviderType, providerName string) (*integration.ProviderConfig, error) {
	args := m.Called(ctx, providerType, providerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProviderConfig), args.Error(1)
}

func (m *MockProviderConfigManager) ListByType(ctx context.Context, providerType integration.ProviderType) ([]integration.ProviderConfig, error) {
	args := m.Called(ctx, providerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.ProviderConfig), args.Error(1)
}

func (m *MockProviderConfigManager) Upsert(ctx context.Context, providerType integration.ProviderType, providerName string, patch integration.ProviderConfigPatch) (*integration.ProviderConfig, error) {
	args := m.Called(ctx, providerType, providerName, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProviderConfig), args.Error(1)
}

func (m *MockProviderConfigManager) Delete(ctx context.Context, providerType integration.ProviderType, providerName string) error {
	return m.Called(ctx, providerType, providerName).Error(0)
}

type MockPinger struct{ mock.Mock }

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func performRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	resp := decodeBody[dto.ErrorResponse](t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}
