package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appintegration "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/infrastructure/auth"
	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/persistence"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
	"github.com/shopsync/backend/internal/infrastructure/providers"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
	"github.com/shopsync/backend/internal/interfaces/http/handler"
	"github.com/shopsync/backend/internal/interfaces/http/middleware"
)

const (
	testCronSecret = "cron-secret-for-tests"
	testJWTSecret  = "jwt-secret-for-tests-0123456789abcdef"
)

type apiFixture struct {
	engine     *gin.Engine
	db         *gorm.DB
	productID  int64
	adminToken string
	offers     *atomic.Int32
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CategoryModel{},
		&models.SupplierModel{},
		&models.ProductModel{},
		&models.ProviderConfigModel{},
		&models.ProductIntegrationModel{},
	))

	category := &models.CategoryModel{Name: "Tools"}
	require.NoError(t, db.Create(category).Error)
	product := &models.ProductModel{
		SKU:         "SHOP-1",
		Name:        "Claw Hammer",
		Price:       decimal.RequireFromString("199.99"),
		StockStatus: "IN_STOCK",
		Images:      models.JSONStrings{},
		CategoryID:  &category.ID,
	}
	require.NoError(t, db.Create(product).Error)

	offers := new(atomic.Int32)
	takealot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Key tk-123", r.Header.Get("Authorization"))
		assert.Equal(t, "seller-9", r.Header.Get("X-Seller-Id"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SHOP-1", body["sku"])
		offers.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"offer_id": 5501}`))
	}))
	t.Cleanup(takealot.Close)

	integrationRepo := persistence.NewGormProductIntegrationRepository(db)
	providerRepo := persistence.NewGormProviderConfigRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	registry := providers.NewDefaultRegistry(providers.Options{
		HTTPTimeout:     5 * time.Second,
		TakealotBaseURL: takealot.URL,
		Logger:          log,
	})

	jwtService := auth.NewJWTService(config.JWTConfig{Secret: testJWTSecret, Issuer: "shopsync"})
	token, err := jwtService.Issue(auth.IssueInput{Subject: "admin-1", Roles: []string{"admin"}, TTL: time.Hour})
	require.NoError(t, err)

	now := func() time.Time { return time.Now().UTC() }
	syncService := appintegration.NewSyncService(integrationRepo, providerRepo, productRepo, supplierRepo, registry, log,
		appintegration.WithClock(func() time.Time { return now().Add(time.Minute) }))
	database, err := persistence.NewDatabaseFromGorm(db)
	require.NoError(t, err)
	handlers := Handlers{
		Sync: handler.NewSyncHandler(syncService),
		Integrations: handler.NewIntegrationHandler(
			appintegration.NewIntegrationService(integrationRepo, productRepo, supplierRepo, log, now),
			appintegration.NewBulkService(integrationRepo, log, now),
			appintegration.NewHealthService(integrationRepo, now),
		),
		Providers: handler.NewProviderHandler(appintegration.NewProviderConfigService(providerRepo, log)),
		Health:    handler.NewHealthHandler(database),
	}

	engine := NewEngine(Config{
		Logger:     log,
		CronSecret: testCronSecret,
		AdminAuth:  middleware.AdminAuth(jwtService, "admin", log),
		CORS:       middleware.DefaultCORSConfig(),
	}, handlers)

	return &apiFixture{engine: engine, db: db, productID: product.ID, adminToken: token, offers: offers}
}

func (f *apiFixture) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) admin(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, method, path, body, map[string]string{"Authorization": "Bearer " + f.adminToken})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestAPI_MarketplaceSyncFlow(t *testing.T) {
	f := newAPIFixture(t)

	// enabling without credentials names the missing fields
	w := f.admin(t, http.MethodPut, "/api/v1/providers/marketplace/takealot", `{"isEnabled": true}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	errResp := decode[dto.ErrorResponse](t, w)
	assert.ElementsMatch(t, []string{"apiKey", "sellerId"}, errResp.Error.MissingFields)

	w = f.admin(t, http.MethodPut, "/api/v1/providers/marketplace/takealot",
		`{"isEnabled": true, "isActive": true, "configData": {"sellerId": "seller-9"}, "credentials": {"apiKey": "tk-123"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "tk-123")
	assert.True(t, decode[dto.ProviderEnvelope](t, w).Provider.HasCredentials)

	w = f.admin(t, http.MethodPost, "/api/v1/integrations", `{
		"productId": `+jsonInt(f.productID)+`,
		"integrationType": "marketplace",
		"integrationId": "takealot",
		"isEnabled": true,
		"marginPercentage": "10",
		"syncSchedule": "daily",
		"autoSync": true
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[dto.IntegrationEnvelope](t, w).Integration
	assert.True(t, created.IsActive)
	require.NotNil(t, created.NextSyncAt)

	// the cron endpoint needs its secret
	w = f.do(t, http.MethodPost, "/api/v1/sync-trigger", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = f.admin(t, http.MethodPost, "/api/v1/sync-trigger", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/sync-trigger", "", map[string]string{"X-Cron-Secret": testCronSecret})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	run := decode[dto.SyncTriggerResponse](t, w)
	assert.Equal(t, 1, run.Processed)
	assert.Equal(t, 1, run.Succeeded, run.Errors)
	assert.Equal(t, int32(1), f.offers.Load())

	// synced rows are no longer due
	w = f.do(t, http.MethodPost, "/api/v1/sync-trigger", "", map[string]string{"Authorization": "Bearer " + testCronSecret})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[dto.SyncTriggerResponse](t, w).Processed)

	w = f.admin(t, http.MethodGet, "/api/v1/integrations/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[dto.HealthResponse](t, w)
	assert.Equal(t, 1, health.Stats.Total)
	assert.Equal(t, 1, health.Stats.ByHealth["healthy"])
	require.Len(t, health.Integrations, 1)
	assert.NotNil(t, health.Integrations[0].LastSyncedAt)

	w = f.admin(t, http.MethodPost, "/api/v1/integrations/bulk",
		`{"type": "disable", "integrationIds": ["`+jsonInt(created.ID)+`", 999]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bulk := decode[dto.BulkActionResponse](t, w)
	assert.Equal(t, "disable", bulk.Action)
	assert.Equal(t, int64(1), bulk.Affected)

	w = f.admin(t, http.MethodGet, "/api/v1/integrations?status=disabled", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.IntegrationListResponse](t, w).Count)
}

func TestAPI_AdminRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	for _, path := range []string{"/api/v1/integrations", "/api/v1/integrations/health", "/api/v1/providers/marketplace"} {
		w := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := f.admin(t, http.MethodGet, "/api/v1/providers/marketplace", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"providers":[]`)
}

func TestAPI_HealthAndRequestID(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/health", "", map[string]string{middleware.RequestIDHeader: "probe-1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "probe-1", w.Header().Get(middleware.RequestIDHeader))

	w = f.admin(t, http.MethodGet, "/api/v1/integrations/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decode[dto.ErrorResponse](t, w).Error.RequestID)
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
