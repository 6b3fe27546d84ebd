package openapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/productivity-service/internal/api/handlers"
	"github.com/wms-platform/productivity-service/internal/application"
	"github.com/wms-platform/productivity-service/internal/infrastructure/memory"
	"github.com/wms-platform/productivity-service/pkg/contracts/openapi"
	"github.com/wms-platform/productivity-service/pkg/logging"
)

const openAPISpecPath = "../../../docs/openapi.yaml"

// loadValidator builds a validator from the committed OpenAPI spec. The
// constructor validates the document, so this alone proves the spec parses.
func loadValidator(t *testing.T) *openapi.Validator {
	t.Helper()

	absPath, err := filepath.Abs(openAPISpecPath)
	require.NoError(t, err)

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		t.Skip("OpenAPI spec not found - skipping contract tests")
	}

	validator, err := openapi.NewValidator(absPath)
	require.NoError(t, err)
	return validator
}

// newRouter assembles the HTTP surface over the in-memory backend.
func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := logging.DefaultConfig("productivity-contract-test")
	cfg.Output = io.Discard
	logger := logging.New(cfg)

	workers := memory.NewWorkerStore()
	zones := memory.NewZoneStore()
	locations := memory.NewLocationStore()
	items := memory.NewItemStore()
	orders := memory.NewOrderStore()
	catalog := memory.NewCatalog(workers, orders, items, locations)
	store := memory.NewEventStore(catalog)

	catalogService := application.NewCatalogService(workers, zones, locations, items, orders, logger)
	pickService := application.NewPickService(store, nil, nil, nil, logger, "")
	reportService := application.NewReportService(store, workers, zones, items, catalog,
		application.DefaultReportConfig(), nil, logger)

	router := gin.New()
	group := router.Group("/api/v1")
	handlers.NewCatalogHandlers(catalogService, logger).RegisterRoutes(group)
	handlers.NewPickHandlers(pickService, logger).RegisterRoutes(group)
	handlers.NewReportHandlers(reportService, logger).RegisterRoutes(group)
	return router
}

func newJSONRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req
}

// exchange serves one request and validates both sides of the exchange
// against the spec. The request is rebuilt for validation because serving
// drains the body.
func exchange(t *testing.T, router *gin.Engine, validator *openapi.Validator,
	method, path, body string, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newJSONRequest(method, path, body))
	require.Equal(t, wantStatus, rec.Code, "%s %s: %s", method, path, rec.Body.String())

	req := newJSONRequest(method, path, body)
	require.NoError(t, validator.ValidateRequest(req), "request %s %s", method, path)
	require.NoError(t, validator.ValidateResponse(req, rec.Result()), "response %s %s", method, path)
	return rec
}

func createdID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func TestOpenAPISpecIsValid(t *testing.T) {
	validator := loadValidator(t)

	doc := validator.GetDocument()
	require.NotNil(t, doc)
	assert.NotEmpty(t, doc.Info.Title)
	assert.NotEmpty(t, doc.Info.Version)
	assert.NotEmpty(t, validator.GetPaths())
}

func TestOpenAPIHasRequiredPaths(t *testing.T) {
	validator := loadValidator(t)

	requiredPaths := []string{
		"/api/v1/workers",
		"/api/v1/workers/{workerId}",
		"/api/v1/workers/{workerId}/rate",
		"/api/v1/workers/{workerId}/deactivate",
		"/api/v1/zones",
		"/api/v1/locations",
		"/api/v1/items",
		"/api/v1/orders",
		"/api/v1/orders/{orderId}/status",
		"/api/v1/picks",
		"/api/v1/picks/{pickId}",
		"/api/v1/picks/{pickId}/complete",
		"/api/v1/reports/worker-leaderboard",
		"/api/v1/reports/shift-leaderboard",
		"/api/v1/reports/item-velocity",
		"/api/v1/reports/zone-throughput",
		"/api/v1/reports/pick-duration-stats",
	}

	paths := make(map[string]bool)
	for _, p := range validator.GetPaths() {
		paths[p] = true
	}

	for _, reqPath := range requiredPaths {
		assert.True(t, paths[reqPath], "missing required path %s", reqPath)
	}
}

func TestOperationIDs(t *testing.T) {
	validator := loadValidator(t)

	cases := map[string]*http.Request{
		"queryPicks":        httptest.NewRequest(http.MethodGet, "/api/v1/picks", nil),
		"workerLeaderboard": httptest.NewRequest(http.MethodGet, "/api/v1/reports/worker-leaderboard", nil),
		"completePick":      httptest.NewRequest(http.MethodPost, "/api/v1/picks/pck-1/complete", nil),
	}

	for wantID, req := range cases {
		operationID, err := validator.GetOperationID(req)
		require.NoError(t, err)
		assert.Equal(t, wantID, operationID)
	}
}

// TestLiveExchangesMatchSpec drives the real handlers over the in-memory
// backend and validates every exchange, seeding included, against the spec.
func TestLiveExchangesMatchSpec(t *testing.T) {
	validator := loadValidator(t)
	router := newRouter()

	workerRec := exchange(t, router, validator, http.MethodPost, "/api/v1/workers",
		`{"name":"Dana Cruz","employeeCode":"EMP-001","shift":"day","hourlyRate":19.5,"hireDate":"2024-01-15T00:00:00Z"}`,
		http.StatusCreated)
	workerID := createdID(t, workerRec)

	zoneRec := exchange(t, router, validator, http.MethodPost, "/api/v1/zones",
		`{"code":"ZONE-A","name":"Zone A","type":"picking"}`, http.StatusCreated)
	zoneID := createdID(t, zoneRec)

	locationRec := exchange(t, router, validator, http.MethodPost, "/api/v1/locations",
		`{"code":"A-01-2-B","zoneId":"`+zoneID+`","aisle":"A","bay":1,"level":2}`, http.StatusCreated)
	locationID := createdID(t, locationRec)

	itemRec := exchange(t, router, validator, http.MethodPost, "/api/v1/items",
		`{"sku":"SKU-RED-M","description":"Red shirt, medium","category":"apparel","weightKg":0.3}`,
		http.StatusCreated)
	itemID := createdID(t, itemRec)

	orderRec := exchange(t, router, validator, http.MethodPost, "/api/v1/orders",
		`{"number":"SO-1001","customerName":"Acme Retail","orderedAt":"2025-06-09T12:00:00Z","priority":"standard"}`,
		http.StatusCreated)
	orderID := createdID(t, orderRec)

	t.Run("catalog reads", func(t *testing.T) {
		exchange(t, router, validator, http.MethodGet, "/api/v1/workers", "", http.StatusOK)
		exchange(t, router, validator, http.MethodGet, "/api/v1/workers/"+workerID, "", http.StatusOK)
		exchange(t, router, validator, http.MethodGet, "/api/v1/workers/WRK-404", "", http.StatusNotFound)
		exchange(t, router, validator, http.MethodGet, "/api/v1/zones/"+zoneID, "", http.StatusOK)
		exchange(t, router, validator, http.MethodGet, "/api/v1/items?page=1&pageSize=10", "", http.StatusOK)
		exchange(t, router, validator, http.MethodGet, "/api/v1/orders/"+orderID, "", http.StatusOK)
	})

	t.Run("order status", func(t *testing.T) {
		exchange(t, router, validator, http.MethodPut, "/api/v1/orders/"+orderID+"/status",
			`{"status":"picking"}`, http.StatusOK)
	})

	pickBody := `{"orderId":"` + orderID + `","workerId":"` + workerID + `","itemId":"` + itemID +
		`","locationId":"` + locationID + `","quantity":2,"startedAt":"2025-06-10T08:00:00Z"}`
	pickRec := exchange(t, router, validator, http.MethodPost, "/api/v1/picks", pickBody, http.StatusCreated)
	pickID := createdID(t, pickRec)

	t.Run("pick lifecycle", func(t *testing.T) {
		exchange(t, router, validator, http.MethodGet, "/api/v1/picks/"+pickID, "", http.StatusOK)
		exchange(t, router, validator, http.MethodPost, "/api/v1/picks/"+pickID+"/complete",
			`{"completedAt":"2025-06-10T08:01:00Z","shortPick":true}`, http.StatusOK)
		exchange(t, router, validator, http.MethodPost, "/api/v1/picks/"+pickID+"/complete",
			`{"completedAt":"2025-06-10T08:02:00Z"}`, http.StatusConflict)
		exchange(t, router, validator, http.MethodGet,
			"/api/v1/picks?from=2025-06-10T00:00:00Z&to=2025-06-11T00:00:00Z&completedOnly=true",
			"", http.StatusOK)
	})

	t.Run("reports", func(t *testing.T) {
		window := "from=2025-06-10T00:00:00Z&to=2025-06-11T00:00:00Z"
		reports := []string{
			"/api/v1/reports/worker-leaderboard?" + window + "&topN=10",
			"/api/v1/reports/shift-leaderboard?" + window,
			"/api/v1/reports/item-velocity?" + window + "&includeIdle=true",
			"/api/v1/reports/zone-throughput?" + window + "&mode=all_zones",
			"/api/v1/reports/pick-duration-stats?" + window,
		}
		for _, path := range reports {
			exchange(t, router, validator, http.MethodGet, path, "", http.StatusOK)
		}
	})
}
