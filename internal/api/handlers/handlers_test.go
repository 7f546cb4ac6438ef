package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroandes/backend/internal/recommend"
	"github.com/agroandes/backend/internal/storage/models"
)

func fp(v float64) *float64 { return &v }

func testDataset() *models.Dataset {
	return &models.Dataset{
		Crops: []models.CropProfile{
			{ID: 1, Name: "Café", Category: "Permanente", CycleDays: 730},
			{ID: 2, Name: "Yuca", Category: "Transitorio", CycleDays: 300},
		},
		Tolerances: map[int64]models.EnvironmentalTolerance{
			1: {CropID: 1, TempMin: 18, TempMax: 24, PrecipMin: 1800, PrecipMax: 2500, AltitudeMin: 1000, AltitudeMax: 2000, PHMin: 5.0, PHMax: 6.0, SoilType: "Franco arcilloso"},
			2: {CropID: 2, TempMin: 22, TempMax: 30, PrecipMin: 1000, PrecipMax: 2000, AltitudeMin: 0, AltitudeMax: 1200, PHMin: 5.5, PHMax: 7.0, SoilType: "Arenoso"},
		},
		Economics: map[int64]models.EconomicProfile{
			1: {CropID: 1, InvestmentMin: 8000000, InvestmentMax: 12000000, OperatingCost: 5000000, DomesticPrice: fp(9500), ExportPrice: fp(3.5), Profitability: 35},
		},
		ZoneCrops:      map[int64][]int64{},
		Pests:          map[int64][]models.Pest{},
		Inputs:         map[int64][]models.CropInput{},
		Techniques:     map[int64][]models.Technique{},
		Certifications: map[int64][]models.Certification{},
		Suppliers:      map[int64]models.Supplier{},
		SupplierInputs: map[int64][]models.SupplierInput{},
	}
}

// testApp mirrors the route layout in cmd/api, with caching disabled.
func testApp(t *testing.T) *fiber.App {
	t.Helper()

	engine, err := recommend.NewEngine(testDataset(), recommend.DefaultTopN)
	require.NoError(t, err)

	app := fiber.New()
	recommendHandler := NewRecommendHandler(engine, nil)
	cropHandler := NewCropHandler(engine, nil)

	v1 := app.Group("/api/v1")
	v1.Post("/recommendations", recommendHandler.HandleRecommendations)
	v1.Get("/crops", cropHandler.ListCrops)
	v1.Get("/crops/:id", cropHandler.GetCropDetail)
	v1.Get("/crops/:id/costs", cropHandler.EstimateCosts)
	v1.Get("/crops/:id/suppliers", cropHandler.ListSuppliers)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestHandleRecommendations(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"temperatura":   21,
		"precipitacion": 2200,
		"altitud":       1500,
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	results, ok := body["recomendaciones"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "Café", first["nombre"])
}

func TestHandleRecommendationsMissingParameters(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"temperatura": 21,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "error")
}

func TestHandleRecommendationsMalformedBody(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListCropsEndpoint(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/crops", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	crops, ok := body["cultivos"].([]interface{})
	require.True(t, ok)
	assert.Len(t, crops, 2)
}

func TestGetCropDetailEndpoint(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/crops/1", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Café", body["nombre"])
	assert.Equal(t, 100.0, body["puntuacion"])
}

func TestGetCropDetailNotFound(t *testing.T) {
	app := testApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/crops/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCropDetailInvalidID(t *testing.T) {
	app := testApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/crops/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEstimateCostsEndpoint(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/crops/1/costs?area=2.5", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.5, body["area_hectareas"])
	assert.Equal(t, 12500000.0, body["costo_operativo_total"])
}

func TestEstimateCostsInvalidArea(t *testing.T) {
	app := testApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/crops/1/costs?area=diez", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/crops/1/costs?area=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListSuppliersEndpointNotFound(t *testing.T) {
	app := testApp(t)

	// No input rows for yuca.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/crops/2/suppliers", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
