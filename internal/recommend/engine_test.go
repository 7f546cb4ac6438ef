package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroandes/backend/internal/storage/models"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

// testDataset builds a small Andean dataset: coffee in the mid-altitude
// belt, maize and yuca in warm lowlands, potato and blueberry higher up.
// Yuca has no economic profile on purpose.
func testDataset() *models.Dataset {
	return &models.Dataset{
		Crops: []models.CropProfile{
			{ID: 1, Name: "Café", Category: "Permanente", Description: "Café arábica de altura", CycleDays: 730, PlantingDensity: "5000 plantas/ha"},
			{ID: 2, Name: "Maíz", Category: "Transitorio", Description: "Maíz amarillo tecnificado", CycleDays: 120, PlantingDensity: "62500 plantas/ha"},
			{ID: 3, Name: "Papa", Category: "Transitorio", Description: "Papa pastusa", CycleDays: 150, PlantingDensity: "33000 plantas/ha"},
			{ID: 4, Name: "Arándano", Category: "Permanente", Description: "Arándano de exportación", CycleDays: 365, PlantingDensity: "3300 plantas/ha"},
			{ID: 5, Name: "Yuca", Category: "Transitorio", Description: "Yuca dulce", CycleDays: 300, PlantingDensity: "10000 plantas/ha"},
		},
		Tolerances: map[int64]models.EnvironmentalTolerance{
			1: {CropID: 1, TempMin: 18, TempMax: 24, PrecipMin: 1800, PrecipMax: 2500, AltitudeMin: 1000, AltitudeMax: 2000, PHMin: 5.0, PHMax: 6.0, SoilType: "Franco arcilloso"},
			2: {CropID: 2, TempMin: 20, TempMax: 30, PrecipMin: 800, PrecipMax: 1800, AltitudeMin: 0, AltitudeMax: 1500, PHMin: 5.5, PHMax: 7.5, SoilType: "Franco arenoso"},
			3: {CropID: 3, TempMin: 10, TempMax: 18, PrecipMin: 700, PrecipMax: 1500, AltitudeMin: 2000, AltitudeMax: 3200, PHMin: 4.8, PHMax: 5.8, SoilType: "Franco"},
			4: {CropID: 4, TempMin: 12, TempMax: 20, PrecipMin: 900, PrecipMax: 1400, AltitudeMin: 1800, AltitudeMax: 2600, PHMin: 4.5, PHMax: 5.5, SoilType: "Arenoso ácido"},
			5: {CropID: 5, TempMin: 22, TempMax: 30, PrecipMin: 1000, PrecipMax: 2000, AltitudeMin: 0, AltitudeMax: 1200, PHMin: 5.5, PHMax: 7.0, SoilType: "Arenoso"},
		},
		Economics: map[int64]models.EconomicProfile{
			1: {CropID: 1, InvestmentMin: 8000000, InvestmentMax: 12000000, OperatingCost: 5000000, DomesticPrice: fp(9500), ExportPrice: fp(3.5), Profitability: 35},
			2: {CropID: 2, InvestmentMin: 2000000, InvestmentMax: 3500000, OperatingCost: 1800000, DomesticPrice: fp(1200), Profitability: 25},
			3: {CropID: 3, InvestmentMin: 6000000, InvestmentMax: 9000000, OperatingCost: 4200000, DomesticPrice: fp(1500), Profitability: 30},
			4: {CropID: 4, InvestmentMin: 30000000, InvestmentMax: 45000000, OperatingCost: 12000000, ExportPrice: fp(6.0), Profitability: 45},
		},
		Zones: []models.Zone{
			{ID: 1, Name: "Suroeste antioqueño", Department: "Antioquia", Region: "Andina"},
			{ID: 2, Name: "Sabana de Bogotá", Department: "Cundinamarca", Region: "Andina"},
		},
		ZoneCrops: map[int64][]int64{
			1: {1, 2},
			2: {3},
		},
		Pests: map[int64][]models.Pest{
			1: {{ID: 1, CropID: 1, Name: "Broca del café", Kind: "Insecto", Severity: "Alta", Control: "Manejo integrado con trampas"}},
		},
		Inputs: map[int64][]models.CropInput{
			1: {
				{ID: 10, CropID: 1, Name: "Fertilizante 17-6-18", Category: "Fertilizante", Unit: "kg", AvgPrice: 3200, QuantityPerHa: 600, ApplicationStage: "Crecimiento"},
				{ID: 11, CropID: 1, Name: "Fungicida cúprico", Category: "Fungicida", Unit: "L", AvgPrice: 60000, QuantityPerHa: 4, ApplicationStage: "Floración"},
			},
			2: {
				{ID: 12, CropID: 2, Name: "Urea", Category: "Fertilizante", Unit: "kg", AvgPrice: 2500, QuantityPerHa: 150, ApplicationStage: "Siembra"},
			},
		},
		Techniques: map[int64][]models.Technique{
			1: {{ID: 20, CropID: 1, Name: "Sombrío regulado", Category: "Manejo", Importance: "Alta", Description: "Regulación de sombra con guamo", Benefits: "Estabiliza la temperatura del lote"}},
		},
		Certifications: map[int64][]models.Certification{
			1: {{ID: 30, CropID: 1, Name: "Rainforest Alliance", Issuer: "RA-Cert", TargetMarket: "Exportación", PricePremium: 12}},
		},
		Suppliers: map[int64]models.Supplier{
			100: {ID: 100, Name: "Agroinsumos del Eje", Kind: "Distribuidor", Contact: "ventas@agroeje.co", Location: "Manizales", Phone: "6068871234"},
			101: {ID: 101, Name: "Campo Verde SAS", Kind: "Mayorista", Contact: "info@campoverde.co", Location: "Medellín"},
		},
		SupplierInputs: map[int64][]models.SupplierInput{
			10: {
				{SupplierID: 100, InputID: 10, Price: 3100, Availability: "Inmediata"},
				{SupplierID: 101, InputID: 10, Price: 3050, Availability: "8 días"},
			},
			11: {
				{SupplierID: 100, InputID: 11, Price: 58000, Availability: "Inmediata"},
			},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(testDataset(), DefaultTopN)
	require.NoError(t, err)
	return engine
}

func TestNewEngineRejectsMissingTolerance(t *testing.T) {
	ds := testDataset()
	delete(ds.Tolerances, 3)

	_, err := NewEngine(ds, DefaultTopN)
	require.ErrorIs(t, err, ErrDataIntegrity)
}

func TestNewEngineRejectsInvertedInterval(t *testing.T) {
	ds := testDataset()
	tol := ds.Tolerances[2]
	tol.PHMin, tol.PHMax = tol.PHMax, tol.PHMin
	ds.Tolerances[2] = tol

	_, err := NewEngine(ds, DefaultTopN)
	require.ErrorIs(t, err, ErrDataIntegrity)
}

func TestRecommendRequiresPhysicalParameters(t *testing.T) {
	engine := newTestEngine(t)

	cases := []Query{
		{},
		{Temperature: fp(21), Precipitation: fp(2200)},
		{Temperature: fp(21), Altitude: fp(1500)},
		{Precipitation: fp(2200), Altitude: fp(1500)},
	}

	for _, q := range cases {
		_, err := engine.Recommend(q)
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestRecommendCoffeeZoneScenario(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.Recommend(Query{
		Temperature:      fp(21.0),
		Precipitation:    fp(2200),
		Altitude:         fp(1500),
		SoilType:         "Franco",
		SoilPH:           fp(5.8),
		Experience:       "Media",
		MarketPreference: "Exportación",
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	var coffee *Recommendation
	for i := range results {
		if results[i].Name == "Café" {
			coffee = &results[i]
		}
	}
	require.NotNil(t, coffee, "coffee must be recommended for coffee-zone conditions")
	assert.Greater(t, coffee.Score, 50.0)
	require.NotNil(t, coffee.Costs)
	assert.Equal(t, "3.50 USD/kg", coffee.Costs.ExportPrice)
}

func TestRecommendResultsSortedAndBounded(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.Recommend(Query{
		Temperature:   fp(21),
		Precipitation: fp(1800),
		Altitude:      fp(1200),
	})
	require.NoError(t, err)
	require.LessOrEqual(t, len(results), DefaultTopN)
	require.Greater(t, len(results), 1)

	for i, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
		}
	}
}

func TestRecommendTopNTruncation(t *testing.T) {
	engine, err := NewEngine(testDataset(), 1)
	require.NoError(t, err)

	results, err := engine.Recommend(Query{
		Temperature:   fp(21),
		Precipitation: fp(1800),
		Altitude:      fp(1200),
	})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRecommendHardPHFilterCanEmptyResult(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.Recommend(Query{
		Temperature:   fp(21),
		Precipitation: fp(1500),
		Altitude:      fp(1000),
		SoilPH:        fp(9.9),
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRecommendIdempotent(t *testing.T) {
	engine := newTestEngine(t)

	q := Query{
		Temperature:      fp(21),
		Precipitation:    fp(2200),
		Altitude:         fp(1500),
		Experience:       "Media",
		MarketPreference: "Exportación",
	}

	first, err := engine.Recommend(q)
	require.NoError(t, err)
	second, err := engine.Recommend(q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCropDetail(t *testing.T) {
	engine := newTestEngine(t)

	detail, err := engine.CropDetail(1)
	require.NoError(t, err)

	assert.Equal(t, "Café", detail.Name)
	assert.Equal(t, 100.0, detail.Score)
	assert.Equal(t, "18 - 24 °C", detail.Conditions.Temperature)
	require.NotNil(t, detail.Costs)
	assert.Len(t, detail.Pests, 1)
	assert.Len(t, detail.Inputs, 2)
	assert.Len(t, detail.Techniques, 1)
	assert.Len(t, detail.Certifications, 1)
}

func TestCropDetailUnknownCrop(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.CropDetail(999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCropDetailOmitsMissingJoins(t *testing.T) {
	engine := newTestEngine(t)

	// Yuca has no economics and no auxiliary facts.
	detail, err := engine.CropDetail(5)
	require.NoError(t, err)

	assert.Nil(t, detail.Costs)
	assert.Nil(t, detail.Pests)
	assert.Nil(t, detail.Inputs)
	assert.Nil(t, detail.Techniques)
	assert.Nil(t, detail.Certifications)
}

func TestListCrops(t *testing.T) {
	engine := newTestEngine(t)

	crops := engine.ListCrops()
	require.Len(t, crops, 5)

	assert.Equal(t, "Café", crops[0].Name)
	require.NotNil(t, crops[0].Costs)
	assert.Nil(t, crops[4].Costs)
	assert.Equal(t, 5.0, crops[0].Conditions.PHMin)
}

func TestEstimateCostsScalesLinearly(t *testing.T) {
	engine := newTestEngine(t)

	area := 2.5
	breakdown, err := engine.EstimateCosts(1, area)
	require.NoError(t, err)

	assert.Equal(t, 8000000*area, breakdown.InvestmentMin)
	assert.Equal(t, 12000000*area, breakdown.InvestmentMax)
	assert.Equal(t, (breakdown.InvestmentMin+breakdown.InvestmentMax)/2, breakdown.InvestmentAvg)
	assert.Equal(t, 5000000*area, breakdown.OperatingCost)

	// Labor, miscellaneous and direct inputs must reconstruct the total.
	assert.InDelta(t, breakdown.OperatingCost,
		breakdown.LaborCost+breakdown.MiscCost+breakdown.DirectInputs, 1e-6)
	assert.InDelta(t, breakdown.OperatingCost*0.4, breakdown.LaborCost, 1e-6)
	assert.InDelta(t, breakdown.OperatingCost*0.1, breakdown.MiscCost, 1e-6)

	require.Len(t, breakdown.InputDetail, 2)
	fertilizer := breakdown.InputDetail[0]
	assert.Equal(t, 600*area, fertilizer.Quantity)
	assert.Equal(t, 600*area*3200, fertilizer.Subtotal)
}

func TestEstimateCostsDefaultsAndValidation(t *testing.T) {
	engine := newTestEngine(t)

	breakdown, err := engine.EstimateCosts(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5000000.0, breakdown.OperatingCost)

	_, err = engine.EstimateCosts(1, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = engine.EstimateCosts(1, -2)
	require.ErrorIs(t, err, ErrValidation)
}

func TestEstimateCostsWithoutEconomics(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.EstimateCosts(5, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListSuppliersGroupsBySupplier(t *testing.T) {
	engine := newTestEngine(t)

	listings, err := engine.ListSuppliers(1)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, int64(100), listings[0].SupplierID)
	assert.Len(t, listings[0].Inputs, 2)
	assert.Equal(t, int64(101), listings[1].SupplierID)
	assert.Len(t, listings[1].Inputs, 1)
	assert.Equal(t, "3,100 COP/kg", listings[0].Inputs[0].Price)
}

func TestListSuppliersDistinguishesMissingInputsFromMissingOffers(t *testing.T) {
	engine := newTestEngine(t)

	// Yuca has no input rows at all.
	_, err := engine.ListSuppliers(5)
	require.ErrorIs(t, err, ErrNotFound)

	// Maize has an input but nobody supplies it: empty list, no error.
	listings, err := engine.ListSuppliers(2)
	require.NoError(t, err)
	assert.Empty(t, listings)
}
