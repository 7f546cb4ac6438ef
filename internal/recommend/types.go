package recommend

import (
	"github.com/agroandes/backend/internal/storage/models"
)

// Query carries the grower's conditions. Temperature, precipitation and
// altitude are required; everything else refines the result when present.
// JSON names follow the public API contract.
type Query struct {
	Temperature      *float64 `json:"temperatura"`
	Precipitation    *float64 `json:"precipitacion"`
	Altitude         *float64 `json:"altitud"`
	SoilType         string   `json:"tipo_suelo,omitempty"`
	SoilPH           *float64 `json:"ph_suelo,omitempty"`
	Budget           *float64 `json:"presupuesto,omitempty"`
	AvailableDays    *int     `json:"tiempo_disponible,omitempty"`
	Experience       string   `json:"experiencia,omitempty"`
	Department       string   `json:"departamento,omitempty"`
	MarketPreference string   `json:"preferencia_mercado,omitempty"`
}

// candidate is a crop surviving the filter pipeline, together with the
// intermediate distance metrics the scorer produces. Request-scoped.
type candidate struct {
	crop  models.CropProfile
	tol   models.EnvironmentalTolerance
	econ  *models.EconomicProfile
	score float64

	tempDist   float64
	precipDist float64
	altDist    float64
}

// OptimalConditions are the crop's tolerance intervals, formatted for
// presentation.
type OptimalConditions struct {
	Temperature   string `json:"temperatura"`
	Precipitation string `json:"precipitacion"`
	Altitude      string `json:"altitud"`
	SoilType      string `json:"tipo_suelo"`
	SoilPH        string `json:"ph_suelo"`
}

type CostSummary struct {
	InitialInvestment string `json:"inversion_inicial"`
	OperatingCost     string `json:"costo_operativo"`
	DomesticPrice     string `json:"precio_interno"`
	ExportPrice       string `json:"precio_exportacion"`
	Profitability     string `json:"rentabilidad_estimada"`
}

type PestEntry struct {
	Name     string `json:"nombre"`
	Kind     string `json:"tipo"`
	Severity string `json:"severidad"`
	Control  string `json:"control"`
}

type InputEntry struct {
	Name             string `json:"nombre"`
	Category         string `json:"categoria"`
	QuantityPerHa    string `json:"cantidad_por_ha"`
	ApplicationStage string `json:"etapa_aplicacion"`
	AvgPrice         string `json:"precio_promedio"`
}

type TechniqueEntry struct {
	Name        string `json:"nombre"`
	Category    string `json:"categoria"`
	Importance  string `json:"importancia"`
	Description string `json:"descripcion"`
	Benefits    string `json:"beneficios"`
}

type CertificationEntry struct {
	Name         string `json:"nombre"`
	Issuer       string `json:"entidad"`
	TargetMarket string `json:"mercado_objetivo"`
	PricePremium string `json:"premium_precio"`
}

// Recommendation is a fully enriched crop record. The auxiliary lists are
// omitted entirely when no rows join for the crop, which distinguishes
// "no data" from an explicitly empty list.
type Recommendation struct {
	CropID          int64                `json:"id_cultivo"`
	Name            string               `json:"nombre"`
	Category        string               `json:"tipo"`
	Description     string               `json:"descripcion"`
	CycleDays       int                  `json:"ciclo_dias"`
	PlantingDensity string               `json:"densidad_siembra"`
	Score           float64              `json:"puntuacion"`
	Conditions      OptimalConditions    `json:"condiciones_optimas"`
	Costs           *CostSummary         `json:"costos,omitempty"`
	Pests           []PestEntry          `json:"plagas_enfermedades,omitempty"`
	Inputs          []InputEntry         `json:"insumos_recomendados,omitempty"`
	Techniques      []TechniqueEntry     `json:"tecnicas_recomendadas,omitempty"`
	Certifications  []CertificationEntry `json:"certificaciones_aplicables,omitempty"`
}

// CostBreakdown is numeric so callers can do their own arithmetic; every
// monetary figure is already scaled by the requested area.
type CostBreakdown struct {
	CropID        int64           `json:"id_cultivo"`
	AreaHectares  float64         `json:"area_hectareas"`
	InvestmentMin float64         `json:"inversion_min"`
	InvestmentMax float64         `json:"inversion_max"`
	InvestmentAvg float64         `json:"inversion_promedio"`
	OperatingCost float64         `json:"costo_operativo_total"`
	LaborCost     float64         `json:"mano_obra"`
	MiscCost      float64         `json:"otros_costos"`
	DirectInputs  float64         `json:"costo_insumos"`
	InputDetail   []InputCostLine `json:"desglose_insumos,omitempty"`
	Income        IncomeEstimate  `json:"estimacion_ingresos"`
}

type InputCostLine struct {
	Name      string  `json:"nombre"`
	Category  string  `json:"categoria"`
	Quantity  float64 `json:"cantidad"`
	Unit      string  `json:"unidad_medida"`
	UnitPrice float64 `json:"precio_unitario"`
	Subtotal  float64 `json:"subtotal"`
}

type IncomeEstimate struct {
	DomesticPrice string `json:"precio_interno"`
	ExportPrice   string `json:"precio_exportacion"`
	Profitability string `json:"rentabilidad_estimada"`
}

// SupplierListing groups a supplier with the offers it has for the
// crop's recommended inputs.
type SupplierListing struct {
	SupplierID int64           `json:"id_proveedor"`
	Name       string          `json:"nombre"`
	Kind       string          `json:"tipo"`
	Contact    string          `json:"contacto"`
	Location   string          `json:"ubicacion"`
	Website    string          `json:"sitio_web"`
	Phone      string          `json:"telefono"`
	Inputs     []SupplierOffer `json:"insumos"`
}

type SupplierOffer struct {
	InputID      int64  `json:"id_insumo"`
	Name         string `json:"nombre"`
	Category     string `json:"categoria"`
	Price        string `json:"precio"`
	Availability string `json:"disponibilidad"`
}

// CropSummary is the unscored listing record for the catalog endpoint.
type CropSummary struct {
	CropID          int64            `json:"id_cultivo"`
	Name            string           `json:"nombre"`
	Category        string           `json:"tipo"`
	Description     string           `json:"descripcion"`
	CycleDays       int              `json:"ciclo_dias"`
	PlantingDensity string           `json:"densidad_siembra"`
	Image           string           `json:"imagen,omitempty"`
	Conditions      ConditionSummary `json:"condiciones"`
	Costs           *CostFigures     `json:"costos,omitempty"`
}

type ConditionSummary struct {
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	PrecipMin   float64 `json:"precipitacion_min"`
	PrecipMax   float64 `json:"precipitacion_max"`
	AltitudeMin float64 `json:"altitud_min"`
	AltitudeMax float64 `json:"altitud_max"`
	PHMin       float64 `json:"ph_min"`
	PHMax       float64 `json:"ph_max"`
	SoilType    string  `json:"tipo_suelo"`
}

type CostFigures struct {
	InvestmentMin float64  `json:"inversion_min"`
	InvestmentMax float64  `json:"inversion_max"`
	OperatingCost float64  `json:"costo_operativo"`
	DomesticPrice *float64 `json:"precio_interno"`
	ExportPrice   *float64 `json:"precio_export"`
	Profitability float64  `json:"rentabilidad"`
}
