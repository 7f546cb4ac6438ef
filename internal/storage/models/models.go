package models

// Reference dataset entities. Loaded once at startup and treated as
// immutable for the lifetime of the process.

type CropProfile struct {
	ID              int64
	Name            string
	Category        string
	Description     string
	CycleDays       int
	PlantingDensity string
	Image           string
}

// EnvironmentalTolerance holds the closed intervals a crop tolerates.
// Min <= Max for every interval; exactly one row per crop.
type EnvironmentalTolerance struct {
	CropID      int64
	TempMin     float64
	TempMax     float64
	PrecipMin   float64
	PrecipMax   float64
	AltitudeMin float64
	AltitudeMax float64
	PHMin       float64
	PHMax       float64
	SoilType    string
}

// EconomicProfile may be absent for a crop. A nil price means the crop
// is not targeted at that market.
type EconomicProfile struct {
	CropID        int64
	InvestmentMin float64
	InvestmentMax float64
	OperatingCost float64
	DomesticPrice *float64
	ExportPrice   *float64
	Profitability float64
}

type Zone struct {
	ID         int64
	Name       string
	Department string
	Region     string
}

type Pest struct {
	ID       int64
	CropID   int64
	Name     string
	Kind     string
	Severity string
	Control  string
}

type CropInput struct {
	ID               int64
	CropID           int64
	Name             string
	Category         string
	Unit             string
	AvgPrice         float64
	QuantityPerHa    float64
	ApplicationStage string
	Frequency        string
}

type Technique struct {
	ID               int64
	CropID           int64
	Name             string
	Category         string
	Description      string
	Benefits         string
	Importance       string
	ApplicationStage string
}

type Certification struct {
	ID           int64
	CropID       int64
	Name         string
	Issuer       string
	TargetMarket string
	PricePremium float64
}

type Supplier struct {
	ID       int64
	Name     string
	Kind     string
	Contact  string
	Location string
	Website  string
	Phone    string
}

// SupplierInput links a supplier to an input it sells, with the
// supplier-specific price and availability.
type SupplierInput struct {
	SupplierID   int64
	InputID      int64
	Price        float64
	Availability string
}

// Dataset is the in-memory snapshot the recommendation engine works on.
// Auxiliary facts are keyed by crop ID; supplier offers by input ID.
type Dataset struct {
	Crops          []CropProfile
	Tolerances     map[int64]EnvironmentalTolerance
	Economics      map[int64]EconomicProfile
	Zones          []Zone
	ZoneCrops      map[int64][]int64
	Pests          map[int64][]Pest
	Inputs         map[int64][]CropInput
	Techniques     map[int64][]Technique
	Certifications map[int64][]Certification
	Suppliers      map[int64]Supplier
	SupplierInputs map[int64][]SupplierInput
}
