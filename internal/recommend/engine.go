package recommend

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agroandes/backend/internal/storage/models"
	"github.com/agroandes/backend/pkg/logger"
)

// Labor and miscellaneous shares of the operating cost; the remainder is
// attributed to direct inputs.
const (
	laborShare = 0.4
	miscShare  = 0.1
)

const DefaultTopN = 10

// Engine is the recommendation core. It holds the read-only dataset
// snapshot; every request derives its own candidate slices, so concurrent
// use is safe.
type Engine struct {
	ds   *models.Dataset
	topN int
}

// NewEngine validates the snapshot and builds the engine. Every crop must
// carry its environmental tolerance row; anything else is a malformed
// dataset, reported instead of silently producing partial records.
func NewEngine(ds *models.Dataset, topN int) (*Engine, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	for _, crop := range ds.Crops {
		tol, ok := ds.Tolerances[crop.ID]
		if !ok {
			return nil, fmt.Errorf("%w: crop %d (%s) has no tolerance row", ErrDataIntegrity, crop.ID, crop.Name)
		}
		if tol.TempMin > tol.TempMax || tol.PrecipMin > tol.PrecipMax ||
			tol.AltitudeMin > tol.AltitudeMax || tol.PHMin > tol.PHMax {
			return nil, fmt.Errorf("%w: crop %d (%s) has an inverted tolerance interval", ErrDataIntegrity, crop.ID, crop.Name)
		}
	}

	return &Engine{ds: ds, topN: topN}, nil
}

// Recommend filters the dataset through the constraint cascade, scores the
// survivors and returns the enriched top records, best first. An empty
// result is a legitimate outcome when a hard constraint excludes
// everything.
func (e *Engine) Recommend(q Query) ([]Recommendation, error) {
	if q.Temperature == nil || q.Precipitation == nil || q.Altitude == nil {
		return nil, fmt.Errorf("%w: temperatura, precipitacion and altitud are required", ErrValidation)
	}

	requestID := uuid.New().String()

	candidates := e.applyFilters(e.initialCandidates(), q)
	scored := scoreCandidates(candidates, q)
	top := rankTop(scored, e.topN)

	results := make([]Recommendation, 0, len(top))
	for _, c := range top {
		results = append(results, e.assemble(c))
	}

	logger.Info("Recommendation computed",
		zap.String("request_id", requestID),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// CropDetail returns the enriched record for one crop with a synthetic
// full score; no competitive ranking is involved.
func (e *Engine) CropDetail(cropID int64) (Recommendation, error) {
	c, err := e.candidateByID(cropID)
	if err != nil {
		return Recommendation{}, err
	}

	c.score = 100
	return e.assemble(c), nil
}

// ListCrops returns the whole catalog, unscored.
func (e *Engine) ListCrops() []CropSummary {
	summaries := make([]CropSummary, 0, len(e.ds.Crops))
	for _, crop := range e.ds.Crops {
		tol := e.ds.Tolerances[crop.ID]

		s := CropSummary{
			CropID:          crop.ID,
			Name:            crop.Name,
			Category:        crop.Category,
			Description:     crop.Description,
			CycleDays:       crop.CycleDays,
			PlantingDensity: crop.PlantingDensity,
			Image:           crop.Image,
			Conditions: ConditionSummary{
				TempMin:     tol.TempMin,
				TempMax:     tol.TempMax,
				PrecipMin:   tol.PrecipMin,
				PrecipMax:   tol.PrecipMax,
				AltitudeMin: tol.AltitudeMin,
				AltitudeMax: tol.AltitudeMax,
				PHMin:       tol.PHMin,
				PHMax:       tol.PHMax,
				SoilType:    tol.SoilType,
			},
		}

		if econ, ok := e.ds.Economics[crop.ID]; ok {
			s.Costs = &CostFigures{
				InvestmentMin: econ.InvestmentMin,
				InvestmentMax: econ.InvestmentMax,
				OperatingCost: econ.OperatingCost,
				DomesticPrice: econ.DomesticPrice,
				ExportPrice:   econ.ExportPrice,
				Profitability: econ.Profitability,
			}
		}

		summaries = append(summaries, s)
	}
	return summaries
}

// EstimateCosts projects per-hectare figures onto the requested area. The
// operating cost splits into a 40% labor estimate, a 10% miscellaneous
// estimate and a direct-inputs remainder, so the three always sum to the
// scaled total.
func (e *Engine) EstimateCosts(cropID int64, areaHectares float64) (CostBreakdown, error) {
	if areaHectares <= 0 {
		return CostBreakdown{}, fmt.Errorf("%w: area_hectareas must be positive", ErrValidation)
	}

	econ, ok := e.ds.Economics[cropID]
	if !ok {
		return CostBreakdown{}, fmt.Errorf("%w: no cost data for crop %d", ErrNotFound, cropID)
	}

	operating := econ.OperatingCost * areaHectares

	breakdown := CostBreakdown{
		CropID:        cropID,
		AreaHectares:  areaHectares,
		InvestmentMin: econ.InvestmentMin * areaHectares,
		InvestmentMax: econ.InvestmentMax * areaHectares,
		OperatingCost: operating,
		LaborCost:     operating * laborShare,
		MiscCost:      operating * miscShare,
		DirectInputs:  operating * (1 - laborShare - miscShare),
		Income: IncomeEstimate{
			DomesticPrice: formatOptionalPrice(econ.DomesticPrice, "COP/kg"),
			ExportPrice:   formatOptionalUSD(econ.ExportPrice),
			Profitability: fmt.Sprintf("%.2f%%", econ.Profitability),
		},
	}
	breakdown.InvestmentAvg = (breakdown.InvestmentMin + breakdown.InvestmentMax) / 2

	for _, in := range e.ds.Inputs[cropID] {
		quantity := in.QuantityPerHa * areaHectares
		breakdown.InputDetail = append(breakdown.InputDetail, InputCostLine{
			Name:      in.Name,
			Category:  in.Category,
			Quantity:  quantity,
			Unit:      in.Unit,
			UnitPrice: in.AvgPrice,
			Subtotal:  quantity * in.AvgPrice,
		})
	}

	return breakdown, nil
}

// ListSuppliers groups the supplier offers covering the crop's recommended
// inputs. A crop with no associated inputs is NotFound; inputs without any
// supplier offer yield an empty list, which is a different answer.
func (e *Engine) ListSuppliers(cropID int64) ([]SupplierListing, error) {
	inputs := e.ds.Inputs[cropID]
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no input data for crop %d", ErrNotFound, cropID)
	}

	bySupplier := make(map[int64]*SupplierListing)
	for _, in := range inputs {
		for _, offer := range e.ds.SupplierInputs[in.ID] {
			listing, ok := bySupplier[offer.SupplierID]
			if !ok {
				supplier, exists := e.ds.Suppliers[offer.SupplierID]
				if !exists {
					continue
				}
				listing = &SupplierListing{
					SupplierID: supplier.ID,
					Name:       supplier.Name,
					Kind:       supplier.Kind,
					Contact:    supplier.Contact,
					Location:   supplier.Location,
					Website:    supplier.Website,
					Phone:      supplier.Phone,
				}
				bySupplier[offer.SupplierID] = listing
			}

			listing.Inputs = append(listing.Inputs, SupplierOffer{
				InputID:      in.ID,
				Name:         in.Name,
				Category:     in.Category,
				Price:        fmt.Sprintf("%s COP/%s", formatCOP(offer.Price), in.Unit),
				Availability: offer.Availability,
			})
		}
	}

	listings := make([]SupplierListing, 0, len(bySupplier))
	for _, l := range bySupplier {
		listings = append(listings, *l)
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].SupplierID < listings[j].SupplierID
	})

	return listings, nil
}

func (e *Engine) candidateByID(cropID int64) (candidate, error) {
	for _, crop := range e.ds.Crops {
		if crop.ID == cropID {
			c := candidate{crop: crop, tol: e.ds.Tolerances[crop.ID]}
			if econ, ok := e.ds.Economics[crop.ID]; ok {
				ec := econ
				c.econ = &ec
			}
			return c, nil
		}
	}
	return candidate{}, fmt.Errorf("%w: crop %d", ErrNotFound, cropID)
}
