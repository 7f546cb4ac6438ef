package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const notAvailable = "No disponible"

// assemble joins a scored candidate against the auxiliary tables and
// produces the presentation-ready record.
func (e *Engine) assemble(c candidate) Recommendation {
	rec := Recommendation{
		CropID:          c.crop.ID,
		Name:            c.crop.Name,
		Category:        c.crop.Category,
		Description:     c.crop.Description,
		CycleDays:       c.crop.CycleDays,
		PlantingDensity: c.crop.PlantingDensity,
		Score:           round2(c.score),
		Conditions: OptimalConditions{
			Temperature:   fmt.Sprintf("%s - %s °C", formatNumber(c.tol.TempMin), formatNumber(c.tol.TempMax)),
			Precipitation: fmt.Sprintf("%s - %s mm/año", formatNumber(c.tol.PrecipMin), formatNumber(c.tol.PrecipMax)),
			Altitude:      fmt.Sprintf("%s - %s msnm", formatNumber(c.tol.AltitudeMin), formatNumber(c.tol.AltitudeMax)),
			SoilType:      c.tol.SoilType,
			SoilPH:        fmt.Sprintf("%s - %s", formatNumber(c.tol.PHMin), formatNumber(c.tol.PHMax)),
		},
	}

	if c.econ != nil {
		rec.Costs = &CostSummary{
			InitialInvestment: fmt.Sprintf("%s - %s COP/ha", formatCOP(c.econ.InvestmentMin), formatCOP(c.econ.InvestmentMax)),
			OperatingCost:     fmt.Sprintf("%s COP/ha", formatCOP(c.econ.OperatingCost)),
			DomesticPrice:     formatOptionalPrice(c.econ.DomesticPrice, "COP/kg"),
			ExportPrice:       formatOptionalUSD(c.econ.ExportPrice),
			Profitability:     fmt.Sprintf("%.2f%%", c.econ.Profitability),
		}
	}

	for _, p := range e.ds.Pests[c.crop.ID] {
		rec.Pests = append(rec.Pests, PestEntry{
			Name:     p.Name,
			Kind:     p.Kind,
			Severity: p.Severity,
			Control:  p.Control,
		})
	}

	for _, in := range e.ds.Inputs[c.crop.ID] {
		rec.Inputs = append(rec.Inputs, InputEntry{
			Name:             in.Name,
			Category:         in.Category,
			QuantityPerHa:    fmt.Sprintf("%s %s", formatNumber(in.QuantityPerHa), in.Unit),
			ApplicationStage: in.ApplicationStage,
			AvgPrice:         fmt.Sprintf("%s COP/%s", formatCOP(in.AvgPrice), in.Unit),
		})
	}

	for _, t := range e.ds.Techniques[c.crop.ID] {
		rec.Techniques = append(rec.Techniques, TechniqueEntry{
			Name:        t.Name,
			Category:    t.Category,
			Importance:  t.Importance,
			Description: t.Description,
			Benefits:    t.Benefits,
		})
	}

	for _, cert := range e.ds.Certifications[c.crop.ID] {
		rec.Certifications = append(rec.Certifications, CertificationEntry{
			Name:         cert.Name,
			Issuer:       cert.Issuer,
			TargetMarket: cert.TargetMarket,
			PricePremium: fmt.Sprintf("%s%%", formatNumber(cert.PricePremium)),
		})
	}

	return rec
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatNumber renders a float without trailing zeros: 18 stays "18",
// 5.8 stays "5.8".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatCOP renders an amount with thousands separators and no decimals,
// matching the public contract ("1,200,000").
func formatCOP(v float64) string {
	return groupThousands(strconv.FormatInt(int64(math.Round(v)), 10))
}

func formatOptionalPrice(price *float64, unit string) string {
	if price == nil {
		return notAvailable
	}
	return fmt.Sprintf("%s %s", formatCOP(*price), unit)
}

func formatOptionalUSD(price *float64) string {
	if price == nil {
		return notAvailable
	}
	parts := strings.SplitN(strconv.FormatFloat(*price, 'f', 2, 64), ".", 2)
	return fmt.Sprintf("%s.%s USD/kg", groupThousands(parts[0]), parts[1])
}

func groupThousands(digits string) string {
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
