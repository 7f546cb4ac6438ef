package recommend

import "strings"

// Relaxation margins for the required physical constraints. Tolerance data
// is approximate; a slightly-out-of-range suggestion beats an empty result.
const (
	tempMargin     = 2.0
	precipMargin   = 200.0
	altitudeMargin = 200.0
)

// keep returns the candidates satisfying pred. The input slice is never
// mutated, so reverting a stage is just reusing its input.
func keep(set []candidate, pred func(candidate) bool) []candidate {
	out := make([]candidate, 0, len(set))
	for _, c := range set {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// relaxable applies the strict predicate first and retries with the wide
// one only when the strict pass eliminates every candidate. The relaxed
// result is always a superset of the strict one.
func relaxable(set []candidate, strict, wide func(candidate) bool) []candidate {
	out := keep(set, strict)
	if len(out) == 0 {
		out = keep(set, wide)
	}
	return out
}

// advisory narrows the set preferentially: if the predicate would empty a
// non-empty set, the stage becomes a no-op.
func advisory(set []candidate, pred func(candidate) bool) []candidate {
	out := keep(set, pred)
	if len(out) == 0 {
		return set
	}
	return out
}

func containsInterval(min, max, value, margin float64) bool {
	return min-margin <= value && value <= max+margin
}

// applyFilters runs the fixed stage cascade over the candidate set.
func (e *Engine) applyFilters(set []candidate, q Query) []candidate {
	temperature := *q.Temperature
	precipitation := *q.Precipitation
	altitude := *q.Altitude

	set = relaxable(set,
		func(c candidate) bool {
			return containsInterval(c.tol.TempMin, c.tol.TempMax, temperature, 0)
		},
		func(c candidate) bool {
			return containsInterval(c.tol.TempMin, c.tol.TempMax, temperature, tempMargin)
		},
	)

	set = relaxable(set,
		func(c candidate) bool {
			return containsInterval(c.tol.PrecipMin, c.tol.PrecipMax, precipitation, 0)
		},
		func(c candidate) bool {
			return containsInterval(c.tol.PrecipMin, c.tol.PrecipMax, precipitation, precipMargin)
		},
	)

	set = relaxable(set,
		func(c candidate) bool {
			return containsInterval(c.tol.AltitudeMin, c.tol.AltitudeMax, altitude, 0)
		},
		func(c candidate) bool {
			return containsInterval(c.tol.AltitudeMin, c.tol.AltitudeMax, altitude, altitudeMargin)
		},
	)

	if q.SoilType != "" {
		keywords := strings.Fields(strings.ToLower(q.SoilType))
		set = advisory(set, func(c candidate) bool {
			return soilMatches(c.tol.SoilType, keywords)
		})
	}

	if q.SoilPH != nil {
		ph := *q.SoilPH
		set = keep(set, func(c candidate) bool {
			return c.tol.PHMin <= ph && ph <= c.tol.PHMax
		})
	}

	if q.Budget != nil {
		budget := *q.Budget
		set = keep(set, func(c candidate) bool {
			return c.econ != nil && c.econ.InvestmentMin <= budget
		})
	}

	if q.AvailableDays != nil {
		days := *q.AvailableDays
		set = keep(set, func(c candidate) bool {
			return c.crop.CycleDays <= days
		})
	}

	if q.Department != "" {
		set = e.filterByZone(set, q.Department)
	}

	if q.MarketPreference != "" {
		set = filterByMarket(set, q.MarketPreference)
	}

	return set
}

func soilMatches(label string, keywords []string) bool {
	if label == "" {
		return false
	}
	label = strings.ToLower(label)
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

// filterByZone keeps crops commonly grown in the department's zones. An
// unknown department is a no-op; so is a match set that would empty the
// candidates. Geography is a prior, not a hard requirement.
func (e *Engine) filterByZone(set []candidate, department string) []candidate {
	zoneCropIDs := make(map[int64]bool)
	matched := false
	for _, z := range e.ds.Zones {
		if strings.EqualFold(z.Department, department) {
			matched = true
			for _, cropID := range e.ds.ZoneCrops[z.ID] {
				zoneCropIDs[cropID] = true
			}
		}
	}
	if !matched {
		return set
	}

	return advisory(set, func(c candidate) bool {
		return zoneCropIDs[c.crop.ID]
	})
}

func filterByMarket(set []candidate, preference string) []candidate {
	if isExportPreference(preference) {
		return advisory(set, func(c candidate) bool {
			return c.econ != nil && c.econ.ExportPrice != nil
		})
	}
	return advisory(set, func(c candidate) bool {
		return c.econ != nil && c.econ.DomesticPrice != nil
	})
}

func isExportPreference(preference string) bool {
	p := strings.ToLower(strings.TrimSpace(preference))
	return p == "exportación" || p == "exportacion" || p == "export"
}

// initialCandidates joins every crop with its tolerance and optional
// economics. Tolerances are guaranteed present by the integrity check at
// engine construction.
func (e *Engine) initialCandidates() []candidate {
	set := make([]candidate, 0, len(e.ds.Crops))
	for _, crop := range e.ds.Crops {
		c := candidate{
			crop: crop,
			tol:  e.ds.Tolerances[crop.ID],
		}
		if econ, ok := e.ds.Economics[crop.ID]; ok {
			ec := econ
			c.econ = &ec
		}
		set = append(set, c)
	}
	return set
}
