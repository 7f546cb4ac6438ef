package recommend

import (
	"math"
	"sort"
	"strings"
)

// Score weights. Each physical dimension replaces 20 baseline points with a
// proximity-to-optimum share; profitability adds up to 20 on top.
const (
	dimensionWeight     = 20.0
	profitabilityWeight = 20.0
)

// cropDifficulty classifies crops by how demanding they are to grow.
// Crops absent from the table count as Media.
var cropDifficulty = map[string]string{
	"Maíz":            "Baja",
	"Fríjol":          "Baja",
	"Yuca":            "Baja",
	"Plátano":         "Baja",
	"Arroz":           "Media",
	"Papa":            "Media",
	"Tomate de árbol": "Media",
	"Café":            "Alta",
	"Cacao":           "Alta",
	"Gulupa":          "Alta",
	"Arándano":        "Alta",
}

// experienceAdjustment maps (grower experience, crop difficulty) to a score
// delta. A beginner matched with an easy crop gets the full bonus; a
// beginner matched with a demanding crop is penalized.
var experienceAdjustment = map[string]map[string]float64{
	"baja": {
		"Baja":  10,
		"Media": 0,
		"Alta":  -10,
	},
	"media": {
		"Baja":  5,
		"Media": 10,
		"Alta":  0,
	},
	"alta": {
		"Baja":  0,
		"Media": 5,
		"Alta":  10,
	},
}

// scoreCandidates assigns each candidate a compatibility score in [0, 100].
// Normalization is relative to the current candidate set: distances are
// divided by the largest distance observed in this request, never by a
// global constant.
func scoreCandidates(set []candidate, q Query) []candidate {
	if len(set) == 0 {
		return nil
	}

	scored := make([]candidate, len(set))
	copy(scored, set)

	for i := range scored {
		c := &scored[i]
		c.score = 100.0
		c.tempDist = math.Abs(midpoint(c.tol.TempMin, c.tol.TempMax) - *q.Temperature)
		c.precipDist = math.Abs(midpoint(c.tol.PrecipMin, c.tol.PrecipMax) - *q.Precipitation)
		c.altDist = math.Abs(midpoint(c.tol.AltitudeMin, c.tol.AltitudeMax) - *q.Altitude)
	}

	maxTemp := maxDistance(scored, func(c candidate) float64 { return c.tempDist })
	maxPrecip := maxDistance(scored, func(c candidate) float64 { return c.precipDist })
	maxAlt := maxDistance(scored, func(c candidate) float64 { return c.altDist })

	for i := range scored {
		c := &scored[i]
		c.score += -dimensionWeight + dimensionWeight*(1-c.tempDist/maxTemp)
		c.score += -dimensionWeight + dimensionWeight*(1-c.precipDist/maxPrecip)
		c.score += -dimensionWeight + dimensionWeight*(1-c.altDist/maxAlt)
	}

	if maxProfit, ok := maxProfitability(scored); ok {
		for i := range scored {
			c := &scored[i]
			if c.econ != nil {
				c.score += profitabilityWeight * (c.econ.Profitability / maxProfit)
			}
		}
	}

	if q.Experience != "" {
		level := strings.ToLower(strings.TrimSpace(q.Experience))
		if byDifficulty, ok := experienceAdjustment[level]; ok {
			for i := range scored {
				c := &scored[i]
				c.score += byDifficulty[difficultyFor(c.crop.Name)]
			}
		}
	}

	for i := range scored {
		scored[i].score = clamp(scored[i].score, 0, 100)
	}

	return scored
}

// rankTop sorts descending by score and keeps the best n. The sort is
// stable: equal scores retain their input order.
func rankTop(set []candidate, n int) []candidate {
	ranked := make([]candidate, len(set))
	copy(ranked, set)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func midpoint(min, max float64) float64 {
	return (min + max) / 2
}

func maxDistance(set []candidate, dist func(candidate) float64) float64 {
	max := 0.0
	for _, c := range set {
		if d := dist(c); d > max {
			max = d
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

func maxProfitability(set []candidate) (float64, bool) {
	present := false
	max := 0.0
	for _, c := range set {
		if c.econ == nil {
			continue
		}
		present = true
		if c.econ.Profitability > max {
			max = c.econ.Profitability
		}
	}
	if !present {
		return 0, false
	}
	if max <= 0 {
		max = 1
	}
	return max, true
}

func difficultyFor(cropName string) string {
	if d, ok := cropDifficulty[cropName]; ok {
		return d
	}
	return "Media"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
