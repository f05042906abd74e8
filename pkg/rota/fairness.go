package rota

import (
	"math"
	"sort"
)

// Gini returns the Gini coefficient of counts (0 = perfectly even,
// approaching 1 = maximally uneven), used as a statistics enrichment
// alongside the hard balance bound: that bound caps how uneven a
// schedule is allowed to be, this reports how uneven it actually
// came out.
func Gini(counts []int) float64 {
	n := len(counts)
	if n == 0 {
		return 0
	}
	values := make([]float64, n)
	for i, c := range counts {
		values[i] = float64(c)
	}
	sort.Float64s(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range values {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}
	gini /= float64(n) * sum
	return math.Max(0, math.Min(1, gini))
}

// FairnessReport summarizes how evenly Day and Night load is spread
// across employees in a completed model.
type FairnessReport struct {
	DayGini   float64
	NightGini float64
}

// ReportFairness computes the Gini coefficients for a model's Day and
// Night count distributions.
func ReportFairness(m *Model) FairnessReport {
	day := make([]int, m.NumEmployees())
	night := make([]int, m.NumEmployees())
	for i := 0; i < m.NumEmployees(); i++ {
		for d := 0; d < m.NumDays(); d++ {
			switch k, ok := m.ShiftOf(i, d); {
			case ok && k == Day:
				day[i]++
			case ok && k == Night:
				night[i]++
			}
		}
	}
	return FairnessReport{DayGini: Gini(day), NightGini: Gini(night)}
}
