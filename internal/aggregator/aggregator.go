// Package aggregator computes per-age success rates, percentile statistics,
// and the deterministic median-trace selection described in spec.md §4.7.
package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/rpgo/retirement-feasibility/internal/domain"
)

// indexed pairs a scenario's value with its originating scenario index, so
// percentile and median-trace selection can use a stable secondary ordering
// by scenario index even when values tie (§9).
type indexed struct {
	value decimal.Decimal
	index int
}

func sortStable(values []indexed) {
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].value.LessThan(values[j].value)
	})
}

// quantile computes the p-th percentile (0-100) of sorted float64 data by
// linear interpolation between the two values around fractional index
// p/100*(n-1).
func quantile(p float64, sorted []float64) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	pos := p / 100.0 * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return decimal.NewFromFloat(sorted[n-1])
	}
	frac := pos - float64(lo)
	return decimal.NewFromFloat(sorted[lo] + frac*(sorted[lo+1]-sorted[lo]))
}

func toFloats(values []indexed) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.value.InexactFloat64()
	}
	return out
}

// Percentiles computes P50/P10 for one metric across scenarios.
func Percentiles(values []decimal.Decimal) domain.Percentiles {
	idx := make([]indexed, len(values))
	for i, v := range values {
		idx[i] = indexed{value: v, index: i}
	}
	sortStable(idx)
	floats := toFloats(idx)
	return domain.Percentiles{
		P50: quantile(50, floats),
		P10: quantile(10, floats),
	}
}

// AccountPercentiles computes percentiles for each of the four accounts plus
// the total, from per-scenario AccountTotals.
func AccountPercentiles(totals []domain.AccountTotals) domain.AccountPercentiles {
	n := len(totals)
	isa := make([]decimal.Decimal, n)
	taxable := make([]decimal.Decimal, n)
	pension := make([]decimal.Decimal, n)
	cash := make([]decimal.Decimal, n)
	total := make([]decimal.Decimal, n)
	for i, t := range totals {
		isa[i] = t.ISA
		taxable[i] = t.Taxable
		pension[i] = t.Pension
		cash[i] = t.Cash
		total[i] = t.Total
	}
	return domain.AccountPercentiles{
		ISA:     Percentiles(isa),
		Taxable: Percentiles(taxable),
		Pension: Percentiles(pension),
		Cash:    Percentiles(cash),
		Total:   Percentiles(total),
	}
}

// SuccessRate is the fraction of scenarios with Success == true.
func SuccessRate(results []domain.ScenarioResult) decimal.Decimal {
	if len(results) == 0 {
		return decimal.Zero
	}
	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		}
	}
	return decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(len(results))))
}

// MedianTraceIndex selects the scenario index whose terminal total is
// nearest the P50 terminal total among successful scenarios, with ties
// broken toward the smallest scenario index (§4.7, §9).
func MedianTraceIndex(results []domain.ScenarioResult) (int, bool) {
	var successful []indexed
	for i, r := range results {
		if r.Success {
			successful = append(successful, indexed{value: r.Terminal.Total, index: i})
		}
	}
	if len(successful) == 0 {
		return 0, false
	}
	sortStable(successful)
	floats := toFloats(successful)
	target := quantile(50, floats)

	best := successful[0]
	bestDist := best.value.Sub(target).Abs()
	for _, c := range successful[1:] {
		dist := c.value.Sub(target).Abs()
		if dist.LessThan(bestDist) || (dist.Equal(bestDist) && c.index < best.index) {
			best = c
			bestDist = dist
		}
	}
	return best.index, true
}

// MinIncomeRatioP10 computes P10 over each scenario's minimum achieved
// income ratio across its retired years.
func MinIncomeRatioP10(results []domain.ScenarioResult) decimal.Decimal {
	mins := make([]decimal.Decimal, 0, len(results))
	for _, r := range results {
		if len(r.AchievedIncomeRatios) == 0 {
			continue
		}
		m := r.AchievedIncomeRatios[0]
		for _, v := range r.AchievedIncomeRatios[1:] {
			if v.LessThan(m) {
				m = v
			}
		}
		mins = append(mins, m)
	}
	return Percentiles(mins).P10
}

// MeanIncomeRatioP50 computes P50 over each scenario's mean achieved income
// ratio across its retired years, using gonum's stat.Mean for the per-scenario average.
func MeanIncomeRatioP50(results []domain.ScenarioResult) decimal.Decimal {
	means := make([]decimal.Decimal, 0, len(results))
	for _, r := range results {
		if len(r.AchievedIncomeRatios) == 0 {
			continue
		}
		floats := make([]float64, len(r.AchievedIncomeRatios))
		for i, v := range r.AchievedIncomeRatios {
			floats[i] = v.InexactFloat64()
		}
		means = append(means, decimal.NewFromFloat(stat.Mean(floats, nil)))
	}
	return Percentiles(means).P50
}
