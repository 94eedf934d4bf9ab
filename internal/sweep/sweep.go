// Package sweep runs the Age Sweep and Coast Driver described in spec.md
// §4.8: for each candidate age, invoke the runner N times in parallel and
// aggregate into an AgeResult.
package sweep

import (
	"context"
	"runtime"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-feasibility/internal/aggregator"
	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/runner"
)

// RunAge simulates `simulations` independent scenarios for one candidate age
// and aggregates them into an AgeResult. Workers are bounded to hardware
// parallelism; each owns its own Portfolio/PriceIndex via a fresh Runner
// call, so there is no shared mutable state across goroutines (§5).
func RunAge(r *runner.Runner, runSeed int64, age int, simulations int, contributionStopAge *int) domain.AgeResult {
	results := runScenarios(r, runSeed, age, simulations, contributionStopAge)

	medianIdx, hasMedian := aggregator.MedianTraceIndex(results)
	var trace []domain.CashflowYear
	if hasMedian {
		trace = tracedRun(r, runSeed, age, medianIdx, contributionStopAge)
	}

	atRetirement := make([]domain.AccountTotals, len(results))
	terminal := make([]domain.AccountTotals, len(results))
	for i, res := range results {
		atRetirement[i] = res.AtRetirement
		terminal[i] = res.Terminal
	}

	return domain.AgeResult{
		Age:                age,
		SuccessRate:        aggregator.SuccessRate(results),
		AtRetirement:       aggregator.AccountPercentiles(atRetirement),
		Terminal:           aggregator.AccountPercentiles(terminal),
		MinIncomeRatioP10:  aggregator.MinIncomeRatioP10(results),
		MeanIncomeRatioP50: aggregator.MeanIncomeRatioP50(results),
		Cashflow:           trace,
	}
}

// tracedRun re-runs one specific scenario with cashflow recording enabled.
// Re-running (rather than recording every scenario) avoids materializing
// a full cashflow trace for every path, most of which are discarded.
func tracedRun(r *runner.Runner, runSeed int64, age, scenarioIndex int, contributionStopAge *int) []domain.CashflowYear {
	result := r.Run(runSeed, age, scenarioIndex, contributionStopAge, true)
	return result.Cashflow
}

func runScenarios(r *runner.Runner, runSeed int64, age int, simulations int, contributionStopAge *int) []domain.ScenarioResult {
	results := make([]domain.ScenarioResult, simulations)
	workers := runtime.GOMAXPROCS(0)
	if workers > simulations {
		workers = simulations
	}
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < simulations; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = r.Run(runSeed, age, idx, contributionStopAge, false)
		}(i)
	}
	wg.Wait()
	return results
}

// Retirement runs a standard age sweep over [currentAge, maxAge], in
// ascending order, checking for cancellation before starting each age (§5).
func Retirement(ctx context.Context, in domain.Inputs) []domain.AgeResult {
	r := runner.New(in)
	var ages []domain.AgeResult
	for age := in.Ages.CurrentAge; age <= in.Ages.MaxAge; age++ {
		select {
		case <-ctx.Done():
			return ages
		default:
		}
		ages = append(ages, RunAge(r, in.MonteCarlo.Seed, age, in.MonteCarlo.Simulations, nil))
	}
	return ages
}

// Selected returns the smallest candidate age whose success rate meets
// threshold, or nil if none do.
func Selected(ages []domain.AgeResult, threshold decimal.Decimal) *int {
	for _, a := range ages {
		if a.SuccessRate.GreaterThanOrEqual(threshold) {
			age := a.Age
			return &age
		}
	}
	return nil
}

// Best returns the age with the highest success rate, ties broken toward
// the smallest age (ages are assumed ascending already).
func Best(ages []domain.AgeResult) *int {
	if len(ages) == 0 {
		return nil
	}
	best := ages[0]
	for _, a := range ages[1:] {
		if a.SuccessRate.GreaterThan(best.SuccessRate) {
			best = a
		}
	}
	age := best.Age
	return &age
}

// Coast runs the Coast Driver: if coastRetirementAge is nil, adopts the best
// age from a standard retirement sweep as the target, then sweeps
// contribution-stop ages in [currentAge, target] (§4.8).
func Coast(ctx context.Context, in domain.Inputs, coastRetirementAge *int) (target int, ages []domain.AgeResult) {
	r := runner.New(in)

	if coastRetirementAge == nil {
		swept := Retirement(ctx, in)
		if best := Best(swept); best != nil {
			target = *best
		} else {
			target = in.Ages.MaxAge
		}
	} else {
		target = *coastRetirementAge
	}

	for stopAge := in.Ages.CurrentAge; stopAge <= target; stopAge++ {
		select {
		case <-ctx.Done():
			return target, ages
		default:
		}
		stop := stopAge
		result := RunAge(r, in.MonteCarlo.Seed, target, in.MonteCarlo.Simulations, &stop)
		result.Age = stopAge
		ages = append(ages, result)
	}
	return target, ages
}
