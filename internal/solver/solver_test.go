package solver

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-feasibility/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func baseInputs() domain.Inputs {
	return domain.Inputs{
		Ages: domain.Ages{CurrentAge: 40, MaxAge: 55, HorizonAge: 90, PensionAccessAge: 57},
		StartingBalances: domain.StartingBalances{
			ISAStart: dec("50000"),
		},
		Contributions: domain.ContributionPlan{ISAAnnual: dec("5000"), TaxableAnnual: dec("2000"), PensionAnnual: dec("3000"), ISALimit: dec("20000")},
		ReturnModel: domain.ReturnModel{
			ISA:           domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.12")},
			Taxable:       domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.12")},
			Pension:       domain.AccountReturnModel{Mean: dec("0.05"), Vol: dec("0.10")},
			Correlation:   dec("0.5"),
			InflationMean: dec("0.02"),
			InflationVol:  dec("0.01"),
		},
		TaxRegime:        domain.TaxRegime{PensionTaxMode: domain.TaxModeFlat, FlatRate: dec("0.15"), CGTRate: dec("0.10")},
		WithdrawalPolicy: domain.PolicyGuardrails,
		WithdrawalOrder:  domain.OrderProRata,
		Policy: domain.PolicyParams{
			MinFloorRatio:   dec("0.5"),
			MaxCeilingRatio: dec("1.5"),
			BadThreshold:    dec("-0.02"),
			GoodThreshold:   dec("0.05"),
			BadCut:          dec("0.10"),
			GoodRaise:       dec("0.05"),
		},
		MonteCarlo:   domain.MonteCarloParams{Seed: 12345},
		TargetIncome: dec("18000"),
	}
}

// Scenario F (spec.md §8): required-contribution solver bracket.
func TestSolveRequiredContributionFeasibleAndConverges(t *testing.T) {
	in := domain.GoalSolverInput{
		Inputs:                  baseInputs(),
		GoalType:                domain.GoalRequiredContribution,
		TargetRetirementAge:     55,
		TargetSuccessThreshold:  dec("0.90"),
		SearchMin:               decimal.Zero,
		SearchMax:               dec("100000"),
		Tolerance:               dec("100"),
		MaxIterations:           20,
		SimulationsPerIteration: 30,
		FinalSimulations:        50,
	}
	out := Solve(context.Background(), in)
	require.True(t, out.Feasible)
	assert.NotEmpty(t, out.Iterations)
	assert.NotNil(t, out.SolvedContribution)
}

func TestSolveInfeasibleWhenMaxContributionCannotReachThreshold(t *testing.T) {
	base := baseInputs()
	base.TargetIncome = dec("500000")
	in := domain.GoalSolverInput{
		Inputs:                  base,
		GoalType:                domain.GoalRequiredContribution,
		TargetRetirementAge:     55,
		TargetSuccessThreshold:  dec("0.99"),
		SearchMin:               decimal.Zero,
		SearchMax:               dec("100"),
		Tolerance:               dec("10"),
		MaxIterations:           10,
		SimulationsPerIteration: 20,
		FinalSimulations:        20,
	}
	out := Solve(context.Background(), in)
	assert.False(t, out.Feasible)
}

func TestSolveMaxIncomeDecreasingFunction(t *testing.T) {
	in := domain.GoalSolverInput{
		Inputs:                  baseInputs(),
		GoalType:                domain.GoalMaxIncome,
		TargetRetirementAge:     55,
		TargetSuccessThreshold:  dec("0.5"),
		SearchMin:               dec("5000"),
		SearchMax:               dec("50000"),
		Tolerance:               dec("100"),
		MaxIterations:           15,
		SimulationsPerIteration: 30,
		FinalSimulations:        50,
	}
	out := Solve(context.Background(), in)
	assert.Nil(t, out.SolvedContribution, "max-income goal should not populate SolvedContribution")
	require.True(t, out.Feasible)
}

// Cancelling the context mid-bisection must stop the loop immediately,
// returning whatever iterations ran so far rather than running to completion.
func TestSolveStopsOnContextCancellation(t *testing.T) {
	in := domain.GoalSolverInput{
		Inputs:                  baseInputs(),
		GoalType:                domain.GoalRequiredContribution,
		TargetRetirementAge:     55,
		TargetSuccessThreshold:  dec("0.90"),
		SearchMin:               decimal.Zero,
		SearchMax:               dec("100000"),
		Tolerance:               dec("0.0001"),
		MaxIterations:           1000,
		SimulationsPerIteration: 10,
		FinalSimulations:        10,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Solve(ctx, in)
	assert.False(t, out.Converged)
	assert.Equal(t, "cancelled before convergence", out.Message)
}

func TestCIHalfWidthZeroSimulations(t *testing.T) {
	assert.True(t, ciHalfWidth(dec("0.5"), 0).IsZero())
}

func TestCIHalfWidthShrinksWithMoreSimulations(t *testing.T) {
	small := ciHalfWidth(dec("0.5"), 10)
	large := ciHalfWidth(dec("0.5"), 1000)
	assert.True(t, large.LessThan(small))
}

func TestSplitContributionFallsBackToEqualThirdsWhenAllZero(t *testing.T) {
	split := splitContribution(domain.ContributionPlan{}, dec("9000"))
	assert.True(t, split.ISA.Equal(dec("3000")))
	assert.True(t, split.Taxable.Equal(dec("3000")))
	assert.True(t, split.Pension.Equal(dec("3000")))
}

func TestSplitContributionPreservesRatio(t *testing.T) {
	plan := domain.ContributionPlan{ISAAnnual: dec("8000"), TaxableAnnual: dec("2000"), PensionAnnual: dec("0")}
	split := splitContribution(plan, dec("10000"))
	assert.True(t, split.ISA.Equal(dec("8000")))
	assert.True(t, split.Taxable.Equal(dec("2000")))
	assert.True(t, split.Pension.IsZero())
}
