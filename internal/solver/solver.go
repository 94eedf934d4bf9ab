// Package solver implements the bisection-based Goal Solver described in
// spec.md §4.9: find a scalar contribution or target income that drives the
// engine's success rate to a target threshold.
package solver

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/runner"
	"github.com/rpgo/retirement-feasibility/internal/sweep"
)

var two = decimal.NewFromInt(2)

// Solve runs the bisection described in §4.9 and returns a GoalSolverOutput.
func Solve(ctx context.Context, in domain.GoalSolverInput) domain.GoalSolverOutput {
	lo := in.SearchMin
	hi := in.SearchMax

	successAt := func(x decimal.Decimal, simulations int) decimal.Decimal {
		adjusted := applyCandidate(in.Inputs, in.GoalType, x)
		r := runner.New(adjusted)
		result := sweep.RunAge(r, adjusted.MonteCarlo.Seed, in.TargetRetirementAge, simulations, nil)
		return result.SuccessRate
	}

	successLo := successAt(lo, in.SimulationsPerIteration)
	successHi := successAt(hi, in.SimulationsPerIteration)

	increasing := in.GoalType == domain.GoalRequiredContribution

	if !brackets(successLo, successHi, in.TargetSuccessThreshold, increasing) {
		return domain.GoalSolverOutput{
			Feasible: false,
			Message:  "search interval does not bracket the target success threshold",
		}
	}

	var iterations []domain.SolverIteration
	candidate := lo
	converged := false

	for i := 0; i < in.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return domain.GoalSolverOutput{
				SolvedValue: candidate,
				Feasible:    true,
				Converged:   false,
				Message:     "cancelled before convergence",
				Iterations:  iterations,
			}
		default:
		}

		candidate = lo.Add(hi).Div(two)
		successRate := successAt(candidate, in.SimulationsPerIteration)
		ci := ciHalfWidth(successRate, in.SimulationsPerIteration)

		iterations = append(iterations, domain.SolverIteration{
			Lo:          lo,
			Hi:          hi,
			Candidate:   candidate,
			SuccessRate: successRate,
			CIHalfWidth: ci,
		})

		meetsThreshold := successRate.GreaterThanOrEqual(in.TargetSuccessThreshold)
		if increasing {
			if meetsThreshold {
				hi = candidate
			} else {
				lo = candidate
			}
		} else {
			if meetsThreshold {
				lo = candidate
			} else {
				hi = candidate
			}
		}

		if hi.Sub(lo).Abs().LessThanOrEqual(in.Tolerance) {
			converged = true
			break
		}
	}

	finalSuccess := successAt(candidate, in.FinalSimulations)
	finalCI := ciHalfWidth(finalSuccess, in.FinalSimulations)

	output := domain.GoalSolverOutput{
		SolvedValue:                candidate,
		AchievedSuccessRate:        finalSuccess,
		AchievedSuccessCIHalfWidth: finalCI,
		Feasible:                   true,
		Converged:                  converged,
		Iterations:                 iterations,
	}

	if in.GoalType == domain.GoalRequiredContribution {
		output.SolvedContribution = splitContribution(in.Inputs.Contributions, candidate)
	}

	if converged {
		output.Message = "converged within tolerance"
	} else {
		output.Message = "reached max iterations before interval narrowed below tolerance"
	}

	return output
}

// brackets reports whether the search interval can reach the threshold at
// all: the endpoint that favors success (hi for an increasing success
// function, lo for a decreasing one) must meet the threshold, or no
// candidate in [lo, hi] can (§4.9).
func brackets(successLo, successHi, threshold decimal.Decimal, increasing bool) bool {
	if increasing {
		return successHi.GreaterThanOrEqual(threshold)
	}
	return successLo.GreaterThanOrEqual(threshold)
}

// ciHalfWidth is the normal-approximation 95% confidence half-width for a
// binomial success rate (§4.9): 1.96 * sqrt(p(1-p)/n).
func ciHalfWidth(p decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	pf := p.InexactFloat64()
	width := 1.96 * math.Sqrt(pf*(1-pf)/float64(n))
	return decimal.NewFromFloat(width)
}

// applyCandidate produces a copy of inputs with the candidate value applied
// to the goal's target field: total contribution (split proportionally) or
// target income.
func applyCandidate(in domain.Inputs, goalType domain.GoalType, x decimal.Decimal) domain.Inputs {
	out := in
	switch goalType {
	case domain.GoalRequiredContribution:
		split := splitContribution(in.Contributions, x)
		out.Contributions.ISAAnnual = split.ISA
		out.Contributions.TaxableAnnual = split.Taxable
		out.Contributions.PensionAnnual = split.Pension
	case domain.GoalMaxIncome:
		out.TargetIncome = x
	}
	return out
}

// splitContribution divides total x across (ISA, taxable, pension) by the
// ratio of the user's current contribution inputs, normalized; falls back
// to equal thirds if all three are zero (§4.9).
func splitContribution(plan domain.ContributionPlan, x decimal.Decimal) *domain.SolvedContribution {
	total := plan.ISAAnnual.Add(plan.TaxableAnnual).Add(plan.PensionAnnual)
	if total.LessThanOrEqual(decimal.Zero) {
		third := x.Div(decimal.NewFromInt(3))
		return &domain.SolvedContribution{ISA: third, Taxable: third, Pension: third}
	}
	return &domain.SolvedContribution{
		ISA:     x.Mul(plan.ISAAnnual).Div(total),
		Taxable: x.Mul(plan.TaxableAnnual).Div(total),
		Pension: x.Mul(plan.PensionAnnual).Div(total),
	}
}
