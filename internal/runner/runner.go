// Package runner advances a single Monte Carlo path year-by-year from
// current age to horizon, per spec.md §4.5. Each run owns its own Portfolio
// and PriceIndex; there is no shared mutable state across scenarios (§5).
package runner

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/planner"
	"github.com/rpgo/retirement-feasibility/internal/portfolio"
	"github.com/rpgo/retirement-feasibility/internal/sampler"
	"github.com/rpgo/retirement-feasibility/internal/taxengine"
)

var (
	one     = decimal.NewFromInt(1)
	zero    = decimal.Zero
	epsilon = decimal.NewFromFloat(0.005)
)

// Runner advances one scenario path for a fixed retirement age.
type Runner struct {
	Inputs  domain.Inputs
	Sampler *sampler.Sampler
	Tax     *taxengine.Engine
}

// New builds a Runner for a fixed set of inputs.
func New(inputs domain.Inputs) *Runner {
	return &Runner{
		Inputs:  inputs,
		Sampler: sampler.New(inputs.ReturnModel),
		Tax:     taxengine.New(inputs.TaxRegime),
	}
}

func policyFor(p domain.WithdrawalPolicy) planner.Policy {
	switch p {
	case domain.PolicyGuardrails:
		return planner.GuardrailsPolicy
	case domain.PolicyGuytonKlinger:
		return planner.GuytonKlingerPolicy
	case domain.PolicyVPW:
		return planner.VPWPolicy
	case domain.PolicyFloorUpside:
		return planner.FloorUpsidePolicy
	case domain.PolicyBucket:
		return planner.BucketPolicy
	default:
		return planner.GuardrailsPolicy
	}
}

func policyParams(p domain.PolicyParams) planner.Params {
	return planner.Params{
		BadThreshold:     p.BadThreshold,
		GoodThreshold:    p.GoodThreshold,
		BadCut:           p.BadCut,
		GoodRaise:        p.GoodRaise,
		GKLower:          p.GKLower,
		GKUpper:          p.GKUpper,
		VPWRealReturn:    p.VPWRealReturn,
		Capture:          p.Capture,
		BucketYears:      p.BucketYears,
		ExtraToCashRatio: p.ExtraToCashRatio,
	}
}

func deflate(nominal, priceIndex decimal.Decimal) decimal.Decimal {
	if priceIndex.LessThanOrEqual(zero) {
		return zero
	}
	return nominal.Div(priceIndex)
}

func clampRatio(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(zero) {
		return zero
	}
	if v.GreaterThan(one) {
		return one
	}
	return v
}

// Run advances a single scenario path for candidate retirementAge, returning
// its outcome. If contributionStopAge is non-nil, contributions cease at
// that age (still accumulating without contributions) until retirementAge
// (Coast Driver, §4.8). recordCashflow controls whether the per-year trace
// is populated, since it is only needed for one selected scenario per age.
func (r *Runner) Run(runSeed int64, retirementAge, scenarioIndex int, contributionStopAge *int, recordCashflow bool) domain.ScenarioResult {
	in := r.Inputs
	port := portfolio.New(in.StartingBalances)
	priceIndex := decimal.NewFromInt(1)

	status := domain.StatusAccumulating
	var plannerState planner.State
	policy := policyFor(in.WithdrawalPolicy)
	pParams := policyParams(in.Policy)

	var atRetirementTotals domain.AccountTotals
	var ratios []decimal.Decimal
	var cashflow []domain.CashflowYear
	priorRealReturn := zero

	horizonAge := in.Ages.HorizonAge
	for age := in.Ages.CurrentAge; age < horizonAge; age++ {
		year := age - in.Ages.CurrentAge

		if status == domain.StatusAccumulating && age == retirementAge {
			atRetirementTotals = realTotals(port, priceIndex)
			plannerState = planner.NewState(in.TargetIncome, in.Policy.MinFloorRatio, in.Policy.MaxCeilingRatio, atRetirementTotals.Total)
			status = domain.StatusRetired
			priorRealReturn = zero
		}

		draw := r.Sampler.DrawYear(runSeed, age, scenarioIndex, year)
		priceIndex = priceIndex.Mul(one.Add(draw.Inflation))

		var cgtPaid, incomeTaxPaid, withdrawalGross, statePensionNet, contribISA, contribTaxable, contribPension decimal.Decimal

		switch status {
		case domain.StatusAccumulating:
			port.Grow(draw.ReturnISA, draw.ReturnTaxable, draw.ReturnPension, in.ReturnModel.CashGrowthRate)
			if contributionStopAge == nil || age < *contributionStopAge {
				escalator := powYears(one.Add(in.Contributions.RealGrowthEscalator), year)
				isaReal := in.Contributions.ISAAnnual.Mul(escalator)
				taxableReal := in.Contributions.TaxableAnnual.Mul(escalator)
				pensionReal := in.Contributions.PensionAnnual.Mul(escalator)
				posting := port.Contribute(isaReal.Mul(priceIndex), taxableReal.Mul(priceIndex), pensionReal.Mul(priceIndex), in.Contributions.ISALimit.Mul(priceIndex))
				contribISA = posting.ISAPosted
				contribTaxable = posting.TaxablePosted
				contribPension = posting.PensionPosted
			}
			priorRealReturn = blendedRealReturn(port, draw)

		case domain.StatusRetired:
			cgtAllowance := in.TaxRegime.CGTAnnualAllowance.Mul(priceIndex)
			availableReal := deflate(port.Total(), priceIndex)
			cashReal := deflate(port.Cash, priceIndex)
			yearsRemaining := horizonAge - age
			plan := policy.Plan(&plannerState, pParams, priorRealReturn, availableReal, cashReal, yearsRemaining)

			plannedReal := plan.PlannedSpend.Add(plan.ExtraToCash)
			plannedNominal := plannedReal.Mul(priceIndex)

			mortgageNominal := zero
			if age < in.Mortgage.EndAge {
				mortgageNominal = in.Mortgage.AnnualReal.Mul(priceIndex)
			}
			totalNeedNominal := plannedNominal.Add(mortgageNominal)

			if decimal.NewFromInt(int64(age)).GreaterThanOrEqual(in.StatePension.StartAge) {
				grossSP := in.StatePension.Income.Mul(priceIndex)
				statePensionNet = r.Tax.NetFromGross(grossSP, priceIndex)
			}
			remainingNeed := totalNeedNominal.Sub(statePensionNet)
			if remainingNeed.LessThan(zero) {
				remainingNeed = zero
			}

			waterfall := port.WithdrawWaterfall(r.Tax, remainingNeed, age, in.Ages.PensionAccessAge, in.WithdrawalOrder, priceIndex, cgtAllowance)
			cgtPaid = waterfall.CGTPaid
			incomeTaxPaid = waterfall.IncomeTaxPaid
			withdrawalGross = waterfall.GrossFromAccount.ISA.Add(waterfall.GrossFromAccount.Taxable).Add(waterfall.GrossFromAccount.Pension).Add(waterfall.GrossFromAccount.Cash)

			realizedNominal := statePensionNet.Add(waterfall.NetRealized)

			var ratio decimal.Decimal
			if totalNeedNominal.GreaterThan(zero) {
				ratio = clampRatio(realizedNominal.Div(totalNeedNominal))
			} else {
				ratio = one
			}
			ratios = append(ratios, ratio)

			if realizedNominal.LessThan(totalNeedNominal.Sub(epsilon)) {
				status = domain.StatusFailed
			}

			port.Grow(draw.ReturnISA, draw.ReturnTaxable, draw.ReturnPension, in.ReturnModel.CashGrowthRate)
			priorRealReturn = blendedRealReturn(port, draw)
		}

		if recordCashflow {
			cashflow = append(cashflow, domain.CashflowYear{
				Age:                  age,
				ContributionISA:      deflate(contribISA, priceIndex),
				ContributionTaxable:  deflate(contribTaxable, priceIndex),
				ContributionPension:  deflate(contribPension, priceIndex),
				WithdrawalGross:      deflate(withdrawalGross, priceIndex),
				StatePensionNet:      deflate(statePensionNet, priceIndex),
				TotalSpend:           deflate(withdrawalGross.Add(statePensionNet), priceIndex),
				CGTPaid:              deflate(cgtPaid, priceIndex),
				IncomeTaxPaid:        deflate(incomeTaxPaid, priceIndex),
				EndOfYearBalances:    realTotals(port, priceIndex),
			})
		}

		if status == domain.StatusFailed {
			break
		}
	}

	success := status != domain.StatusFailed
	terminal := domain.AccountTotals{}
	if success {
		terminal = realTotals(port, priceIndex)
	}

	return domain.ScenarioResult{
		Success:              success,
		AtRetirement:         atRetirementTotals,
		Terminal:             terminal,
		AchievedIncomeRatios: ratios,
		Cashflow:             cashflow,
	}
}

func realTotals(port *portfolio.Portfolio, priceIndex decimal.Decimal) domain.AccountTotals {
	t := port.Totals()
	return domain.AccountTotals{
		ISA:     deflate(t.ISA, priceIndex),
		Taxable: deflate(t.Taxable, priceIndex),
		Pension: deflate(t.Pension, priceIndex),
		Cash:    deflate(t.Cash, priceIndex),
		Total:   deflate(t.Total, priceIndex),
	}
}

// blendedRealReturn approximates the portfolio-wide real return for the year
// just applied, weighted by account share, for use as next year's Planner input.
func blendedRealReturn(port *portfolio.Portfolio, draw sampler.Draw) decimal.Decimal {
	total := port.Total()
	if total.LessThanOrEqual(zero) {
		return zero
	}
	weighted := port.ISA.Mul(draw.ReturnISA).
		Add(port.Taxable.Mul(draw.ReturnTaxable)).
		Add(port.Pension.Mul(draw.ReturnPension)).
		Div(total)
	return weighted.Sub(draw.Inflation).Div(one.Add(draw.Inflation))
}

// powYears raises base to a non-negative integer power.
func powYears(base decimal.Decimal, years int) decimal.Decimal {
	result := one
	for i := 0; i < years; i++ {
		result = result.Mul(base)
	}
	return result
}
