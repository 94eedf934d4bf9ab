// Package sampler draws correlated annual return shocks and inflation for a
// single (age, scenario, year), per spec.md §4.1.
package sampler

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/rng"
)

var (
	minReturn = decimal.NewFromFloat(-0.95)
	maxReturn = decimal.NewFromFloat(2.5)
	minInfl   = decimal.NewFromFloat(-0.03)
	maxInfl   = decimal.NewFromFloat(0.20)
)

// Draw is one year's sampled returns and inflation.
type Draw struct {
	ReturnISA     decimal.Decimal
	ReturnTaxable decimal.Decimal
	ReturnPension decimal.Decimal
	Inflation     decimal.Decimal
}

// Sampler draws annual shocks from a ReturnModel using a deterministic RNG.
type Sampler struct {
	Model ReturnModel
}

// ReturnModel is the subset of domain.ReturnModel the Sampler consumes.
type ReturnModel = domain.ReturnModel

// New creates a Sampler for the given return model.
func New(model domain.ReturnModel) *Sampler {
	return &Sampler{Model: model}
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DrawYear samples (r_isa, r_taxable, r_pension, inflation) for one
// (runSeed, age, scenario, year) combination. z4 is reserved for future use
// but is still consumed so per-year stream offsets stay stable across callers.
func (s *Sampler) DrawYear(runSeed int64, age, scenario, year int) Draw {
	z1 := toDecimal(rng.NormalDraw(rng.DrawKey{RunSeed: runSeed, Age: age, Scenario: scenario, Year: year, Stream: rng.StreamISATaxableShock}))
	z2 := toDecimal(rng.NormalDraw(rng.DrawKey{RunSeed: runSeed, Age: age, Scenario: scenario, Year: year, Stream: rng.StreamPensionShock}))
	z3 := toDecimal(rng.NormalDraw(rng.DrawKey{RunSeed: runSeed, Age: age, Scenario: scenario, Year: year, Stream: rng.StreamInflationShock}))
	_ = rng.NormalDraw(rng.DrawKey{RunSeed: runSeed, Age: age, Scenario: scenario, Year: year, Stream: rng.StreamReserved}) // z4, reserved

	rISA := s.Model.ISA.Mean.Add(s.Model.ISA.Vol.Mul(z1))
	rTaxable := s.Model.Taxable.Mean.Add(s.Model.Taxable.Vol.Mul(z1))

	rho := s.Model.Correlation
	oneMinusRhoSq := decimal.NewFromInt(1).Sub(rho.Mul(rho))
	if oneMinusRhoSq.LessThan(decimal.Zero) {
		oneMinusRhoSq = decimal.Zero
	}
	sqrtTerm := toDecimal(math.Sqrt(oneMinusRhoSq.InexactFloat64()))
	rPension := s.Model.Pension.Mean.Add(s.Model.Pension.Vol.Mul(rho.Mul(z1).Add(sqrtTerm.Mul(z2))))

	infl := s.Model.InflationMean.Add(s.Model.InflationVol.Mul(z3))

	return Draw{
		ReturnISA:     clamp(rISA, minReturn, maxReturn),
		ReturnTaxable: clamp(rTaxable, minReturn, maxReturn),
		ReturnPension: clamp(rPension, minReturn, maxReturn),
		Inflation:     clamp(infl, minInfl, maxInfl),
	}
}
