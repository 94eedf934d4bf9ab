// Package taxengine computes income tax and capital gains tax, and inverts
// both to solve gross-for-net, per spec.md §4.2. An Engine holds only its
// fixed TaxRegime; income-tax calls also take the year's PriceIndex, and no
// call keeps state between calls.
package taxengine

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-feasibility/internal/domain"
)

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
)

// Engine computes tax under a fixed TaxRegime.
type Engine struct {
	Regime domain.TaxRegime
}

// New builds an Engine for the given regime.
func New(regime domain.TaxRegime) *Engine {
	return &Engine{Regime: regime}
}

// IncomeTax computes tax due on nominal gross income for a year whose
// thresholds are scaled by priceIndex (banded mode only).
func (e *Engine) IncomeTax(gross, priceIndex decimal.Decimal) decimal.Decimal {
	if gross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	switch e.Regime.PensionTaxMode {
	case domain.TaxModeFlat:
		return e.Regime.FlatRate.Mul(gross)
	default:
		return e.bandedTax(gross, priceIndex)
	}
}

// bandedTax applies a UK-style banded schedule with personal-allowance taper,
// scaling every nominal threshold by priceIndex so real thresholds stay fixed.
func (e *Engine) bandedTax(gross, priceIndex decimal.Decimal) decimal.Decimal {
	b := e.Regime.Bands

	personalAllowance := b.PersonalAllowance.Mul(priceIndex)
	taperStart := b.TaperStart.Mul(priceIndex)
	taperEnd := b.TaperEnd.Mul(priceIndex)
	basicLimit := b.BasicRateLimit.Mul(priceIndex)
	higherLimit := b.HigherRateLimit.Mul(priceIndex)

	adjustedAllowance := personalAllowance
	if gross.GreaterThan(taperStart) {
		excess := gross.Sub(taperStart)
		reduction := excess.Mul(half)
		adjustedAllowance = personalAllowance.Sub(reduction)
		if adjustedAllowance.LessThan(decimal.Zero) {
			adjustedAllowance = decimal.Zero
		}
		if gross.GreaterThanOrEqual(taperEnd) {
			adjustedAllowance = decimal.Zero
		}
	}

	taxable := gross.Sub(adjustedAllowance)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	bandFloor := adjustedAllowance

	basicBand := clampBand(bandFloor, basicLimit, gross)
	if basicBand.GreaterThan(decimal.Zero) {
		tax = tax.Add(basicBand.Mul(b.BasicRate))
	}

	higherBand := clampBand(basicLimit, higherLimit, gross)
	if higherBand.GreaterThan(decimal.Zero) {
		tax = tax.Add(higherBand.Mul(b.HigherRate))
	}

	additionalBand := clampBand(higherLimit, gross, gross)
	if additionalBand.GreaterThan(decimal.Zero) {
		tax = tax.Add(additionalBand.Mul(b.AdditionalRate))
	}

	return tax
}

// clampBand returns the portion of gross that falls strictly between lo and
// the lesser of hi and gross.
func clampBand(lo, hi, gross decimal.Decimal) decimal.Decimal {
	top := hi
	if gross.LessThan(top) {
		top = gross
	}
	width := top.Sub(lo)
	if width.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return width
}

// NetFromGross returns net income after income tax on gross.
func (e *Engine) NetFromGross(gross, priceIndex decimal.Decimal) decimal.Decimal {
	return gross.Sub(e.IncomeTax(gross, priceIndex))
}

const bisectionIterations = 40

// GrossForNetIncome inverts income tax: finds gross G such that
// G - IncomeTax(G) == targetNet, via bisection (spec.md §4.2, §7).
// Widens the bracket up to a hard ceiling of 10x target net before giving up.
func (e *Engine) GrossForNetIncome(targetNet, priceIndex decimal.Decimal) decimal.Decimal {
	if targetNet.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	upper := targetNet.Mul(decimal.NewFromInt(2)).Add(decimal.NewFromInt(1000))
	hardCeiling := targetNet.Mul(decimal.NewFromInt(10))
	for e.NetFromGross(upper, priceIndex).LessThan(targetNet) {
		upper = upper.Mul(decimal.NewFromFloat(1.5))
		if upper.GreaterThan(hardCeiling) {
			upper = hardCeiling
			break
		}
	}
	if e.NetFromGross(upper, priceIndex).LessThan(targetNet) {
		return decimal.Zero
	}

	lo := decimal.Zero
	hi := upper
	var candidate decimal.Decimal
	for i := 0; i < bisectionIterations; i++ {
		candidate = lo.Add(hi).Div(decimal.NewFromInt(2))
		net := e.NetFromGross(candidate, priceIndex)
		if net.LessThan(targetNet) {
			lo = candidate
		} else {
			hi = candidate
		}
	}
	return hi
}
