package taxengine

import "github.com/shopspring/decimal"

// SaleResult is the outcome of selling a gross amount from a taxable holding.
type SaleResult struct {
	NetProceeds      decimal.Decimal
	CGTPaid          decimal.Decimal
	BasisReduction   decimal.Decimal
	AllowanceUsed    decimal.Decimal
	RealizedGain     decimal.Decimal
}

// CGTOnSale computes capital gains tax on a gross sale of amount gross from a
// taxable holding worth value with cost basis basis, against a remaining
// annual allowance. Matches spec.md §4.2's basis-fraction-sold formula.
func (e *Engine) CGTOnSale(gross, value, basis, allowanceRemaining decimal.Decimal) SaleResult {
	if gross.LessThanOrEqual(decimal.Zero) || value.LessThanOrEqual(decimal.Zero) {
		return SaleResult{NetProceeds: decimal.Zero}
	}

	fractionSold := gross.Div(value)
	basisSold := basis.Mul(fractionSold)
	gain := gross.Sub(basisSold)

	allowanceUsed := decimal.Zero
	if gain.GreaterThan(decimal.Zero) {
		allowanceUsed = allowanceRemaining
		if allowanceUsed.GreaterThan(gain) {
			allowanceUsed = gain
		}
	}

	taxableGain := gain.Sub(allowanceUsed)
	if taxableGain.LessThan(decimal.Zero) {
		taxableGain = decimal.Zero
	}

	cgt := taxableGain.Mul(e.Regime.CGTRate)
	net := gross.Sub(cgt)

	return SaleResult{
		NetProceeds:    net,
		CGTPaid:        cgt,
		BasisReduction: basisSold,
		AllowanceUsed:  allowanceUsed,
		RealizedGain:   gain,
	}
}

// GrossForNetSale inverts CGTOnSale: finds gross G such that selling G from a
// holding of the given value/basis/allowance nets targetNet, via bisection.
// The holding value is treated as fixed across the search (a single-year,
// single-sale inversion as used by the withdrawal waterfall).
func (e *Engine) GrossForNetSale(targetNet, value, basis, allowanceRemaining decimal.Decimal) decimal.Decimal {
	if targetNet.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	hi := value
	if hi.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if e.CGTOnSale(hi, value, basis, allowanceRemaining).NetProceeds.LessThan(targetNet) {
		return hi
	}

	lo := decimal.Zero
	var candidate decimal.Decimal
	for i := 0; i < bisectionIterations; i++ {
		candidate = lo.Add(hi).Div(decimal.NewFromInt(2))
		net := e.CGTOnSale(candidate, value, basis, allowanceRemaining).NetProceeds
		if net.LessThan(targetNet) {
			lo = candidate
		} else {
			hi = candidate
		}
	}
	return hi
}
