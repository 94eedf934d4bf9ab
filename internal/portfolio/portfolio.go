// Package portfolio holds the four-account nominal balances and cost basis
// for a single scenario path, and applies growth, contributions, and the
// withdrawal waterfall described in spec.md §4.3.
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/taxengine"
)

// Portfolio is a plain aggregate: no inheritance between accounts, methods
// mutate in place and keep basis <= taxable balance in one place (§9).
type Portfolio struct {
	ISA          decimal.Decimal
	Taxable      decimal.Decimal
	Pension      decimal.Decimal
	Cash         decimal.Decimal
	TaxableBasis decimal.Decimal
}

// New builds a Portfolio from starting balances.
func New(start domain.StartingBalances) *Portfolio {
	return &Portfolio{
		ISA:          start.ISAStart,
		Taxable:      start.TaxableStart,
		Pension:      start.PensionStart,
		Cash:         start.CashStart,
		TaxableBasis: start.TaxableBasisStart,
	}
}

// Total returns the sum of all four account balances.
func (p *Portfolio) Total() decimal.Decimal {
	return p.ISA.Add(p.Taxable).Add(p.Pension).Add(p.Cash)
}

// Totals snapshots the per-account balances plus the total.
func (p *Portfolio) Totals() domain.AccountTotals {
	return domain.AccountTotals{
		ISA:     p.ISA,
		Taxable: p.Taxable,
		Pension: p.Pension,
		Cash:    p.Cash,
		Total:   p.Total(),
	}
}

// Grow multiplies each account balance by (1+r). Basis is unchanged.
func (p *Portfolio) Grow(rISA, rTaxable, rPension, cashGrowth decimal.Decimal) {
	one := decimal.NewFromInt(1)
	p.ISA = p.ISA.Mul(one.Add(rISA))
	p.Taxable = p.Taxable.Mul(one.Add(rTaxable))
	p.Pension = p.Pension.Mul(one.Add(rPension))
	p.Cash = p.Cash.Mul(one.Add(cashGrowth))
}

// ContributionPosting is the outcome of Contribute, reporting what actually
// reached each account after ISA-cap overflow routing.
type ContributionPosting struct {
	ISAPosted     decimal.Decimal
	TaxablePosted decimal.Decimal
	PensionPosted decimal.Decimal
}

// Contribute posts requested contributions, routing any amount above isaLimit
// into the taxable account (§4.3). Taxable basis increases by the full
// taxable posting including overflow.
func (p *Portfolio) Contribute(isaReq, taxableReq, pensionReq, isaLimit decimal.Decimal) ContributionPosting {
	isaReq = nonNegative(isaReq)
	taxableReq = nonNegative(taxableReq)
	pensionReq = nonNegative(pensionReq)

	isaPosted := isaReq
	if isaPosted.GreaterThan(isaLimit) {
		isaPosted = isaLimit
	}
	overflow := isaReq.Sub(isaPosted)
	if overflow.LessThan(decimal.Zero) {
		overflow = decimal.Zero
	}
	taxablePosted := taxableReq.Add(overflow)

	p.ISA = p.ISA.Add(isaPosted)
	p.Taxable = p.Taxable.Add(taxablePosted)
	p.TaxableBasis = p.TaxableBasis.Add(taxablePosted)
	p.Pension = p.Pension.Add(pensionReq)

	return ContributionPosting{ISAPosted: isaPosted, TaxablePosted: taxablePosted, PensionPosted: pensionReq}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}

// WithdrawGross decrements account by gross (capped at its balance). If the
// account is taxable, basis is reduced proportionally to the fraction sold.
// Returns the actual amount withdrawn (which may be less than gross if the
// balance was insufficient).
func (p *Portfolio) WithdrawGross(account domain.Account, gross decimal.Decimal) decimal.Decimal {
	if gross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	balance := p.balance(account)
	actual := gross
	if actual.GreaterThan(balance) {
		actual = balance
	}
	if actual.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if account == domain.AccountTaxable && balance.GreaterThan(decimal.Zero) {
		fraction := actual.Div(balance)
		p.TaxableBasis = p.TaxableBasis.Sub(p.TaxableBasis.Mul(fraction))
		if p.TaxableBasis.LessThan(decimal.Zero) {
			p.TaxableBasis = decimal.Zero
		}
	}
	p.setBalance(account, balance.Sub(actual))
	return actual
}

func (p *Portfolio) balance(account domain.Account) decimal.Decimal {
	switch account {
	case domain.AccountISA:
		return p.ISA
	case domain.AccountTaxable:
		return p.Taxable
	case domain.AccountPension:
		return p.Pension
	case domain.AccountCash:
		return p.Cash
	default:
		return decimal.Zero
	}
}

func (p *Portfolio) setBalance(account domain.Account, v decimal.Decimal) {
	switch account {
	case domain.AccountISA:
		p.ISA = v
	case domain.AccountTaxable:
		p.Taxable = v
	case domain.AccountPension:
		p.Pension = v
	case domain.AccountCash:
		p.Cash = v
	}
}

// WaterfallResult reports the net proceeds realized and taxes paid servicing
// one year's withdrawal need.
type WaterfallResult struct {
	NetRealized      decimal.Decimal
	CGTPaid          decimal.Decimal
	IncomeTaxPaid    decimal.Decimal
	AllowanceUsed    decimal.Decimal
	GrossFromAccount domain.AccountTotals
}

// WithdrawWaterfall satisfies needNominal from cash then investments in the
// given order, skipping pension until currentAge >= pensionAccessAge. Taxed
// accounts use the tax engine's net-to-gross inversion so the net proceeds
// meet the residual need (§4.3).
func (p *Portfolio) WithdrawWaterfall(
	tax *taxengine.Engine,
	needNominal decimal.Decimal,
	currentAge, pensionAccessAge int,
	order domain.WithdrawalOrder,
	priceIndex decimal.Decimal,
	allowanceRemaining decimal.Decimal,
) WaterfallResult {
	result := WaterfallResult{}
	residual := needNominal
	if residual.LessThanOrEqual(decimal.Zero) {
		return result
	}

	pensionAvailable := currentAge >= pensionAccessAge

	fromCash := residual
	if fromCash.GreaterThan(p.Cash) {
		fromCash = p.Cash
	}
	if fromCash.GreaterThan(decimal.Zero) {
		p.Cash = p.Cash.Sub(fromCash)
		result.NetRealized = result.NetRealized.Add(fromCash)
		result.GrossFromAccount.Cash = fromCash
		residual = residual.Sub(fromCash)
	}

	if residual.LessThanOrEqual(decimal.Zero) {
		return result
	}

	if order == domain.OrderProRata {
		p.withdrawProRata(tax, &residual, &result, pensionAvailable, priceIndex, &allowanceRemaining)
		return result
	}

	accounts := waterfallOrder(order)
	for _, acc := range accounts {
		if residual.LessThanOrEqual(decimal.Zero) {
			break
		}
		if acc == domain.AccountPension && !pensionAvailable {
			continue
		}
		p.withdrawAccountForNet(tax, acc, &residual, &result, priceIndex, &allowanceRemaining)
	}
	return result
}

func waterfallOrder(order domain.WithdrawalOrder) []domain.Account {
	switch order {
	case domain.OrderISAFirst:
		return []domain.Account{domain.AccountISA, domain.AccountTaxable, domain.AccountPension}
	case domain.OrderTaxableFirst:
		return []domain.Account{domain.AccountTaxable, domain.AccountISA, domain.AccountPension}
	case domain.OrderPensionFirst:
		return []domain.Account{domain.AccountPension, domain.AccountISA, domain.AccountTaxable}
	default:
		return []domain.Account{domain.AccountISA, domain.AccountTaxable, domain.AccountPension}
	}
}

// withdrawAccountForNet sells from acc to net targetNet (capped by the
// account's value), updating residual and result in place.
func (p *Portfolio) withdrawAccountForNet(tax *taxengine.Engine, acc domain.Account, residual *decimal.Decimal, result *WaterfallResult, priceIndex decimal.Decimal, allowanceRemaining *decimal.Decimal) {
	balance := p.balance(acc)
	if balance.LessThanOrEqual(decimal.Zero) {
		return
	}

	switch acc {
	case domain.AccountISA:
		gross := *residual
		if gross.GreaterThan(balance) {
			gross = balance
		}
		p.ISA = p.ISA.Sub(gross)
		result.NetRealized = result.NetRealized.Add(gross)
		result.GrossFromAccount.ISA = result.GrossFromAccount.ISA.Add(gross)
		*residual = residual.Sub(gross)

	case domain.AccountTaxable:
		gross := tax.GrossForNetSale(*residual, balance, p.TaxableBasis, *allowanceRemaining)
		if gross.GreaterThan(balance) {
			gross = balance
		}
		sale := tax.CGTOnSale(gross, balance, p.TaxableBasis, *allowanceRemaining)
		p.Taxable = p.Taxable.Sub(gross)
		p.TaxableBasis = p.TaxableBasis.Sub(sale.BasisReduction)
		if p.TaxableBasis.LessThan(decimal.Zero) {
			p.TaxableBasis = decimal.Zero
		}
		*allowanceRemaining = allowanceRemaining.Sub(sale.AllowanceUsed)
		result.AllowanceUsed = result.AllowanceUsed.Add(sale.AllowanceUsed)
		result.CGTPaid = result.CGTPaid.Add(sale.CGTPaid)
		result.NetRealized = result.NetRealized.Add(sale.NetProceeds)
		result.GrossFromAccount.Taxable = result.GrossFromAccount.Taxable.Add(gross)
		*residual = residual.Sub(sale.NetProceeds)

	case domain.AccountPension:
		gross := tax.GrossForNetIncome(*residual, priceIndex)
		if gross.GreaterThan(balance) {
			gross = balance
		}
		incomeTax := tax.IncomeTax(gross, priceIndex)
		net := gross.Sub(incomeTax)
		p.Pension = p.Pension.Sub(gross)
		result.IncomeTaxPaid = result.IncomeTaxPaid.Add(incomeTax)
		result.NetRealized = result.NetRealized.Add(net)
		result.GrossFromAccount.Pension = result.GrossFromAccount.Pension.Add(gross)
		*residual = residual.Sub(net)
	}
	if residual.LessThan(decimal.Zero) {
		*residual = decimal.Zero
	}
}

// withdrawProRata allocates the residual need across available investment
// accounts proportional to nominal value, then nets each (§4.3).
func (p *Portfolio) withdrawProRata(tax *taxengine.Engine, residual *decimal.Decimal, result *WaterfallResult, pensionAvailable bool, priceIndex decimal.Decimal, allowanceRemaining *decimal.Decimal) {
	type weighted struct {
		acc   domain.Account
		value decimal.Decimal
	}
	var candidates []weighted
	candidates = append(candidates, weighted{domain.AccountISA, p.ISA})
	candidates = append(candidates, weighted{domain.AccountTaxable, p.Taxable})
	if pensionAvailable {
		candidates = append(candidates, weighted{domain.AccountPension, p.Pension})
	}

	total := decimal.Zero
	for _, c := range candidates {
		if c.value.GreaterThan(decimal.Zero) {
			total = total.Add(c.value)
		}
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return
	}

	need := *residual
	for _, c := range candidates {
		if c.value.LessThanOrEqual(decimal.Zero) {
			continue
		}
		share := need.Mul(c.value).Div(total)
		p.withdrawAccountForNet(tax, c.acc, &share, result, priceIndex, allowanceRemaining)
	}
	*residual = decimal.Zero
}
