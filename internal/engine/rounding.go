package engine

import (
	"github.com/shopspring/decimal"

	money "github.com/rpgo/retirement-feasibility/pkg/decimal"

	"github.com/rpgo/retirement-feasibility/internal/domain"
)

// round rounds a monetary decimal to the nearest cent via the shared Money
// helper, keeping presentation rounding in one place (§9's percentile note
// applies the same discipline: compute exact, round only at the boundary).
func round(d decimal.Decimal) decimal.Decimal {
	return money.NewMoneyFromDecimal(d).Round().Decimal
}

func roundTotals(t domain.AccountTotals) domain.AccountTotals {
	return domain.AccountTotals{
		ISA:     round(t.ISA),
		Taxable: round(t.Taxable),
		Pension: round(t.Pension),
		Cash:    round(t.Cash),
		Total:   round(t.Total),
	}
}

func roundPercentiles(p domain.Percentiles) domain.Percentiles {
	return domain.Percentiles{P50: round(p.P50), P10: round(p.P10)}
}

func roundAccountPercentiles(p domain.AccountPercentiles) domain.AccountPercentiles {
	return domain.AccountPercentiles{
		ISA:     roundPercentiles(p.ISA),
		Taxable: roundPercentiles(p.Taxable),
		Pension: roundPercentiles(p.Pension),
		Cash:    roundPercentiles(p.Cash),
		Total:   roundPercentiles(p.Total),
	}
}

// roundResult rounds the at-retirement and terminal balance percentiles and
// each cashflow year's end-of-year balances to the cent. Ratios, rates and
// the other cashflow amounts keep full precision.
func roundResult(result domain.ModelResult) domain.ModelResult {
	for i := range result.Ages {
		result.Ages[i].AtRetirement = roundAccountPercentiles(result.Ages[i].AtRetirement)
		result.Ages[i].Terminal = roundAccountPercentiles(result.Ages[i].Terminal)
		for j := range result.Ages[i].Cashflow {
			result.Ages[i].Cashflow[j].EndOfYearBalances = roundTotals(result.Ages[i].Cashflow[j].EndOfYearBalances)
		}
	}
	return result
}
