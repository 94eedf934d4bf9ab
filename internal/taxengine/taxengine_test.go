package taxengine

import (
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

func flatRegime(rate string) domain.TaxRegime {
	return domain.TaxRegime{
		PensionTaxMode: domain.TaxModeFlat,
		FlatRate:       dec(rate),
	}
}

func bandedRegime() domain.TaxRegime {
	return domain.TaxRegime{
		PensionTaxMode: domain.TaxModeUKBands,
		Bands: domain.UKBands{
			PersonalAllowance: dec("12570"),
			TaperStart:        dec("100000"),
			TaperEnd:          dec("125140"),
			BasicRateLimit:    dec("50270"),
			HigherRateLimit:   dec("125140"),
			BasicRate:         dec("0.20"),
			HigherRate:        dec("0.40"),
			AdditionalRate:    dec("0.45"),
		},
	}
}

func TestIncomeTaxFlatMode(t *testing.T) {
	e := New(flatRegime("0.20"))
	tax := e.IncomeTax(dec("50000"), decimal.NewFromInt(1))
	assert.True(t, tax.Equal(dec("10000")))
}

func TestIncomeTaxFlatZeroGross(t *testing.T) {
	e := New(flatRegime("0.20"))
	tax := e.IncomeTax(decimal.Zero, decimal.NewFromInt(1))
	assert.True(t, tax.IsZero())
}

func TestIncomeTaxBandedBelowAllowance(t *testing.T) {
	e := New(bandedRegime())
	tax := e.IncomeTax(dec("10000"), decimal.NewFromInt(1))
	assert.True(t, tax.IsZero())
}

func TestIncomeTaxBandedBasicRateOnly(t *testing.T) {
	e := New(bandedRegime())
	tax := e.IncomeTax(dec("30000"), decimal.NewFromInt(1))
	expected := dec("30000").Sub(dec("12570")).Mul(dec("0.20"))
	assert.True(t, tax.Equal(expected))
}

func TestIncomeTaxBandedTaperReducesAllowance(t *testing.T) {
	e := New(bandedRegime())
	low := e.IncomeTax(dec("100000"), decimal.NewFromInt(1))
	high := e.IncomeTax(dec("110000"), decimal.NewFromInt(1))
	// Ten thousand extra gross above the taper start both adds taxable income
	// and halves away allowance, so tax should rise by more than 10000*0.40.
	assert.True(t, high.Sub(low).GreaterThan(dec("10000").Mul(dec("0.40"))))
}

func TestIncomeTaxBandedAboveTaperEndHasZeroAllowance(t *testing.T) {
	e := New(bandedRegime())
	tax := e.IncomeTax(dec("130000"), decimal.NewFromInt(1))
	// Entire 130000 taxed across basic/higher/additional bands with no allowance.
	expected := dec("50270").Mul(dec("0.20")).
		Add(dec("125140").Sub(dec("50270")).Mul(dec("0.40"))).
		Add(dec("130000").Sub(dec("125140")).Mul(dec("0.45")))
	assert.True(t, tax.Equal(expected))
}

func TestIncomeTaxMonotonicInGross(t *testing.T) {
	e := New(bandedRegime())
	prev := decimal.Zero
	for _, g := range []string{"0", "10000", "30000", "60000", "90000", "105000", "120000", "140000"} {
		tax := e.IncomeTax(dec(g), decimal.NewFromInt(1))
		assert.True(t, tax.GreaterThanOrEqual(prev), "tax decreased at gross=%s", g)
		prev = tax
	}
}

func TestGrossForNetIncomeRoundTrips(t *testing.T) {
	e := New(bandedRegime())
	for _, net := range []string{"5000", "20000", "45000", "80000"} {
		target := dec(net)
		gross := e.GrossForNetIncome(target, decimal.NewFromInt(1))
		achieved := e.NetFromGross(gross, decimal.NewFromInt(1))
		diff := achieved.Sub(target).Abs()
		assert.True(t, diff.LessThanOrEqual(dec("1")), "net=%s achieved=%s gross=%s", net, achieved, gross)
	}
}

func TestGrossForNetIncomeZeroTarget(t *testing.T) {
	e := New(bandedRegime())
	gross := e.GrossForNetIncome(decimal.Zero, decimal.NewFromInt(1))
	assert.True(t, gross.IsZero())
}

// Scenario E (spec.md §8): CGT inversion.
func TestCGTOnSaleScenarioE(t *testing.T) {
	e := New(domain.TaxRegime{CGTRate: dec("0.20")})
	value := dec("100000")
	basis := dec("40000")
	allowance := dec("3000")

	gross := e.GrossForNetSale(dec("10000"), value, basis, allowance)
	result := e.CGTOnSale(gross, value, basis, allowance)
	diff := result.NetProceeds.Sub(dec("10000")).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("1")), "net proceeds %s not within tolerance of 10000", result.NetProceeds)
}

func TestCGTOnSaleBasisFractionFormula(t *testing.T) {
	e := New(domain.TaxRegime{CGTRate: dec("0.20")})
	result := e.CGTOnSale(dec("10000"), dec("100000"), dec("40000"), dec("0"))
	// basis sold = 40000 * (10000/100000) = 4000; gain = 10000-4000 = 6000
	assert.True(t, result.RealizedGain.Equal(dec("6000")))
	assert.True(t, result.BasisReduction.Equal(dec("4000")))
	assert.True(t, result.CGTPaid.Equal(dec("1200")))
}

func TestCGTOnSaleAllowanceFullyOffsetsSmallGain(t *testing.T) {
	e := New(domain.TaxRegime{CGTRate: dec("0.20")})
	result := e.CGTOnSale(dec("5000"), dec("100000"), dec("80000"), dec("3000"))
	// gain = 5000 - 4000 = 1000, fully within allowance
	assert.True(t, result.RealizedGain.Equal(dec("1000")))
	assert.True(t, result.CGTPaid.IsZero())
	assert.True(t, result.AllowanceUsed.Equal(dec("1000")))
}

func TestCGTOnSaleZeroGross(t *testing.T) {
	e := New(domain.TaxRegime{CGTRate: dec("0.20")})
	result := e.CGTOnSale(decimal.Zero, dec("100000"), dec("40000"), dec("3000"))
	require.True(t, result.NetProceeds.IsZero())
}
