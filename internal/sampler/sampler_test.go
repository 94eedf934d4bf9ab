package sampler

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

func zeroVolModel() domain.ReturnModel {
	return domain.ReturnModel{
		ISA:           domain.AccountReturnModel{Mean: dec("0.05"), Vol: decimal.Zero},
		Taxable:       domain.AccountReturnModel{Mean: dec("0.05"), Vol: decimal.Zero},
		Pension:       domain.AccountReturnModel{Mean: dec("0.05"), Vol: decimal.Zero},
		Correlation:   dec("0.5"),
		InflationMean: dec("0.02"),
		InflationVol:  decimal.Zero,
	}
}

// Scenario A (spec.md §8): zero volatility collapses every draw to the mean,
// independent of scenario/year/stream index.
func TestDrawYearZeroVolatilityReturnsExactMeans(t *testing.T) {
	s := New(zeroVolModel())
	d := s.DrawYear(1, 65, 3, 7)
	assert.True(t, d.ReturnISA.Equal(dec("0.05")))
	assert.True(t, d.ReturnTaxable.Equal(dec("0.05")))
	assert.True(t, d.ReturnPension.Equal(dec("0.05")))
	assert.True(t, d.Inflation.Equal(dec("0.02")))
}

func TestDrawYearDeterministicForSameKey(t *testing.T) {
	model := domain.ReturnModel{
		ISA:           domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.15")},
		Taxable:       domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.15")},
		Pension:       domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.12")},
		Correlation:   dec("0.8"),
		InflationMean: dec("0.02"),
		InflationVol:  dec("0.015"),
	}
	s := New(model)
	d1 := s.DrawYear(42, 60, 2, 5)
	d2 := s.DrawYear(42, 60, 2, 5)
	assert.True(t, d1.ReturnISA.Equal(d2.ReturnISA))
	assert.True(t, d1.ReturnTaxable.Equal(d2.ReturnTaxable))
	assert.True(t, d1.ReturnPension.Equal(d2.ReturnPension))
	assert.True(t, d1.Inflation.Equal(d2.Inflation))
}

// ISA and taxable share the same z1 shock: with equal mean and vol they must
// always draw identically (spec.md §4.1).
func TestISAAndTaxableShareShock(t *testing.T) {
	model := domain.ReturnModel{
		ISA:           domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.15")},
		Taxable:       domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.15")},
		Pension:       domain.AccountReturnModel{Mean: dec("0.05"), Vol: dec("0.10")},
		Correlation:   dec("0.5"),
		InflationMean: dec("0.02"),
		InflationVol:  dec("0.01"),
	}
	s := New(model)
	for year := 0; year < 10; year++ {
		d := s.DrawYear(7, 55, 0, year)
		assert.True(t, d.ReturnISA.Equal(d.ReturnTaxable), "year %d", year)
	}
}

func TestDrawYearVariesByYear(t *testing.T) {
	model := domain.ReturnModel{
		ISA:           domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.15")},
		Taxable:       domain.AccountReturnModel{Mean: dec("0.06"), Vol: dec("0.15")},
		Pension:       domain.AccountReturnModel{Mean: dec("0.05"), Vol: dec("0.10")},
		Correlation:   dec("0.5"),
		InflationMean: dec("0.02"),
		InflationVol:  dec("0.01"),
	}
	s := New(model)
	d0 := s.DrawYear(7, 55, 0, 0)
	d1 := s.DrawYear(7, 55, 0, 1)
	assert.False(t, d0.ReturnISA.Equal(d1.ReturnISA))
}

func TestReturnsClampedToBounds(t *testing.T) {
	model := domain.ReturnModel{
		ISA:           domain.AccountReturnModel{Mean: dec("0"), Vol: dec("100")},
		Taxable:       domain.AccountReturnModel{Mean: dec("0"), Vol: dec("100")},
		Pension:       domain.AccountReturnModel{Mean: dec("0"), Vol: dec("100")},
		Correlation:   dec("0.3"),
		InflationMean: dec("0"),
		InflationVol:  dec("10"),
	}
	s := New(model)
	for scenario := 0; scenario < 50; scenario++ {
		d := s.DrawYear(1, 65, scenario, 0)
		require.True(t, d.ReturnISA.GreaterThanOrEqual(minReturn) && d.ReturnISA.LessThanOrEqual(maxReturn))
		require.True(t, d.ReturnTaxable.GreaterThanOrEqual(minReturn) && d.ReturnTaxable.LessThanOrEqual(maxReturn))
		require.True(t, d.ReturnPension.GreaterThanOrEqual(minReturn) && d.ReturnPension.LessThanOrEqual(maxReturn))
		require.True(t, d.Inflation.GreaterThanOrEqual(minInfl) && d.Inflation.LessThanOrEqual(maxInfl))
	}
}
