package engine

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

func validRequest() domain.ModelRequest {
	return domain.ModelRequest{
		Mode: domain.ModeRetirementSweep,
		Inputs: domain.Inputs{
			Ages: domain.Ages{CurrentAge: 60, MaxAge: 61, HorizonAge: 85, PensionAccessAge: 57},
			StartingBalances: domain.StartingBalances{
				ISAStart: dec("300000"),
			},
			Contributions: domain.ContributionPlan{ISALimit: dec("20000")},
			ReturnModel: domain.ReturnModel{
				ISA:           domain.AccountReturnModel{Mean: dec("0.05"), Vol: dec("0.10")},
				Taxable:       domain.AccountReturnModel{Mean: dec("0.05"), Vol: dec("0.10")},
				Pension:       domain.AccountReturnModel{Mean: dec("0.04"), Vol: dec("0.08")},
				Correlation:   dec("0.5"),
				InflationMean: dec("0.02"),
				InflationVol:  dec("0.01"),
			},
			TaxRegime:        domain.TaxRegime{PensionTaxMode: domain.TaxModeFlat, FlatRate: dec("0.15"), CGTRate: dec("0.1")},
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
			MonteCarlo:   domain.MonteCarloParams{Simulations: 15, SuccessThreshold: dec("0.8"), Seed: 7},
			TargetIncome: dec("12000"),
		},
	}
}

func TestRunModelRejectsInvalidInputs(t *testing.T) {
	req := validRequest()
	req.Inputs.Ages.CurrentAge = 99
	e := New(nil)
	_, err := e.RunModel(context.Background(), req)
	require.Error(t, err)
}

func TestRunModelRetirementSweepProducesOrderedAges(t *testing.T) {
	e := New(nil)
	result, err := e.RunModel(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, result.Ages, 2)
	assert.Equal(t, 60, result.Ages[0].Age)
	assert.Equal(t, 61, result.Ages[1].Age)
}

func TestRunModelCoastFireSetsTargetAge(t *testing.T) {
	req := validRequest()
	req.Mode = domain.ModeCoastFire
	e := New(nil)
	result, err := e.RunModel(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.CoastTargetAge)
}

func TestRunModelDefaultsToNopLogger(t *testing.T) {
	e := New(nil)
	assert.IsType(t, NopLogger{}, e.Log)
}
