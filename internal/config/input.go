// Package config loads YAML request files into domain.Inputs and validates
// them against the invariants of spec.md §3, grounded on the teacher's
// InputParser.LoadFromFile / ValidateConfiguration pattern.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/retirement-feasibility/internal/domain"
)

// InputParser loads and validates Inputs from YAML files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads Inputs from a YAML file and validates them.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Inputs, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var inputs domain.Inputs
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateInputs(inputs); err != nil {
		return nil, err
	}

	return &inputs, nil
}

// ValidateInputs enforces every invariant from spec.md §3, returning a
// *domain.EngineError with Kind=validation on the first violation found (§7).
func ValidateInputs(in domain.Inputs) error {
	if err := validateAges(in.Ages); err != nil {
		return err
	}
	if err := validateStartingBalances(in.StartingBalances); err != nil {
		return err
	}
	if err := validateReturnModel(in.ReturnModel); err != nil {
		return err
	}
	if err := validateTaxRegime(in.TaxRegime); err != nil {
		return err
	}
	if err := validateMonteCarlo(in.MonteCarlo); err != nil {
		return err
	}
	return nil
}

func validationErr(op, msg string) error {
	return domain.NewValidationError(op, msg)
}

func validateAges(ages domain.Ages) error {
	if ages.CurrentAge > ages.MaxAge {
		return validationErr("validateAges", "current_age must be <= max_age")
	}
	if ages.MaxAge >= ages.HorizonAge {
		return validationErr("validateAges", "max_age must be < horizon_age")
	}
	if ages.PensionAccessAge < ages.CurrentAge {
		return validationErr("validateAges", "pension_access_age must be >= current_age")
	}
	return nil
}

func validateStartingBalances(b domain.StartingBalances) error {
	for name, v := range map[string]decimal.Decimal{
		"isa_start":     b.ISAStart,
		"taxable_start": b.TaxableStart,
		"pension_start": b.PensionStart,
		"cash_start":    b.CashStart,
	} {
		if v.LessThan(decimal.Zero) {
			return validationErr("validateStartingBalances", name+" must be >= 0")
		}
	}
	if b.TaxableBasisStart.LessThan(decimal.Zero) {
		return validationErr("validateStartingBalances", "taxable_basis_start must be >= 0")
	}
	if b.TaxableBasisStart.GreaterThan(b.TaxableStart) {
		return validationErr("validateStartingBalances", "taxable_basis_start must be <= taxable_start")
	}
	return nil
}

func validatePercent(name string, v decimal.Decimal) error {
	if v.LessThan(decimal.Zero) || v.GreaterThan(decimal.NewFromInt(1)) {
		return validationErr("validatePercent", name+" must be in [0,1]")
	}
	return nil
}

func validateReturnModel(m domain.ReturnModel) error {
	if err := validatePercent("return_model.correlation", m.Correlation); err != nil {
		return err
	}
	for name, v := range map[string]decimal.Decimal{
		"return_model.isa.vol":     m.ISA.Vol,
		"return_model.taxable.vol": m.Taxable.Vol,
		"return_model.pension.vol": m.Pension.Vol,
		"return_model.inflation_vol": m.InflationVol,
	} {
		if v.LessThan(decimal.Zero) {
			return validationErr("validateReturnModel", name+" must be >= 0")
		}
	}
	return nil
}

func validateTaxRegime(t domain.TaxRegime) error {
	if err := validatePercent("tax_regime.cgt_rate", t.CGTRate); err != nil {
		return err
	}
	if t.CGTAnnualAllowance.LessThan(decimal.Zero) {
		return validationErr("validateTaxRegime", "cgt_annual_allowance must be >= 0")
	}
	if t.PensionTaxMode == domain.TaxModeFlat {
		return validatePercent("tax_regime.flat_rate", t.FlatRate)
	}
	b := t.Bands
	if b.BasicRateLimit.GreaterThan(b.HigherRateLimit) {
		return validationErr("validateTaxRegime", "bands.basic_rate_limit must be <= bands.higher_rate_limit")
	}
	if b.TaperStart.GreaterThan(b.TaperEnd) {
		return validationErr("validateTaxRegime", "bands.taper_start must be <= bands.taper_end")
	}
	return nil
}

func validateMonteCarlo(mc domain.MonteCarloParams) error {
	if mc.Simulations < 1 {
		return validationErr("validateMonteCarlo", "simulations must be >= 1")
	}
	return validatePercent("monte_carlo.success_threshold", mc.SuccessThreshold)
}
