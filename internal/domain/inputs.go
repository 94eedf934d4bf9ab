package domain

import "github.com/shopspring/decimal"

// Ages holds the age boundaries that drive the sweep and the scenario clock.
// Invariant: CurrentAge <= MaxAge < HorizonAge, PensionAccessAge >= CurrentAge.
type Ages struct {
	CurrentAge        int `yaml:"current_age" json:"current_age"`
	MaxAge            int `yaml:"max_age" json:"max_age"`
	HorizonAge        int `yaml:"horizon_age" json:"horizon_age"`
	PensionAccessAge  int `yaml:"pension_access_age" json:"pension_access_age"`
}

// StartingBalances holds the nominal starting balance for each account plus
// the taxable account's cost basis. Invariant: every field >= 0 and
// TaxableBasisStart <= TaxableStart.
type StartingBalances struct {
	ISAStart          decimal.Decimal `yaml:"isa_start" json:"isa_start"`
	TaxableStart      decimal.Decimal `yaml:"taxable_start" json:"taxable_start"`
	PensionStart      decimal.Decimal `yaml:"pension_start" json:"pension_start"`
	CashStart         decimal.Decimal `yaml:"cash_start" json:"cash_start"`
	TaxableBasisStart decimal.Decimal `yaml:"taxable_basis_start" json:"taxable_basis_start"`
}

// ContributionPlan holds the annual contribution amounts (in today's money)
// split across the three contributing accounts, and the real escalator
// applied to them each year they are active.
type ContributionPlan struct {
	ISAAnnual          decimal.Decimal `yaml:"isa_annual" json:"isa_annual"`
	TaxableAnnual      decimal.Decimal `yaml:"taxable_annual" json:"taxable_annual"`
	PensionAnnual      decimal.Decimal `yaml:"pension_annual" json:"pension_annual"`
	RealGrowthEscalator decimal.Decimal `yaml:"real_growth_escalator" json:"real_growth_escalator"`
	ISALimit           decimal.Decimal `yaml:"isa_limit" json:"isa_limit"`
}

// AccountReturnModel is the mean/volatility pair used by the Sampler for one account.
type AccountReturnModel struct {
	Mean decimal.Decimal `yaml:"mean" json:"mean"`
	Vol  decimal.Decimal `yaml:"vol" json:"vol"`
}

// ReturnModel parameterizes the Sampler: per-account return distributions,
// the ISA/taxable-vs-pension correlation, and the inflation distribution.
type ReturnModel struct {
	ISA            AccountReturnModel `yaml:"isa" json:"isa"`
	Taxable        AccountReturnModel `yaml:"taxable" json:"taxable"`
	Pension        AccountReturnModel `yaml:"pension" json:"pension"`
	Correlation    decimal.Decimal    `yaml:"correlation" json:"correlation"`
	InflationMean  decimal.Decimal    `yaml:"inflation_mean" json:"inflation_mean"`
	InflationVol   decimal.Decimal    `yaml:"inflation_vol" json:"inflation_vol"`
	CashGrowthRate decimal.Decimal    `yaml:"cash_growth_rate" json:"cash_growth_rate"`
}

// TaxBand is one band edge/rate pair in the banded income-tax schedule.
type TaxBand struct {
	Name string          `yaml:"name" json:"name"`
	Max  decimal.Decimal `yaml:"max" json:"max"` // upper edge of this band, in nominal-year terms; last band is open-ended
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// UKBands parameterizes the banded income-tax mode: a taxable-year personal
// allowance that tapers away above a threshold, plus a sequence of bands.
type UKBands struct {
	PersonalAllowance decimal.Decimal `yaml:"personal_allowance" json:"personal_allowance"`
	TaperStart        decimal.Decimal `yaml:"taper_start" json:"taper_start"`
	TaperEnd          decimal.Decimal `yaml:"taper_end" json:"taper_end"`
	BasicRateLimit    decimal.Decimal `yaml:"basic_rate_limit" json:"basic_rate_limit"`
	HigherRateLimit   decimal.Decimal `yaml:"higher_rate_limit" json:"higher_rate_limit"`
	BasicRate         decimal.Decimal `yaml:"basic_rate" json:"basic_rate"`
	HigherRate        decimal.Decimal `yaml:"higher_rate" json:"higher_rate"`
	AdditionalRate    decimal.Decimal `yaml:"additional_rate" json:"additional_rate"`
}

// TaxRegime parameterizes the income-tax and CGT computations.
type TaxRegime struct {
	PensionTaxMode    PensionTaxMode  `yaml:"pension_tax_mode" json:"pension_tax_mode"`
	FlatRate          decimal.Decimal `yaml:"flat_rate" json:"flat_rate"`
	Bands             UKBands         `yaml:"bands" json:"bands"`
	CGTRate           decimal.Decimal `yaml:"cgt_rate" json:"cgt_rate"`
	CGTAnnualAllowance decimal.Decimal `yaml:"cgt_annual_allowance" json:"cgt_annual_allowance"`
}

// PolicyParams carries every knob used by any of the five spending policies;
// only the fields relevant to the selected WithdrawalPolicy are read.
type PolicyParams struct {
	MinFloorRatio     decimal.Decimal `yaml:"min_floor_ratio" json:"min_floor_ratio"`
	MaxCeilingRatio   decimal.Decimal `yaml:"max_ceiling_ratio" json:"max_ceiling_ratio"`
	BadThreshold      decimal.Decimal `yaml:"bad_threshold" json:"bad_threshold"`
	GoodThreshold     decimal.Decimal `yaml:"good_threshold" json:"good_threshold"`
	BadCut            decimal.Decimal `yaml:"bad_cut" json:"bad_cut"`
	GoodRaise         decimal.Decimal `yaml:"good_raise" json:"good_raise"`
	GKLower           decimal.Decimal `yaml:"gk_lower" json:"gk_lower"`
	GKUpper           decimal.Decimal `yaml:"gk_upper" json:"gk_upper"`
	VPWRealReturn     decimal.Decimal `yaml:"vpw_real_return" json:"vpw_real_return"`
	Capture           decimal.Decimal `yaml:"capture" json:"capture"`
	BucketYears       decimal.Decimal `yaml:"bucket_years" json:"bucket_years"`
	ExtraToCashRatio  decimal.Decimal `yaml:"extra_to_cash_ratio" json:"extra_to_cash_ratio"`
}

// MonteCarloParams configures the number of paths, the run seed, and the
// success-rate threshold used to pick the selected age.
type MonteCarloParams struct {
	Simulations      int             `yaml:"simulations" json:"simulations"`
	SuccessThreshold decimal.Decimal `yaml:"success_threshold" json:"success_threshold"`
	Seed             int64           `yaml:"seed" json:"seed"`
}

// StatePension parameterizes the state-pension income stream (§4.6).
type StatePension struct {
	StartAge decimal.Decimal `yaml:"start_age" json:"start_age"`
	Income   decimal.Decimal `yaml:"income" json:"income"` // annual, today's money
}

// Mortgage parameterizes the constant-in-real-terms mortgage obligation (§4.6).
type Mortgage struct {
	AnnualReal decimal.Decimal `yaml:"annual_real" json:"annual_real"`
	EndAge     int             `yaml:"end_age" json:"end_age"` // exclusive
}

// Inputs is the complete, immutable-for-a-run request to the core.
type Inputs struct {
	Ages              Ages              `yaml:"ages" json:"ages"`
	StartingBalances  StartingBalances  `yaml:"starting_balances" json:"starting_balances"`
	Contributions     ContributionPlan  `yaml:"contributions" json:"contributions"`
	ReturnModel       ReturnModel       `yaml:"return_model" json:"return_model"`
	TaxRegime         TaxRegime         `yaml:"tax_regime" json:"tax_regime"`
	WithdrawalPolicy  WithdrawalPolicy  `yaml:"withdrawal_policy" json:"withdrawal_policy"`
	WithdrawalOrder   WithdrawalOrder   `yaml:"withdrawal_order" json:"withdrawal_order"`
	Policy            PolicyParams      `yaml:"policy" json:"policy"`
	MonteCarlo        MonteCarloParams  `yaml:"monte_carlo" json:"monte_carlo"`
	TargetIncome      decimal.Decimal   `yaml:"target_income" json:"target_income"`
	StatePension      StatePension      `yaml:"state_pension" json:"state_pension"`
	Mortgage          Mortgage          `yaml:"mortgage" json:"mortgage"`
	ContributionStopAge *int            `yaml:"contribution_stop_age,omitempty" json:"contribution_stop_age,omitempty"`
}

// ModelRequest wraps Inputs with the mode selector described in spec.md §6.
type ModelRequest struct {
	Inputs            Inputs       `json:"inputs"`
	Mode              AnalysisMode `json:"mode"`
	CoastRetirementAge *int        `json:"coast_retirement_age,omitempty"`
}
