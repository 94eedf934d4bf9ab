package domain

import "github.com/shopspring/decimal"

// AccountTotals breaks a quantity down by account plus a precomputed sum,
// used for at-retirement/terminal balances in both ScenarioResult and AgeResult.
type AccountTotals struct {
	ISA     decimal.Decimal `json:"isa"`
	Taxable decimal.Decimal `json:"taxable"`
	Pension decimal.Decimal `json:"pension"`
	Cash    decimal.Decimal `json:"cash"`
	Total   decimal.Decimal `json:"total"`
}

// CashflowYear is one year's illustrative cashflow record, carried on the
// scenario chosen by median-trace selection (§4.7). Every amount is real:
// deflated by that year's price index.
type CashflowYear struct {
	Age                int             `json:"age"`
	ContributionISA    decimal.Decimal `json:"contribution_isa"`
	ContributionTaxable decimal.Decimal `json:"contribution_taxable"`
	ContributionPension decimal.Decimal `json:"contribution_pension"`
	WithdrawalGross    decimal.Decimal `json:"withdrawal_gross"`
	StatePensionNet    decimal.Decimal `json:"state_pension_net"`
	TotalSpend         decimal.Decimal `json:"total_spend"`
	CGTPaid            decimal.Decimal `json:"cgt_paid"`
	IncomeTaxPaid      decimal.Decimal `json:"income_tax_paid"`
	EndOfYearBalances  AccountTotals   `json:"end_of_year_balances"`
}

// ScenarioResult is the outcome of a single Monte Carlo path for one candidate age.
type ScenarioResult struct {
	Success             bool            `json:"success"`
	AtRetirement        AccountTotals   `json:"at_retirement"`
	Terminal            AccountTotals   `json:"terminal"`
	AchievedIncomeRatios []decimal.Decimal `json:"achieved_income_ratios"`
	Cashflow            []CashflowYear  `json:"cashflow,omitempty"`
}

// Percentiles holds the P50/P10 pair computed by the Aggregator.
type Percentiles struct {
	P50 decimal.Decimal `json:"p50"`
	P10 decimal.Decimal `json:"p10"`
}

// AccountPercentiles breaks Percentiles down by account plus the total.
type AccountPercentiles struct {
	ISA     Percentiles `json:"isa"`
	Taxable Percentiles `json:"taxable"`
	Pension Percentiles `json:"pension"`
	Cash    Percentiles `json:"cash"`
	Total   Percentiles `json:"total"`
}

// AgeResult summarizes all scenarios run for one candidate age.
type AgeResult struct {
	Age                     int                `json:"age"`
	SuccessRate             decimal.Decimal    `json:"success_rate"`
	AtRetirement            AccountPercentiles `json:"at_retirement"`
	Terminal                AccountPercentiles `json:"terminal"`
	MinIncomeRatioP10       decimal.Decimal    `json:"min_income_ratio_p10"`
	MeanIncomeRatioP50      decimal.Decimal    `json:"mean_income_ratio_p50"`
	Cashflow                []CashflowYear     `json:"cashflow,omitempty"`
}

// ModelResult is the complete response described in spec.md §3 and §6.
type ModelResult struct {
	Mode                  AnalysisMode `json:"mode"`
	WithdrawalPolicy      WithdrawalPolicy `json:"withdrawal_policy"`
	CoastTargetAge        *int         `json:"coast_target_age,omitempty"`
	SuccessThreshold      decimal.Decimal `json:"success_threshold"`
	SelectedAge           *int         `json:"selected_age,omitempty"`
	BestAge               *int         `json:"best_age,omitempty"`
	Ages                  []AgeResult  `json:"ages"`
	CashflowTraceAge      *int         `json:"cashflow_trace_age,omitempty"`
}

// GoalSolverInput extends Inputs/mode with the goal-solver-specific fields (§6).
type GoalSolverInput struct {
	Inputs                  Inputs          `json:"inputs"`
	GoalType                GoalType        `json:"goal_type"`
	TargetRetirementAge     int             `json:"target_retirement_age"`
	TargetSuccessThreshold  decimal.Decimal `json:"target_success_threshold"`
	SearchMin               decimal.Decimal `json:"search_min"`
	SearchMax               decimal.Decimal `json:"search_max"`
	Tolerance               decimal.Decimal `json:"tolerance"`
	MaxIterations           int             `json:"max_iterations"`
	SimulationsPerIteration int             `json:"simulations_per_iteration"`
	FinalSimulations        int             `json:"final_simulations"`
}

// SolverIteration is one bisection probe, recorded for the solver's ledger.
type SolverIteration struct {
	Lo             decimal.Decimal `json:"lo"`
	Hi             decimal.Decimal `json:"hi"`
	Candidate      decimal.Decimal `json:"candidate"`
	SuccessRate    decimal.Decimal `json:"success_rate"`
	CIHalfWidth    decimal.Decimal `json:"ci_half_width"`
}

// SolvedContribution splits a solved required-contribution value by account.
type SolvedContribution struct {
	ISA     decimal.Decimal `json:"isa"`
	Taxable decimal.Decimal `json:"taxable"`
	Pension decimal.Decimal `json:"pension"`
}

// GoalSolverOutput is the goal solver's response (§6).
type GoalSolverOutput struct {
	SolvedValue              decimal.Decimal     `json:"solved_value"`
	SolvedContribution       *SolvedContribution `json:"solved_contribution,omitempty"`
	AchievedSuccessRate      decimal.Decimal     `json:"achieved_success_rate"`
	AchievedSuccessCIHalfWidth decimal.Decimal   `json:"achieved_success_ci_half_width"`
	Feasible                 bool                `json:"feasible"`
	Converged                bool                `json:"converged"`
	Message                  string              `json:"message"`
	Iterations                []SolverIteration  `json:"iterations"`
}
