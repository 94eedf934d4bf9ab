package domain

// WithdrawalPolicy selects the dynamic-spending policy used during retirement.
type WithdrawalPolicy string

const (
	PolicyGuardrails    WithdrawalPolicy = "guardrails"
	PolicyGuytonKlinger WithdrawalPolicy = "guyton-klinger"
	PolicyVPW           WithdrawalPolicy = "vpw"
	PolicyFloorUpside   WithdrawalPolicy = "floor-upside"
	PolicyBucket        WithdrawalPolicy = "bucket"
)

// WithdrawalOrder selects the order in which investment accounts are tapped
// once the state pension and cash buffer have been exhausted.
type WithdrawalOrder string

const (
	OrderProRata       WithdrawalOrder = "pro-rata"
	OrderISAFirst      WithdrawalOrder = "isa-first"
	OrderTaxableFirst  WithdrawalOrder = "taxable-first"
	OrderPensionFirst  WithdrawalOrder = "pension-first"
)

// PensionTaxMode selects how pension (and state-pension) income is taxed.
type PensionTaxMode string

const (
	TaxModeFlat     PensionTaxMode = "flat"
	TaxModeUKBands  PensionTaxMode = "uk-bands"
)

// AnalysisMode selects the top-level shape of a request.
type AnalysisMode string

const (
	ModeRetirementSweep AnalysisMode = "retirement-sweep"
	ModeCoastFire       AnalysisMode = "coast-fire"
)

// GoalType selects which scalar the goal solver searches over.
type GoalType string

const (
	GoalRequiredContribution GoalType = "required-contribution"
	GoalMaxIncome            GoalType = "max-income"
)

// Account identifies one of the four portfolio accounts. A small sum type,
// per the design notes, rather than modeling accounts with inheritance.
type Account int

const (
	AccountISA Account = iota
	AccountTaxable
	AccountPension
	AccountCash
)

func (a Account) String() string {
	switch a {
	case AccountISA:
		return "isa"
	case AccountTaxable:
		return "taxable"
	case AccountPension:
		return "pension"
	case AccountCash:
		return "cash"
	default:
		return "unknown"
	}
}

// ScenarioStatus tracks the state-machine phase of a single scenario path.
type ScenarioStatus int

const (
	StatusAccumulating ScenarioStatus = iota
	StatusRetired
	StatusSuccess
	StatusFailed
)
