// Package planner maps prior-year realized real return and current state to
// a planned real spend under one of five dynamic-spending policies (§4.4).
// Each policy reads and updates only an explicit State record passed in by
// the caller; there are no hidden per-policy mutable globals (§9).
package planner

import "github.com/shopspring/decimal"

// State carries everything a policy needs across years. CurrentSpend is
// updated to each year's emitted plan; WR0 and AtRetirementTotal are
// captured once, at entry to retirement.
type State struct {
	CurrentSpend      decimal.Decimal
	TargetSpend        decimal.Decimal
	MinFloor           decimal.Decimal
	MaxCeiling         decimal.Decimal
	WR0                decimal.Decimal
	AtRetirementTotal  decimal.Decimal
}

// NewState initializes policy state at retirement entry.
func NewState(targetIncome, minFloorRatio, maxCeilingRatio, atRetirementTotal decimal.Decimal) State {
	wr0 := decimal.Zero
	if atRetirementTotal.GreaterThan(decimal.Zero) {
		wr0 = targetIncome.Div(atRetirementTotal)
	}
	return State{
		CurrentSpend:      targetIncome,
		TargetSpend:       targetIncome,
		MinFloor:          minFloorRatio.Mul(targetIncome),
		MaxCeiling:        maxCeilingRatio.Mul(targetIncome),
		WR0:               wr0,
		AtRetirementTotal: atRetirementTotal,
	}
}

func clampSpend(s, lo, hi decimal.Decimal) decimal.Decimal {
	if s.LessThan(lo) {
		return lo
	}
	if s.GreaterThan(hi) {
		return hi
	}
	return s
}

// Params carries every knob used by any policy variant; only the fields
// relevant to the selected policy are read by Plan.
type Params struct {
	BadThreshold     decimal.Decimal
	GoodThreshold    decimal.Decimal
	BadCut           decimal.Decimal
	GoodRaise        decimal.Decimal
	GKLower          decimal.Decimal
	GKUpper          decimal.Decimal
	VPWRealReturn    decimal.Decimal
	Capture          decimal.Decimal
	BucketYears      decimal.Decimal
	ExtraToCashRatio decimal.Decimal
}

// PlanResult is the planned real spend for the year, plus (policy-specific)
// an extra real withdrawal destined for the cash buffer (Bucket only).
type PlanResult struct {
	PlannedSpend decimal.Decimal
	ExtraToCash  decimal.Decimal
}

// Policy is the closed variant of spending strategies. Given state, prior
// real return, available real assets and years remaining, an implementation
// returns the planned real spend and stores it in state.CurrentSpend.
type Policy interface {
	Plan(state *State, params Params, priorRealReturn, availableRealAssets decimal.Decimal, cashReal decimal.Decimal, yearsRemaining int) PlanResult
}

type guardrails struct{}
type guytonKlinger struct{}
type vpw struct{}
type floorUpside struct{}
type bucket struct{}

// GuardrailsPolicy implements the Guardrails strategy.
var GuardrailsPolicy Policy = guardrails{}

// GuytonKlingerPolicy implements the Guyton-Klinger strategy.
var GuytonKlingerPolicy Policy = guytonKlinger{}

// VPWPolicy implements variable percentage withdrawal.
var VPWPolicy Policy = vpw{}

// FloorUpsidePolicy implements the Floor+Upside strategy.
var FloorUpsidePolicy Policy = floorUpside{}

// BucketPolicy implements the Bucket strategy.
var BucketPolicy Policy = bucket{}

func (guardrails) Plan(state *State, p Params, priorRealReturn, availableRealAssets, cashReal decimal.Decimal, yearsRemaining int) PlanResult {
	s := state.CurrentSpend
	if priorRealReturn.LessThan(p.BadThreshold) {
		s = s.Mul(decimal.NewFromInt(1).Sub(p.BadCut))
	} else if priorRealReturn.GreaterThan(p.GoodThreshold) {
		s = s.Mul(decimal.NewFromInt(1).Add(p.GoodRaise))
	}
	s = clampSpend(s, state.MinFloor, state.MaxCeiling)
	state.CurrentSpend = s
	return PlanResult{PlannedSpend: s}
}

func (guytonKlinger) Plan(state *State, p Params, priorRealReturn, availableRealAssets, cashReal decimal.Decimal, yearsRemaining int) PlanResult {
	s := state.CurrentSpend
	var wrT decimal.Decimal
	if availableRealAssets.GreaterThan(decimal.Zero) {
		wrT = s.Div(availableRealAssets)
	}
	lower := state.WR0.Mul(p.GKLower)
	upper := state.WR0.Mul(p.GKUpper)

	if priorRealReturn.LessThan(p.BadThreshold) && wrT.GreaterThan(upper) {
		s = s.Mul(decimal.NewFromInt(1).Sub(p.BadCut))
	} else if priorRealReturn.GreaterThan(p.GoodThreshold) && wrT.LessThan(lower) {
		s = s.Mul(decimal.NewFromInt(1).Add(p.GoodRaise))
	}
	s = clampSpend(s, state.MinFloor, state.MaxCeiling)
	state.CurrentSpend = s
	return PlanResult{PlannedSpend: s}
}

func (vpw) Plan(state *State, p Params, priorRealReturn, availableRealAssets, cashReal decimal.Decimal, yearsRemaining int) PlanResult {
	n := yearsRemaining
	if n < 1 {
		n = 1
	}
	r := p.VPWRealReturn
	var w decimal.Decimal
	if r.Abs().LessThan(decimal.NewFromFloat(1e-9)) {
		w = decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(n)))
	} else {
		one := decimal.NewFromInt(1)
		onePlusR := one.Add(r)
		denom := one.Sub(powInt(onePlusR, -n))
		w = r.Div(denom)
	}
	s := availableRealAssets.Mul(w)
	s = clampSpend(s, state.MinFloor, state.MaxCeiling)
	state.CurrentSpend = s
	return PlanResult{PlannedSpend: s}
}

// powInt raises base to an integer power (possibly negative) using float64
// exponentiation; guarded against overflow by the caller clamping n.
func powInt(base decimal.Decimal, exp int) decimal.Decimal {
	f := base.InexactFloat64()
	neg := exp < 0
	e := exp
	if neg {
		e = -exp
	}
	result := 1.0
	for i := 0; i < e; i++ {
		result *= f
	}
	if neg {
		if result == 0 {
			return decimal.Zero
		}
		result = 1 / result
	}
	return decimal.NewFromFloat(result)
}

func (floorUpside) Plan(state *State, p Params, priorRealReturn, availableRealAssets, cashReal decimal.Decimal, yearsRemaining int) PlanResult {
	s := state.CurrentSpend
	if s.LessThan(state.MinFloor) {
		s = state.MinFloor
	}
	if priorRealReturn.LessThan(p.BadThreshold) {
		s = s.Mul(decimal.NewFromInt(1).Sub(p.BadCut))
	}
	if priorRealReturn.GreaterThan(decimal.Zero) {
		s = s.Mul(decimal.NewFromInt(1).Add(priorRealReturn.Mul(p.Capture)))
	}
	s = clampSpend(s, state.MinFloor, state.MaxCeiling)
	state.CurrentSpend = s
	return PlanResult{PlannedSpend: s}
}

func (bucket) Plan(state *State, p Params, priorRealReturn, availableRealAssets, cashReal decimal.Decimal, yearsRemaining int) PlanResult {
	s := state.CurrentSpend
	isGoodYear := priorRealReturn.GreaterThan(p.GoodThreshold)
	if priorRealReturn.LessThan(p.BadThreshold) {
		s = s.Mul(decimal.NewFromInt(1).Sub(p.BadCut))
	} else if isGoodYear {
		halfRaise := p.GoodRaise.Div(decimal.NewFromInt(2))
		s = s.Mul(decimal.NewFromInt(1).Add(halfRaise))
	}
	s = clampSpend(s, state.MinFloor, state.MaxCeiling)
	state.CurrentSpend = s

	extra := decimal.Zero
	if isGoodYear {
		target := s.Mul(p.BucketYears)
		shortfall := target.Sub(cashReal)
		if shortfall.LessThan(decimal.Zero) {
			shortfall = decimal.Zero
		}
		cap := s.Mul(p.ExtraToCashRatio)
		if cap.LessThanOrEqual(decimal.Zero) {
			extra = shortfall
		} else if shortfall.LessThan(cap) {
			extra = shortfall
		} else {
			extra = cap
		}
	}
	return PlanResult{PlannedSpend: s, ExtraToCash: extra}
}
