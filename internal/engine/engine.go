// Package engine orchestrates the full simulation core: validation, the
// Age Sweep / Coast Driver, and assembly of the final ModelResult (§2, §6).
package engine

import (
	"context"

	"github.com/rpgo/retirement-feasibility/internal/config"
	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/sweep"
)

// Engine runs retirement-sweep and coast-fire requests against a Logger.
type Engine struct {
	Log Logger
}

// New builds an Engine with the given logger, defaulting to NopLogger.
func New(log Logger) *Engine {
	if log == nil {
		log = NopLogger{}
	}
	return &Engine{Log: log}
}

// RunModel validates the request and runs the sweep (or coast sweep)
// described by its mode, returning a ModelResult (§6). Validation failures
// are returned as *domain.EngineError with Kind=validation (§7).
func (e *Engine) RunModel(ctx context.Context, req domain.ModelRequest) (domain.ModelResult, error) {
	if err := config.ValidateInputs(req.Inputs); err != nil {
		return domain.ModelResult{}, err
	}

	result := domain.ModelResult{
		Mode:             req.Mode,
		WithdrawalPolicy: req.Inputs.WithdrawalPolicy,
		SuccessThreshold: req.Inputs.MonteCarlo.SuccessThreshold,
	}

	switch req.Mode {
	case domain.ModeCoastFire:
		e.Log.Infof("running coast-fire sweep for target age %v", req.CoastRetirementAge)
		target, ages := sweep.Coast(ctx, req.Inputs, req.CoastRetirementAge)
		result.CoastTargetAge = &target
		result.Ages = ages
	default:
		e.Log.Infof("running retirement sweep from age %d to %d", req.Inputs.Ages.CurrentAge, req.Inputs.Ages.MaxAge)
		result.Ages = sweep.Retirement(ctx, req.Inputs)
	}

	result.SelectedAge = sweep.Selected(result.Ages, req.Inputs.MonteCarlo.SuccessThreshold)
	result.BestAge = sweep.Best(result.Ages)

	if result.SelectedAge != nil {
		result.CashflowTraceAge = result.SelectedAge
	} else {
		result.CashflowTraceAge = result.BestAge
	}

	e.Log.Debugf("sweep produced %d age results", len(result.Ages))
	return roundResult(result), nil
}
