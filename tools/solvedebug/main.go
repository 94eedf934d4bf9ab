// Command solvedebug prints the Goal Solver's iteration ledger for a
// goal-solver request file, for interactive inspection of convergence.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/retirement-feasibility/internal/config"
	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/solver"
)

// goalFile mirrors domain.GoalSolverInput's non-Inputs fields for YAML loading.
type goalFile struct {
	GoalType                domain.GoalType `yaml:"goal_type"`
	TargetRetirementAge     int             `yaml:"target_retirement_age"`
	TargetSuccessThreshold  decimal.Decimal `yaml:"target_success_threshold"`
	SearchMin               decimal.Decimal `yaml:"search_min"`
	SearchMax               decimal.Decimal `yaml:"search_max"`
	Tolerance               decimal.Decimal `yaml:"tolerance"`
	MaxIterations           int             `yaml:"max_iterations"`
	SimulationsPerIteration int             `yaml:"simulations_per_iteration"`
	FinalSimulations        int             `yaml:"final_simulations"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: solvedebug <goal-config.yaml>")
		return
	}

	p := config.NewInputParser()
	inputs, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	var gf goalFile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		panic(err)
	}

	req := domain.GoalSolverInput{
		Inputs:                  *inputs,
		GoalType:                gf.GoalType,
		TargetRetirementAge:     gf.TargetRetirementAge,
		TargetSuccessThreshold:  gf.TargetSuccessThreshold,
		SearchMin:               gf.SearchMin,
		SearchMax:               gf.SearchMax,
		Tolerance:               gf.Tolerance,
		MaxIterations:           gf.MaxIterations,
		SimulationsPerIteration: gf.SimulationsPerIteration,
		FinalSimulations:        gf.FinalSimulations,
	}

	out := solver.Solve(context.Background(), req)

	fmt.Printf("feasible=%v converged=%v message=%q\n", out.Feasible, out.Converged, out.Message)
	fmt.Println("iter,lo,hi,candidate,success_rate,ci_half_width")
	for i, it := range out.Iterations {
		fmt.Printf("%d,%s,%s,%s,%s,%s\n", i, it.Lo.StringFixed(2), it.Hi.StringFixed(2), it.Candidate.StringFixed(2), it.SuccessRate.StringFixed(4), it.CIHalfWidth.StringFixed(4))
	}
	fmt.Printf("solved_value=%s achieved_success_rate=%s\n", out.SolvedValue.StringFixed(2), out.AchievedSuccessRate.StringFixed(4))
}
