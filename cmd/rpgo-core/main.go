// Command rpgo-core runs the retirement-feasibility simulation core against
// a YAML scenario file and prints the resulting ModelResult as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-feasibility/internal/config"
	"github.com/rpgo/retirement-feasibility/internal/domain"
	"github.com/rpgo/retirement-feasibility/internal/engine"
)

var (
	mode               string
	coastRetirementAge int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rpgo-core [scenario.yaml]",
		Short: "Run the retirement-feasibility simulation core against a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	root.Flags().StringVar(&mode, "mode", "retirement-sweep", "retirement-sweep or coast-fire")
	root.Flags().IntVar(&coastRetirementAge, "coast-retirement-age", 0, "target retirement age for coast-fire mode (0 = auto)")
	return root
}

func runSimulation(cmd *cobra.Command, args []string) error {
	parser := config.NewInputParser()
	inputs, err := parser.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	req := domain.ModelRequest{
		Inputs: *inputs,
		Mode:   domain.AnalysisMode(mode),
	}
	if req.Mode == domain.ModeCoastFire && coastRetirementAge > 0 {
		age := coastRetirementAge
		req.CoastRetirementAge = &age
	}

	e := engine.New(nil)
	result, err := e.RunModel(context.Background(), req)
	if err != nil {
		return fmt.Errorf("running model: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
