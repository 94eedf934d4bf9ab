// Command tracedebug prints the illustrative per-year cashflow trace for a
// single candidate age against a scenario file, for interactive inspection.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rpgo/retirement-feasibility/internal/config"
	"github.com/rpgo/retirement-feasibility/internal/runner"
	"github.com/rpgo/retirement-feasibility/internal/sweep"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: tracedebug <scenario.yaml> <candidate-age>")
		return
	}

	p := config.NewInputParser()
	inputs, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}

	age, err := strconv.Atoi(os.Args[2])
	if err != nil {
		panic(err)
	}

	r := runner.New(*inputs)
	result := sweep.RunAge(r, inputs.MonteCarlo.Seed, age, inputs.MonteCarlo.Simulations, nil)

	fmt.Printf("age=%d success_rate=%s\n", result.Age, result.SuccessRate.StringFixed(4))
	fmt.Println("age,contrib_isa,contrib_taxable,contrib_pension,withdrawal_gross,state_pension_net,total_spend,cgt_paid,income_tax_paid,end_isa,end_taxable,end_pension,end_cash,end_total")
	for _, cf := range result.Cashflow {
		fmt.Printf("%d,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			cf.Age,
			cf.ContributionISA.StringFixed(2),
			cf.ContributionTaxable.StringFixed(2),
			cf.ContributionPension.StringFixed(2),
			cf.WithdrawalGross.StringFixed(2),
			cf.StatePensionNet.StringFixed(2),
			cf.TotalSpend.StringFixed(2),
			cf.CGTPaid.StringFixed(2),
			cf.IncomeTaxPaid.StringFixed(2),
			cf.EndOfYearBalances.ISA.StringFixed(2),
			cf.EndOfYearBalances.Taxable.StringFixed(2),
			cf.EndOfYearBalances.Pension.StringFixed(2),
			cf.EndOfYearBalances.Cash.StringFixed(2),
			cf.EndOfYearBalances.Total.StringFixed(2),
		)
	}
}
