// Command calc-engine checks and evaluates a saved value case offline.
//
//	calc-engine -mode check -file case.hjson
//	calc-engine -mode calculate -data '{"setup": {...}, ...}'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"valuecase/pkg/core/export"
	"valuecase/pkg/core/financial"
	"valuecase/pkg/core/project"
)

var printer = message.NewPrinter(language.English)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("calc-engine", flag.ContinueOnError)
	fs.SetOutput(out)
	mode := fs.String("mode", "calculate", "Mode: check or calculate")
	file := fs.String("file", "", "Project file (JSON or Hjson)")
	dataStr := fs.String("data", "", "Inline project payload")
	asJSON := fs.Bool("json", false, "Print the calculation as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var raw []byte
	switch {
	case *file != "":
		b, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read %s: %w", *file, err)
		}
		raw = b
	case *dataStr != "":
		raw = []byte(*dataStr)
	default:
		return fmt.Errorf("no data provided, use -file or -data")
	}

	p, err := export.ImportJSON(raw)
	if err != nil {
		return err
	}

	switch *mode {
	case "check":
		return runChecks(out, p)
	case "calculate":
		if *asJSON {
			return writeCalculationJSON(out, p)
		}
		runCalculations(out, p)
		return nil
	default:
		return fmt.Errorf("unknown mode: %s", *mode)
	}
}

// runChecks fails when any selected KPI form is incomplete or the
// parameters are unusable.
func runChecks(out io.Writer, p *project.Project) error {
	failed := 0
	badges := p.Assumptions.Badges(p.Platform())
	names := make([]string, 0, len(badges))
	for name := range badges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := badges[name]
		status := "OK"
		if !c.Complete() {
			status = "INCOMPLETE"
			failed++
		}
		fmt.Fprintf(out, "[%s] %s: %d/%d fields\n", status, name, c.Completed, c.Required)
	}

	if err := p.Parameters.Validate(); err != nil {
		fmt.Fprintf(out, "[INVALID] parameters: %v\n", err)
		failed++
	}

	for _, st := range project.Stages {
		fmt.Fprintf(out, "stage %-12s complete=%-5t reachable=%t\n", st, p.StageComplete(st), p.CanEnter(st))
	}
	fmt.Fprintf(out, "Progress: %d%%\n", p.Progress())

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Fprintln(out, "Success: all KPI assumptions complete")
	return nil
}

// Calculation is the machine-readable form of the calculate mode.
type Calculation struct {
	Benefits  financial.Benefits   `json:"benefits"`
	Result    financial.Result     `json:"result"`
	ROIStatus string               `json:"roi_status"`
	Schedule  []financial.YearFlow `json:"schedule"`
}

func calculate(p *project.Project) Calculation {
	r := p.Financials
	return Calculation{
		Benefits:  p.BenefitInputs(),
		Result:    r,
		ROIStatus: financial.ROIStatus(r.ROIPercent),
		Schedule:  financial.Schedule(r.TotalCosts, r.AnnualBenefits, p.Parameters),
	}
}

func writeCalculationJSON(out io.Writer, p *project.Project) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(calculate(p))
}

func runCalculations(out io.Writer, p *project.Project) {
	c := calculate(p)
	for _, li := range p.Benefits.LineItems {
		printer.Fprintf(out, "%-40s %-20s $%.0f\n", li.KPIName, li.Category.Label(), li.Amount)
	}
	printer.Fprintf(out, "Annual benefits:  $%.0f\n", c.Result.AnnualBenefits)
	printer.Fprintf(out, "Total costs:      $%.0f\n", c.Result.TotalCosts)
	printer.Fprintf(out, "Net benefit:      $%.0f\n", c.Result.NetBenefit)
	printer.Fprintf(out, "ROI:              %.1f%% (%s)\n", c.Result.ROIPercent, c.ROIStatus)
	printer.Fprintf(out, "Payback:          %.1f years\n", c.Result.PaybackYears)
	printer.Fprintf(out, "NPV:              $%.0f\n", c.Result.NPV)
	for _, y := range c.Schedule {
		printer.Fprintf(out, "  year %d  benefit $%.0f  pv $%.0f  cumulative $%.0f\n", y.Year, y.Benefit, y.PresentValue, y.CumulativeNPV)
	}
	fmt.Fprintln(out, "Calculations complete.")
}
