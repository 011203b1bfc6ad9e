package export

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"valuecase/pkg/core/benefit"
	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/financial"
	"valuecase/pkg/core/project"
	"valuecase/pkg/core/research"
)

var printer = message.NewPrinter(language.English)

// ReportOptions carries the optional context of an executive report.
type ReportOptions struct {
	GeneratedAt time.Time
	// Insights adds market context to the industry section when present.
	Insights *research.Insights
	// Benchmarks adds an industry-average column to the KPI table.
	Benchmarks []research.Benchmark
}

// Report section headings, in order. Slides are cut at these.
const (
	SectionSummary         = "Executive Summary"
	SectionObjectives      = "Business Objectives"
	SectionKPIs            = "Key Performance Indicators"
	SectionFinancials      = "Financial Analysis"
	SectionRecommendations = "Recommendations"
	SectionIndustry        = "Industry Context"
)

func money(v float64) string {
	if v < 0 {
		return printer.Sprintf("-$%.0f", -v)
	}
	return printer.Sprintf("$%.0f", v)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Recommendations are the rule-based advice lines of the report.
func Recommendations(r financial.Result) []string {
	var out []string
	if r.ROIPercent >= 50 {
		out = append(out, "**Strong Business Case:** The project shows excellent ROI and should be prioritized for implementation.")
	}
	if r.PaybackYears > 0 && r.PaybackYears <= 2 {
		out = append(out, "**Quick Payback:** The project will pay for itself in under 2 years, making it a low-risk investment.")
	}
	if r.ROIPercent < 20 {
		out = append(out, "**Consider Optimization:** Review cost estimates and explore ways to increase benefits or reduce implementation costs.")
	}
	if len(out) == 0 {
		out = append(out, "Review the financial projections and ensure all assumptions are validated with stakeholders.")
	}
	return out
}

// strength grades the returns for the closing sentence of the report.
func strength(roi float64) (string, string) {
	switch {
	case roi >= 50:
		return "strong", "prioritized"
	case roi >= 20:
		return "moderate", "considered"
	default:
		return "limited", "reviewed"
	}
}

// MarkdownReport renders the executive presentation of a project. The
// figures come from the project's derived state, which callers keep current.
func MarkdownReport(p *project.Project, opts ReportOptions) string {
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	title := p.Setup.ProjectName
	if strings.TrimSpace(title) == "" {
		title = "Business Value Case"
	}
	fin := p.Financials

	var b strings.Builder
	b.WriteString("# " + title + " - Executive Presentation\n\n")

	// Summary
	b.WriteString("## " + SectionSummary + "\n\n")
	b.WriteString("**Company:** " + orNA(p.Setup.Company) + "  \n")
	b.WriteString("**Department:** " + orNA(p.Setup.Department) + "  \n")
	b.WriteString("**Timeline:** " + orNA(p.Setup.Timeline) + "  \n")
	b.WriteString("**Generated:** " + generated.Format("2006-01-02") + "\n\n")
	b.WriteString("### Key Metrics\n\n")
	b.WriteString("- **Total Investment:** " + money(fin.TotalCosts) + "\n")
	b.WriteString("- **Expected Benefits:** " + money(fin.TotalBenefits) + "\n")
	b.WriteString("- **Net Benefit:** " + money(fin.NetBenefit) + "\n")
	b.WriteString(printer.Sprintf("- **ROI:** %.1f%% (%s)\n", fin.ROIPercent, financial.ROIStatus(fin.ROIPercent)))
	b.WriteString(printer.Sprintf("- **Payback Period:** %.1f years\n", fin.PaybackYears))
	b.WriteString("- **NPV:** " + money(fin.NPV) + "\n\n")

	writeObjectives(&b, p)
	writeKPIs(&b, p, opts.Benchmarks)
	writeFinancials(&b, p)

	b.WriteString("## " + SectionRecommendations + "\n\n")
	for _, rec := range Recommendations(fin) {
		b.WriteString("- " + rec + "\n")
	}
	b.WriteString("\n")

	writeIndustry(&b, p, opts.Insights)
	return b.String()
}

func writeObjectives(b *strings.Builder, p *project.Project) {
	b.WriteString(printer.Sprintf("## %s (%d total)\n\n", SectionObjectives, len(p.Objectives)))
	if len(p.Objectives) == 0 {
		b.WriteString("No objectives selected.\n\n")
		return
	}
	for i, o := range p.Objectives {
		priority := o.Priority
		if priority == "" {
			priority = "medium"
		}
		b.WriteString(printer.Sprintf("### %d. %s\n\n", i+1, o.Title))
		b.WriteString("- **Priority:** " + strings.ToUpper(priority) + "\n")
		if o.ValueDriver != "" {
			b.WriteString("- **Value Driver:** " + o.ValueDriver + "\n")
		}
		desc := o.Description
		if desc == "" {
			desc = "No description provided"
		}
		b.WriteString("- **Description:** " + desc + "\n\n")
	}
}

func writeKPIs(b *strings.Builder, p *project.Project, benchmarks []research.Benchmark) {
	b.WriteString(printer.Sprintf("## %s (%d total)\n\n", SectionKPIs, len(p.KPIs)))
	if len(p.KPIs) == 0 {
		b.WriteString("No KPIs selected.\n\n")
		return
	}
	byKPI := make(map[string]research.Benchmark, len(benchmarks))
	for _, bm := range benchmarks {
		byKPI[bm.KPIName] = bm
	}
	derived := make(map[string]benefit.LineItem, len(p.Benefits.LineItems))
	for _, li := range p.Benefits.LineItems {
		derived[li.KPIName] = li
	}
	badges := p.Assumptions.Badges(p.Platform())

	header := "| KPI | Inputs | Expected Improvement | Annual Benefit |"
	rule := "|---|---|---|---|"
	if len(byKPI) > 0 {
		header += " Industry Average |"
		rule += "---|"
	}
	b.WriteString(header + "\n" + rule + "\n")
	for _, name := range p.KPIs {
		badge := badges[name]
		amount := "-"
		if li, ok := derived[name]; ok {
			amount = money(li.Amount) + " " + strings.ToLower(li.Category.Label())
		}
		row := printer.Sprintf("| %s | %d/%d | %s | %s |", cell(name), badge.Completed, badge.Required,
			cell(catalog.Baselines(name).Moderate), amount)
		if len(byKPI) > 0 {
			avg := catalog.NotAvailable
			if bm, ok := byKPI[name]; ok {
				avg = bm.CompanySize.Pick(p.Setup.CompanySize)
			}
			row += " " + cell(avg) + " |"
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n")
}

func writeFinancials(b *strings.Builder, p *project.Project) {
	fin := p.Financials
	b.WriteString("## " + SectionFinancials + "\n\n")

	b.WriteString("### Cost Breakdown\n\n")
	if len(p.CostItems) == 0 {
		b.WriteString("No cost items entered.\n\n")
	} else {
		b.WriteString("| Type | Method | Description | Total |\n|---|---|---|---|\n")
		for _, c := range p.CostItems {
			b.WriteString(printer.Sprintf("| %s | %s | %s | %s |\n", c.CostType, c.CostMethod, cell(c.Description),
				money(financial.ItemCost(c, p.Parameters.ProjectDurationMonths))))
		}
		b.WriteString("\n")
	}

	b.WriteString("### Benefit Breakdown\n\n")
	b.WriteString("- **" + benefit.CostSaving.Label() + ":** " + money(p.Benefits.CostSavings) + "\n")
	b.WriteString("- **" + benefit.RevenueIncrease.Label() + ":** " + money(p.Benefits.RevenueIncrease) + "\n")
	b.WriteString("- **" + benefit.ProductivityGain.Label() + ":** " + money(p.Benefits.ProductivityGains) + "\n")
	if p.OtherBenefits != 0 {
		b.WriteString("- **Other Benefits:** " + money(p.OtherBenefits) + "\n")
	}
	b.WriteString("\n")
	for _, li := range p.Benefits.LineItems {
		b.WriteString("- " + li.KPIName + ": " + li.Explanation + "\n")
	}
	if len(p.Benefits.LineItems) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("### Financial Timeline\n\n")
	b.WriteString(printer.Sprintf("The project requires an initial investment of %s and is projected to generate %s in annual benefits, resulting in a payback period of %.1f years.\n\n",
		money(fin.TotalCosts), money(fin.AnnualBenefits), fin.PaybackYears))
	flows := financial.Schedule(fin.TotalCosts, fin.AnnualBenefits, p.Parameters)
	if len(flows) > 0 {
		b.WriteString(printer.Sprintf("Discounted at %.1f%% per year:\n\n", p.Parameters.DiscountRatePercent))
		b.WriteString("| Year | Benefit | Present Value | Cumulative NPV |\n|---|---|---|---|\n")
		for _, f := range flows {
			b.WriteString(printer.Sprintf("| %d | %s | %s | %s |\n", f.Year, money(f.Benefit), money(f.PresentValue), money(f.CumulativeNPV)))
		}
		b.WriteString("\n")
	}
}

func writeIndustry(b *strings.Builder, p *project.Project, ins *research.Insights) {
	b.WriteString("## " + SectionIndustry + "\n\n")
	b.WriteString("**Industry:** " + orNA(p.Setup.Industry) + "  \n")
	b.WriteString("**Platform:** " + orNA(p.Setup.PlatformSelection) + "\n\n")

	if ins != nil {
		if md := ins.MarketData; md != nil {
			if md.MarketSize != "" {
				b.WriteString("- **Market Size:** " + md.MarketSize + "\n")
			}
			if md.GrowthRate != "" {
				b.WriteString("- **Growth Rate:** " + md.GrowthRate + "\n")
			}
			for _, t := range md.KeyTrends {
				b.WriteString("- **Trend:** " + t + "\n")
			}
		}
		for _, uc := range ins.UseCases {
			b.WriteString("- **Use Case:** " + uc.Title + ": " + uc.Description + "\n")
		}
		for _, op := range ins.Opportunities {
			b.WriteString("- **Opportunity:** " + op.Title + ": " + op.Description + "\n")
		}
		b.WriteString("\n")
	}

	grade, action := strength(p.Financials.ROIPercent)
	b.WriteString("This business case analysis demonstrates " + grade +
		" financial returns and should be " + action + " for implementation.\n")
}
