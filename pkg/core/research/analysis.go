package research

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"valuecase/pkg/core/agent"
	"valuecase/pkg/core/benefit"
	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/prompt"
)

var printer = message.NewPrinter(language.English)

// partialNotice separates a broken-off provider stream from the appended
// static analysis.
const partialNotice = "\n\n---\n\n_The AI analysis was interrupted. A locally generated analysis follows._\n\n"

// AnalyzeAssumptions streams a review of the entered assumptions to onChunk
// and returns the full text. When the provider fails before sending
// anything, the static analysis is sent as one chunk. When it fails midway,
// a notice and the static analysis are appended. An error from onChunk
// (a client that went away) stops the stream and is returned.
func (s *Service) AnalyzeAssumptions(ctx context.Context, req AnalysisRequest, onChunk func(string) error) (Analysis, error) {
	if blank(req.Industry) || blank(req.PlatformSelection) {
		return Analysis{}, fmt.Errorf("%w: industry and platformSelection are required", ErrInvalidRequest)
	}
	if onChunk == nil {
		onChunk = func(string) error { return nil }
	}

	var sb strings.Builder
	var sinkErr error
	forward := func(chunk string) error {
		if err := onChunk(chunk); err != nil {
			sinkErr = err
			return err
		}
		sb.WriteString(chunk)
		return nil
	}

	var err error
	if s.gen == nil {
		err = fmt.Errorf("no provider configured")
	} else {
		err = s.streamAnalysis(ctx, req, forward)
	}
	if err == nil && strings.TrimSpace(sb.String()) != "" {
		return Analysis{Text: sb.String()}, nil
	}
	if sinkErr != nil {
		return Analysis{Text: sb.String(), Partial: true}, sinkErr
	}
	if err == nil {
		err = fmt.Errorf("empty analysis")
	}
	fmt.Printf("[WARNING] Assumption analysis failed, using static analysis: %v\n", err)

	static := StaticAnalysis(req)
	res := Analysis{Fallback: true}
	tail := static
	if sb.Len() > 0 {
		res.Partial = true
		tail = partialNotice + static
	}
	if err := forward(tail); err != nil {
		return Analysis{Text: sb.String(), Partial: true, Fallback: true}, err
	}
	res.Text = sb.String()
	return res, nil
}

func (s *Service) streamAnalysis(ctx context.Context, req AnalysisRequest, forward func(string) error) error {
	payload, err := json.MarshalIndent(req.KPIAssumptions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode assumptions: %w", err)
	}
	vars := prompt.NewContext().
		Set("Industry", req.Industry).
		Set("Platform", req.PlatformSelection).
		Set("Assumptions", string(payload))
	if !blank(req.CompanySize) {
		vars.Set("CompanySize", req.CompanySize)
	}
	system, user, options, err := s.render(prompt.PromptIDs.AssumptionAnalysis, vars)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.gen.StreamPrompt(ctx, agent.AssumptionAnalysis, user, system, options, forward)
}

// StaticAnalysis builds a deterministic review from the catalog and the
// benefit formulas. The same request always yields the same text.
func StaticAnalysis(req AnalysisRequest) string {
	platform := catalog.DetectPlatform(req.PlatformSelection)
	size := strings.ToLower(strings.TrimSpace(req.CompanySize))
	sizeLabel := size
	if sizeLabel == "" {
		sizeLabel = "medium-sized"
	}

	kpis := make([]string, 0, len(req.KPIAssumptions))
	byName := map[string]int{}
	for i, a := range req.KPIAssumptions {
		kpis = append(kpis, a.KPIName)
		byName[a.KPIName] = i
	}
	sort.Strings(kpis)
	derived := benefit.Derive(req.KPIAssumptions, platform)
	amounts := map[string]benefit.LineItem{}
	for _, li := range derived.LineItems {
		amounts[li.KPIName] = li
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Assumption Review: %s, %s\n\n", req.Industry, req.PlatformSelection)
	fmt.Fprintf(&b, "_Generated locally for a %s organization; no AI provider was consulted._\n\n", sizeLabel)

	b.WriteString("## Assumption Validation\n\n")
	if len(kpis) == 0 {
		b.WriteString("No KPI assumptions have been entered yet.\n\n")
	}
	for _, name := range kpis {
		a := req.KPIAssumptions[byName[name]]
		c := a.Completeness(platform)
		status := "complete"
		if !c.Complete() {
			status = fmt.Sprintf("incomplete (%d of %d required fields)", c.Completed, c.Required)
		}
		fmt.Fprintf(&b, "- **%s**: inputs %s", name, status)
		if li, ok := amounts[name]; ok {
			b.WriteString(printer.Sprintf("; estimated annual %s of $%.0f", strings.ToLower(li.Category.Label()), li.Amount))
		}
		b.WriteString(".\n")
	}
	b.WriteString("\n")

	b.WriteString("## Risk Assessment\n\n")
	incomplete := 0
	for _, name := range kpis {
		if !req.KPIAssumptions[byName[name]].Complete(platform) {
			incomplete++
		}
	}
	if incomplete > 0 {
		fmt.Fprintf(&b, "- %d KPI(s) are missing required inputs and contribute nothing to the benefit total.\n", incomplete)
	}
	b.WriteString("- Improvement targets above the high industry band should be backed by a pilot or reference customer.\n")
	b.WriteString("- Volume assumptions (calls, cases, customers) drive every formula linearly; validate them against last year's actuals.\n\n")

	b.WriteString("## Industry Benchmarks\n\n")
	for _, name := range kpis {
		r := catalog.Baselines(name)
		fmt.Fprintf(&b, "- **%s**: low %s, moderate %s, high %s", name, r.Low, r.Moderate, r.High)
		if avg, ok := catalog.IndustryAverages(name, platform); ok {
			fmt.Fprintf(&b, "; typical for a %s company: %s", sizeLabel, avg.Pick(size))
		}
		b.WriteString(".\n")
	}
	if len(kpis) == 0 {
		b.WriteString("Select KPIs to see their benchmark ranges.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Optimization Recommendations\n\n")
	b.WriteString("- Start from the moderate band for each KPI and treat the high band as an upside scenario.\n")
	b.WriteString("- Complete every required field so that each selected KPI contributes to the case.\n")
	b.WriteString(printer.Sprintf("- Current inputs yield an estimated $%.0f in annual benefits.\n\n", derived.Annual()))

	b.WriteString("## Implementation Insights\n\n")
	fmt.Fprintf(&b, "- Agree baseline measurements with the %s operations team before go-live.\n", req.Industry)
	b.WriteString("- Track each KPI monthly against its target and revisit assumptions at every stage gate.\n")
	return b.String()
}
