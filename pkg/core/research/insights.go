package research

import (
	"context"
	"fmt"

	"valuecase/pkg/core/agent"
	"valuecase/pkg/core/prompt"
	"valuecase/pkg/core/utils"
)

// Insights returns industry research for the request. Provider failures are
// logged and answered with StaticInsights; only a request missing industry
// or platform is an error.
func (s *Service) Insights(ctx context.Context, req InsightRequest) (Insights, error) {
	if blank(req.Industry) || blank(req.Platform) {
		return Insights{}, fmt.Errorf("%w: industry and platform are required", ErrInvalidRequest)
	}
	if s.gen == nil {
		return StaticInsights(req), nil
	}

	out, err := s.fetchInsights(ctx, req)
	if err != nil {
		fmt.Printf("[WARNING] Insight fetch for %s/%s failed, using static insights: %v\n", req.Industry, req.Platform, err)
		return StaticInsights(req), nil
	}
	return out, nil
}

func (s *Service) fetchInsights(ctx context.Context, req InsightRequest) (Insights, error) {
	vars := prompt.NewContext().Set("Industry", req.Industry).Set("Platform", req.Platform)
	system, user, options, err := s.render(prompt.PromptIDs.Insights, vars)
	if err != nil {
		return Insights{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.gen.ExecutePrompt(ctx, agent.Insights, user, system, options)
	if err != nil {
		return Insights{}, err
	}

	var out Insights
	if _, err := utils.DecodeLLMJSON(raw, &out); err != nil {
		return Insights{}, err
	}
	if len(out.UseCases)+len(out.Challenges)+len(out.Opportunities) == 0 {
		return Insights{}, fmt.Errorf("model returned no insights")
	}
	out.UseCases = truncate(out.UseCases, 3)
	out.Challenges = truncate(out.Challenges, 3)
	out.Opportunities = truncate(out.Opportunities, 3)
	if out.Sources == nil {
		out.Sources = []string{}
	}
	out.Fallback = false
	return out, nil
}

// StaticInsights is the labeled placeholder used when no provider answers.
func StaticInsights(req InsightRequest) Insights {
	return Insights{
		UseCases: []UseCase{
			{
				Title:       "Process Automation",
				Description: fmt.Sprintf("Automate routine %s processes to reduce manual effort and improve accuracy", req.Industry),
				Impact:      "25-40% reduction in processing time",
				Priority:    "high",
				Source:      FallbackSource,
			},
			{
				Title:       "Customer Experience Enhancement",
				Description: fmt.Sprintf("Improve customer interactions and service delivery through %s", req.Platform),
				Impact:      "15-30% improvement in customer satisfaction",
				Priority:    "high",
				Source:      FallbackSource,
			},
			{
				Title:       "Data Analytics & Insights",
				Description: "Use operational data for better decisions and faster course correction",
				Impact:      "20-35% improvement in decision accuracy",
				Priority:    "medium",
				Source:      FallbackSource,
			},
		},
		Challenges: []Challenge{
			{Title: "Implementation Complexity", Description: "System integration and change management across teams", Severity: "high", Frequency: "80% of implementations", Source: FallbackSource},
			{Title: "User Adoption", Description: "Getting staff to adopt and fully use the new tools", Severity: "medium", Frequency: "65% of implementations", Source: FallbackSource},
			{Title: "Cost Management", Description: "Keeping implementation and running costs within budget", Severity: "medium", Frequency: "70% of implementations", Source: FallbackSource},
		},
		Opportunities: []Opportunity{
			{Title: "Competitive Advantage", Description: "Gain ground through better operational efficiency", Potential: "15-25% market share improvement", Timeframe: "12-18 months", Source: FallbackSource},
			{Title: "Cost Optimization", Description: "Lower operating costs through automation", Potential: "20-35% cost reduction", Timeframe: "6-12 months", Source: FallbackSource},
			{Title: "Innovation Enablement", Description: "Open up new service offerings and business models", Potential: "10-20% revenue growth", Timeframe: "18-24 months", Source: FallbackSource},
		},
		MarketData: &MarketData{
			MarketSize: "$50-100 billion globally",
			GrowthRate: "12-18% annually",
			KeyTrends: []string{
				"Increased automation adoption",
				"Focus on customer experience",
				"Data-driven decision making",
				"Cloud-first strategies",
			},
			CompetitiveLandscape: "Highly competitive with established players and emerging solutions",
		},
		Sources:  []string{FallbackSource},
		Fallback: true,
	}
}
