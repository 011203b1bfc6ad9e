// Package research fetches AI-generated context for a value case: industry
// insights, KPI benchmarks and a review of the entered assumptions. Every
// fetch has a static fallback so a failing provider never blocks the wizard.
package research

import (
	"errors"

	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/catalog"
)

// ErrInvalidRequest is returned when a required request field is missing.
var ErrInvalidRequest = errors.New("invalid research request")

// Confidence levels reported with a benchmark.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// FallbackSource labels content that did not come from a provider.
const FallbackSource = "Static placeholder: AI research temporarily unavailable"

type InsightRequest struct {
	Industry string `json:"industry"`
	Platform string `json:"platform"`
}

type UseCase struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Priority    string `json:"priority"`
	Source      string `json:"source,omitempty"`
}

type Challenge struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Frequency   string `json:"frequency"`
	Source      string `json:"source,omitempty"`
}

type Opportunity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Potential   string `json:"potential"`
	Timeframe   string `json:"timeframe"`
	Source      string `json:"source,omitempty"`
}

type MarketData struct {
	MarketSize           string   `json:"marketSize"`
	GrowthRate           string   `json:"growthRate"`
	KeyTrends            []string `json:"keyTrends"`
	CompetitiveLandscape string   `json:"competitiveLandscape"`
}

// Insights is the industry research shown on the objectives stage.
type Insights struct {
	UseCases      []UseCase     `json:"useCases"`
	Challenges    []Challenge   `json:"challenges"`
	Opportunities []Opportunity `json:"opportunities"`
	MarketData    *MarketData   `json:"marketData,omitempty"`
	Sources       []string      `json:"sources"`
	Fallback      bool          `json:"fallback"`
}

type BenchmarkRequest struct {
	KPIName     string `json:"kpiName"`
	Industry    string `json:"industry"`
	Platform    string `json:"platform"`
	CompanySize string `json:"companySize,omitempty"`
}

// Benchmark is a KPI's industry average by company size. Baseline always
// carries the static improvement bands for the KPI.
type Benchmark struct {
	KPIName     string             `json:"kpiName"`
	Industry    string             `json:"industry"`
	Platform    string             `json:"platform"`
	CompanySize catalog.SizeRanges `json:"companySize"`
	Baseline    catalog.Range      `json:"baseline"`
	Sources     []string           `json:"sources"`
	LastUpdated string             `json:"lastUpdated"`
	Confidence  string             `json:"confidence"`
	Fallback    bool               `json:"fallback"`
}

type AnalysisRequest struct {
	KPIAssumptions    []assumption.KPIAssumption `json:"kpiAssumptions"`
	Industry          string                     `json:"industry"`
	PlatformSelection string                     `json:"platformSelection"`
	CompanySize       string                     `json:"companySize,omitempty"`
}

// Analysis is the complete text of an assumption review.
type Analysis struct {
	Text     string `json:"analysis"`
	Fallback bool   `json:"fallback"`
	// Partial is set when a provider stream broke off and the static
	// analysis was appended to what had arrived.
	Partial bool `json:"partial,omitempty"`
}
