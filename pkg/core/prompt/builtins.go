package prompt

// PromptIDs are the prompts the research fetchers and the assistant resolve.
var PromptIDs = struct {
	Insights           string
	Benchmarks         string
	AssumptionAnalysis string
	Navigation         string
}{
	Insights:           "research.insights",
	Benchmarks:         "research.benchmarks",
	AssumptionAnalysis: "research.assumption_analysis",
	Navigation:         "assistant.navigation",
}

func builtins() []*PromptTemplate {
	return []*PromptTemplate{
		{
			ID:          PromptIDs.Insights,
			Name:        "Industry insights",
			Category:    "research",
			Description: "Use cases, challenges and opportunities for an industry and platform",
			SystemPrompt: "You are a business analyst who prepares value cases for enterprise software. " +
				"Answer with a single JSON object and no commentary.",
			UserPromptTmpl: `Summarize the business case landscape for a {{.Industry}} organization adopting {{.Platform}}.

Return JSON with exactly these keys:
- "useCases": up to 3 objects {"title","description","impact","priority" (high|medium|low),"source"}
- "challenges": up to 3 objects {"title","description","severity" (critical|high|medium|low),"frequency","source"}
- "opportunities": up to 3 objects {"title","description","potential","timeframe","source"}
- "marketData": {"marketSize","growthRate","keyTrends" (array of strings),"competitiveLandscape"}
- "sources": array of strings naming the reports you relied on`,
			JSONResponse: true,
			Variables: []PromptVariable{
				{Name: "Industry", Type: "string", Required: true},
				{Name: "Platform", Type: "string", Required: true},
			},
			Version: "1",
		},
		{
			ID:          PromptIDs.Benchmarks,
			Name:        "KPI benchmark",
			Category:    "research",
			Description: "Industry averages for one KPI by company size",
			SystemPrompt: "You are an expert business analyst with access to current industry data. " +
				"Answer with a single JSON object and no commentary.",
			UserPromptTmpl: `Provide industry benchmarks for this KPI.

KPI: {{.KPIName}}
Industry: {{.Industry}}
Platform: {{.Platform}}
Company size context: {{.CompanySize}}

Company sizes: small (<500 employees), medium (500-5000 employees), large (>5000 employees).

Return JSON:
{"companySize":{"small":"...","medium":"...","large":"..."},"sources":["..."],"lastUpdated":"YYYY-MM-DD","confidence":"high|medium|low"}
Each size value is a short numerical range or percentage.`,
			JSONResponse: true,
			Variables: []PromptVariable{
				{Name: "KPIName", Type: "string", Required: true},
				{Name: "Industry", Type: "string", Required: true},
				{Name: "Platform", Type: "string", Required: true},
				{Name: "CompanySize", Type: "string", Default: "All sizes"},
			},
			Version: "1",
		},
		{
			ID:       PromptIDs.AssumptionAnalysis,
			Name:     "Assumption analysis",
			Category: "research",
			SystemPrompt: "You are a business analyst specializing in ROI analysis and KPI optimization. " +
				"Give specific, practical recommendations grounded in industry experience.",
			UserPromptTmpl: `Analyze the following business assumptions for a {{.CompanySize}} company in the {{.Industry}} industry implementing {{.Platform}} solutions.

KPI assumptions:
{{.Assumptions}}

Structure the answer with these sections:
1. **Assumption Validation**: are these assumptions realistic for this industry and company size?
2. **Risk Assessment**: potential risks or challenges with these assumptions
3. **Industry Benchmarks**: how they compare with typical industry performance
4. **Optimization Recommendations**: specific suggestions to improve the assumptions
5. **Implementation Insights**: key factors for achieving these targets`,
			Variables: []PromptVariable{
				{Name: "CompanySize", Type: "string", Default: "medium-sized"},
				{Name: "Industry", Type: "string", Required: true},
				{Name: "Platform", Type: "string", Required: true},
				{Name: "Assumptions", Type: "string", Required: true},
			},
			Version: "1",
		},
		{
			ID:          PromptIDs.Navigation,
			Name:        "Wizard navigation",
			Category:    "assistant",
			Description: "Maps a free-text request onto a wizard stage",
			SystemPrompt: `You are a navigation assistant for a business value case wizard.
Your job is to understand the user's intent and determine if they want to move to a specific stage.

Respond with a JSON object:
{
  "intent": "navigate" | "query" | "chat",
  "target_stage": "<stage id if intent is navigate or query>",
  "stage_label": "<human readable label>",
  "confidence": <0.0-1.0>,
  "explanation": "<brief explanation in the same language as the user's message>"
}

Rules:
1. If the user clearly wants to go somewhere, set intent="navigate" and provide target_stage
2. If the user asks about data that lives in a specific stage, set intent="query" and name that stage
3. Otherwise set intent="chat"
4. Always respond in the same language as the user's message
5. Return ONLY valid JSON, no markdown or extra text`,
			UserPromptTmpl: `Available stages:
{{.Stages}}
User's current stage: {{.CurrentStage}}

User message: {{.Message}}`,
			JSONResponse:   true,
			Variables: []PromptVariable{
				{Name: "Message", Type: "string", Required: true},
				{Name: "Stages", Type: "string", Required: true},
				{Name: "CurrentStage", Type: "string", Default: "setup"},
			},
			Version: "1",
		},
	}
}
