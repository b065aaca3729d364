package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/stage_analyzer.txt
	stageAnalyzerRaw string

	//go:embed template/summary.txt
	summaryRaw string

	//go:embed template/lead_agent.txt
	leadAgentRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	StageAnalyzer string
	Summary       string
	LeadAgent     string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time, trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		StageAnalyzer: strings.TrimSpace(stageAnalyzerRaw),
		Summary:       strings.TrimSpace(summaryRaw),
		LeadAgent:     strings.TrimSpace(leadAgentRaw),
	}
}

// Render substitutes {name} placeholders in a template. Unknown
// placeholders are left as-is so a template typo is visible in output
// rather than silently dropped.
func Render(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
