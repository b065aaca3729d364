package stage

import (
	"fmt"
	"sort"
	"strings"
)

// The fixed five-step sales conversation script. The table is static;
// ids are ordered "1".."5".
const (
	Greeting               = "1"
	LeadQualification      = "2"
	NeedsExploration       = "3"
	SolutionRecommendation = "4"
	LeadCapture            = "5"
)

// InitialStage is where every conversation starts.
const InitialStage = Greeting

var descriptions = map[string]string{
	Greeting: "Greeting: Warmly greet the customer and introduce yourself " +
		"and your company.",
	LeadQualification: "Lead Qualification: Politely request the customer's name. " +
		"If they ask why, explain that it helps personalize the conversation " +
		"and ensure genuine interest. Avoid using tools if the customer " +
		"hasn't provided their name.",
	NeedsExploration: "Needs Exploration: Once the customer is identified as a potential lead, " +
		"ask open-ended questions to uncover their specific needs and pain points.",
	SolutionRecommendation: "Solution Recommendation: Based on the insights gathered in the " +
		"Needs Exploration stage, suggest products or services that align " +
		"with the customer's needs.",
	LeadCapture: "Lead Capture: If the customer expresses interest, politely request " +
		"their contact information to connect them with the sales team.",
}

// Describe returns the policy text for a stage id, or an "Unknown stage"
// sentinel for ids outside the table.
func Describe(id string) string {
	if d, ok := descriptions[id]; ok {
		return d
	}
	return "Unknown stage"
}

// IsValid reports whether id belongs to the stage table.
func IsValid(id string) bool {
	_, ok := descriptions[id]
	return ok
}

// RenderTable formats the full stage table for embedding in a prompt.
func RenderTable() string {
	ids := make([]string, 0, len(descriptions))
	for id := range descriptions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", id, descriptions[id])
	}
	return b.String()
}
