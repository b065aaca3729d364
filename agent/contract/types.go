package contract

import "time"

// Speaker identifies which party produced a transcript turn.
type Speaker string

const (
	SpeakerHuman Speaker = "human"
	SpeakerAgent Speaker = "agent"
)

// Turn is one utterance in a conversation. Immutable once appended.
type Turn struct {
	Index   int       `json:"index"`
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// CustomerSummary is the compact record of facts the customer has stated.
// Fields only move unknown -> known; an update that omits a known field
// keeps the previous value.
type CustomerSummary struct {
	Name               string `json:"name,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	ProductsOfInterest string `json:"products_of_interest,omitempty"`
}

// IsZero reports whether nothing is known about the customer yet.
func (s CustomerSummary) IsZero() bool {
	return s.Name == "" && s.Email == "" && s.Phone == "" && s.ProductsOfInterest == ""
}

// Render formats the summary as the fixed 4-field block used in prompts,
// with "None" standing in for unknown fields.
func (s CustomerSummary) Render() string {
	return "Customer Name: " + fieldOrNone(s.Name) +
		"\nEmail: " + fieldOrNone(s.Email) +
		"\nPhone: " + fieldOrNone(s.Phone) +
		"\nProducts of Interest: " + fieldOrNone(s.ProductsOfInterest)
}

func fieldOrNone(v string) string {
	if v == "" {
		return "None"
	}
	return v
}

// Decision is one parsed reasoning-loop step.
type Decision struct {
	UsesTool      bool   `json:"uses_tool"`
	ToolName      string `json:"tool_name,omitempty"`
	ToolInput     string `json:"tool_input,omitempty"`
	ToolOutput    string `json:"tool_output,omitempty"`
	Thought       string `json:"thought,omitempty"`
	FinalResponse string `json:"final_response,omitempty"`
	Unparseable   bool   `json:"unparseable,omitempty"`
}

// TurnResult is the structured outcome of one full chat turn.
type TurnResult struct {
	StageID          string          `json:"stage_id"`
	StageDescription string          `json:"stage_description"`
	Summary          CustomerSummary `json:"customer_summary"`
	Steps            []Decision      `json:"steps"`
	FinalResponse    string          `json:"final_response"`
}

// Prompt is one generator invocation: a system instruction plus the
// user-visible payload.
type Prompt struct {
	System string
	User   string
}
