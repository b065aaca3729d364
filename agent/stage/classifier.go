package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	transcriptx "github.com/daisylabs/leadgpt/agent/transcript"
)

// Classifier decides which stage the conversation is in. The generator is
// asked for a bare stage id; whatever comes back is validated and clamped
// to the legal transition relation, so a misbehaving model can never move
// the conversation somewhere illegal.
type Classifier struct {
	gen          contractx.TextGenerator
	systemPrompt string
}

func NewClassifier(gen contractx.TextGenerator, systemPrompt string) *Classifier {
	return &Classifier{
		gen:          gen,
		systemPrompt: strings.TrimSpace(systemPrompt),
	}
}

// Classify returns the stage the conversation should be in next.
//
// An empty window always yields the initial stage without consulting the
// generator. A malformed reply returns ErrStageClassification together
// with the previous stage id so the caller can continue the turn.
func (c *Classifier) Classify(
	ctx context.Context,
	window []contractx.Turn,
	currentID string,
	summary contractx.CustomerSummary,
) (string, error) {
	if currentID == "" || !IsValid(currentID) {
		currentID = InitialStage
	}
	if len(window) == 0 {
		return InitialStage, nil
	}

	user := renderClassifierInput(window, currentID, summary)
	raw, err := c.gen.Generate(ctx, contractx.Prompt{System: c.systemPrompt, User: user})
	if err != nil {
		return currentID, fmt.Errorf("%w: stage classification: %v", contractx.ErrGeneration, err)
	}

	proposed := extractStageID(raw)
	if !IsValid(proposed) {
		return currentID, fmt.Errorf("%w: got %q", contractx.ErrStageClassification, strings.TrimSpace(raw))
	}

	next := clampTransition(currentID, proposed)
	if next != proposed {
		log.Debug().
			Str("current", currentID).
			Str("proposed", proposed).
			Str("clamped", next).
			Msg("stage transition clamped")
	}
	return next, nil
}

// clampTransition enforces the transition relation: a stage may stay put
// or advance by exactly one step, and stages 3 and 4 move freely between
// each other. Anything else retains the current stage.
func clampTransition(current, proposed string) string {
	if proposed == current {
		return current
	}
	cur := int(current[0] - '0')
	prop := int(proposed[0] - '0')
	if prop == cur+1 {
		return proposed
	}
	if (current == NeedsExploration && proposed == SolutionRecommendation) ||
		(current == SolutionRecommendation && proposed == NeedsExploration) {
		return proposed
	}
	return current
}

// extractStageID pulls a single stage digit out of the reply, tolerating
// surrounding whitespace, quotes, or trailing punctuation.
func extractStageID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.Trim(trimmed, "\"'`.")
	if IsValid(trimmed) {
		return trimmed
	}
	for _, r := range trimmed {
		if r >= '1' && r <= '5' {
			return string(r)
		}
		if !isSpace(r) {
			break
		}
	}
	return ""
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func renderClassifierInput(
	window []contractx.Turn,
	currentID string,
	summary contractx.CustomerSummary,
) string {
	var b strings.Builder
	b.WriteString("Conversation History:\n")
	b.WriteString(transcriptx.RenderWindow(window))
	b.WriteString("\n\nCurrent Conversation Stage:\n")
	fmt.Fprintf(&b, "%q\n", currentID+" : "+Describe(currentID))
	b.WriteString("\nCustomer Information:\n")
	fmt.Fprintf(&b, "[%s]", summary.Render())
	return b.String()
}
