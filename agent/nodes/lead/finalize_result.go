package leadnode

import (
	"fmt"
	"strings"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	stagex "github.com/daisylabs/leadgpt/agent/stage"
)

// FinalizeResult assembles the TurnResult and stamps the session.
func FinalizeResult(in *GraphState) (contractx.TurnResult, error) {
	if in == nil || in.State == nil {
		return contractx.TurnResult{}, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	final := strings.TrimSpace(in.LoopResult.FinalResponse)
	if final == "" {
		return contractx.TurnResult{}, fmt.Errorf("%w: reasoning loop returned empty response", contractx.ErrValidation)
	}

	in.State.Touch(in.Now)
	return contractx.TurnResult{
		StageID:          in.StageID,
		StageDescription: stagex.Describe(in.StageID),
		Summary:          in.State.Summary,
		Steps:            in.LoopResult.Steps,
		FinalResponse:    final,
	}, nil
}
