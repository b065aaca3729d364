package leadnode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	stagex "github.com/daisylabs/leadgpt/agent/stage"
)

// ClassifyStage decides the stage for this turn and commits it to the
// session. A malformed classification keeps the previous stage and the
// turn continues; only an unreachable generator fails the turn.
func ClassifyStage(ctx context.Context, in *GraphState, classifier *stagex.Classifier) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	next, err := classifier.Classify(ctx, in.Window, in.State.CurrentStageID, in.State.Summary)
	switch {
	case err == nil:
	case errors.Is(err, contractx.ErrStageClassification):
		log.Warn().Err(err).Str("stage", next).Msg("stage classification rejected, keeping previous stage")
	default:
		return nil, err
	}

	in.StageID = next
	in.State.CurrentStageID = next
	return in, nil
}
