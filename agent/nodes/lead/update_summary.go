package leadnode

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	memoryx "github.com/daisylabs/leadgpt/agent/memory"
)

// UpdateSummary re-derives the customer summary from the recent human
// lines, now that this turn's human input is in the transcript. Summary
// hiccups never fail the turn; the reply already exists at this point and
// the previous summary simply stands.
func UpdateSummary(ctx context.Context, in *GraphState, updater *memoryx.Updater, summaryWindow int) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	lines := in.State.Transcript.HumanWindow(summaryWindow)
	next, err := updater.Update(ctx, in.State.Summary, lines)
	switch {
	case err == nil:
	case errors.Is(err, contractx.ErrSummaryParse):
		log.Warn().Err(err).Msg("summary update not parseable, keeping previous summary")
	case errors.Is(err, contractx.ErrGeneration):
		log.Error().Err(err).Msg("summary update generation failed, keeping previous summary")
	default:
		return nil, err
	}

	in.State.Summary = next
	return in, nil
}
