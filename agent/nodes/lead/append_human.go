package leadnode

import (
	"fmt"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

// AppendHuman records the customer's message and snapshots the recent
// window every later node reads. The transcript gains the human turn even
// if the rest of the turn is abandoned; a retry simply appends again.
func AppendHuman(in *GraphState, historyWindow int) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	in.State.Transcript.AppendHuman(in.Text, in.Now)
	in.Window = in.State.Transcript.Window(historyWindow)
	return in, nil
}
