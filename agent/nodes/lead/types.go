package leadnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	"github.com/daisylabs/leadgpt/agent/executor"
	sessionx "github.com/daisylabs/leadgpt/agent/session"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrNilSession     = errors.New("session state is nil")
)

// GraphInput enters the turn graph. The service acquires the session lock
// before invoking the graph and releases it after, so nodes may mutate
// State freely.
type GraphInput struct {
	State *sessionx.State
	Text  string
	Now   time.Time
}

// GraphState flows between the turn nodes.
type GraphState struct {
	State *sessionx.State
	Text  string
	Now   time.Time

	// Window is the transcript snapshot taken after the human turn was
	// appended; classifier and agent prompt both read it.
	Window  []contractx.Turn
	StageID string

	LoopResult executor.Result
}

// ValidateRequest checks the inbound turn and seeds the graph state.
func ValidateRequest(in GraphInput) (*GraphState, error) {
	if in.State == nil {
		return nil, ErrNilSession
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &GraphState{
		State: in.State,
		Text:  text,
		Now:   now.UTC(),
	}, nil
}
