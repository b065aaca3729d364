package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	"github.com/daisylabs/leadgpt/agent/stage"
	transcriptx "github.com/daisylabs/leadgpt/agent/transcript"
)

var ErrInvalidSession = errors.New("session id is empty")

// State is the mutable conversation state for one customer session:
// transcript, current stage, and customer summary. Lifetime is the
// conversation; nothing is persisted beyond process memory.
type State struct {
	SessionID      string
	CurrentStageID string
	Summary        contractx.CustomerSummary
	Transcript     *transcriptx.Transcript

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewState(sessionID string, now time.Time) *State {
	return &State{
		SessionID:      sessionID,
		CurrentStageID: stage.InitialStage,
		Transcript:     transcriptx.New(),
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
}

func (s *State) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// NewSessionID mints an id for callers that did not supply one.
func NewSessionID() string {
	return uuid.NewString()
}

// Store hands out exclusive access to per-session state. Turns within one
// session run strictly sequentially; distinct sessions are independent and
// may be processed concurrently.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	state *State
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Acquire locks the session (creating it on first use) and returns its
// state plus a release func. The caller must call release when the turn
// completes; holding the lock for the whole turn is what serializes turns
// on one session.
func (st *Store) Acquire(sessionID string, now time.Time) (*State, func(), error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil, ErrInvalidSession
	}

	st.mu.Lock()
	e, ok := st.sessions[sessionID]
	if !ok {
		e = &entry{state: NewState(sessionID, now)}
		st.sessions[sessionID] = e
	}
	st.mu.Unlock()

	e.mu.Lock()
	return e.state, e.mu.Unlock, nil
}

// Delete discards a session. A turn holding the session lock finishes
// against the old state; the next Acquire starts fresh.
func (st *Store) Delete(sessionID string) {
	st.mu.Lock()
	delete(st.sessions, strings.TrimSpace(sessionID))
	st.mu.Unlock()
}

// Len reports how many sessions are live.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
