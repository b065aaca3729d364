package transcript

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

// Transcript is the ordered, append-only turn log for one session.
// Turns are never reordered or deleted. Not safe for concurrent use;
// the session store serializes access per session.
type Transcript struct {
	turns []contractx.Turn
}

func New() *Transcript {
	return &Transcript{}
}

// AppendHuman records a customer utterance and returns the stored turn.
func (t *Transcript) AppendHuman(text string, now time.Time) contractx.Turn {
	return t.append(contractx.SpeakerHuman, text, now)
}

// AppendAgent records an assistant utterance and returns the stored turn.
func (t *Transcript) AppendAgent(text string, now time.Time) contractx.Turn {
	return t.append(contractx.SpeakerAgent, text, now)
}

func (t *Transcript) append(speaker contractx.Speaker, text string, now time.Time) contractx.Turn {
	turn := contractx.Turn{
		Index:   len(t.turns),
		Speaker: speaker,
		Text:    text,
		At:      now.UTC(),
	}
	t.turns = append(t.turns, turn)
	return turn
}

func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.turns)
}

func (t *Transcript) IsEmpty() bool {
	return t.Len() == 0
}

// Last returns the most recent turn.
func (t *Transcript) Last() (contractx.Turn, bool) {
	if t.Len() == 0 {
		return contractx.Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Window returns a copy of the last n turns (all turns when n <= 0 or
// n exceeds the transcript length).
func (t *Transcript) Window(n int) []contractx.Turn {
	if t == nil {
		return nil
	}
	start := 0
	if n > 0 && len(t.turns) > n {
		start = len(t.turns) - n
	}
	out := make([]contractx.Turn, len(t.turns)-start)
	copy(out, t.turns[start:])
	return out
}

// HumanWindow returns the text of the last n human turns, oldest first.
func (t *Transcript) HumanWindow(n int) []string {
	if t == nil || n <= 0 {
		return nil
	}
	var lines []string
	for i := len(t.turns) - 1; i >= 0 && len(lines) < n; i-- {
		if t.turns[i].Speaker == contractx.SpeakerHuman {
			lines = append(lines, t.turns[i].Text)
		}
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

// RenderWindow formats the last n turns as "speaker: text" lines for
// inclusion in a prompt.
func RenderWindow(turns []contractx.Turn) string {
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", turn.Speaker, turn.Text)
	}
	return b.String()
}
