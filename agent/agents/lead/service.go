package lead

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	"github.com/daisylabs/leadgpt/agent/executor"
	memoryx "github.com/daisylabs/leadgpt/agent/memory"
	leadnode "github.com/daisylabs/leadgpt/agent/nodes/lead"
	promptx "github.com/daisylabs/leadgpt/agent/prompt"
	sessionx "github.com/daisylabs/leadgpt/agent/session"
	stagex "github.com/daisylabs/leadgpt/agent/stage"
	toolx "github.com/daisylabs/leadgpt/agent/tool"
)

var (
	ErrInvalidMessage = leadnode.ErrInvalidMessage
	ErrInvalidSession = sessionx.ErrInvalidSession
)

// Generators supplies one text generator per pipeline role. The three may
// share a single underlying model.
type Generators struct {
	Classifier contractx.TextGenerator
	Summarizer contractx.TextGenerator
	Agent      contractx.TextGenerator
}

func (g Generators) validate() error {
	if g.Classifier == nil || g.Summarizer == nil || g.Agent == nil {
		return errors.New("classifier, summarizer and agent generators are all required")
	}
	return nil
}

// Service runs one chat turn end to end: append human turn, classify the
// stage, drive the reasoning loop, record the reply, update the summary.
type Service struct {
	cfg      contractx.AgentConfig
	sessions *sessionx.Store

	classifier    *stagex.Classifier
	updater       *memoryx.Updater
	loop          *executor.Loop
	tools         *toolx.Registry
	agentTemplate string

	graphRunner compose.Runnable[leadnode.GraphInput, contractx.TurnResult]

	now func() time.Time
}

func New(
	cfg contractx.AgentConfig,
	sessions *sessionx.Store,
	gens Generators,
	tools *toolx.Registry,
) (*Service, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if tools == nil {
		return nil, errors.New("tool registry is required")
	}
	if err := gens.validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()
	classifierSystem := promptx.Render(prompts.StageAnalyzer, map[string]string{
		"conversation_stages": stagex.RenderTable(),
	})

	s := &Service{
		cfg:           cfg,
		sessions:      sessions,
		classifier:    stagex.NewClassifier(gens.Classifier, classifierSystem),
		updater:       memoryx.NewUpdater(gens.Summarizer, prompts.Summary),
		tools:         tools,
		agentTemplate: prompts.LeadAgent,
		now:           time.Now,
	}
	s.loop = executor.NewLoop(
		gens.Agent,
		tools,
		executor.NewParser(cfg.AssistantName),
		executor.Config{
			MaxIterations: cfg.MaxIterations,
			Budget:        cfg.Budget,
			Fallback:      cfg.Fallback,
		},
	)

	graphRunner, err := s.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// HandleMessage processes one customer message and returns the structured
// turn result. Turns on one session are serialized by the session lock;
// distinct sessions proceed concurrently.
func (s *Service) HandleMessage(ctx context.Context, sessionID, text string) (contractx.TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return contractx.TurnResult{}, ErrInvalidMessage
	}

	now := s.now()
	state, release, err := s.sessions.Acquire(sessionID, now)
	if err != nil {
		return contractx.TurnResult{}, err
	}
	defer release()

	return s.graphRunner.Invoke(ctx, leadnode.GraphInput{
		State: state,
		Text:  text,
		Now:   now,
	})
}
