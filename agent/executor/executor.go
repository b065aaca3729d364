package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	toolx "github.com/daisylabs/leadgpt/agent/tool"
)

const (
	defaultMaxIterations = 3
	defaultBudget        = 60 * time.Second

	// DefaultFallback is spoken when the loop runs out of budget without
	// reaching a final answer. Designed degradation, not an error.
	DefaultFallback = "I'm sorry, I couldn't find everything you asked for just now. " +
		"Could you rephrase, or would you like me to connect you with our sales team?"
)

// Config bounds one reasoning-loop run.
type Config struct {
	MaxIterations int
	Budget        time.Duration
	Fallback      string
}

func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultMaxIterations
	}
	if c.Budget <= 0 {
		c.Budget = defaultBudget
	}
	if strings.TrimSpace(c.Fallback) == "" {
		c.Fallback = DefaultFallback
	}
	return c
}

// Loop is the bounded think/act/observe executor. Each iteration asks the
// generator for a decision; a tool request feeds its observation back into
// the scratchpad and the loop continues, a plain reply terminates it.
// The generator is never called more than MaxIterations times.
type Loop struct {
	gen    contractx.TextGenerator
	tools  *toolx.Registry
	parser *Parser
	cfg    Config
}

// Request carries the fully rendered turn prompt. The user part must end
// where the scratchpad begins; the loop appends prior step traces there on
// every iteration.
type Request struct {
	Prompt contractx.Prompt
}

// Result is the loop outcome. FinalResponse is always non-empty.
type Result struct {
	Steps           []contractx.Decision
	FinalResponse   string
	BudgetExhausted bool
}

func NewLoop(gen contractx.TextGenerator, tools *toolx.Registry, parser *Parser, cfg Config) *Loop {
	return &Loop{
		gen:    gen,
		tools:  tools,
		parser: parser,
		cfg:    cfg.withDefaults(),
	}
}

// Run executes the loop. It returns an error only when the generator
// itself is unreachable before any reply was produced; malformed output,
// unknown tools, and tool failures all degrade inside the loop.
func (l *Loop) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	var (
		steps      []contractx.Decision
		scratchpad strings.Builder
	)

	for i := 0; i < l.cfg.MaxIterations; i++ {
		if time.Since(started) >= l.cfg.Budget {
			break
		}

		prompt := contractx.Prompt{
			System: req.Prompt.System,
			User:   req.Prompt.User + scratchpad.String(),
		}
		raw, err := l.gen.Generate(ctx, prompt)
		if err != nil {
			return Result{}, fmt.Errorf("%w: reasoning step %d: %v", contractx.ErrGeneration, i+1, err)
		}

		dec := l.parser.Parse(raw)
		if !dec.UsesTool {
			final := strings.TrimSpace(dec.FinalResponse)
			if final == "" {
				final = strings.TrimSpace(raw)
			}
			if final == "" {
				final = l.cfg.Fallback
			}
			dec.FinalResponse = final
			steps = append(steps, dec)
			return Result{Steps: steps, FinalResponse: final}, nil
		}

		observation := l.invokeTool(ctx, dec.ToolName, dec.ToolInput)
		dec.ToolOutput = observation
		steps = append(steps, dec)

		if dec.Thought != "" {
			fmt.Fprintf(&scratchpad, "%s\n", dec.Thought)
		}
		fmt.Fprintf(&scratchpad, "Action: %s\nAction Input: %s\nObservation: %s\nThought: ",
			dec.ToolName, dec.ToolInput, observation)
	}

	log.Warn().
		Int("steps", len(steps)).
		Dur("elapsed", time.Since(started)).
		Msg("reasoning loop budget exhausted, falling back")

	return Result{
		Steps:           steps,
		FinalResponse:   l.cfg.Fallback,
		BudgetExhausted: true,
	}, nil
}

// invokeTool resolves and runs one tool call. Failures never escape: a
// missing tool or a tool error becomes an observation string the model
// sees on the next iteration.
func (l *Loop) invokeTool(ctx context.Context, name, input string) string {
	t, err := l.tools.Lookup(name)
	if err != nil {
		log.Warn().Str("tool", name).Msg("model requested unknown tool")
		return fmt.Sprintf("Tool %q is not available. Available tools: %s.",
			name, strings.Join(l.tools.Names(), ", "))
	}

	out, err := t.Invoke(ctx, input)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("tool invocation failed")
		return fmt.Sprintf("Tool %q failed: %v. Answer without it or try another tool.", name, err)
	}
	return out
}
