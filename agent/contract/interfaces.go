package contract

import "context"

// TextGenerator is the opaque upstream language model: prompt in, text out.
// Output may be malformed; callers own timeouts and tolerant parsing.
type TextGenerator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Tool is one external lookup callable from the reasoning loop.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, input string) (string, error)
}
