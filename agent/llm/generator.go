package llm

import (
	"context"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	openrouterx "github.com/daisylabs/leadgpt/pkg/openrouter"
)

// Generator implements contract.TextGenerator over a compiled eino
// prompt -> model graph. One Generator per role; the graph is compiled
// once at construction and is safe for concurrent invocation.
type Generator struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.TextGenerator = (*Generator)(nil)

func NewGenerator(ctx context.Context, builder openrouterx.LLMBuilder, graphName string) (*Generator, error) {
	chatModel, err := builder.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create chat model: %v", contractx.ErrGeneration, err)
	}

	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add generator prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add generator model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add generator edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add generator edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add generator edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile generator graph: %w", err)
	}
	return &Generator{runner: runner}, nil
}

func (g *Generator) Generate(ctx context.Context, p contractx.Prompt) (string, error) {
	msg, err := g.runner.Invoke(ctx, map[string]any{
		"system": p.System,
		"input":  p.User,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrGeneration, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", contractx.ErrGeneration)
	}
	return msg.Content, nil
}
