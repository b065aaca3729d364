package lead

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	leadnode "github.com/daisylabs/leadgpt/agent/nodes/lead"
)

func (s *Service) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[leadnode.GraphInput, contractx.TurnResult], error) {
	graph := compose.NewGraph[leadnode.GraphInput, contractx.TurnResult]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in leadnode.GraphInput) (*leadnode.GraphState, error) {
			return leadnode.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("append_human",
		compose.InvokableLambda(func(ctx context.Context, in *leadnode.GraphState) (*leadnode.GraphState, error) {
			return leadnode.AppendHuman(in, s.cfg.HistoryWindow)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_human: %w", err)
	}

	if err := graph.AddLambdaNode("classify_stage",
		compose.InvokableLambda(func(ctx context.Context, in *leadnode.GraphState) (*leadnode.GraphState, error) {
			return leadnode.ClassifyStage(ctx, in, s.classifier)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_stage: %w", err)
	}

	if err := graph.AddLambdaNode("run_agent",
		compose.InvokableLambda(func(ctx context.Context, in *leadnode.GraphState) (*leadnode.GraphState, error) {
			return leadnode.RunAgent(ctx, in, s.cfg, s.agentTemplate, s.tools, s.loop)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_agent: %w", err)
	}

	if err := graph.AddLambdaNode("update_summary",
		compose.InvokableLambda(func(ctx context.Context, in *leadnode.GraphState) (*leadnode.GraphState, error) {
			return leadnode.UpdateSummary(ctx, in, s.updater, s.cfg.SummaryWindow)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node update_summary: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_result",
		compose.InvokableLambda(func(ctx context.Context, in *leadnode.GraphState) (contractx.TurnResult, error) {
			return leadnode.FinalizeResult(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_result: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "append_human"},
		{"append_human", "classify_stage"},
		{"classify_stage", "run_agent"},
		{"run_agent", "update_summary"},
		{"update_summary", "finalize_result"},
		{"finalize_result", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("lead.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
