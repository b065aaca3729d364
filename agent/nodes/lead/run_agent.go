package leadnode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	"github.com/daisylabs/leadgpt/agent/executor"
	promptx "github.com/daisylabs/leadgpt/agent/prompt"
	stagex "github.com/daisylabs/leadgpt/agent/stage"
	toolx "github.com/daisylabs/leadgpt/agent/tool"
	transcriptx "github.com/daisylabs/leadgpt/agent/transcript"
)

// RunAgent drives the reasoning loop for this turn and appends the final
// reply to the transcript as the agent turn. The loop sees the summary as
// it stood before this turn; the updater runs afterwards.
func RunAgent(
	ctx context.Context,
	in *GraphState,
	cfg contractx.AgentConfig,
	agentTemplate string,
	tools *toolx.Registry,
	loop *executor.Loop,
) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	req := executor.Request{
		Prompt: contractx.Prompt{
			System: renderAgentSystem(cfg, agentTemplate, tools, in.StageID),
			User:   renderAgentUser(in),
		},
	}

	result, err := loop.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	in.LoopResult = result
	in.State.Transcript.AppendAgent(result.FinalResponse, in.Now)
	return in, nil
}

func renderAgentSystem(
	cfg contractx.AgentConfig,
	template string,
	tools *toolx.Registry,
	stageID string,
) string {
	return promptx.Render(template, map[string]string{
		"assistant_name":       cfg.AssistantName,
		"assistant_role":       cfg.AssistantRole,
		"company_name":         cfg.CompanyName,
		"company_business":     cfg.CompanyBusiness,
		"company_values":       cfg.CompanyValues,
		"product_catalog":      cfg.ProductCatalog,
		"conversation_purpose": cfg.ConversationPurpose,
		"conversation_type":    cfg.ConversationType,
		"language":             cfg.Language,
		"current_stage":        stagex.Describe(stageID),
		"tools":                tools.Describe(),
		"tool_names":           strings.Join(tools.Names(), ", "),
	})
}

func renderAgentUser(in *GraphState) string {
	var b strings.Builder
	b.WriteString("Previous conversation history:\n")
	b.WriteString(transcriptx.RenderWindow(in.Window))
	b.WriteString("\n\nCustomer Information Summary:\n")
	fmt.Fprintf(&b, "[%s]\n", in.State.Summary.Render())
	b.WriteString("\nBegin the conversation:\n")
	fmt.Fprintf(&b, "Question: %s\n", in.Text)
	b.WriteString("Thought: ")
	return b.String()
}
