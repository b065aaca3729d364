package lead

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
	sessionx "github.com/daisylabs/leadgpt/agent/session"
	toolx "github.com/daisylabs/leadgpt/agent/tool"
)

type scriptedGenerator struct {
	replies []string
	err     error
	calls   int
	prompts []contractx.Prompt
}

func (s *scriptedGenerator) Generate(ctx context.Context, p contractx.Prompt) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, p)
	if s.err != nil {
		return "", s.err
	}
	if s.calls > len(s.replies) {
		return "", errors.New("script exhausted")
	}
	return s.replies[s.calls-1], nil
}

type stubTool struct {
	name   string
	output string
	inputs []string
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub tool" }

func (t *stubTool) Invoke(ctx context.Context, input string) (string, error) {
	t.inputs = append(t.inputs, input)
	return t.output, nil
}

func testConfig() contractx.AgentConfig {
	return contractx.AgentConfig{
		AssistantName:       "DaisyBot",
		AssistantRole:       "Sales Assistant",
		CompanyName:         "DaisyShop",
		CompanyBusiness:     "Clothing retail",
		ProductCatalog:      "Clothing and accessories",
		CompanyValues:       "Serve customers well.",
		ConversationPurpose: "Help customers find products",
		ConversationType:    "Chat",
		Language:            "English",
		HistoryWindow:       6,
		SummaryWindow:       4,
		MaxIterations:       3,
		Budget:              time.Minute,
		Fallback:            "Sorry, let me get back to you on that.",
	}
}

func newTestService(t *testing.T, gens Generators, tools *toolx.Registry) *Service {
	t.Helper()
	if tools == nil {
		tools = toolx.NewRegistry()
	}
	svc, err := New(testConfig(), sessionx.NewStore(), gens, tools)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func TestHandleMessageFirstContact(t *testing.T) {
	t.Parallel()

	classifier := &scriptedGenerator{replies: []string{"1"}}
	summarizer := &scriptedGenerator{replies: []string{"Customer name: None\nEmail: None\nPhone: None\nProducts of interest: None"}}
	agent := &scriptedGenerator{replies: []string{
		"Thought: Do I need to use a tool? No\nDaisyBot: Hi, welcome to DaisyShop! How can I help you today?",
	}}
	svc := newTestService(t, Generators{Classifier: classifier, Summarizer: summarizer, Agent: agent}, nil)

	res, err := svc.HandleMessage(context.Background(), "s-1", "hi")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if res.StageID != "1" {
		t.Fatalf("StageID = %q, want 1", res.StageID)
	}
	if res.FinalResponse != "Hi, welcome to DaisyShop! How can I help you today?" {
		t.Fatalf("FinalResponse = %q", res.FinalResponse)
	}
	if !res.Summary.IsZero() {
		t.Fatalf("Summary = %+v, want empty", res.Summary)
	}
	if res.StageDescription == "" || res.StageDescription == "Unknown stage" {
		t.Fatalf("StageDescription = %q", res.StageDescription)
	}

	state, release, err := svc.sessions.Acquire("s-1", time.Now())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer release()
	if state.Transcript.Len() != 2 {
		t.Fatalf("transcript has %d turns, want human + one agent turn", state.Transcript.Len())
	}
	last, _ := state.Transcript.Last()
	if last.Speaker != contractx.SpeakerAgent || last.Text != res.FinalResponse {
		t.Fatalf("last turn = %+v", last)
	}
}

func TestHandleMessageToolTurn(t *testing.T) {
	t.Parallel()

	search := &stubTool{name: "product_search_tool", output: "White cotton shirt, 350000 VND"}
	classifier := &scriptedGenerator{replies: []string{"1"}}
	summarizer := &scriptedGenerator{replies: []string{"Products of interest: white shirt"}}
	agent := &scriptedGenerator{replies: []string{
		"Thought: check the catalog\nAction: product_search_tool\nAction Input: white shirt",
		"Thought: Do I need to use a tool? No\nDaisyBot: We have a white cotton shirt for 350000 VND. Interested?",
	}}
	svc := newTestService(t, Generators{Classifier: classifier, Summarizer: summarizer, Agent: agent},
		toolx.NewRegistry(search))

	res, err := svc.HandleMessage(context.Background(), "s-1", "do you have white shirts?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(res.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(res.Steps))
	}
	if !res.Steps[0].UsesTool || res.Steps[0].ToolOutput != search.output {
		t.Fatalf("first step = %+v", res.Steps[0])
	}
	if len(search.inputs) != 1 || search.inputs[0] != "white shirt" {
		t.Fatalf("tool inputs = %#v", search.inputs)
	}
	if res.Summary.ProductsOfInterest != "white shirt" {
		t.Fatalf("Summary = %+v", res.Summary)
	}
	if !strings.Contains(agent.prompts[1].User, "Observation: White cotton shirt, 350000 VND") {
		t.Fatal("second agent prompt missing the tool observation")
	}
}

func TestHandleMessageStageAdvancesAcrossTurns(t *testing.T) {
	t.Parallel()

	classifier := &scriptedGenerator{replies: []string{"1", "2"}}
	summarizer := &scriptedGenerator{replies: []string{
		"Customer name: None",
		"Customer name: Anna",
	}}
	agent := &scriptedGenerator{replies: []string{
		"Thought: Do I need to use a tool? No\nDaisyBot: Hello! What is your name?",
		"Thought: Do I need to use a tool? No\nDaisyBot: Nice to meet you, Anna!",
	}}
	svc := newTestService(t, Generators{Classifier: classifier, Summarizer: summarizer, Agent: agent}, nil)

	if _, err := svc.HandleMessage(context.Background(), "s-1", "hi"); err != nil {
		t.Fatalf("turn 1 error = %v", err)
	}
	res, err := svc.HandleMessage(context.Background(), "s-1", "my name is Anna")
	if err != nil {
		t.Fatalf("turn 2 error = %v", err)
	}
	if res.StageID != "2" {
		t.Fatalf("StageID = %q, want 2", res.StageID)
	}
	if res.Summary.Name != "Anna" {
		t.Fatalf("Summary = %+v", res.Summary)
	}
	if !strings.Contains(agent.prompts[1].User, "human: hi") {
		t.Fatal("second turn prompt missing conversation history")
	}
}

func TestHandleMessageLoopExhaustionFallsBack(t *testing.T) {
	t.Parallel()

	search := &stubTool{name: "product_search_tool", output: "I don't know."}
	toolReply := "Thought: keep searching\nAction: product_search_tool\nAction Input: anything"
	classifier := &scriptedGenerator{replies: []string{"3"}}
	summarizer := &scriptedGenerator{replies: []string{"Customer name: None"}}
	agent := &scriptedGenerator{replies: []string{toolReply, toolReply, toolReply}}
	svc := newTestService(t, Generators{Classifier: classifier, Summarizer: summarizer, Agent: agent},
		toolx.NewRegistry(search))

	res, err := svc.HandleMessage(context.Background(), "s-1", "find me a unicorn costume")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if res.FinalResponse != testConfig().Fallback {
		t.Fatalf("FinalResponse = %q, want configured fallback", res.FinalResponse)
	}
	if agent.calls != 3 {
		t.Fatalf("agent generator called %d times, want MaxIterations", agent.calls)
	}
}

func TestHandleMessageMalformedClassificationKeepsStage(t *testing.T) {
	t.Parallel()

	classifier := &scriptedGenerator{replies: []string{"no idea, honestly"}}
	summarizer := &scriptedGenerator{replies: []string{"Customer name: None"}}
	agent := &scriptedGenerator{replies: []string{
		"Thought: Do I need to use a tool? No\nDaisyBot: Happy to help!",
	}}
	svc := newTestService(t, Generators{Classifier: classifier, Summarizer: summarizer, Agent: agent}, nil)

	res, err := svc.HandleMessage(context.Background(), "s-1", "hello")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if res.StageID != "1" {
		t.Fatalf("StageID = %q, want previous stage 1", res.StageID)
	}
}

func TestHandleMessageSummaryFailureDoesNotFailTurn(t *testing.T) {
	t.Parallel()

	classifier := &scriptedGenerator{replies: []string{"1"}}
	summarizer := &scriptedGenerator{err: errors.New("model offline")}
	agent := &scriptedGenerator{replies: []string{
		"Thought: Do I need to use a tool? No\nDaisyBot: Hello there!",
	}}
	svc := newTestService(t, Generators{Classifier: classifier, Summarizer: summarizer, Agent: agent}, nil)

	res, err := svc.HandleMessage(context.Background(), "s-1", "hi")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if res.FinalResponse != "Hello there!" {
		t.Fatalf("FinalResponse = %q", res.FinalResponse)
	}
	if !res.Summary.IsZero() {
		t.Fatalf("Summary = %+v, want unchanged empty summary", res.Summary)
	}
}

func TestHandleMessageAgentFailureFailsTurn(t *testing.T) {
	t.Parallel()

	classifier := &scriptedGenerator{replies: []string{"1"}}
	summarizer := &scriptedGenerator{replies: []string{"Customer name: None"}}
	agent := &scriptedGenerator{err: errors.New("upstream 502")}
	svc := newTestService(t, Generators{Classifier: classifier, Summarizer: summarizer, Agent: agent}, nil)

	if _, err := svc.HandleMessage(context.Background(), "s-1", "hi"); !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestHandleMessageRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{}
	svc := newTestService(t, Generators{Classifier: gen, Summarizer: gen, Agent: gen}, nil)

	if _, err := svc.HandleMessage(context.Background(), "s-1", "   "); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	if _, err := svc.HandleMessage(context.Background(), "", "hi"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestNewValidatesDependencies(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{}
	if _, err := New(testConfig(), nil, Generators{Classifier: gen, Summarizer: gen, Agent: gen}, toolx.NewRegistry()); err == nil {
		t.Fatal("expected error for nil session store")
	}
	if _, err := New(testConfig(), sessionx.NewStore(), Generators{Classifier: gen, Summarizer: gen}, toolx.NewRegistry()); err == nil {
		t.Fatal("expected error for missing agent generator")
	}
	if _, err := New(testConfig(), sessionx.NewStore(), Generators{Classifier: gen, Summarizer: gen, Agent: gen}, nil); err == nil {
		t.Fatal("expected error for nil tool registry")
	}
}
