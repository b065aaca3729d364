package executor

import (
	"regexp"
	"strings"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

// Parser turns raw generator text into a Decision. The generator is
// unreliable about syntax, so parsing never fails: text that matches no
// known shape comes back as a no-tool Decision carrying the raw text as
// the final response, flagged Unparseable.
//
// Two shapes are recognized:
//
//  1. a fenced block of "key: value" fields (tool / tool_input /
//     response / thought, with action / action_input as aliases);
//  2. the classic free-text "Thought: / Action: / Action Input:"
//     sections, with the final reply on a "<AgentName>:" line.
type Parser struct {
	agentName  string
	responseRe *regexp.Regexp
}

var (
	thoughtRe     = regexp.MustCompile(`(?m)^\s*Thought:[ \t]*(.*)$`)
	actionRe      = regexp.MustCompile(`(?m)^\s*Action:[ \t]*(.*)$`)
	actionInputRe = regexp.MustCompile(`(?m)^\s*Action Input:[ \t]*(.*)$`)
	noToolRe      = regexp.MustCompile(`(?i)do i need to use a tool\?\s*no`)
	fenceRe       = regexp.MustCompile("(?s)```(?:[a-zA-Z]*\n)?(.*?)```")
)

func NewParser(agentName string) *Parser {
	name := strings.TrimSpace(agentName)
	if name == "" {
		name = "AI"
	}
	return &Parser{
		agentName:  name,
		responseRe: regexp.MustCompile(`(?m)^\s*(?:` + regexp.QuoteMeta(name) + `|Response|AI|Assistant):[ \t]*`),
	}
}

// Parse never returns an error; arbitrary input yields a usable Decision.
func (p *Parser) Parse(raw string) contractx.Decision {
	if block, ok := extractFencedFields(raw); ok {
		if dec, ok := p.fromFields(block, raw); ok {
			return dec
		}
	}
	if dec, ok := p.fromSections(raw); ok {
		return dec
	}

	return contractx.Decision{
		FinalResponse: raw,
		Unparseable:   true,
	}
}

// fromFields interprets a fenced key/value block.
func (p *Parser) fromFields(fields map[string]string, raw string) (contractx.Decision, bool) {
	toolName := firstOf(fields, "tool", "action", "tool_name")
	toolInput := firstOf(fields, "tool_input", "action_input", "input")
	response := firstOf(fields, "response", "final_response", "answer")
	thought := firstOf(fields, "thought")

	if isNoTool(toolName) {
		if response == "" {
			// A block with neither tool nor response tells us nothing.
			if thought == "" {
				return contractx.Decision{}, false
			}
			response = strings.TrimSpace(raw)
		}
		return contractx.Decision{
			Thought:       thought,
			FinalResponse: response,
		}, true
	}

	return contractx.Decision{
		UsesTool:  true,
		ToolName:  toolName,
		ToolInput: unquote(toolInput),
		Thought:   thought,
	}, true
}

// fromSections interprets Thought:/Action:/Action Input: free text.
func (p *Parser) fromSections(raw string) (contractx.Decision, bool) {
	thought := lastMatch(thoughtRe, raw)
	action := lastMatch(actionRe, raw)
	input := lastMatch(actionInputRe, raw)

	if !isNoTool(action) && !noToolRe.MatchString(raw) {
		return contractx.Decision{
			UsesTool:  true,
			ToolName:  action,
			ToolInput: unquote(input),
			Thought:   thought,
		}, true
	}

	if loc := p.responseRe.FindStringIndex(raw); loc != nil {
		return contractx.Decision{
			Thought:       thought,
			FinalResponse: strings.TrimSpace(raw[loc[1]:]),
		}, true
	}
	if noToolRe.MatchString(raw) {
		// Declared no-tool but no labeled reply line; take everything
		// after the declaration.
		loc := noToolRe.FindStringIndex(raw)
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw[loc[1]:]), "."))
		if rest == "" {
			rest = strings.TrimSpace(raw)
		}
		return contractx.Decision{
			Thought:       thought,
			FinalResponse: rest,
		}, true
	}
	return contractx.Decision{}, false
}

// extractFencedFields pulls "key: value" lines out of the first fenced
// block, if any.
func extractFencedFields(raw string) (map[string]string, bool) {
	m := fenceRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	fields := make(map[string]string)
	for _, line := range strings.Split(m[1], "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		key = strings.ReplaceAll(key, " ", "_")
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

func isNoTool(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, "none") || strings.EqualFold(name, "null") ||
		strings.EqualFold(name, "no")
}

func firstOf(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func lastMatch(re *regexp.Regexp, raw string) string {
	matches := re.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}

func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
