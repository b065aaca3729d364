package tool

import (
	"context"
	"os"
	"strings"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

const PolicySearchName = "policy_search_tool"

// PolicySearch answers policy and FAQ questions from a fixed snippet set.
// Snippets are paragraphs (blank-line separated) loaded once at startup;
// retrieval is keyword overlap, best snippet wins.
type PolicySearch struct {
	snippets []string
}

var _ contractx.Tool = (*PolicySearch)(nil)

func NewPolicySearch(snippets []string) *PolicySearch {
	cleaned := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return &PolicySearch{snippets: cleaned}
}

// NewPolicySearchFromFile loads snippets from a plain-text policy file.
func NewPolicySearchFromFile(path string) (*PolicySearch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewPolicySearch(splitParagraphs(string(raw))), nil
}

func (s *PolicySearch) Name() string {
	return PolicySearchName
}

func (s *PolicySearch) Description() string {
	return "Answers questions about store policies (shipping, returns, payment, " +
		"warranty) and frequently asked questions. Input is a plain question string."
}

func (s *PolicySearch) Invoke(_ context.Context, input string) (string, error) {
	terms := tokenize(input)
	if len(terms) == 0 {
		return NotFound, nil
	}

	best, bestScore := "", 0
	for _, snippet := range s.snippets {
		score := overlap(terms, tokenize(snippet))
		if score > bestScore {
			best, bestScore = snippet, score
		}
	}
	if bestScore == 0 {
		return NotFound, nil
	}
	return best, nil
}

func splitParagraphs(raw string) []string {
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n")
}

func tokenize(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if len(word) > 2 {
			out[word] = struct{}{}
		}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
