package memory

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

// Updater re-derives the customer summary from the lines the human has
// spoken since the last update. The generator is asked for the fixed
// 4-field block; fields only ever move unknown -> known, and a field the
// reply omits or marks "None" keeps its previous value.
type Updater struct {
	gen          contractx.TextGenerator
	systemPrompt string
}

func NewUpdater(gen contractx.TextGenerator, systemPrompt string) *Updater {
	return &Updater{
		gen:          gen,
		systemPrompt: strings.TrimSpace(systemPrompt),
	}
}

// Update returns the summary after folding in newHumanLines.
//
// With no new lines the previous summary is returned untouched; the
// contract forbids fabricating facts from nothing. A reply that cannot be
// parsed into the 4-field block returns ErrSummaryParse alongside the
// previous summary so the caller can continue the turn.
func (u *Updater) Update(
	ctx context.Context,
	prev contractx.CustomerSummary,
	newHumanLines []string,
) (contractx.CustomerSummary, error) {
	if len(newHumanLines) == 0 {
		return prev, nil
	}

	user := fmt.Sprintf(
		"- Previous summary: customer_info = [%s]\n- New conversation lines: new_lines = [%s]",
		prev.Render(),
		strings.Join(newHumanLines, "\n"),
	)

	raw, err := u.gen.Generate(ctx, contractx.Prompt{System: u.systemPrompt, User: user})
	if err != nil {
		return prev, fmt.Errorf("%w: summary update: %v", contractx.ErrGeneration, err)
	}

	parsed, ok := parseSummaryBlock(raw)
	if !ok {
		return prev, fmt.Errorf("%w: %q", contractx.ErrSummaryParse, strings.TrimSpace(raw))
	}

	return merge(prev, parsed), nil
}

// merge applies retention-by-default: a parsed field wins only when it
// carries a real value.
func merge(prev, parsed contractx.CustomerSummary) contractx.CustomerSummary {
	out := prev
	if parsed.Name != "" {
		out.Name = parsed.Name
	}
	if parsed.Email != "" {
		out.Email = parsed.Email
	}
	if parsed.Phone != "" {
		out.Phone = parsed.Phone
	}
	if parsed.ProductsOfInterest != "" {
		out.ProductsOfInterest = parsed.ProductsOfInterest
	}
	return out
}

var summaryFields = map[string]func(*contractx.CustomerSummary, string){
	"customer name":        func(s *contractx.CustomerSummary, v string) { s.Name = v },
	"name":                 func(s *contractx.CustomerSummary, v string) { s.Name = v },
	"email":                func(s *contractx.CustomerSummary, v string) { s.Email = v },
	"phone":                func(s *contractx.CustomerSummary, v string) { s.Phone = v },
	"products of interest": func(s *contractx.CustomerSummary, v string) { s.ProductsOfInterest = v },
}

// parseSummaryBlock scans the reply line by line for "Field: value" pairs.
// The block counts as parsed when at least one known field label appears;
// "None" values collapse to empty.
func parseSummaryBlock(raw string) (contractx.CustomerSummary, bool) {
	var (
		out     contractx.CustomerSummary
		matched bool
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "`*"))
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(strings.Trim(strings.TrimSpace(key), "`*"))
		set, ok := summaryFields[strings.ToLower(key)]
		if !ok {
			continue
		}
		matched = true
		set(&out, normalizeFieldValue(value))
	}
	return out, matched
}

func normalizeFieldValue(v string) string {
	v = strings.TrimSpace(strings.Trim(strings.TrimSpace(v), "`*"))
	if v == "" || strings.EqualFold(v, "none") || strings.EqualFold(v, "unknown") || v == "-" {
		return ""
	}
	return v
}
