package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (f *fakeGenerator) Generate(ctx context.Context, p contractx.Prompt) (string, error) {
	f.calls++
	f.lastUser = p.User
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestUpdateNoNewLinesIsNoOp(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "Customer name: Hacker"}
	u := NewUpdater(gen, "prompt")
	prev := contractx.CustomerSummary{Name: "Anna", Email: "anna@example.com"}

	got, err := u.Update(context.Background(), prev, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got != prev {
		t.Fatalf("Update() = %+v, want previous summary unchanged", got)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times with no new lines", gen.calls)
	}
}

func TestUpdateParsesAndMergesFields(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: strings.Join([]string{
		"Customer name: Anna",
		"Email: None",
		"Phone: 0901234567",
		"Products of interest: white shirt",
	}, "\n")}
	u := NewUpdater(gen, "prompt")
	prev := contractx.CustomerSummary{Email: "anna@example.com"}

	got, err := u.Update(context.Background(), prev, []string{"my name is Anna, call me at 0901234567"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	want := contractx.CustomerSummary{
		Name:               "Anna",
		Email:              "anna@example.com", // "None" must not erase a known value
		Phone:              "0901234567",
		ProductsOfInterest: "white shirt",
	}
	if got != want {
		t.Fatalf("Update() = %+v, want %+v", got, want)
	}
}

func TestUpdateRetainsFieldsTheReplyOmits(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "Products of interest: linen dress"}
	u := NewUpdater(gen, "prompt")
	prev := contractx.CustomerSummary{Name: "Anna", Phone: "0901234567"}

	got, err := u.Update(context.Background(), prev, []string{"do you have linen dresses?"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "Anna" || got.Phone != "0901234567" {
		t.Fatalf("omitted fields were dropped: %+v", got)
	}
	if got.ProductsOfInterest != "linen dress" {
		t.Fatalf("new field not applied: %+v", got)
	}
}

func TestUpdateUnparseableKeepsPrevious(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "sorry, I cannot help with that"}
	u := NewUpdater(gen, "prompt")
	prev := contractx.CustomerSummary{Name: "Anna"}

	got, err := u.Update(context.Background(), prev, []string{"hello"})
	if !errors.Is(err, contractx.ErrSummaryParse) {
		t.Fatalf("expected ErrSummaryParse, got %v", err)
	}
	if got != prev {
		t.Fatalf("Update() = %+v, want previous summary", got)
	}
}

func TestUpdateGeneratorFailureKeepsPrevious(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: errors.New("timeout")}
	u := NewUpdater(gen, "prompt")
	prev := contractx.CustomerSummary{Name: "Anna"}

	got, err := u.Update(context.Background(), prev, []string{"hello"})
	if !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if got != prev {
		t.Fatalf("Update() = %+v, want previous summary", got)
	}
}

func TestUpdatePromptCarriesPreviousSummaryAndLines(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "Customer name: Anna"}
	u := NewUpdater(gen, "prompt")
	prev := contractx.CustomerSummary{Email: "anna@example.com"}

	if _, err := u.Update(context.Background(), prev, []string{"line one", "line two"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !strings.Contains(gen.lastUser, "anna@example.com") {
		t.Fatalf("prompt missing previous summary: %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "line one\nline two") {
		t.Fatalf("prompt missing new lines: %q", gen.lastUser)
	}
}

func TestParseSummaryBlockVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want contractx.CustomerSummary
		ok   bool
	}{
		{
			name: "markdown decorations",
			raw:  "**Customer name:** Anna\n`Email: a@b.c`",
			want: contractx.CustomerSummary{Name: "Anna", Email: "a@b.c"},
			ok:   true,
		},
		{
			name: "short name label",
			raw:  "Name: Minh\nPhone: unknown",
			want: contractx.CustomerSummary{Name: "Minh"},
			ok:   true,
		},
		{
			name: "no labels at all",
			raw:  "the customer seems interested in shirts",
			ok:   false,
		},
		{
			name: "empty reply",
			raw:  "",
			ok:   false,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseSummaryBlock(tc.raw)
			if ok != tc.ok {
				t.Fatalf("parseSummaryBlock() ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("parseSummaryBlock() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNormalizeFieldValue(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "None", "none", "UNKNOWN", "-", "  none  "} {
		if got := normalizeFieldValue(v); got != "" {
			t.Errorf("normalizeFieldValue(%q) = %q, want empty", v, got)
		}
	}
	if got := normalizeFieldValue(" Anna "); got != "Anna" {
		t.Errorf("normalizeFieldValue trims to %q, want Anna", got)
	}
}
