package tool

import (
	"fmt"
	"strings"

	contractx "github.com/daisylabs/leadgpt/agent/contract"
)

// Registry is the fixed name -> tool table the reasoning loop may call.
type Registry struct {
	order []string
	tools map[string]contractx.Tool
}

func NewRegistry(tools ...contractx.Tool) *Registry {
	r := &Registry{tools: make(map[string]contractx.Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t contractx.Tool) {
	if t == nil || strings.TrimSpace(t.Name()) == "" {
		return
	}
	name := strings.TrimSpace(t.Name())
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Lookup returns ErrUnknownTool for names outside the table.
func (r *Registry) Lookup(name string) (contractx.Tool, error) {
	t, ok := r.tools[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnknownTool, name)
	}
	return t, nil
}

// Names lists tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Describe renders "name: description" lines for the agent prompt.
func (r *Registry) Describe() string {
	var b strings.Builder
	for i, name := range r.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", name, r.tools[name].Description())
	}
	return b.String()
}
