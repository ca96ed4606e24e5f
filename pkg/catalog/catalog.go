// Package catalog defines the table of voice-callable tools.
//
// A Catalog is built once at startup through an ordered sequence of
// Register calls and is read-only afterwards, so it can be shared by any
// number of concurrent sessions without locking. Registration order is
// meaningful: the intent matcher breaks score ties in favor of the tool
// registered first.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned during catalog construction.
var (
	ErrEmptyName        = errors.New("catalog: tool name is required")
	ErrDuplicateTool    = errors.New("catalog: duplicate tool name")
	ErrNoTriggerPhrases = errors.New("catalog: at least one trigger phrase is required")
	ErrAlreadyBuilt     = errors.New("catalog: cannot register after Build")
)

// DefaultPriority is assigned to tools that do not set a priority.
// Higher priority tools win near-ties in the matcher.
const DefaultPriority = 5

// ParamType identifies the expected Go type of an extracted parameter.
type ParamType string

// Supported parameter types.
const (
	TypeString ParamType = "string"
	TypeInt    ParamType = "int"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "bool"
)

// ParamSpec describes a single tool parameter.
type ParamSpec struct {
	// Type is the expected value type. Defaults to TypeString.
	Type ParamType `json:"type"`

	// Required marks parameters the tool cannot run without.
	// Missing required parameters are reported, never raised.
	Required bool `json:"required"`

	// Default is used when nothing could be extracted.
	Default any `json:"default,omitempty"`

	// Description is sent to the external NLU service when pattern
	// heuristics fail, so it should say what the value looks like.
	Description string `json:"description,omitempty"`
}

// Handler is the callable a tool resolves to. The routing core never
// invokes it; it only selects the tool and prepares its arguments.
type Handler func(args map[string]any) (string, error)

// ToolSpec is the definition of a single voice-callable tool.
type ToolSpec struct {
	// Name uniquely identifies the tool (e.g. "remember_name").
	Name string `json:"name"`

	// Description explains what the tool does.
	Description string `json:"description"`

	// TriggerPhrases are the phrases a user is expected to say when
	// invoking this tool. Normalized to lowercase at Build time.
	TriggerPhrases []string `json:"trigger_phrases"`

	// Priority weights the match score: higher wins near-ties.
	// Zero means DefaultPriority.
	Priority int `json:"priority"`

	// Parameters maps parameter name to its spec.
	Parameters map[string]ParamSpec `json:"parameters,omitempty"`

	// Handler is the opaque callable reference resolved by the caller.
	Handler Handler `json:"-"`
}

// Catalog is an immutable, ordered collection of tools.
type Catalog struct {
	tools  []*ToolSpec
	byName map[string]*ToolSpec
}

// Builder accumulates tool registrations in order.
// Not safe for concurrent use; build the catalog before serving traffic.
type Builder struct {
	tools []*ToolSpec
	names map[string]bool
	built bool
}

// NewBuilder creates an empty catalog builder.
func NewBuilder() *Builder {
	return &Builder{names: make(map[string]bool)}
}

// Register adds a tool to the catalog under construction.
// The spec is copied and its trigger phrases are normalized.
func (b *Builder) Register(spec ToolSpec) error {
	if b.built {
		return ErrAlreadyBuilt
	}

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return ErrEmptyName
	}
	if b.names[name] {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}

	phrases := make([]string, 0, len(spec.TriggerPhrases))
	for _, p := range spec.TriggerPhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			phrases = append(phrases, p)
		}
	}
	if len(phrases) == 0 {
		return fmt.Errorf("%w: %q", ErrNoTriggerPhrases, name)
	}

	tool := spec
	tool.Name = name
	tool.TriggerPhrases = phrases
	if tool.Priority == 0 {
		tool.Priority = DefaultPriority
	}
	if tool.Parameters != nil {
		params := make(map[string]ParamSpec, len(tool.Parameters))
		for pname, ps := range tool.Parameters {
			if ps.Type == "" {
				ps.Type = TypeString
			}
			params[pname] = ps
		}
		tool.Parameters = params
	}

	b.tools = append(b.tools, &tool)
	b.names[name] = true
	return nil
}

// MustRegister is Register that panics on error.
// Intended for static tool tables assembled at startup.
func (b *Builder) MustRegister(spec ToolSpec) {
	if err := b.Register(spec); err != nil {
		panic(err)
	}
}

// Build freezes the builder and returns the immutable catalog.
func (b *Builder) Build() *Catalog {
	b.built = true

	byName := make(map[string]*ToolSpec, len(b.tools))
	for _, t := range b.tools {
		byName[t.Name] = t
	}
	return &Catalog{tools: b.tools, byName: byName}
}

// Get returns the tool with the given name.
func (c *Catalog) Get(name string) (*ToolSpec, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Tools returns all tools in registration order.
// The returned slice is a copy; the specs themselves are shared and
// must be treated as read-only.
func (c *Catalog) Tools() []*ToolSpec {
	out := make([]*ToolSpec, len(c.tools))
	copy(out, c.tools)
	return out
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}
