// Package tools models the tool palette for one diagram dialect: the
// selection tool followed by the dialect's node and edge prototypes in
// catalog order. The palette tracks a single selected tool; creating an
// element means cloning the selected prototype.
package tools

import (
	"strconv"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/dialect"
	"github.com/umlkit/umlkit/pkg/errors"
)

// SelectionToolName is the display name of the non-creating selection tool.
const SelectionToolName = "Selection"

// Tool is one entry in a palette. The selection tool has no prototype.
type Tool struct {
	key       string
	name      string
	prototype diagram.Element
}

// Key returns the tool's stable key: "selection", or "node<i>"/"edge<i>"
// with i the tool's position within its catalog.
func (t Tool) Key() string { return t.key }

// Name returns the tool's display name.
func (t Tool) Name() string { return t.name }

// IsSelection reports whether this is the selection tool.
func (t Tool) IsSelection() bool { return t.prototype == nil }

// Palette is the ordered tool set for one dialect, with one selected tool.
// The selection tool is always first and initially selected.
type Palette struct {
	diagramType *dialect.Type
	tools       []Tool
	selected    int
}

// NewPalette builds the palette for a dialect: the selection tool, then the
// node prototypes, then the edge prototypes, in catalog order.
func NewPalette(t *dialect.Type) *Palette {
	errors.Precondition(t != nil, "diagram type must not be nil")

	tools := []Tool{{key: "selection", name: SelectionToolName}}
	for i, n := range t.NodePrototypes() {
		tools = append(tools, Tool{
			key:       nodeKey(i),
			name:      n.Kind().String(),
			prototype: n,
		})
	}
	for i, e := range t.EdgePrototypes() {
		tools = append(tools, Tool{
			key:       edgeKey(i),
			name:      edgeToolName(e),
			prototype: e,
		})
	}
	return &Palette{diagramType: t, tools: tools}
}

func nodeKey(i int) string { return "node" + strconv.Itoa(i) }
func edgeKey(i int) string { return "edge" + strconv.Itoa(i) }

// edgeToolName includes the subtype refinement when the prototype carries
// one, so the two generalization tools are distinguishable.
func edgeToolName(e *diagram.Edge) string {
	if s := e.Subtype(); s != diagram.SubtypeNone {
		return e.Kind().String() + " (" + s.String() + ")"
	}
	return e.Kind().String()
}

// DiagramType returns the dialect this palette was built for.
func (p *Palette) DiagramType() *dialect.Type { return p.diagramType }

// Tools returns the palette's tools in order. The returned slice is a copy.
func (p *Palette) Tools() []Tool {
	out := make([]Tool, len(p.tools))
	copy(out, p.tools)
	return out
}

// Len returns the number of tools, including the selection tool.
func (p *Palette) Len() int { return len(p.tools) }

// SelectedIndex returns the index of the selected tool.
func (p *Palette) SelectedIndex() int { return p.selected }

// SelectedTool returns the selected tool.
func (p *Palette) SelectedTool() Tool { return p.tools[p.selected] }

// Select makes the tool at index i the selected tool. Returns an
// INVALID_ARGUMENT error if i is out of range.
func (p *Palette) Select(i int) error {
	if i < 0 || i >= len(p.tools) {
		return errors.New(errors.ErrCodeInvalidArgument,
			"tool index %d out of range [0,%d)", i, len(p.tools))
	}
	p.selected = i
	return nil
}

// SelectNext advances the selection, wrapping past the last tool.
func (p *Palette) SelectNext() {
	p.selected = (p.selected + 1) % len(p.tools)
}

// SelectPrevious moves the selection back, wrapping before the first tool.
func (p *Palette) SelectPrevious() {
	p.selected = (p.selected + len(p.tools) - 1) % len(p.tools)
}

// CreationPrototype returns a fresh clone of the selected tool's prototype,
// or false when the selection tool is active. Every call yields a distinct
// element with its own identity.
func (p *Palette) CreationPrototype() (diagram.Element, bool) {
	proto := p.tools[p.selected].prototype
	if proto == nil {
		return nil, false
	}
	return proto.Clone(), true
}
