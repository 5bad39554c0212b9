package viewer

import (
	"sort"
	"sync"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/geometry"
	"github.com/umlkit/umlkit/pkg/observability"
)

// Layout constants for sequence diagrams, in diagram units.
const (
	// CallSpacing is the vertical distance between consecutive operations
	// on the lifelines.
	CallSpacing = 30

	// ActivationWidth is the width of an activation box on a lifeline.
	// Nested activations shift right by half this width per depth level.
	ActivationWidth = 16
)

// CallActivation describes one call in the derived sequence layout: the call
// edge, its nesting depth (0 for calls made by the outermost caller), the
// ordinal at which it starts, and its duration measured in operations (a call
// with no nested operations has duration 1).
type CallActivation struct {
	Edge     *diagram.Edge
	Depth    int
	Start    int
	Duration int
}

// sequenceLayout is the cached derived layout for one diagram at one
// revision.
type sequenceLayout struct {
	revision    uint64
	activations []CallActivation
	byEdge      map[*diagram.Edge]int
	lifelineTop int
}

// Sequence is the viewer for sequence diagrams. In addition to the default
// geometry it derives call-stack nesting from the ordered list of call
// edges: a depth-first walk of the call sequence in which entering a call
// increments depth and returning to an earlier caller decrements it. The
// derived layout is cached per diagram and invalidated by the diagram's
// revision counter.
type Sequence struct {
	Default

	mu    sync.Mutex
	cache map[*diagram.Diagram]*sequenceLayout
}

// NewSequence creates the sequence viewer.
func NewSequence() *Sequence {
	return &Sequence{cache: make(map[*diagram.Diagram]*sequenceLayout)}
}

// CallActivations returns the derived activations in call order.
// The returned slice is a copy.
func (v *Sequence) CallActivations(d *diagram.Diagram) []CallActivation {
	layout := v.layout(d)
	out := make([]CallActivation, len(layout.activations))
	copy(out, layout.activations)
	return out
}

// ActivationBounds returns the activation box for a call edge on its
// callee's lifeline, or false if the edge is not a call in the diagram.
func (v *Sequence) ActivationBounds(d *diagram.Diagram, e *diagram.Edge) (geometry.Rect, bool) {
	layout := v.layout(d)
	i, ok := layout.byEdge[e]
	if !ok {
		return geometry.Rect{}, false
	}
	act := layout.activations[i]
	callee := e.End()
	centerX := callee.Position().X + callee.Size().Width/2
	x := centerX - ActivationWidth/2 + act.Depth*ActivationWidth/2
	y := layout.lifelineTop + (act.Start+1)*CallSpacing
	return geometry.Rect{X: x, Y: y, Width: ActivationWidth, Height: act.Duration * CallSpacing}, true
}

func (v *Sequence) Bounds(d *diagram.Diagram) geometry.Rect {
	bounds := v.Default.Bounds(d)
	layout := v.layout(d)
	for _, act := range layout.activations {
		if b, ok := v.ActivationBounds(d, act.Edge); ok {
			bounds = bounds.Union(b)
		}
	}
	return bounds
}

func (v *Sequence) BoundsOf(d *diagram.Diagram, el diagram.Element) geometry.Rect {
	if e, ok := el.(*diagram.Edge); ok {
		switch e.Kind() {
		case diagram.EdgeKindCall, diagram.EdgeKindReturn:
			return routeBounds(v.RouteEdge(d, e))
		}
	}
	return v.Default.BoundsOf(d, el)
}

func (v *Sequence) RouteEdge(d *diagram.Diagram, e *diagram.Edge) []geometry.Point {
	switch e.Kind() {
	case diagram.EdgeKindCall:
		return v.routeCall(d, e)
	case diagram.EdgeKindReturn:
		return v.routeReturn(d, e)
	default:
		return v.Default.RouteEdge(d, e)
	}
}

// routeCall draws the call arrow at the vertical position of the call's
// ordinal, from the caller's activation edge to the callee's.
func (v *Sequence) routeCall(d *diagram.Diagram, e *diagram.Edge) []geometry.Point {
	layout := v.layout(d)
	i, ok := layout.byEdge[e]
	if !ok {
		return v.Default.RouteEdge(d, e)
	}
	act := layout.activations[i]
	y := layout.lifelineTop + (act.Start+1)*CallSpacing

	fromX := lifelineX(e.Start()) + act.Depth*ActivationWidth/2
	toX := lifelineX(e.End()) + (act.Depth+1)*ActivationWidth/2
	if e.Start() == e.End() {
		// Self-call: a short hook off the activation.
		return []geometry.Point{
			{X: fromX, Y: y},
			{X: fromX + ActivationWidth*2, Y: y},
			{X: fromX + ActivationWidth*2, Y: y + CallSpacing/2},
			{X: fromX + ActivationWidth/2, Y: y + CallSpacing/2},
		}
	}
	if toX < fromX {
		toX = lifelineX(e.End()) + act.Depth*ActivationWidth/2 + ActivationWidth/2
	}
	return []geometry.Point{{X: fromX, Y: y}, {X: toX, Y: y}}
}

// routeReturn draws the dashed return arrow at the bottom of the matching
// call's activation.
func (v *Sequence) routeReturn(d *diagram.Diagram, e *diagram.Edge) []geometry.Point {
	layout := v.layout(d)
	// The matching call runs in the opposite direction.
	for _, act := range layout.activations {
		if act.Edge.Start() == e.End() && act.Edge.End() == e.Start() {
			y := layout.lifelineTop + (act.Start+act.Duration+1)*CallSpacing
			fromX := lifelineX(e.Start()) + (act.Depth+1)*ActivationWidth/2
			toX := lifelineX(e.End()) + act.Depth*ActivationWidth/2
			return []geometry.Point{{X: fromX, Y: y}, {X: toX, Y: y}}
		}
	}
	return v.Default.RouteEdge(d, e)
}

func lifelineX(n *diagram.Node) int {
	return n.Position().X + n.Size().Width/2
}

// layout returns the cached derived layout for d, recomputing it when the
// diagram's revision has moved past the cached one.
func (v *Sequence) layout(d *diagram.Diagram) *sequenceLayout {
	v.mu.Lock()
	defer v.mu.Unlock()

	if cached, ok := v.cache[d]; ok && cached.revision == d.Revision() {
		observability.Viewer().OnLayoutCacheHit(d.TypeName())
		return cached
	}
	observability.Viewer().OnLayoutCacheMiss(d.TypeName())
	layout := computeSequenceLayout(d)
	v.cache[d] = layout
	return layout
}

// computeSequenceLayout performs the call-stack walk. Calls are processed in
// ordinal order with a stack of active callees: a call from a node deeper in
// the stack than the top implicitly returns the intervening calls; pushing a
// call increments the depth of everything nested under it. Each call's
// duration is the number of operations spanned while its callee stayed on
// the stack.
func computeSequenceLayout(d *diagram.Diagram) *sequenceLayout {
	calls := d.EdgesOfKind(diagram.EdgeKindCall)
	sort.SliceStable(calls, func(i, j int) bool { return calls[i].Ordinal() < calls[j].Ordinal() })

	layout := &sequenceLayout{
		revision:    d.Revision(),
		byEdge:      make(map[*diagram.Edge]int, len(calls)),
		lifelineTop: lifelineTop(d),
	}

	type frame struct {
		callee *diagram.Node
		index  int // index into layout.activations
	}
	var stack []frame

	pop := func(at int) {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		layout.activations[top.index].Duration = at - layout.activations[top.index].Start
	}

	onStack := func(n *diagram.Node) bool {
		for _, f := range stack {
			if f.callee == n {
				return true
			}
		}
		return false
	}

	for i, call := range calls {
		// Unwind to the frame whose callee is making this call. A caller
		// that is not on the stack at all starts a new top-level sequence.
		if onStack(call.Start()) {
			for stack[len(stack)-1].callee != call.Start() {
				pop(i)
			}
		} else {
			for len(stack) > 0 {
				pop(i)
			}
		}

		layout.activations = append(layout.activations, CallActivation{
			Edge:  call,
			Depth: len(stack),
			Start: i,
		})
		layout.byEdge[call] = len(layout.activations) - 1
		stack = append(stack, frame{callee: call.End(), index: len(layout.activations) - 1})
	}

	for len(stack) > 0 {
		pop(len(calls))
	}
	return layout
}

// lifelineTop returns the Y coordinate where lifelines begin: the bottom of
// the lowest implicit-parameter header.
func lifelineTop(d *diagram.Diagram) int {
	top := 0
	for _, r := range d.Roots() {
		if r.Kind() != diagram.NodeKindImplicitParameter {
			continue
		}
		if bottom := r.Position().Y + r.Size().Height; bottom > top {
			top = bottom
		}
	}
	return top
}
