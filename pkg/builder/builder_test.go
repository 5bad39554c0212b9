package builder

import (
	"testing"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
)

func mustAddNode(t *testing.T, b Builder, kind diagram.NodeKind, parent *diagram.Node) *diagram.Node {
	t.Helper()
	n := diagram.NewNode(kind)
	if !b.CanAddNode(n, parent) {
		t.Fatalf("CanAddNode(%v) = false, want true", kind)
	}
	if err := b.AddNode(n, parent); err != nil {
		t.Fatalf("AddNode(%v) = %v", kind, err)
	}
	return n
}

func mustConnect(t *testing.T, b Builder, e *diagram.Edge, start, end *diagram.Node) {
	t.Helper()
	if !b.CanConnect(e, start, end) {
		t.Fatalf("CanConnect(%v) = false, want true", e.Kind())
	}
	if err := b.AddEdge(e, start, end); err != nil {
		t.Fatalf("AddEdge(%v) = %v", e.Kind(), err)
	}
}

func TestClassGeneralizationScenario(t *testing.T) {
	// Construct a class diagram, add classes A and B, connect them with an
	// implementation generalization; the edge list must contain exactly that
	// edge with endpoints (A, B).
	d := diagram.New("ClassDiagram")
	b := NewClass(d)

	a := mustAddNode(t, b, diagram.NodeKindClass, nil)
	bb := mustAddNode(t, b, diagram.NodeKindClass, nil)

	e := diagram.NewEdgeSubtyped(diagram.EdgeKindGeneralization, diagram.SubtypeImplementation)
	mustConnect(t, b, e, a, bb)

	edges := d.Edges()
	if len(edges) != 1 {
		t.Fatalf("EdgeCount = %d, want 1", len(edges))
	}
	got := edges[0]
	if got.Start() != a || got.End() != bb {
		t.Error("edge endpoints are not (A, B)")
	}
	if got.Subtype() != diagram.SubtypeImplementation {
		t.Errorf("edge subtype = %v, want Implementation", got.Subtype())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestFieldCannotBeRoot(t *testing.T) {
	d := diagram.New("ObjectDiagram")
	b := NewObject(d)

	field := diagram.NewNode(diagram.NodeKindField)
	if b.CanAddNode(field, nil) {
		t.Error("CanAddNode(field, nil) = true, want false")
	}

	revision := d.Revision()
	err := b.AddNode(field, nil)
	if err == nil {
		t.Fatal("AddNode(field, nil) = nil error, want STRUCTURAL_VIOLATION")
	}
	if !errors.Is(err, errors.ErrCodeStructuralViolation) {
		t.Errorf("error code = %v, want STRUCTURAL_VIOLATION", errors.GetCode(err))
	}
	if d.Revision() != revision {
		t.Error("rejected mutation changed the diagram")
	}
	if d.RootCount() != 0 {
		t.Error("rejected AddNode left a root behind")
	}
}

func TestFieldInsideObject(t *testing.T) {
	d := diagram.New("ObjectDiagram")
	b := NewObject(d)

	obj := mustAddNode(t, b, diagram.NodeKindObject, nil)
	field := mustAddNode(t, b, diagram.NodeKindField, obj)

	if field.Parent() != obj {
		t.Error("field.Parent() != obj")
	}
	if !d.ContainsNode(field) {
		t.Error("field not contained after AddNode")
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	// Removing an object that owns two fields and is an edge endpoint must
	// leave no trace of the object, its fields, or the edge.
	d := diagram.New("ObjectDiagram")
	b := NewObject(d)

	obj := mustAddNode(t, b, diagram.NodeKindObject, nil)
	f1 := mustAddNode(t, b, diagram.NodeKindField, obj)
	f2 := mustAddNode(t, b, diagram.NodeKindField, obj)
	other := mustAddNode(t, b, diagram.NodeKindObject, nil)

	ref := diagram.NewEdge(diagram.EdgeKindObjectReference)
	mustConnect(t, b, ref, f1, other)

	if err := b.RemoveElement(obj); err != nil {
		t.Fatalf("RemoveElement(obj) = %v", err)
	}

	for _, n := range []*diagram.Node{obj, f1, f2} {
		if d.ContainsNode(n) {
			t.Errorf("diagram still contains removed node %v", n.Kind())
		}
	}
	if d.ContainsEdge(ref) {
		t.Error("diagram still contains edge incident to removed node")
	}
	if !d.ContainsNode(other) {
		t.Error("cascade removed an unrelated node")
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() after cascade = %v", err)
	}
}

func TestRemoveEdgeKeepsNodes(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)
	a := mustAddNode(t, b, diagram.NodeKindClass, nil)
	c := mustAddNode(t, b, diagram.NodeKindClass, nil)
	e := diagram.NewEdge(diagram.EdgeKindDependency)
	mustConnect(t, b, e, a, c)

	if err := b.RemoveElement(e); err != nil {
		t.Fatalf("RemoveElement(edge) = %v", err)
	}
	if d.ContainsEdge(e) {
		t.Error("edge still present after removal")
	}
	if !d.ContainsNode(a) || !d.ContainsNode(c) {
		t.Error("removing an edge removed a node")
	}
}

func TestEndpointsMustBeInDiagram(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)
	a := mustAddNode(t, b, diagram.NodeKindClass, nil)
	stray := diagram.NewNode(diagram.NodeKindClass)

	e := diagram.NewEdge(diagram.EdgeKindDependency)
	if b.CanConnect(e, a, stray) {
		t.Error("CanConnect with stray endpoint = true, want false")
	}
	if err := b.AddEdge(e, a, stray); err == nil {
		t.Error("AddEdge with stray endpoint succeeded")
	}
}

func TestNoteEdgeRules(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)
	cls := mustAddNode(t, b, diagram.NodeKindClass, nil)
	note := mustAddNode(t, b, diagram.NodeKindNote, nil)
	note2 := mustAddNode(t, b, diagram.NodeKindNote, nil)

	tests := []struct {
		name       string
		kind       diagram.EdgeKind
		start, end *diagram.Node
		want       bool
	}{
		{name: "note connector class to note", kind: diagram.EdgeKindNote, start: cls, end: note, want: true},
		{name: "note connector note to class", kind: diagram.EdgeKindNote, start: note, end: cls, want: true},
		{name: "note connector between notes", kind: diagram.EdgeKindNote, start: note, end: note2, want: false},
		{name: "note connector between classes", kind: diagram.EdgeKindNote, start: cls, end: cls, want: false},
		{name: "dependency to note", kind: diagram.EdgeKindDependency, start: cls, end: note, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := diagram.NewEdge(tt.kind)
			if got := b.CanConnect(e, tt.start, tt.end); got != tt.want {
				t.Errorf("CanConnect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDuplicateEdgeRejected(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)
	a := mustAddNode(t, b, diagram.NodeKindClass, nil)
	c := mustAddNode(t, b, diagram.NodeKindClass, nil)

	mustConnect(t, b, diagram.NewEdge(diagram.EdgeKindDependency), a, c)

	dup := diagram.NewEdge(diagram.EdgeKindDependency)
	if b.CanConnect(dup, a, c) {
		t.Error("duplicate same-direction edge allowed")
	}
	// The reverse direction is a different edge.
	if !b.CanConnect(dup, c, a) {
		t.Error("reverse-direction edge rejected")
	}
}

func TestSelfGeneralizationRejected(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)
	a := mustAddNode(t, b, diagram.NodeKindClass, nil)

	if b.CanConnect(diagram.NewEdge(diagram.EdgeKindGeneralization), a, a) {
		t.Error("self-generalization allowed")
	}
	if !b.CanConnect(diagram.NewEdge(diagram.EdgeKindAssociation), a, a) {
		t.Error("self-association rejected")
	}
}

func TestForeignKindsRejected(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)

	state := diagram.NewNode(diagram.NodeKindState)
	if b.CanAddNode(state, nil) {
		t.Error("class builder accepted a State node")
	}

	a := mustAddNode(t, b, diagram.NodeKindClass, nil)
	c := mustAddNode(t, b, diagram.NodeKindClass, nil)
	if b.CanConnect(diagram.NewEdge(diagram.EdgeKindStateTransition), a, c) {
		t.Error("class builder accepted a StateTransition edge")
	}
}

func TestSequenceCallOrdinals(t *testing.T) {
	d := diagram.New("SequenceDiagram")
	b := NewSequence(d)

	p1 := mustAddNode(t, b, diagram.NodeKindImplicitParameter, nil)
	p2 := mustAddNode(t, b, diagram.NodeKindImplicitParameter, nil)
	p3 := mustAddNode(t, b, diagram.NodeKindImplicitParameter, nil)

	c1 := diagram.NewEdge(diagram.EdgeKindCall)
	c2 := diagram.NewEdge(diagram.EdgeKindCall)
	c3 := diagram.NewEdge(diagram.EdgeKindCall)
	mustConnect(t, b, c1, p1, p2)
	mustConnect(t, b, c2, p2, p3)
	mustConnect(t, b, c3, p3, p1)

	for i, e := range []*diagram.Edge{c1, c2, c3} {
		if e.Ordinal() != i {
			t.Errorf("call %d ordinal = %d, want %d", i, e.Ordinal(), i)
		}
	}

	// Removing the middle call renumbers the remaining ones densely.
	if err := b.RemoveElement(c2); err != nil {
		t.Fatalf("RemoveElement(c2) = %v", err)
	}
	if c1.Ordinal() != 0 || c3.Ordinal() != 1 {
		t.Errorf("ordinals after removal = %d, %d; want 0, 1", c1.Ordinal(), c3.Ordinal())
	}
}

func TestSequenceReturnMustInvertCall(t *testing.T) {
	d := diagram.New("SequenceDiagram")
	b := NewSequence(d)
	p1 := mustAddNode(t, b, diagram.NodeKindImplicitParameter, nil)
	p2 := mustAddNode(t, b, diagram.NodeKindImplicitParameter, nil)

	ret := diagram.NewEdge(diagram.EdgeKindReturn)
	if b.CanConnect(ret, p2, p1) {
		t.Error("return allowed with no matching call")
	}

	mustConnect(t, b, diagram.NewEdge(diagram.EdgeKindCall), p1, p2)
	if !b.CanConnect(ret, p2, p1) {
		t.Error("return rejected despite matching call")
	}
	if b.CanConnect(diagram.NewEdge(diagram.EdgeKindReturn), p1, p2) {
		t.Error("return allowed in the same direction as the call")
	}
}

func TestSequenceSelfCallAllowed(t *testing.T) {
	d := diagram.New("SequenceDiagram")
	b := NewSequence(d)
	p := mustAddNode(t, b, diagram.NodeKindImplicitParameter, nil)

	if !b.CanConnect(diagram.NewEdge(diagram.EdgeKindCall), p, p) {
		t.Error("self-call rejected")
	}
}

func TestImplicitParameterCannotNest(t *testing.T) {
	d := diagram.New("SequenceDiagram")
	b := NewSequence(d)
	p1 := mustAddNode(t, b, diagram.NodeKindImplicitParameter, nil)

	p2 := diagram.NewNode(diagram.NodeKindImplicitParameter)
	if b.CanAddNode(p2, p1) {
		t.Error("implicit parameter nested inside another")
	}
}

func TestStateTransitionRules(t *testing.T) {
	d := diagram.New("StateDiagram")
	b := NewState(d)
	initial := mustAddNode(t, b, diagram.NodeKindInitialState, nil)
	s1 := mustAddNode(t, b, diagram.NodeKindState, nil)
	final := mustAddNode(t, b, diagram.NodeKindFinalState, nil)

	tests := []struct {
		name       string
		start, end *diagram.Node
		want       bool
	}{
		{name: "initial to state", start: initial, end: s1, want: true},
		{name: "state to final", start: s1, end: final, want: true},
		{name: "into initial", start: s1, end: initial, want: false},
		{name: "out of final", start: final, end: s1, want: false},
		{name: "self transition on state", start: s1, end: s1, want: true},
		{name: "self transition on initial", start: initial, end: initial, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := diagram.NewEdge(diagram.EdgeKindStateTransition)
			if got := b.CanConnect(e, tt.start, tt.end); got != tt.want {
				t.Errorf("CanConnect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObjectReferenceDirection(t *testing.T) {
	d := diagram.New("ObjectDiagram")
	b := NewObject(d)
	obj := mustAddNode(t, b, diagram.NodeKindObject, nil)
	field := mustAddNode(t, b, diagram.NodeKindField, obj)
	target := mustAddNode(t, b, diagram.NodeKindObject, nil)

	if !b.CanConnect(diagram.NewEdge(diagram.EdgeKindObjectReference), field, target) {
		t.Error("field → object reference rejected")
	}
	if b.CanConnect(diagram.NewEdge(diagram.EdgeKindObjectReference), target, field) {
		t.Error("object → field reference allowed")
	}
	if b.CanConnect(diagram.NewEdge(diagram.EdgeKindObjectCollaboration), field, target) {
		t.Error("collaboration starting at a field allowed")
	}
}

func TestUseCaseRules(t *testing.T) {
	d := diagram.New("UseCaseDiagram")
	b := NewUseCase(d)
	actor := mustAddNode(t, b, diagram.NodeKindActor, nil)
	actor2 := mustAddNode(t, b, diagram.NodeKindActor, nil)
	uc := mustAddNode(t, b, diagram.NodeKindUseCase, nil)
	uc2 := mustAddNode(t, b, diagram.NodeKindUseCase, nil)

	if !b.CanConnect(diagram.NewEdge(diagram.EdgeKindUseCaseAssociation), actor, uc) {
		t.Error("actor-usecase association rejected")
	}
	if !b.CanConnect(diagram.NewEdgeSubtyped(diagram.EdgeKindUseCaseDependency, diagram.SubtypeExtend), uc, uc2) {
		t.Error("usecase extend dependency rejected")
	}
	if b.CanConnect(diagram.NewEdgeSubtyped(diagram.EdgeKindUseCaseDependency, diagram.SubtypeInclude), actor, uc) {
		t.Error("dependency from actor allowed")
	}
	if !b.CanConnect(diagram.NewEdge(diagram.EdgeKindUseCaseGeneralization), actor, actor2) {
		t.Error("actor-actor generalization rejected")
	}
	if b.CanConnect(diagram.NewEdge(diagram.EdgeKindUseCaseGeneralization), actor, uc) {
		t.Error("cross-kind generalization allowed")
	}
}

func TestReparent(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)
	outer := mustAddNode(t, b, diagram.NodeKindPackage, nil)
	inner := mustAddNode(t, b, diagram.NodeKindPackage, outer)
	cls := mustAddNode(t, b, diagram.NodeKindClass, nil)

	// Move a root class into the inner package.
	if !b.CanReparent(cls, inner) {
		t.Fatal("CanReparent(cls, inner) = false")
	}
	if err := b.Reparent(cls, inner); err != nil {
		t.Fatalf("Reparent(cls, inner) = %v", err)
	}
	if cls.Parent() != inner {
		t.Error("class parent is not the inner package")
	}
	if cls.Root() != outer {
		t.Error("class root is not the outer package")
	}

	// Moving a package into its own subtree would create a cycle.
	if b.CanReparent(outer, inner) {
		t.Error("CanReparent allowed a containment cycle")
	}
	if err := b.Reparent(outer, inner); err == nil {
		t.Error("Reparent created a containment cycle")
	} else if !errors.Is(err, errors.ErrCodeStructuralViolation) {
		t.Errorf("error code = %v, want STRUCTURAL_VIOLATION", errors.GetCode(err))
	}

	// Move the class back to the top level.
	if err := b.Reparent(cls, nil); err != nil {
		t.Fatalf("Reparent(cls, nil) = %v", err)
	}
	if cls.Parent() != nil {
		t.Error("class still has a parent after moving to root")
	}
}

func TestReachabilityInvariantHoldsUnderMixedOperations(t *testing.T) {
	d := diagram.New("ClassDiagram")
	b := NewClass(d)

	pkg := mustAddNode(t, b, diagram.NodeKindPackage, nil)
	a := mustAddNode(t, b, diagram.NodeKindClass, pkg)
	c := mustAddNode(t, b, diagram.NodeKindClass, nil)
	i := mustAddNode(t, b, diagram.NodeKindInterface, nil)

	mustConnect(t, b, diagram.NewEdge(diagram.EdgeKindDependency), a, c)
	mustConnect(t, b, diagram.NewEdgeSubtyped(diagram.EdgeKindGeneralization, diagram.SubtypeImplementation), c, i)

	steps := []func() error{
		func() error { return b.Reparent(c, pkg) },
		func() error { return b.RemoveElement(i) },
		func() error { return b.AddNode(diagram.NewNode(diagram.NodeKindClass), pkg) },
		func() error { return b.RemoveElement(pkg) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if err := d.Validate(); err != nil {
			t.Fatalf("step %d broke the reachability invariant: %v", i, err)
		}
	}

	// Removing the package cascaded to everything inside it.
	if d.RootCount() != 0 || d.EdgeCount() != 0 {
		t.Errorf("diagram not empty after removing the package: %d roots, %d edges",
			d.RootCount(), d.EdgeCount())
	}
}

func TestNewBuilderNilDiagramPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewClass(nil) did not panic")
		}
	}()
	NewClass(nil)
}
