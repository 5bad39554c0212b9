package builder

import (
	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
)

// newBuilder assembles a builder from a dialect's configuration record.
func newBuilder(d *diagram.Diagram, nodeKinds []diagram.NodeKind, edgeKinds []diagram.EdgeKind, connect connectRule) Builder {
	errors.Precondition(d != nil, "diagram must not be nil")
	nk := make(map[diagram.NodeKind]bool, len(nodeKinds))
	for _, k := range nodeKinds {
		nk[k] = true
	}
	ek := make(map[diagram.EdgeKind]bool, len(edgeKinds))
	for _, k := range edgeKinds {
		ek[k] = true
	}
	return &builder{d: d, nodeKinds: nk, edgeKinds: ek, connect: connect}
}

// =============================================================================
// Class diagrams
// =============================================================================

// NewClass creates the builder for class diagrams. Packages may contain
// classes, interfaces, and other packages; generalizations may not be
// self-referential.
func NewClass(d *diagram.Diagram) Builder {
	return newBuilder(d,
		[]diagram.NodeKind{diagram.NodeKindClass, diagram.NodeKindInterface, diagram.NodeKindPackage, diagram.NodeKindNote},
		[]diagram.EdgeKind{diagram.EdgeKindDependency, diagram.EdgeKindGeneralization, diagram.EdgeKindAssociation, diagram.EdgeKindAggregation, diagram.EdgeKindNote},
		classConnectRule)
}

func classConnectRule(_ *diagram.Diagram, e *diagram.Edge, start, end *diagram.Node) bool {
	// A type cannot generalize itself; aggregation is likewise irreflexive.
	switch e.Kind() {
	case diagram.EdgeKindGeneralization, diagram.EdgeKindAggregation:
		return start != end
	}
	return true
}

// =============================================================================
// Sequence diagrams
// =============================================================================

// NewSequence creates the builder for sequence diagrams. Calls connect
// implicit parameters (self-calls allowed); a return must invert an existing
// call.
func NewSequence(d *diagram.Diagram) Builder {
	return newBuilder(d,
		[]diagram.NodeKind{diagram.NodeKindImplicitParameter, diagram.NodeKindNote},
		[]diagram.EdgeKind{diagram.EdgeKindCall, diagram.EdgeKindReturn, diagram.EdgeKindNote},
		sequenceConnectRule)
}

func sequenceConnectRule(d *diagram.Diagram, e *diagram.Edge, start, end *diagram.Node) bool {
	switch e.Kind() {
	case diagram.EdgeKindCall:
		return start.Kind() == diagram.NodeKindImplicitParameter &&
			end.Kind() == diagram.NodeKindImplicitParameter
	case diagram.EdgeKindReturn:
		if start.Kind() != diagram.NodeKindImplicitParameter ||
			end.Kind() != diagram.NodeKindImplicitParameter || start == end {
			return false
		}
		// A return only makes sense for a call in the opposite direction.
		for _, call := range d.EdgesOfKind(diagram.EdgeKindCall) {
			if call.Start() == end && call.End() == start {
				return true
			}
		}
		return false
	}
	return true
}

// =============================================================================
// State diagrams
// =============================================================================

// NewState creates the builder for state diagrams. The initial state has no
// incoming transitions and the final state no outgoing ones; self-transitions
// are allowed on ordinary states.
func NewState(d *diagram.Diagram) Builder {
	return newBuilder(d,
		[]diagram.NodeKind{diagram.NodeKindState, diagram.NodeKindInitialState, diagram.NodeKindFinalState, diagram.NodeKindNote},
		[]diagram.EdgeKind{diagram.EdgeKindStateTransition, diagram.EdgeKindNote},
		stateConnectRule)
}

func stateConnectRule(_ *diagram.Diagram, e *diagram.Edge, start, end *diagram.Node) bool {
	if e.Kind() != diagram.EdgeKindStateTransition {
		return true
	}
	if start.Kind() == diagram.NodeKindFinalState {
		return false
	}
	if end.Kind() == diagram.NodeKindInitialState {
		return false
	}
	if start == end && start.Kind() != diagram.NodeKindState {
		return false
	}
	return true
}

// =============================================================================
// Object diagrams
// =============================================================================

// NewObject creates the builder for object diagrams. Fields live only inside
// objects; references run from a field to an object; collaborations connect
// objects.
func NewObject(d *diagram.Diagram) Builder {
	return newBuilder(d,
		[]diagram.NodeKind{diagram.NodeKindObject, diagram.NodeKindField, diagram.NodeKindNote},
		[]diagram.EdgeKind{diagram.EdgeKindObjectReference, diagram.EdgeKindObjectCollaboration, diagram.EdgeKindNote},
		objectConnectRule)
}

func objectConnectRule(_ *diagram.Diagram, e *diagram.Edge, start, end *diagram.Node) bool {
	switch e.Kind() {
	case diagram.EdgeKindObjectReference:
		return start.Kind() == diagram.NodeKindField && end.Kind() == diagram.NodeKindObject
	case diagram.EdgeKindObjectCollaboration:
		return start.Kind() == diagram.NodeKindObject && end.Kind() == diagram.NodeKindObject && start != end
	}
	return true
}

// =============================================================================
// Use-case diagrams
// =============================================================================

// NewUseCase creates the builder for use-case diagrams. Actors and use cases
// do not nest; dependencies (extend/include) run between use cases;
// generalizations connect elements of the same kind.
func NewUseCase(d *diagram.Diagram) Builder {
	return newBuilder(d,
		[]diagram.NodeKind{diagram.NodeKindActor, diagram.NodeKindUseCase, diagram.NodeKindNote},
		[]diagram.EdgeKind{diagram.EdgeKindUseCaseAssociation, diagram.EdgeKindUseCaseDependency, diagram.EdgeKindUseCaseGeneralization, diagram.EdgeKindNote},
		useCaseConnectRule)
}

func useCaseConnectRule(_ *diagram.Diagram, e *diagram.Edge, start, end *diagram.Node) bool {
	switch e.Kind() {
	case diagram.EdgeKindUseCaseAssociation:
		return start != end
	case diagram.EdgeKindUseCaseDependency:
		return start.Kind() == diagram.NodeKindUseCase && end.Kind() == diagram.NodeKindUseCase && start != end
	case diagram.EdgeKindUseCaseGeneralization:
		return start.Kind() == end.Kind() && start != end
	}
	return true
}
