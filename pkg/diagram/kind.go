package diagram

import (
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/geometry"
)

// NodeKind identifies a node variant. The set is closed: each of the five
// diagram dialects draws its node prototypes from this list.
type NodeKind int

const (
	NodeKindClass NodeKind = iota
	NodeKindInterface
	NodeKindPackage
	NodeKindNote
	NodeKindImplicitParameter
	NodeKindState
	NodeKindInitialState
	NodeKindFinalState
	NodeKindObject
	NodeKindField
	NodeKindActor
	NodeKindUseCase
)

// nodeKindSpec is the static configuration of a node kind: its stable
// persisted name, the ordered property keys its instances carry, its default
// size, and which child kinds it may contain.
type nodeKindSpec struct {
	name     string
	props    []string
	size     geometry.Dimension
	children []NodeKind
}

var nodeKindSpecs = map[NodeKind]nodeKindSpec{
	NodeKindClass:             {name: "Class", props: []string{"name", "attributes", "methods"}, size: geometry.Dimension{Width: 100, Height: 60}},
	NodeKindInterface:         {name: "Interface", props: []string{"name", "methods"}, size: geometry.Dimension{Width: 100, Height: 60}},
	NodeKindPackage:           {name: "Package", props: []string{"name", "contents"}, size: geometry.Dimension{Width: 100, Height: 80}, children: []NodeKind{NodeKindClass, NodeKindInterface, NodeKindPackage}},
	NodeKindNote:              {name: "Note", props: []string{"name"}, size: geometry.Dimension{Width: 60, Height: 40}},
	NodeKindImplicitParameter: {name: "ImplicitParameter", props: []string{"name"}, size: geometry.Dimension{Width: 80, Height: 120}},
	NodeKindState:             {name: "State", props: []string{"name"}, size: geometry.Dimension{Width: 80, Height: 60}},
	NodeKindInitialState:      {name: "InitialState", size: geometry.Dimension{Width: 20, Height: 20}},
	NodeKindFinalState:        {name: "FinalState", size: geometry.Dimension{Width: 20, Height: 20}},
	NodeKindObject:            {name: "Object", props: []string{"name"}, size: geometry.Dimension{Width: 80, Height: 60}, children: []NodeKind{NodeKindField}},
	NodeKindField:             {name: "Field", props: []string{"name", "value"}, size: geometry.Dimension{Width: 60, Height: 20}},
	NodeKindActor:             {name: "Actor", props: []string{"name"}, size: geometry.Dimension{Width: 48, Height: 64}},
	NodeKindUseCase:           {name: "UseCase", props: []string{"name"}, size: geometry.Dimension{Width: 110, Height: 40}},
}

// String returns the kind's stable name. The name is used in persisted files
// and must never change.
func (k NodeKind) String() string { return nodeKindSpecs[k].name }

// DefaultSize returns the size used when a node has no explicit size.
func (k NodeKind) DefaultSize() geometry.Dimension { return nodeKindSpecs[k].size }

// AllowsChildren reports whether nodes of this kind may contain child nodes.
func (k NodeKind) AllowsChildren() bool { return len(nodeKindSpecs[k].children) > 0 }

// AllowsChild reports whether a node of this kind may contain a child of the
// given kind. Containment is a closed relation: Package contains
// Class/Interface/Package, Object contains Field, and nothing else nests.
func (k NodeKind) AllowsChild(child NodeKind) bool {
	for _, c := range nodeKindSpecs[k].children {
		if c == child {
			return true
		}
	}
	return false
}

// RequiresParent reports whether nodes of this kind can never be diagram
// roots. Fields live only inside Objects.
func (k NodeKind) RequiresParent() bool { return k == NodeKindField }

// ParseNodeKind resolves a persisted node-kind name. Comparison is exact and
// case-sensitive. Returns an INVALID_ARGUMENT error for unknown names.
func ParseNodeKind(name string) (NodeKind, error) {
	for k, spec := range nodeKindSpecs {
		if spec.name == name {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidArgument, "%q is not a valid node kind", name)
}

// EdgeKind identifies an edge variant. Like node kinds, the set is closed.
type EdgeKind int

const (
	EdgeKindDependency EdgeKind = iota
	EdgeKindGeneralization
	EdgeKindAssociation
	EdgeKindAggregation
	EdgeKindNote
	EdgeKindCall
	EdgeKindReturn
	EdgeKindStateTransition
	EdgeKindObjectReference
	EdgeKindObjectCollaboration
	EdgeKindUseCaseAssociation
	EdgeKindUseCaseDependency
	EdgeKindUseCaseGeneralization
)

// EdgeSubtype refines an edge kind. Only some kinds carry a subtype:
// Generalization (inheritance vs. implementation), Aggregation (shared vs.
// composition), and UseCaseDependency (extend vs. include).
type EdgeSubtype int

const (
	SubtypeNone EdgeSubtype = iota
	SubtypeInheritance
	SubtypeImplementation
	SubtypeShared
	SubtypeComposition
	SubtypeExtend
	SubtypeInclude
)

var edgeSubtypeNames = map[EdgeSubtype]string{
	SubtypeNone:           "",
	SubtypeInheritance:    "Inheritance",
	SubtypeImplementation: "Implementation",
	SubtypeShared:         "Shared",
	SubtypeComposition:    "Composition",
	SubtypeExtend:         "Extend",
	SubtypeInclude:        "Include",
}

// String returns the subtype's stable persisted name, or "" for SubtypeNone.
func (s EdgeSubtype) String() string { return edgeSubtypeNames[s] }

// ParseEdgeSubtype resolves a persisted subtype name. The empty string maps
// to SubtypeNone.
func ParseEdgeSubtype(name string) (EdgeSubtype, error) {
	for s, n := range edgeSubtypeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidArgument, "%q is not a valid edge subtype", name)
}

// edgeKindSpec is the static configuration of an edge kind.
type edgeKindSpec struct {
	name     string
	props    []string
	subtypes []EdgeSubtype
}

var edgeKindSpecs = map[EdgeKind]edgeKindSpec{
	EdgeKindDependency:            {name: "Dependency", props: []string{"middleLabel"}},
	EdgeKindGeneralization:        {name: "Generalization", subtypes: []EdgeSubtype{SubtypeInheritance, SubtypeImplementation}},
	EdgeKindAssociation:           {name: "Association", props: []string{"startLabel", "middleLabel", "endLabel"}},
	EdgeKindAggregation:           {name: "Aggregation", props: []string{"startLabel", "middleLabel", "endLabel"}, subtypes: []EdgeSubtype{SubtypeShared, SubtypeComposition}},
	EdgeKindNote:                  {name: "NoteConnector"},
	EdgeKindCall:                  {name: "Call", props: []string{"middleLabel"}},
	EdgeKindReturn:                {name: "Return", props: []string{"middleLabel"}},
	EdgeKindStateTransition:       {name: "StateTransition", props: []string{"middleLabel"}},
	EdgeKindObjectReference:       {name: "ObjectReference"},
	EdgeKindObjectCollaboration:   {name: "ObjectCollaboration", props: []string{"middleLabel"}},
	EdgeKindUseCaseAssociation:    {name: "UseCaseAssociation"},
	EdgeKindUseCaseDependency:     {name: "UseCaseDependency", subtypes: []EdgeSubtype{SubtypeExtend, SubtypeInclude}},
	EdgeKindUseCaseGeneralization: {name: "UseCaseGeneralization"},
}

// String returns the kind's stable persisted name.
func (k EdgeKind) String() string { return edgeKindSpecs[k].name }

// AllowsSubtype reports whether the subtype is legal for this kind.
// SubtypeNone is legal exactly for kinds that carry no subtype refinement,
// and also serves as the default for kinds that do (Generalization defaults
// to inheritance when unset, matching persisted files that omit the field).
func (k EdgeKind) AllowsSubtype(s EdgeSubtype) bool {
	if s == SubtypeNone {
		return true
	}
	for _, allowed := range edgeKindSpecs[k].subtypes {
		if allowed == s {
			return true
		}
	}
	return false
}

// ParseEdgeKind resolves a persisted edge-kind name. Comparison is exact and
// case-sensitive. Returns an INVALID_ARGUMENT error for unknown names.
func ParseEdgeKind(name string) (EdgeKind, error) {
	for k, spec := range edgeKindSpecs {
		if spec.name == name {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidArgument, "%q is not a valid edge kind", name)
}
