// Package dialect is the closed registry of the five diagram types. Each
// Type bundles everything that distinguishes one dialect from another: the
// stable persisted name, the file extension, the ordered prototype catalogs
// the tool palette is built from, the builder that enforces the dialect's
// structural rules, and the viewer that derives its geometry.
//
// The registry is fixed at compile time. Prototype lists are copy-on-read:
// every call returns fresh clones so callers can never corrupt the catalog.
package dialect

import (
	"github.com/umlkit/umlkit/pkg/builder"
	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/viewer"
)

// Type describes one diagram dialect. The zero value is not usable; the five
// package-level values are the only instances.
type Type struct {
	name           string
	fileExtension  string
	nodePrototypes []*diagram.Node
	edgePrototypes []*diagram.Edge
	newBuilder     func(*diagram.Diagram) builder.Builder
	viewer         viewer.Viewer
}

// defaultViewer is shared by every dialect without dialect-specific layout.
var defaultViewer = viewer.NewDefault()

// The five dialects, in registry order. The order is significant: the tool
// palette and the node<i>/edge<i> tooltip indexing derive from it.
var (
	Class = &Type{
		name:          "ClassDiagram",
		fileExtension: "class",
		nodePrototypes: []*diagram.Node{
			diagram.NewNode(diagram.NodeKindClass),
			diagram.NewNode(diagram.NodeKindInterface),
			diagram.NewNode(diagram.NodeKindPackage),
			diagram.NewNode(diagram.NodeKindNote),
		},
		edgePrototypes: []*diagram.Edge{
			diagram.NewEdge(diagram.EdgeKindDependency),
			diagram.NewEdgeSubtyped(diagram.EdgeKindGeneralization, diagram.SubtypeInheritance),
			diagram.NewEdgeSubtyped(diagram.EdgeKindGeneralization, diagram.SubtypeImplementation),
			diagram.NewEdge(diagram.EdgeKindAssociation),
			diagram.NewEdgeSubtyped(diagram.EdgeKindAggregation, diagram.SubtypeShared),
			diagram.NewEdgeSubtyped(diagram.EdgeKindAggregation, diagram.SubtypeComposition),
			diagram.NewEdge(diagram.EdgeKindNote),
		},
		newBuilder: builder.NewClass,
		viewer:     defaultViewer,
	}

	Sequence = &Type{
		name:          "SequenceDiagram",
		fileExtension: "sequence",
		nodePrototypes: []*diagram.Node{
			diagram.NewNode(diagram.NodeKindImplicitParameter),
			diagram.NewNode(diagram.NodeKindNote),
		},
		edgePrototypes: []*diagram.Edge{
			diagram.NewEdge(diagram.EdgeKindCall),
			diagram.NewEdge(diagram.EdgeKindReturn),
			diagram.NewEdge(diagram.EdgeKindNote),
		},
		newBuilder: builder.NewSequence,
		viewer:     viewer.NewSequence(),
	}

	State = &Type{
		name:          "StateDiagram",
		fileExtension: "state",
		nodePrototypes: []*diagram.Node{
			diagram.NewNode(diagram.NodeKindState),
			diagram.NewNode(diagram.NodeKindInitialState),
			diagram.NewNode(diagram.NodeKindFinalState),
			diagram.NewNode(diagram.NodeKindNote),
		},
		edgePrototypes: []*diagram.Edge{
			diagram.NewEdge(diagram.EdgeKindStateTransition),
			diagram.NewEdge(diagram.EdgeKindNote),
		},
		newBuilder: builder.NewState,
		viewer:     defaultViewer,
	}

	Object = &Type{
		name:          "ObjectDiagram",
		fileExtension: "object",
		nodePrototypes: []*diagram.Node{
			diagram.NewNode(diagram.NodeKindObject),
			diagram.NewNode(diagram.NodeKindField),
			diagram.NewNode(diagram.NodeKindNote),
		},
		edgePrototypes: []*diagram.Edge{
			diagram.NewEdge(diagram.EdgeKindObjectReference),
			diagram.NewEdge(diagram.EdgeKindObjectCollaboration),
			diagram.NewEdge(diagram.EdgeKindNote),
		},
		newBuilder: builder.NewObject,
		viewer:     defaultViewer,
	}

	UseCase = &Type{
		name:          "UseCaseDiagram",
		fileExtension: "usecase",
		nodePrototypes: []*diagram.Node{
			diagram.NewNode(diagram.NodeKindActor),
			diagram.NewNode(diagram.NodeKindUseCase),
			diagram.NewNode(diagram.NodeKindNote),
		},
		edgePrototypes: []*diagram.Edge{
			diagram.NewEdge(diagram.EdgeKindUseCaseAssociation),
			diagram.NewEdgeSubtyped(diagram.EdgeKindUseCaseDependency, diagram.SubtypeExtend),
			diagram.NewEdgeSubtyped(diagram.EdgeKindUseCaseDependency, diagram.SubtypeInclude),
			diagram.NewEdge(diagram.EdgeKindUseCaseGeneralization),
			diagram.NewEdge(diagram.EdgeKindNote),
		},
		newBuilder: builder.NewUseCase,
		viewer:     defaultViewer,
	}
)

// all holds the dialects in registry order.
var all = []*Type{Class, Sequence, State, Object, UseCase}

// All returns the five dialects in registry order. The returned slice is a
// copy.
func All() []*Type {
	out := make([]*Type, len(all))
	copy(out, all)
	return out
}

// ByName resolves a dialect by its stable name. Comparison is exact and
// case-sensitive; unknown names yield an INVALID_ARGUMENT error.
func ByName(name string) (*Type, error) {
	for _, t := range all {
		if t.name == name {
			return t, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidArgument, "%q is not a diagram type", name)
}

// ByFileExtension resolves a dialect by its file extension, without the
// leading dot. Unknown extensions yield an INVALID_ARGUMENT error.
func ByFileExtension(ext string) (*Type, error) {
	for _, t := range all {
		if t.fileExtension == ext {
			return t, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidArgument, "%q is not a diagram file extension", ext)
}

// Name returns the dialect's stable name, as persisted in diagram files.
func (t *Type) Name() string { return t.name }

// FileExtension returns the dialect's file extension without the leading
// dot, e.g. "class" for class diagrams.
func (t *Type) FileExtension() string { return t.fileExtension }

// NodePrototypes returns fresh clones of the dialect's node prototypes, in
// catalog order.
func (t *Type) NodePrototypes() []*diagram.Node {
	out := make([]*diagram.Node, len(t.nodePrototypes))
	for i, p := range t.nodePrototypes {
		out[i] = p.Clone().(*diagram.Node)
	}
	return out
}

// EdgePrototypes returns fresh clones of the dialect's edge prototypes, in
// catalog order.
func (t *Type) EdgePrototypes() []*diagram.Edge {
	out := make([]*diagram.Edge, len(t.edgePrototypes))
	for i, p := range t.edgePrototypes {
		out[i] = p.Clone().(*diagram.Edge)
	}
	return out
}

// NewDiagram creates an empty diagram of this dialect.
func (t *Type) NewDiagram() *diagram.Diagram {
	return diagram.New(t.name)
}

// NewBuilder creates the dialect's builder for d. Panics with a
// PRECONDITION_VIOLATION error if d is nil.
func (t *Type) NewBuilder(d *diagram.Diagram) builder.Builder {
	errors.Precondition(d != nil, "diagram must not be nil")
	return t.newBuilder(d)
}

// Viewer returns the dialect's shared viewer. One instance serves all
// diagrams of the dialect; any per-diagram state it keeps is keyed by
// diagram identity and revision.
func (t *Type) Viewer() viewer.Viewer { return t.viewer }

// BuilderFor resolves d's dialect by type name and returns its builder.
func BuilderFor(d *diagram.Diagram) (builder.Builder, error) {
	t, err := ByName(d.TypeName())
	if err != nil {
		return nil, err
	}
	return t.NewBuilder(d), nil
}

// ViewerFor resolves d's dialect by type name and returns its shared viewer.
func ViewerFor(d *diagram.Diagram) (viewer.Viewer, error) {
	t, err := ByName(d.TypeName())
	if err != nil {
		return nil, err
	}
	return t.Viewer(), nil
}
