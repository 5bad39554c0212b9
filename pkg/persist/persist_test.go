package persist

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/dialect"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/geometry"
)

func setName(t *testing.T, el diagram.Element, name string) {
	t.Helper()
	p, ok := el.Properties().Get("name")
	if !ok {
		t.Fatalf("element has no name property")
	}
	p.Set(name)
}

// buildClassDiagram assembles a package containing a class, a free interface,
// and a subtyped generalization between them.
func buildClassDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := dialect.Class.NewDiagram()
	b := dialect.Class.NewBuilder(d)

	pkg := diagram.NewNode(diagram.NodeKindPackage)
	pkg.SetPosition(geometry.Point{X: 10, Y: 10})
	setName(t, pkg, "util")
	if err := b.AddNode(pkg, nil); err != nil {
		t.Fatal(err)
	}

	cls := diagram.NewNode(diagram.NodeKindClass)
	cls.SetPosition(geometry.Point{X: 30, Y: 50})
	cls.SetSize(geometry.Dimension{Width: 140, Height: 80})
	setName(t, cls, "ArrayList")
	if err := b.AddNode(cls, pkg); err != nil {
		t.Fatal(err)
	}

	iface := diagram.NewNode(diagram.NodeKindInterface)
	iface.SetPosition(geometry.Point{X: 300, Y: 10})
	setName(t, iface, "List")
	if err := b.AddNode(iface, nil); err != nil {
		t.Fatal(err)
	}

	gen := diagram.NewEdgeSubtyped(diagram.EdgeKindGeneralization, diagram.SubtypeImplementation)
	if err := b.AddEdge(gen, cls, iface); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRoundTripClassDiagram(t *testing.T) {
	d := buildClassDiagram(t)

	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatal(err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got.TypeName() != "ClassDiagram" {
		t.Errorf("type name = %s", got.TypeName())
	}
	if got.RootCount() != 2 || got.EdgeCount() != 1 {
		t.Fatalf("loaded %d roots, %d edges; want 2 and 1", got.RootCount(), got.EdgeCount())
	}

	pkg := got.Roots()[0]
	if pkg.Kind() != diagram.NodeKindPackage || pkg.Position() != (geometry.Point{X: 10, Y: 10}) {
		t.Errorf("first root = %s at %v", pkg.Kind(), pkg.Position())
	}
	if name, _ := pkg.Properties().Get("name"); name.Get() != "util" {
		t.Errorf("package name = %q", name.Get())
	}

	children := pkg.Children()
	if len(children) != 1 {
		t.Fatalf("package has %d children, want 1", len(children))
	}
	cls := children[0]
	if cls.Size() != (geometry.Dimension{Width: 140, Height: 80}) {
		t.Errorf("explicit size lost: %v", cls.Size())
	}

	edge := got.Edges()[0]
	if edge.Subtype() != diagram.SubtypeImplementation {
		t.Errorf("subtype = %s, want Implementation", edge.Subtype())
	}
	if edge.Start() != cls || edge.End().Kind() != diagram.NodeKindInterface {
		t.Error("edge endpoints not resolved to the loaded nodes")
	}
	if err := got.Validate(); err != nil {
		t.Errorf("loaded diagram fails validation: %v", err)
	}
}

func TestRoundTripSequenceOrdinals(t *testing.T) {
	d := dialect.Sequence.NewDiagram()
	b := dialect.Sequence.NewBuilder(d)

	var params []*diagram.Node
	for i := 0; i < 3; i++ {
		n := diagram.NewNode(diagram.NodeKindImplicitParameter)
		n.SetPosition(geometry.Point{X: i * 150, Y: 0})
		if err := b.AddNode(n, nil); err != nil {
			t.Fatal(err)
		}
		params = append(params, n)
	}
	for _, pair := range [][2]int{{0, 1}, {1, 2}} {
		e := diagram.NewEdge(diagram.EdgeKindCall)
		if err := b.AddEdge(e, params[pair[0]], params[pair[1]]); err != nil {
			t.Fatal(err)
		}
	}
	d.EdgesOfKind(diagram.EdgeKindCall)[1].SetSignal(true)

	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}

	calls := got.EdgesOfKind(diagram.EdgeKindCall)
	if len(calls) != 2 {
		t.Fatalf("loaded %d calls, want 2", len(calls))
	}
	if calls[0].Ordinal() != 0 || calls[1].Ordinal() != 1 {
		t.Errorf("ordinals = %d, %d; want 0, 1", calls[0].Ordinal(), calls[1].Ordinal())
	}
	if calls[0].Signal() || !calls[1].Signal() {
		t.Errorf("signal flags = %v, %v; want false, true", calls[0].Signal(), calls[1].Signal())
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"not json", "{", errors.ErrCodeInvalidFormat},
		{"unknown dialect", `{"version":"1.0","diagram":"FlowChart"}`, errors.ErrCodeInvalidArgument},
		{"unknown node type", `{"version":"1.0","diagram":"ClassDiagram","nodes":[{"id":0,"type":"Blob"}]}`, errors.ErrCodeInvalidFormat},
		{"duplicate node id", `{"version":"1.0","diagram":"ClassDiagram","nodes":[{"id":0,"type":"Class"},{"id":0,"type":"Class"}]}`, errors.ErrCodeInvalidFormat},
		{"unknown property", `{"version":"1.0","diagram":"ClassDiagram","nodes":[{"id":0,"type":"Class","properties":{"color":"red"}}]}`, errors.ErrCodeInvalidFormat},
		{"edge to unknown node", `{"version":"1.0","diagram":"ClassDiagram","nodes":[{"id":0,"type":"Class"}],"edges":[{"type":"Dependency","start":0,"end":7}]}`, errors.ErrCodeInvalidFormat},
		{"field as root", `{"version":"1.0","diagram":"ObjectDiagram","nodes":[{"id":0,"type":"Field"}]}`, errors.ErrCodeInvalidFormat},
		{"foreign node kind", `{"version":"1.0","diagram":"ClassDiagram","nodes":[{"id":0,"type":"State"}]}`, errors.ErrCodeInvalidFormat},
		{"illegal subtype", `{"version":"1.0","diagram":"ClassDiagram","nodes":[{"id":0,"type":"Class"},{"id":1,"type":"Class"}],"edges":[{"type":"Dependency","subtype":"Extend","start":0,"end":1}]}`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	d := buildClassDiagram(t)
	path := filepath.Join(t.TempDir(), "design.class.json")

	if err := WriteFile(d, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.RootCount() != d.RootCount() || got.EdgeCount() != d.EdgeCount() {
		t.Errorf("file round-trip changed element counts")
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestToDOT(t *testing.T) {
	d := buildClassDiagram(t)
	dot := ToDOT(d, DOTOptions{})

	for _, want := range []string{"digraph G", "subgraph cluster_", `label="util"`, `label="ArrayList"`, `label="List"`, "arrowhead=empty", "->"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output is missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	d := dialect.State.NewDiagram()
	b := dialect.State.NewBuilder(d)
	s := diagram.NewNode(diagram.NodeKindState)
	setName(t, s, "Idle")
	if err := b.AddNode(s, nil); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(d, DOTOptions{Detailed: true})
	if !strings.Contains(dot, "Idle") || !strings.Contains(dot, "«State»") {
		t.Errorf("detailed DOT label missing kind annotation:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="124pt" height="86pt" viewBox="0.00 0.00 124.00 86.00" xmlns="http://www.w3.org/2000/svg"><g></g></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 124.00 86.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="124" height="86"`) {
		t.Errorf("pixel size not set from viewBox: %s", out)
	}
}
