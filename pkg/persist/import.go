package persist

import (
	"encoding/json"
	"io"
	"os"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/dialect"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/geometry"
)

// Decode rebuilds a diagram from its wire document. The document is replayed
// through the dialect's builder, so every structural invariant holds on the
// result; a document describing an illegal structure yields an
// INVALID_FORMAT error. An unknown dialect name yields INVALID_ARGUMENT.
func Decode(doc Document) (*diagram.Diagram, error) {
	typ, err := dialect.ByName(doc.Diagram)
	if err != nil {
		return nil, err
	}

	d := typ.NewDiagram()
	b := typ.NewBuilder(d)

	nodes := make(map[int]*diagram.Node)
	var decodeNode func(wn WireNode, parent *diagram.Node) error
	decodeNode = func(wn WireNode, parent *diagram.Node) error {
		if _, dup := nodes[wn.ID]; dup {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %d", wn.ID)
		}
		kind, err := diagram.ParseNodeKind(wn.Type)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", wn.ID)
		}
		n := diagram.NewNode(kind)
		n.SetPosition(geometry.Point{X: wn.X, Y: wn.Y})
		if wn.Width != 0 || wn.Height != 0 {
			n.SetSize(geometry.Dimension{Width: wn.Width, Height: wn.Height})
		}
		if err := applyProperties(n.Properties(), wn.Properties); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", wn.ID)
		}
		if err := b.AddNode(n, parent); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", wn.ID)
		}
		nodes[wn.ID] = n
		for _, c := range wn.Children {
			if err := decodeNode(c, n); err != nil {
				return err
			}
		}
		return nil
	}
	for _, wn := range doc.Nodes {
		if err := decodeNode(wn, nil); err != nil {
			return nil, err
		}
	}

	for _, we := range doc.Edges {
		kind, err := diagram.ParseEdgeKind(we.Type)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s->%d", we.Type, we.End)
		}
		subtype, err := diagram.ParseEdgeSubtype(we.Subtype)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d->%d", we.Start, we.End)
		}
		start, ok := nodes[we.Start]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge references unknown node %d", we.Start)
		}
		end, ok := nodes[we.End]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge references unknown node %d", we.End)
		}

		e := diagram.NewEdge(kind)
		if subtype != diagram.SubtypeNone {
			if err := e.SetSubtype(subtype); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d->%d", we.Start, we.End)
			}
		}
		if err := applyProperties(e.Properties(), we.Properties); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d->%d", we.Start, we.End)
		}
		if err := b.AddEdge(e, start, end); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d->%d", we.Start, we.End)
		}
		e.SetOrdinal(we.Ordinal)
		e.SetSignal(we.Signal)
	}

	return d, nil
}

// applyProperties writes persisted values through the element's property
// set. Unknown keys are a format error, not silently dropped.
func applyProperties(ps *diagram.Properties, values map[string]string) error {
	for k, v := range values {
		p, ok := ps.Get(k)
		if !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown property %q", k)
		}
		p.Set(v)
	}
	return nil
}

// Read decodes a JSON diagram document from r.
//
// Read returns an error if the JSON is malformed (INVALID_FORMAT), the
// dialect name is unknown (INVALID_ARGUMENT), or replaying the document
// violates a structural rule of the dialect (INVALID_FORMAT). The returned
// diagram is independent of r; Read does not close r.
func Read(r io.Reader) (*diagram.Diagram, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode diagram")
	}
	return Decode(doc)
}

// ReadFile reads a JSON diagram file at path. A missing file yields
// FILE_NOT_FOUND; other failures propagate from [Read].
func ReadFile(path string) (*diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}
