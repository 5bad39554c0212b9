package persist

import (
	"encoding/json"
	"io"
	"os"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
)

// Version identifies the file format. Bump only on incompatible changes.
const Version = "1.0"

// Document is the wire form of a diagram. Nodes nest their children; edges
// reference nodes by the numeric ids assigned during encoding.
type Document struct {
	Version string     `json:"version" bson:"version"`
	Diagram string     `json:"diagram" bson:"diagram"`
	Nodes   []WireNode `json:"nodes" bson:"nodes"`
	Edges   []WireEdge `json:"edges" bson:"edges"`
}

// WireNode is the wire form of one node. Ids are assigned in pre-order
// during encoding and are only meaningful within one document.
type WireNode struct {
	ID         int               `json:"id" bson:"id"`
	Type       string            `json:"type" bson:"type"`
	X          int               `json:"x" bson:"x"`
	Y          int               `json:"y" bson:"y"`
	Width      int               `json:"width,omitempty" bson:"width,omitempty"`
	Height     int               `json:"height,omitempty" bson:"height,omitempty"`
	Properties map[string]string `json:"properties,omitempty" bson:"properties,omitempty"`
	Children   []WireNode        `json:"children,omitempty" bson:"children,omitempty"`
}

// WireEdge is the wire form of one edge.
type WireEdge struct {
	Type       string            `json:"type" bson:"type"`
	Subtype    string            `json:"subtype,omitempty" bson:"subtype,omitempty"`
	Start      int               `json:"start" bson:"start"`
	End        int               `json:"end" bson:"end"`
	Ordinal    int               `json:"ordinal,omitempty" bson:"ordinal,omitempty"`
	Signal     bool              `json:"signal,omitempty" bson:"signal,omitempty"`
	Properties map[string]string `json:"properties,omitempty" bson:"properties,omitempty"`
}

// Encode converts a diagram to its wire document.
func Encode(d *diagram.Diagram) Document {
	errors.Precondition(d != nil, "diagram must not be nil")

	ids := make(map[*diagram.Node]int)
	next := 0
	var encodeNode func(n *diagram.Node) WireNode
	encodeNode = func(n *diagram.Node) WireNode {
		ids[n] = next
		wn := WireNode{
			ID:   next,
			Type: n.Kind().String(),
			X:    n.Position().X,
			Y:    n.Position().Y,
		}
		next++
		if size := n.Size(); size != n.Kind().DefaultSize() {
			wn.Width = size.Width
			wn.Height = size.Height
		}
		wn.Properties = encodeProperties(n.Properties())
		for _, c := range n.Children() {
			wn.Children = append(wn.Children, encodeNode(c))
		}
		return wn
	}

	doc := Document{Version: Version, Diagram: d.TypeName()}
	for _, r := range d.Roots() {
		doc.Nodes = append(doc.Nodes, encodeNode(r))
	}
	for _, e := range d.Edges() {
		we := WireEdge{
			Type:       e.Kind().String(),
			Subtype:    e.Subtype().String(),
			Start:      ids[e.Start()],
			End:        ids[e.End()],
			Ordinal:    e.Ordinal(),
			Signal:     e.Signal(),
			Properties: encodeProperties(e.Properties()),
		}
		doc.Edges = append(doc.Edges, we)
	}
	return doc
}

// encodeProperties collects the non-empty property values, or nil when every
// value is empty.
func encodeProperties(ps *diagram.Properties) map[string]string {
	var out map[string]string
	for _, p := range ps.List() {
		if v := p.Get(); v != "" {
			if out == nil {
				out = make(map[string]string)
			}
			out[p.Name()] = v
		}
	}
	return out
}

// Write encodes a diagram as indented JSON and writes it to w. The output
// round-trips through [Read].
func Write(d *diagram.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Encode(d)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", d.TypeName())
	}
	return nil
}

// WriteFile writes a diagram to a JSON file at path. This is a convenience
// wrapper around [Write] for file-based output.
func WriteFile(d *diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Write(d, f)
}
