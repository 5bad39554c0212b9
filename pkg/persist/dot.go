package persist

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed includes the element kind and all non-empty properties in
	// labels. When false, only the name property is shown.
	Detailed bool
}

// nodeShapes maps node kinds to Graphviz shapes. Kinds without an entry use
// the default box.
var nodeShapes = map[diagram.NodeKind]string{
	diagram.NodeKindNote:         "note",
	diagram.NodeKindPackage:      "tab",
	diagram.NodeKindState:        "box",
	diagram.NodeKindInitialState: "circle",
	diagram.NodeKindFinalState:   "doublecircle",
	diagram.NodeKindUseCase:      "ellipse",
	diagram.NodeKindActor:        "plaintext",
}

// dashedEdgeKinds are drawn with a dashed line per UML notation.
var dashedEdgeKinds = map[diagram.EdgeKind]bool{
	diagram.EdgeKindDependency:        true,
	diagram.EdgeKindNote:              true,
	diagram.EdgeKindReturn:            true,
	diagram.EdgeKindUseCaseDependency: true,
}

// ToDOT converts a diagram to Graphviz DOT format. Containment is expressed
// as clusters; every leaf node becomes a DOT node named by its encoding id.
// The resulting string renders with [RenderSVG] or [RenderPNG].
func ToDOT(d *diagram.Diagram, opts DOTOptions) string {
	errors.Precondition(d != nil, "diagram must not be nil")

	ids := make(map[*diagram.Node]string)
	next := 0
	id := func(n *diagram.Node) string {
		if s, ok := ids[n]; ok {
			return s
		}
		s := "n" + strconv.Itoa(next)
		next++
		ids[n] = s
		return s
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	var writeNode func(n *diagram.Node, indent string)
	writeNode = func(n *diagram.Node, indent string) {
		children := n.Children()
		if len(children) > 0 {
			fmt.Fprintf(&buf, "%ssubgraph cluster_%s {\n", indent, id(n))
			fmt.Fprintf(&buf, "%s  label=%q;\n", indent, nodeLabel(n, opts.Detailed))
			for _, c := range children {
				writeNode(c, indent+"  ")
			}
			fmt.Fprintf(&buf, "%s}\n", indent)
			return
		}
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}
		if shape, ok := nodeShapes[n.Kind()]; ok {
			attrs = append(attrs, "shape="+shape)
		}
		fmt.Fprintf(&buf, "%s%s [%s];\n", indent, id(n), strings.Join(attrs, ", "))
	}
	for _, r := range d.Roots() {
		writeNode(r, "  ")
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		attrs := edgeAttrs(e)
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", anchor(e.Start(), id), anchor(e.End(), id), strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %s -> %s;\n", anchor(e.Start(), id), anchor(e.End(), id))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// anchor returns the DOT node standing in for n: container nodes are
// clusters, so edges attach to their first leaf descendant.
func anchor(n *diagram.Node, id func(*diagram.Node) string) string {
	for {
		children := n.Children()
		if len(children) == 0 {
			return id(n)
		}
		n = children[0]
	}
}

func nodeLabel(n *diagram.Node, detailed bool) string {
	name := ""
	if p, ok := n.Properties().Get("name"); ok {
		name = p.Get()
	}
	if name == "" {
		name = n.Kind().String()
	}
	if !detailed {
		return name
	}

	parts := []string{name, "«" + n.Kind().String() + "»"}
	for _, p := range n.Properties().List() {
		if p.Name() == "name" || p.Get() == "" {
			continue
		}
		parts = append(parts, p.Name()+": "+p.Get())
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e *diagram.Edge) []string {
	var attrs []string
	if label, ok := e.Properties().Get("middleLabel"); ok && label.Get() != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label.Get()))
	}
	if dashedEdgeKinds[e.Kind()] {
		attrs = append(attrs, "style=dashed")
	}
	switch e.Kind() {
	case diagram.EdgeKindGeneralization, diagram.EdgeKindUseCaseGeneralization:
		attrs = append(attrs, "arrowhead=empty")
	case diagram.EdgeKindAggregation:
		if e.Subtype() == diagram.SubtypeComposition {
			attrs = append(attrs, "arrowhead=diamond")
		} else {
			attrs = append(attrs, "arrowhead=odiamond")
		}
	}
	if s := e.Subtype(); s == diagram.SubtypeExtend || s == diagram.SubtypeInclude {
		attrs = append(attrs, fmt.Sprintf("label=%q", "«"+strings.ToLower(s.String())+"»"))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderDOT(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderDOT(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format, buf *bytes.Buffer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg element so the viewBox starts at the
// origin and the pixel size matches it, which keeps embedding predictable.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
