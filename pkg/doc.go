// Package pkg provides the core libraries for umlkit UML diagram editing.
//
// # Overview
//
// umlkit represents UML diagrams as trees of typed nodes connected by typed
// edges, with one dialect per diagram type enforcing that dialect's
// structural rules. The pkg directory is organized into these areas:
//
//  1. [diagram] - Element model (nodes, edges, properties, diagrams)
//  2. [dialect] - The five diagram type registrations and their catalogs
//  3. [builder] - Mutation with validation (predicate-then-act)
//  4. [viewer] - Geometry queries (bounds, hit testing, edge routing)
//  5. [persist] - JSON wire format and Graphviz export
//  6. [store] - Named diagram storage (file, memory, redis, mongo)
//  7. [tools] - Tool palettes derived from dialect catalogs
//
// # Architecture
//
// The typical data flow through umlkit:
//
//	Diagram file (JSON)
//	         ↓
//	    [persist] package (decode, replay through builder)
//	         ↓
//	    [builder] package (validate every mutation)
//	         ↓
//	    [diagram] package (element tree)
//	         ↓
//	    [viewer] / [persist] packages (geometry, DOT/SVG/PNG output)
//
// # Quick Start
//
//	d := dialect.Class.NewDiagram()
//	b := dialect.Class.NewBuilder(d)
//
//	c := diagram.NewNode(diagram.NodeKindClass)
//	if err := b.AddNode(c, nil); err != nil {
//		return err
//	}
//
//	if err := persist.WriteFile(d, "design.class.json"); err != nil {
//		return err
//	}
//
// Supporting packages: [geometry] for points and rectangles, [errors] for
// coded errors, [observability] for editor/viewer/store hooks, and
// [buildinfo] for build-time version information.
package pkg
