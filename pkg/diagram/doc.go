// Package diagram implements the element model and container at the core of
// umlkit: nodes, edges, their named properties, and the Diagram that holds
// them.
//
// A Diagram is an ordered sequence of root nodes plus the edges connecting
// nodes. Nodes may contain child nodes (containment), and the parent owns its
// children transitively: removing a node removes its whole subtree. Edges
// reference exactly one start and one end node and never own them.
//
// The structural invariant maintained throughout is that every edge endpoint
// is reachable from some root node. Diagrams are mutated exclusively through
// a dialect builder (see package builder), never directly; the mutating
// methods on Diagram exist for builders and persistence loading.
//
// Node and edge variants form a closed set of kinds (tagged variants) rather
// than an open class hierarchy, because the set of supported UML element
// types is fixed. Kind-specific behavior lives in capability predicates on
// the kinds, so legality checks never rely on reflection.
package diagram
