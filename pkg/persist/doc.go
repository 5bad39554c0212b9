// Package persist reads and writes diagram files and exports diagrams to
// Graphviz formats.
//
// The native format is JSON: a document carrying the dialect name, a format
// version, the root nodes (children nested), and the edges referencing nodes
// by numeric id. Loading replays the document through the dialect's builder,
// so a loaded diagram satisfies the same structural invariants as one built
// interactively; a file describing an illegal structure is rejected as
// INVALID_FORMAT.
//
// The wire types carry bson tags alongside json so stores can persist
// documents natively.
package persist
