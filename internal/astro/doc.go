// Package astro parses .astro component files into an index-addressed syntax tree.
//
// The pipeline consists of:
//   - [Parse]: scans the source and builds a [Tree] of [Node] values
//   - [Tree.Add]: appends synthetic nodes, used by transforms that must not
//     mutate parsed nodes
//   - [Serialize]: reproduces the source text of a subtree
//   - [Dump]: renders a tree for debugging
//
// Nodes never point at each other directly. A node owns a list of child
// [NodeID]s and every lookup goes through the owning [Tree].
package astro
