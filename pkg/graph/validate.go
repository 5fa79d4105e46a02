package graph

import (
	"fmt"
	"slices"
)

// Validate checks the structural invariants every pass relies on:
//
//   - adjacency lists only reference live nodes,
//   - no node lists itself as child or parent,
//   - child and parent edges are symmetric,
//   - no node exceeds [MaxModuleSize].
//
// It returns the first violation found, wrapping one of the Err* sentinels.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		n := g.arena[id]
		if n.MergeCount > MaxModuleSize {
			return fmt.Errorf("%w: %q holds %d nodes", ErrModuleTooLarge, n.Label, n.MergeCount)
		}
		for _, c := range n.children {
			child, ok := g.Node(c)
			if !ok {
				return fmt.Errorf("%w: %q -> #%d", ErrDanglingEdge, n.Label, c)
			}
			if c == n.ID {
				return fmt.Errorf("%w: %q", ErrSelfLoop, n.Label)
			}
			if !slices.Contains(child.parents, n.ID) {
				return fmt.Errorf("%w: %q -> %q has no parent entry", ErrAsymmetricEdge, n.Label, child.Label)
			}
		}
		for _, p := range n.parents {
			parent, ok := g.Node(p)
			if !ok {
				return fmt.Errorf("%w: #%d -> %q", ErrDanglingEdge, p, n.Label)
			}
			if p == n.ID {
				return fmt.Errorf("%w: %q", ErrSelfLoop, n.Label)
			}
			if !slices.Contains(parent.children, n.ID) {
				return fmt.Errorf("%w: %q -> %q has no child entry", ErrAsymmetricEdge, parent.Label, n.Label)
			}
		}
	}
	return nil
}
