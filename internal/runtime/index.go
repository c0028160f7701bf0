package runtime

import "github.com/aretw0/armature/pkg/domain"

// childIndex is the adjacency view over a flat block collection, built once
// per run: parent id to ordered children. Traversal order matches insertion
// order, so sibling execution order equals array order in the source list.
//
// The index holds the blocks of the collection it was built from; parameter
// maps are shared with the source, so in-place parameter edits between loop
// iterations are observed without rebuilding.
type childIndex struct {
	roots    []domain.Block
	byParent map[string][]domain.Block
}

func newChildIndex(blocks []domain.Block) *childIndex {
	ix := &childIndex{byParent: make(map[string][]domain.Block)}
	for _, b := range blocks {
		if b.ParentID == "" {
			ix.roots = append(ix.roots, b)
			continue
		}
		ix.byParent[b.ParentID] = append(ix.byParent[b.ParentID], b)
	}
	return ix
}

// topLevel returns the blocks with no parent, in array order.
func (ix *childIndex) topLevel() []domain.Block {
	return ix.roots
}

// children returns the direct children of a parent filtered by branch.
// SlotThen matches blocks with an empty slot too (the default branch);
// SlotElse requires the exact discriminator.
func (ix *childIndex) children(parentID, slot string) []domain.Block {
	all := ix.byParent[parentID]
	out := make([]domain.Block, 0, len(all))
	for _, b := range all {
		switch slot {
		case domain.SlotElse:
			if b.ChildSlot == domain.SlotElse {
				out = append(out, b)
			}
		default:
			if b.ChildSlot != domain.SlotElse {
				out = append(out, b)
			}
		}
	}
	return out
}
