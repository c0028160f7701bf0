// Package validator checks block programs at import time. The engine trusts
// these invariants (finite acyclic tree, bounded depth, sane slots) and only
// keeps its own safety guard as a runtime backstop, so everything that
// enters the system must pass through here first.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/armature/pkg/domain"
)

// DefaultMaxDepth bounds how deeply control blocks may nest. Programs come
// from shared/imported files, so the bound is enforced here rather than
// trusted from the editor.
const DefaultMaxDepth = 32

// Options tunes validation.
type Options struct {
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

// Validate checks the structural invariants of a program and returns an
// error describing every violation found, not just the first.
func Validate(program *domain.Program, opts Options) error {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var problems []string

	byID := make(map[string]domain.Block, len(program.Blocks))
	for _, b := range program.Blocks {
		if _, dup := byID[b.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate block id %q", b.ID))
			continue
		}
		byID[b.ID] = b
	}

	for _, b := range program.Blocks {
		if b.ParentID == "" {
			continue
		}

		parent, ok := byID[b.ParentID]
		if !ok {
			problems = append(problems, fmt.Sprintf("block %q references missing parent %q", b.ID, b.ParentID))
			continue
		}

		if !parent.IsControl() {
			problems = append(problems, fmt.Sprintf("block %q is parented to %q, which is not a control block", b.ID, b.ParentID))
		}

		switch b.ChildSlot {
		case "", domain.SlotThen:
		case domain.SlotElse:
			if parent.DefinitionID != domain.DefIfElse {
				problems = append(problems, fmt.Sprintf("block %q uses the else slot under %q, which is not an if-else", b.ID, b.ParentID))
			}
		default:
			problems = append(problems, fmt.Sprintf("block %q has unknown child slot %q", b.ID, b.ChildSlot))
		}
	}

	// Walk each parent chain once: detects cycles and over-deep nesting in
	// the same pass. A chain longer than the block count is necessarily
	// cyclic even when ids repeat.
	for _, b := range program.Blocks {
		depth := 0
		seen := map[string]bool{b.ID: true}
		current := b
		for current.ParentID != "" {
			depth++
			if seen[current.ParentID] {
				problems = append(problems, fmt.Sprintf("block %q is part of a parent cycle", b.ID))
				break
			}
			seen[current.ParentID] = true

			next, ok := byID[current.ParentID]
			if !ok {
				break // already reported above
			}
			current = next
		}
		if depth > maxDepth {
			problems = append(problems, fmt.Sprintf("block %q is nested %d levels deep (limit %d)", b.ID, depth, maxDepth))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("program %q failed validation:\n  - %s", program.ID, strings.Join(problems, "\n  - "))
	}
	return nil
}
