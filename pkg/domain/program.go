package domain

// Program is a named, ordered collection of blocks. Order inside the slice
// is execution order for siblings, so adapters must preserve it.
type Program struct {
	ID     string  `json:"id" yaml:"id" mapstructure:"id"`
	Name   string  `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Blocks []Block `json:"blocks" yaml:"blocks" mapstructure:"blocks"`
}

// Find returns the block with the given id, or false.
func (p *Program) Find(id string) (Block, bool) {
	for _, b := range p.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// Remove deletes the block with the given id and, transitively, every block
// whose ParentID chain includes it. This is the editor-side cascade delete;
// the engine itself never mutates a program.
func (p *Program) Remove(id string) {
	doomed := map[string]bool{id: true}

	// Parents always precede the discovery of their children here because
	// we sweep until the doomed set stops growing, which also covers
	// out-of-order storage.
	for {
		grew := false
		for _, b := range p.Blocks {
			if !doomed[b.ID] && doomed[b.ParentID] {
				doomed[b.ID] = true
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	kept := p.Blocks[:0]
	for _, b := range p.Blocks {
		if !doomed[b.ID] {
			kept = append(kept, b)
		}
	}
	p.Blocks = kept
}
