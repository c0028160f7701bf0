package domain

// Definition identifiers form the fixed command vocabulary the engine
// dispatches on. The vocabulary is owned by the block-definition registry
// of the host application; the engine only switches on these values and
// silently skips anything it does not recognize.
const (
	// DefMoveTo moves a single named joint to an absolute angle.
	DefMoveTo = "move-to"
	// DefWaitSeconds pauses the program for a number of seconds.
	DefWaitSeconds = "wait-seconds"
	// DefRepeat executes its children a fixed number of times.
	DefRepeat = "repeat"
	// DefIfCondition executes its children when the condition is truthy.
	DefIfCondition = "if-condition"
	// DefIfElse executes its "then" children or its "else" children.
	DefIfElse = "if-else"
	// DefWhileLoop executes its children while the condition stays truthy.
	DefWhileLoop = "while-loop"

	DefOpenGripper  = "open-gripper"
	DefCloseGripper = "close-gripper"
	DefHomeRobot    = "home-robot"
)

// Child slot discriminators for two-branch conditionals.
// An empty slot is equivalent to SlotThen.
const (
	SlotThen = "then"
	SlotElse = "else"
)

// Block is one node of a user-authored program. The program is stored as a
// flat collection; the tree shape is implied by ParentID back-references.
type Block struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// DefinitionID names the command or control structure this block
	// represents (one of the Def* constants, or something newer the
	// engine will skip).
	DefinitionID string `json:"definition_id" yaml:"definition" mapstructure:"definition"`

	// Parameters maps parameter names to bool, number or string values.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`

	// ParentID points at the enclosing control block; empty means
	// top-level. It is a non-owning back-reference, only ever used to
	// reconstruct the tree by filtering.
	ParentID string `json:"parent_id,omitempty" yaml:"parent,omitempty" mapstructure:"parent"`

	// ChildSlot distinguishes the two branches of an if-else parent.
	// Empty or SlotThen is the default branch.
	ChildSlot string `json:"child_slot,omitempty" yaml:"slot,omitempty" mapstructure:"slot"`
}

// IsControl reports whether the block owns children and alters traversal.
func (b Block) IsControl() bool {
	switch b.DefinitionID {
	case DefRepeat, DefIfCondition, DefIfElse, DefWhileLoop:
		return true
	}
	return false
}
