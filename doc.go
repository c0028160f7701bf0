/*
Package armature executes snap-together block programs against a physical or
simulated robot arm.

A program is a flat collection of block instances (move-to, wait-seconds,
repeat, if-condition, if-else, while-loop, gripper and homing commands)
whose parent references imply a tree. The engine walks that tree depth-first
in array order, issuing calls through the ports.Effector boundary, pacing
every step with a cancellable delay, and enforcing three safety properties
for the whole run: cancellation is honored at every dispatch point and
inside every delay, a connectivity probe can unwind the run the moment the
arm disappears, and a bounded step/time budget terminates runaway loops.

Typical use:

	eng := armature.New(armature.WithLogger(logger))
	err := eng.Run(ctx, runID, program.Blocks, effector)

Hosts that need run management (one active run, stop semantics, outcome
presentation) should drive the engine through pkg/controller instead of
calling Run directly.
*/
package armature
