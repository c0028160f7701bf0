package ports

import (
	"context"

	"github.com/aretw0/armature/pkg/motion"
)

// Effector is the capability boundary the engine drives the robot through.
// It is supplied by the host application (hardware driver or simulator) and
// is the engine's only side-effect channel besides the injected logger.
//
// The engine treats the effector as exclusively owned for the duration of
// one run and never calls it concurrently with itself.
type Effector interface {
	// MoveJoints issues a batch of absolute servo targets. Targets are
	// already clamped; the implementation should apply them in order.
	MoveJoints(ctx context.Context, targets []motion.ServoTarget) error
}

// Optional capabilities are discovered by type assertion against the
// Effector value. An effector that does not implement one simply makes the
// corresponding blocks no-ops (or, for connectivity, disables the check —
// the pure-simulation case).

// Homer is implemented by effectors that support a homing move.
type Homer interface {
	Home(ctx context.Context) error
}

// Gripper is implemented by effectors with a controllable gripper.
type Gripper interface {
	OpenGripper(ctx context.Context) error
	CloseGripper(ctx context.Context) error
}

// ConnectionChecker is implemented by effectors that can report link state.
// Returning false at any check point makes the running program unwind with
// domain.ErrConnectionLost.
type ConnectionChecker interface {
	IsConnected() bool
}
