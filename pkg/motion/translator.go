// Package motion translates named-joint move commands into bounded servo
// targets. Clamping here is the hard safety floor: whatever a malformed or
// malicious shared program asks for, the hardware is never handed an angle
// outside the validated mechanical range of the joint.
package motion

import "math"

// ServoTarget is one actuator command: which servo, and the absolute angle
// in degrees, already clamped into the joint's mechanical range.
type ServoTarget struct {
	ServoID int     `json:"servo_id"`
	Value   float64 `json:"value"`
}

// Joint describes one named joint of the arm: its servo id and its
// mechanical range in degrees. Ranges are asymmetric and joint-specific.
type Joint struct {
	ServoID int
	Min     float64
	Max     float64
}

// joints is the static table for the six-servo arm this project targets.
var joints = map[string]Joint{
	"base":        {ServoID: 1, Min: 70, Max: 290},
	"shoulder":    {ServoID: 2, Min: 60, Max: 200},
	"elbow":       {ServoID: 3, Min: 50, Max: 270},
	"wrist":       {ServoID: 4, Min: 40, Max: 250},
	"wristRotate": {ServoID: 5, Min: 0, Max: 320},
	"gripper":     {ServoID: 6, Min: 110, Max: 250},
}

// Lookup returns the joint entry for a name, or false for unknown names.
func Lookup(name string) (Joint, bool) {
	j, ok := joints[name]
	return j, ok
}

// JointNames returns the known joint names. Order is not significant.
func JointNames() []string {
	names := make([]string, 0, len(joints))
	for name := range joints {
		names = append(names, name)
	}
	return names
}

// Translate maps a joint name and a requested angle to a servo target,
// clamping the angle into the joint's range. ok is false when the joint
// name is unknown or the angle is not a finite number; callers must then
// skip the command entirely rather than send anything partial.
func Translate(joint string, angle float64) (ServoTarget, bool) {
	j, ok := joints[joint]
	if !ok || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return ServoTarget{}, false
	}
	return ServoTarget{ServoID: j.ServoID, Value: clamp(angle, j.Min, j.Max)}, true
}

// clamp assumes a finite v; NaN slips past both comparisons, which is why
// Translate screens it out first.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
