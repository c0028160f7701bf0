/*
Package ports defines the interfaces Armature's core depends on: the
Effector capability boundary (with its optional Homer, Gripper and
ConnectionChecker capabilities) and the ProgramStore persistence contract.

Adapters live under pkg/adapters; the contract test suite in this package
keeps every ProgramStore implementation honest.
*/
package ports
