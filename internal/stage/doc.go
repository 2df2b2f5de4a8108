// Package stage defines the fixed content-generation sequence and the pure
// navigation rules over it: which stage is furthest along, where the user may
// jump, and what must exist before a stage can be generated.
package stage
