// Package tone holds the user-facing description of a tone: the parameter
// snapshot, its display formatting and the preset catalog.
//
// [Parameters] is an immutable value. The With methods return modified
// copies and enforce the parameter ranges, so a Parameters obtained from
// this package is always safe to hand to the signal graph.
package tone
