// Package flows contains the session flow logic, expressed as plain
// functions over dependency structs so the root package can map failure
// kinds to its public sentinel errors without import cycles.
package flows
