package warehouse

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// InvalidArgumentError reports a nil argument where a non-nil one is
// required; in this package that is a nil destination passed to
// EntityTableLookup.CopyTo. Fails the single call; no state changes.
type InvalidArgumentError struct {
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// OutOfRangeError reports an index at or beyond a collection's size (or
// negative). Fails the single call; no state changes.
type OutOfRangeError struct {
	Index int
	Size  int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for size %d", e.Index, e.Size)
}

// fatalError marks an unrecoverable condition — id-space exhaustion is the
// only one this package raises. Always delivered via a panic wrapped with
// AddTrace, never returned as an error value.
type fatalError struct {
	Reason string
}

func (e fatalError) Error() string {
	return fmt.Sprintf("fatal: %s", e.Reason)
}

// AddTrace wraps err with a stack trace via bark, matching the
// panic(bark.AddTrace(err)) convention used throughout this module for
// unrecoverable conditions.
func AddTrace(err error) error {
	return bark.AddTrace(err)
}

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type EntityRelationError struct {
	child, parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("child (%v) already has parent %v", e.child, e.parent)
}

type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %T", e.Component)
}

type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %T", e.Component)
}
