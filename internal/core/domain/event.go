package domain

import "time"

// ChangeKind classifies a filesystem change notification.
type ChangeKind string

// Available change kinds.
const (
	// ChangeCreated indicates a file was created.
	ChangeCreated ChangeKind = "created"

	// ChangeModified indicates a file's content was written.
	ChangeModified ChangeKind = "modified"

	// ChangeDeleted indicates a file was removed or renamed away.
	ChangeDeleted ChangeKind = "deleted"
)

// IsValid returns true if the change kind is recognised.
func (k ChangeKind) IsValid() bool {
	switch k {
	case ChangeCreated, ChangeModified, ChangeDeleted:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ChangeKind) String() string {
	return string(k)
}

// ChangeEvent is a raw filesystem change notification from the change
// source. Events are transient: duplicates and bursts are expected, and
// coalescing them is the debouncer's job, not the producer's.
type ChangeEvent struct {
	// Path is the changed note's path, absolute or vault-relative.
	Path string

	// Kind is the type of change observed.
	Kind ChangeKind

	// ObservedAt is when the change source saw the event.
	ObservedAt time.Time
}
