package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the engine. Callers match with errors.Is.
var (
	// ErrNoTemplateMatch indicates no template's matching rule was
	// satisfied by the configuration snapshot.
	ErrNoTemplateMatch = errors.New("no template matches configuration")

	// ErrOrphanReference indicates a template structural inconsistency:
	// a child references a missing or later-defined parent line.
	ErrOrphanReference = errors.New("template item references invalid parent")

	// ErrInvalidStateTransition indicates a lifecycle operation was
	// requested from a state that forbids it.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrVersionConflict indicates concurrent generate calls collided on
	// version assignment; the caller should retry with a fresh read.
	ErrVersionConflict = errors.New("bom version conflict")

	// ErrPartNotFound indicates a catalog lookup miss.
	ErrPartNotFound = errors.New("part not found")

	// ErrBomNotFound indicates a lookup for a Bom that does not exist.
	ErrBomNotFound = errors.New("bom not found")

	// ErrTemplateNotFound indicates a lookup for a template that does not
	// exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrSelfApproval indicates the approver is the Bom's creator; the
	// four-eyes rule requires a distinct identity.
	ErrSelfApproval = errors.New("approver must differ from creator")

	// ErrEmptyBom indicates a Bom with no countable parts was submitted
	// for approval.
	ErrEmptyBom = errors.New("bom has no parts")

	// ErrMissingReason indicates a rejection without a reason string.
	ErrMissingReason = errors.New("rejection requires a reason")
)

// OrphanReferenceError wraps ErrOrphanReference with the offending line.
func OrphanReferenceError(line, parentLine int) error {
	return fmt.Errorf("%w: line %d references parent line %d", ErrOrphanReference, line, parentLine)
}

// StateTransitionError wraps ErrInvalidStateTransition with the attempted
// transition.
func StateTransitionError(from, to BomStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
}
