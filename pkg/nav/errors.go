package nav

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSource means the structural source had no root element.
	ErrNoSource = errors.New("source root is absent")
	// ErrDuplicateID means two nodes in one snapshot share an id.
	ErrDuplicateID = errors.New("duplicate node id")
	// ErrLoad means the source could not produce a snapshot.
	ErrLoad = errors.New("source snapshot failed")
	// ErrNoChangeSource means auto refresh was requested without a notifier.
	ErrNoChangeSource = errors.New("no change source configured")
)

// BuildError is fatal to one build attempt. The previous tree and cursor
// stay valid and in use.
type BuildError struct {
	Phase string // "load", "options", "parse", "register"
	ID    string // Offending node id, when known
	Cause error
}

func (e *BuildError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("build %s failed for %q: %v", e.Phase, e.ID, e.Cause)
	}
	return fmt.Sprintf("build %s failed: %v", e.Phase, e.Cause)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// IsBuildError reports whether err is (or wraps) a BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}
