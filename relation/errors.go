package relation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIntervals indicates a file or dataset with no redshift
	// interval groups.
	ErrNoIntervals = errors.New("no redshift interval groups found")

	// ErrUnknownKind indicates an interval group with neither a
	// massStellar nor a massBlackHole dataset.
	ErrUnknownKind = errors.New("no recognizable mass-relation dataset found")

	// ErrMixedKinds indicates a file whose interval groups disagree on
	// which mass relation they encode.
	ErrMixedKinds = errors.New("interval groups encode mixed mass-relation kinds")
)

// FormatError reports a missing or malformed structural element
// encountered while loading a relation file.
type FormatError struct {
	Path    string // file being loaded
	Element string // group, dataset or attribute at fault, if known
	Err     error
}

func (e *FormatError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Element, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a dataset field that violates the format's
// enumerated or range constraints at save time.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
