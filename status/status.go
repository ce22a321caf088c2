// Package status defines the stable status-code vocabulary that crosses
// every ABI-ish boundary in the host: format drivers, plugin instances,
// and the instancing state machine all return a Code rather than an
// arbitrary error, so callers on either side of a plugin boundary can
// switch on a small, stable set of outcomes.
package status

import "fmt"

// Code is a stable ordinal identifying the outcome of a plugin operation.
// Ordinals are part of the contract (see spec §6) and must never be
// reordered; append new codes at the end.
type Code int

const (
	OK Code = iota
	NotImplemented
	BundleNotFound
	FailedToInstantiate
	AlreadyInstantiated
	FailedToConfigure
	FailedToStartProcessing
	FailedToStopProcessing
	FailedToProcess
	UnsupportedChannelLayoutRequested
	AlreadyInvalidState
	InvalidParameterOperation
	InsufficientMemory
)

var names = [...]string{
	"OK",
	"NotImplemented",
	"BundleNotFound",
	"FailedToInstantiate",
	"AlreadyInstantiated",
	"FailedToConfigure",
	"FailedToStartProcessing",
	"FailedToStopProcessing",
	"FailedToProcess",
	"UnsupportedChannelLayoutRequested",
	"AlreadyInvalidState",
	"InvalidParameterOperation",
	"InsufficientMemory",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if c < 0 || int(c) >= len(names) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return names[c]
}

// Error implements the error interface so a Code composes with
// errors.Is/errors.As and fmt.Errorf("%w", code) while still carrying a
// stable ordinal for callers that need to switch on it.
func (c Code) Error() string {
	return c.String()
}

// Ok reports whether the code represents success.
func (c Code) Ok() bool { return c == OK }

// Wrap attaches a human-readable message to a non-OK code, matching the
// teacher convention of wrapping sentinel errors with fmt.Errorf("...: %w").
// It returns nil when c is OK.
func Wrap(c Code, format string, args ...any) error {
	if c == OK {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), c)
}
