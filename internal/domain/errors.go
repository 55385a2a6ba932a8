package domain

import (
	"errors"
	"fmt"
)

// ErrCancelRequested is returned when a caller-supplied context is
// cancelled mid-computation (scheduling, Monte Carlo, demand aggregation).
var ErrCancelRequested = errors.New("domain: computation cancelled")

// CycleDetectedError reports a dependency cycle found while building or
// upserting the process graph.
type CycleDetectedError struct {
	ProcessID string
	Cycle     []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("domain: cycle detected at process %q: %v", e.ProcessID, e.Cycle)
}

// UnknownReferenceError reports a dependency, role, or resource id that
// does not resolve within the document.
type UnknownReferenceError struct {
	Kind string // "process", "role", or "resource"
	ID   string
	From string // the referencing process id, if any
}

func (e *UnknownReferenceError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("domain: unknown %s %q", e.Kind, e.ID)
	}
	return fmt.Sprintf("domain: process %q references unknown %s %q", e.From, e.Kind, e.ID)
}

// MissingEstimateError reports a required field absent from the effective
// EstimateRecord at the as-of date a scheduling operation needs it.
type MissingEstimateError struct {
	ProcessID string
	Field     string
}

func (e *MissingEstimateError) Error() string {
	return fmt.Sprintf("domain: process %q missing estimate field %q", e.ProcessID, e.Field)
}

// TerminalUnavailableError reports a terminal process id that did not
// exist in the graph reconstructed as of the given date.
type TerminalUnavailableError struct {
	ProcessID string
	AsOf      string // formatted date, kept as string to avoid importing time here
}

func (e *TerminalUnavailableError) Error() string {
	return fmt.Sprintf("domain: terminal %q unavailable as of %s", e.ProcessID, e.AsOf)
}

// ProviderFailureError wraps a failure from an external Ticket Event
// Provider, keeping the provider's cause accessible via
// errors.Unwrap/errors.As.
type ProviderFailureError struct {
	Provider string
	Cause    error
}

func (e *ProviderFailureError) Error() string {
	return fmt.Sprintf("domain: ticket event provider %q failed: %v", e.Provider, e.Cause)
}

func (e *ProviderFailureError) Unwrap() error {
	return e.Cause
}
