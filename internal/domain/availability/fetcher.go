package availability

import (
	"context"
	"fmt"
	"time"
)

// FetchErrorKind classifies why a fetch attempt failed. Every kind aborts
// the run before any state mutation.
type FetchErrorKind string

const (
	FetchErrorTimeout           FetchErrorKind = "TIMEOUT"
	FetchErrorMalformedResponse FetchErrorKind = "MALFORMED_RESPONSE"
	FetchErrorUnknown           FetchErrorKind = "UNKNOWN"
)

// FetchError is the typed failure of an availability fetch. Callers switch
// on Kind; Detail carries diagnostics for the liveness signal.
type FetchError struct {
	Kind   FetchErrorKind
	Detail string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("availability fetch failed (%s): %s", e.Kind, e.Detail)
}

// NewFetchError builds a FetchError of the given kind.
func NewFetchError(kind FetchErrorKind, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Availability is the full availability picture for one date: everyone the
// scheduling API reported, split into available and unavailable.
type Availability struct {
	Available   []FetchedUser
	Unavailable []FetchedUser
}

// Fetcher retrieves the current availability picture from the scheduling
// API. A non-nil error is always a *FetchError; implementations enforce a
// bounded timeout per attempt.
type Fetcher interface {
	FetchAvailability(ctx context.Context, date time.Time) (*Availability, error)
}
