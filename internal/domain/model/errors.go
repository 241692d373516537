package model

import (
	"errors"
	"time"
)

// ErrNotFound reports an absent entity or a malformed identifier.
var ErrNotFound = errors.New("not found")

// RateLimitError reports that the GitHub API refused a call because the
// rate limit was exhausted. ResetAt is nil when no reset time is known.
type RateLimitError struct {
	ResetAt *time.Time
}

// NewRateLimitError builds a RateLimitError from a Unix reset timestamp.
// A non-positive timestamp yields an unknown reset time.
func NewRateLimitError(resetUnix int64) *RateLimitError {
	if resetUnix <= 0 {
		return &RateLimitError{}
	}
	t := time.Unix(resetUnix, 0)
	return &RateLimitError{ResetAt: &t}
}

func (e *RateLimitError) Error() string {
	if e.ResetAt == nil {
		return "GitHub API rate limit exceeded."
	}
	return "GitHub API rate limit exceeded. Resets at " + e.ResetAt.Format(time.TimeOnly) + "."
}

// IsRateLimited reports whether err is or wraps a RateLimitError.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
