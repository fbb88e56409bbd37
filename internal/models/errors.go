package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrNoEligibleGenerator means the requested category has no enabled
	// generator. Recoverable by the caller ("category unavailable").
	ErrNoEligibleGenerator = errors.New("no eligible generator for category")

	// ErrExhausted means every eligible generator was tried and none yielded
	// a non-duplicate candidate above the quality threshold. This is an
	// expected outcome of finite datasets under load, not a crash.
	ErrExhausted = errors.New("selection exhausted")
)
