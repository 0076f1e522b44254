package models

import "errors"

// Custom errors
var (
	// ErrMissingSignal indicates an agent lacks the context it needs to form
	// an opinion on a prop. Non-fatal: the aggregator skips the agent.
	ErrMissingSignal = errors.New("missing signal for agent")

	// ErrInsufficientSamples indicates a calibration cycle saw fewer graded
	// samples for an agent than the configured floor. The weight is left alone.
	ErrInsufficientSamples = errors.New("insufficient calibration samples")

	// ErrNoViableParlay indicates constraints eliminated every candidate
	// combination for a requested leg count.
	ErrNoViableParlay = errors.New("no viable parlay under constraints")

	// ErrMalformedContext indicates a prop candidate or context field failed
	// validation. The offending prop is skipped; the batch continues.
	ErrMalformedContext = errors.New("malformed prop context")

	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrInvalidID    = errors.New("invalid ID format")
)
