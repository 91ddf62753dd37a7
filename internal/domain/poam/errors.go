package poam

import "errors"

// POAM domain errors
var (
	ErrPOAMNotFound      = errors.New("poam not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrInvalidStatus     = errors.New("invalid poam status")
	ErrInvalidPriority   = errors.New("invalid poam priority")
)
