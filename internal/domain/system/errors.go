package system

import "errors"

// System domain errors
var (
	ErrSystemNotFound = errors.New("system not found")
)
