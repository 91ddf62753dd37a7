package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidType          = errors.New("invalid notification type")
	ErrInvalidSeverity      = errors.New("invalid notification severity")
	ErrInvalidFilter        = errors.New("invalid notification filter")
	ErrInvalidEventKind     = errors.New("invalid system event kind")
)
