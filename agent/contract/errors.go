package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrModelTimeout    = errors.New("model call timed out")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")
	ErrSessionStore    = errors.New("session store unavailable")
)
