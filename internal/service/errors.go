package service

import "errors"

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrRunNotFound        = errors.New("run not found")
	ErrRunAlreadyComplete = errors.New("run is already complete")
	ErrInvalidOutcome     = errors.New("invalid run outcome")
	ErrInvalidStepKind    = errors.New("invalid step kind")
	ErrAPIKeyNotFound     = errors.New("api key not found")
	ErrInvalidAPIKey      = errors.New("invalid api key")
)

// ValidationError reports input that was rejected before reaching the store.
type ValidationError struct {
	Message string
}

func (ve ValidationError) Error() string {
	return ve.Message
}
