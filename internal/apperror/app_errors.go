package apperror

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidStep  = errors.New("history step out of range")
)
