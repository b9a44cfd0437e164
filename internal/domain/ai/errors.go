package ai

import "errors"

var (
	ErrQuotaExceeded = errors.New("ai quota exceeded")
	ErrEmptyResponse = errors.New("ai returned an empty response")
)
