package domain

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrGenerationFailed      = errors.New("generation failed")
	ErrGenerationTimeout     = errors.New("generation timed out")
	ErrRelayFailed           = errors.New("background relay failed")
	ErrProviderNotConfigured = errors.New("provider not configured")
)
