package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInputEmpty        = errors.New("input data empty")
	ErrCredentialMissing = errors.New("neural link offline: api key missing")
	ErrGenerationFailed  = errors.New("neural uplink failed")
	ErrBusy              = errors.New("enhancement already in progress")
	ErrNoResult          = errors.New("no enhancement result to apply")
)
