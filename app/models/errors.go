package models

import "errors"

var (
	ErrInvalidFlagKey    = errors.New("feature flag key must match ^[a-z_]+$")
	ErrInvalidPercentage = errors.New("feature flag percentage must be between 0 and 100")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
)
