package repository

import "errors"

var (
	// ErrDuplicateKey is returned when a unique constraint is violated
	// (flag key, organization slug, membership pair).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrOrganizationHasSubscription blocks deletion of organizations with
	// an active subscription.
	ErrOrganizationHasSubscription = errors.New("organization has an active subscription")
)
