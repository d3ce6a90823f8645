package repository

import "errors"

var (
	// ErrIdentityMissing marks an event reaching the engine without an id or provider name.
	ErrIdentityMissing = errors.New("event identity missing")
	// ErrStorage wraps every failure of the persistent store.
	ErrStorage = errors.New("storage failure")
)
