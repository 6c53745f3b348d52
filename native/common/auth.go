package common

import (
	"errors"

	"defind/crypto"
)

var (
	// ErrAnonymousCaller rejects the anonymous sentinel for any mutating or
	// balance-revealing operation.
	ErrAnonymousCaller = errors.New("anonymous caller not allowed")
	// ErrNotOwner rejects a caller that does not own the addressed website.
	ErrNotOwner = errors.New("caller is not the owner of the website")
)

// RequireNonAnonymous guards an operation against the anonymous sentinel.
func RequireNonAnonymous(id crypto.Identity) error {
	if id.IsAnonymous() {
		return ErrAnonymousCaller
	}
	return nil
}

// RequireOwner guards an operation against callers other than the owner. The
// anonymous check runs first so an unauthenticated caller never learns
// ownership details.
func RequireOwner(caller, owner crypto.Identity) error {
	if err := RequireNonAnonymous(caller); err != nil {
		return err
	}
	if caller != owner {
		return ErrNotOwner
	}
	return nil
}
