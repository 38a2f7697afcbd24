package auth

import "errors"

var (
	// ErrShopMismatch is returned when a request targets another user's shop.
	ErrShopMismatch = errors.New("auth: shop mismatch")
	// ErrUnauthorized is returned when no valid identity is present.
	ErrUnauthorized = errors.New("auth: unauthorized")
)
