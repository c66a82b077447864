package errors

import "errors"

var (
	ErrMissingAuthorizationCode = errors.New("authorization code is required")
	ErrMissingAddress           = errors.New("client address is required")
	ErrCodeExchangeFailed       = errors.New("authorization code exchange failed")
	ErrProviderUnavailable      = errors.New("identity provider unavailable")
	ErrStoreUnavailable         = errors.New("whitelist store unavailable")
	ErrDuplicateGrant           = errors.New("grant already exists for address")
)
