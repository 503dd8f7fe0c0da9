package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials indicates login failure. Unknown user and wrong
	// password collapse into this one error so callers cannot enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken occurs when a request carries no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrTokenInvalid covers signature failures and malformed tokens.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired occurs when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenTypeMismatch occurs when a token of the wrong type is presented,
	// e.g. an access token at the refresh endpoint.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
	// ErrUserNotFound occurs when a verified token references an account that
	// no longer exists. Externally indistinguishable from an invalid token.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountInactive occurs when the account status is not Active.
	ErrAccountInactive = errors.New("account inactive")
	// ErrPermissionDenied indicates an authenticated caller lacks access.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRateLimited indicates the caller exceeded the request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)
