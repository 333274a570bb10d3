package domain

import "errors"

// Auth failure taxonomy. Every failure an auth operation can produce is one
// of these sentinels, wrapped with %w; the handler layer maps them to HTTP
// statuses with errors.Is.
var (
	// ErrInvalidCredentials is returned on any password login failure:
	// unknown email, wrong password, or an account with no password to
	// check. Deliberately generic to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAlreadyExists is returned when registering an email that is taken
	ErrAlreadyExists = errors.New("user already exists")

	// ErrInactiveAccount is returned when logging into a deactivated account
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrProviderMismatch is returned when an OAuth sign-in hits an email
	// already registered with a password
	ErrProviderMismatch = errors.New("account uses a different sign-in method")

	// ErrInvalidToken covers expired, malformed, wrong-kind, and
	// badly-signed tokens. Deliberately undifferentiated so callers cannot
	// probe which check failed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrOAuthExchangeFailed is returned when the authorization-code
	// exchange or the profile fetch fails for any reason
	ErrOAuthExchangeFailed = errors.New("oauth exchange failed")

	// ErrForbidden is returned when the caller's role is not allowed
	ErrForbidden = errors.New("forbidden")

	// ErrValidationFailed is returned on malformed registration input
	ErrValidationFailed = errors.New("validation failed")

	// ErrUserNotFound is returned when a token subject no longer exists
	ErrUserNotFound = errors.New("user not found")
)
