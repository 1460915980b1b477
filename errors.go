package accounts

import "errors"

var (
	// ErrFieldsRequired is returned when a required registration or login
	// field is missing or blank.
	ErrFieldsRequired = errors.New("all fields are required")
	// ErrAvatarRequired is returned when registration carries no avatar
	// file, or the upload yielded no URL.
	ErrAvatarRequired = errors.New("avatar file is required")
	// ErrAccountExists is returned when the username or email is already
	// taken.
	ErrAccountExists = errors.New("username or email already exists")
	// ErrUserNotFound is returned when a login identifier resolves to no
	// user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned on password mismatch.
	ErrInvalidCredentials = errors.New("incorrect password")
	// ErrUnauthorized is returned when no refresh token or authenticated
	// identity accompanies a request that needs one.
	ErrUnauthorized = errors.New("unauthorized request")
	// ErrRefreshInvalid is returned when a presented refresh token fails
	// signature or expiry checks, or its subject resolves to no user.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrRefreshSuperseded is returned when a presented refresh token no
	// longer matches the stored value (rotated out or cleared by logout).
	ErrRefreshSuperseded = errors.New("refresh token is expired or superseded")
	// ErrTokenPersistence is returned when a freshly issued refresh token
	// could not be durably stored. No tokens are returned alongside it.
	ErrTokenPersistence = errors.New("could not persist refresh token")
	// ErrEngineNotReady is returned when a method is called on an engine
	// that was not assembled through Builder.Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)
