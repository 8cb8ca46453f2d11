package session

import "errors"

// Kind classifies an auth service failure.
type Kind string

const (
	// KindAuthentication covers rejected credentials. Surfaced to the user,
	// never fatal to the session.
	KindAuthentication Kind = "authentication"
	// KindAuthorization covers 401-equivalent responses on an authenticated
	// call. The session is cleared and the user must log in again.
	KindAuthorization Kind = "authorization"
	// KindNetwork covers transport failures with no usable response.
	KindNetwork Kind = "network"
	// KindNotFound covers unmatched backend routes.
	KindNotFound Kind = "not_found"
)

// AuthError is the only error shape the store lets escape. Raw transport
// errors from the auth service are wrapped before crossing the boundary.
type AuthError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError builds a typed failure with a user-facing message.
func NewAuthError(kind Kind, message string) *AuthError {
	return &AuthError{Kind: kind, Message: message}
}

// ErrorKind extracts the failure kind, or "" for non-auth errors.
func ErrorKind(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// asAuthError normalises any collaborator error into an AuthError. Unknown
// errors are treated as network failures.
func asAuthError(err error) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &AuthError{Kind: KindNetwork, Message: err.Error(), Err: err}
}
