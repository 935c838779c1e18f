package accounts

import (
	stderrors "errors"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeEmailTaken flags a duplicate email registration
	TextCodeEmailTaken = "EMAIL_ALREADY_REGISTERED"
	// TextCodeUserNotFound flags a lookup miss
	TextCodeUserNotFound = "USER_NOT_FOUND"
	// TextCodeInvalidCredentials flags a failed password comparison
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// TextCodeAccountNotVerified flags a login against a pending account
	TextCodeAccountNotVerified = "ACCOUNT_NOT_VERIFIED"
	// TextCodeInvalidOpaqueToken flags an unknown or expired single purpose token
	TextCodeInvalidOpaqueToken = "INVALID_OR_EXPIRED_TOKEN"
	// TextCodePasswordMismatch flags password/confirmation divergence
	TextCodePasswordMismatch = "PASSWORD_MISMATCH"
	// TextCodeMissingToken flags a request without an authorization header
	TextCodeMissingToken = "MISSING_TOKEN"
	// TextCodeInvalidSession flags a session token that failed validation
	TextCodeInvalidSession = "INVALID_SESSION_TOKEN"
	// TextCodeForbidden flags a role outside the required set
	TextCodeForbidden = "INSUFFICIENT_ROLE"
)

// User facing messages keep the wording of the original API; clients match
// on them.

// ErrEmailAlreadyRegistered is returned when the email is already taken.
var ErrEmailAlreadyRegistered = errors.New("Email ya registrado", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeBadRequest)

// ErrUserNotFound is returned for lookups that miss, rendered as 404.
var ErrUserNotFound = errors.New("Usuario no encontrado", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrUnknownEmail is the 400 variant used by the password reset entry point,
// which the original API never answered with a 404.
var ErrUnknownEmail = errors.New("Usuario no encontrado", errors.CategoryValidation).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials is returned when the password comparison fails.
var ErrInvalidCredentials = errors.New("Contraseña incorrecta", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeBadRequest)

// ErrAccountNotVerified blocks logins until the email has been confirmed.
var ErrAccountNotVerified = errors.New("Revisa tu correo electrónico para verificar tu cuenta", errors.CategoryConflict).
	WithTextCode(TextCodeAccountNotVerified).
	WithCode(errors.CodeBadRequest)

// ErrInvalidOrExpiredToken covers unknown verification tokens and unknown or
// expired reset tokens alike.
var ErrInvalidOrExpiredToken = errors.New("Token inválido", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidOpaqueToken).
	WithCode(errors.CodeBadRequest)

// ErrPasswordMismatch is returned when password and confirmation differ.
var ErrPasswordMismatch = errors.New("Las contraseñas no son identicas", errors.CategoryValidation).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeBadRequest)

// ErrNoTokenProvided is the gate's answer to a missing authorization header.
var ErrNoTokenProvided = errors.New("No token provided.", errors.CategoryAuth).
	WithTextCode(TextCodeMissingToken).
	WithCode(errors.CodeForbidden)

// ErrInvalidToken is the gate's answer to a token that fails validation.
var ErrInvalidToken = errors.New("Invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidSession).
	WithCode(errors.CodeBadRequest)

// ErrInsufficientRole is returned when the session role is outside the
// required set.
var ErrInsufficientRole = errors.New("Acceso denegado", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString rejects hashing an empty credential
var ErrNoEmptyString = stderrors.New("password must not be empty")

// ErrNoConnection signals a repository manager built without a database
var ErrNoConnection = stderrors.New("repository manager requires a database connection")

// ErrMismatchedHashAndPassword is the sentinel for a failed bcrypt compare
var ErrMismatchedHashAndPassword = stderrors.New("hash and password mismatch")

// invalidInput wraps payload binding/validation failures so the boundary
// renders them as 400 with the validator's message.
func invalidInput(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, err.Error()).
		WithCode(errors.CodeBadRequest)
}
