package auth

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

var (
	ErrInvalidCredentials = httperr.ErrBusiness("invalid_credentials")
	ErrEmailNotVerified   = httperr.ErrBusiness("email_not_verified")
	ErrEmailTaken         = httperr.ErrBusiness("email_already_exists")
	ErrInvalidEmail       = httperr.ErrBusiness("invalid_email")
	ErrInvalidEmailDomain = httperr.ErrBusiness("invalid_email_domain")
	ErrInvalidToken       = httperr.ErrBusiness("invalid_token")
	ErrTokenRevoked       = httperr.ErrBusiness("token_revoked")
	ErrUserNotFound       = httperr.ErrBusiness("user_not_found")
	ErrPasswordTooLong    = httperr.ErrBusiness("password_too_long")
)
