package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Credentials is the email/password pair used by login and signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the email. The password is left untouched.
func (c Credentials) Normalize() Credentials {
	return Credentials{
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
	}
}

// Validate checks the credentials the same way for login and signup.
func (c Credentials) Validate() error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid.WithDetails(email)
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// MinPasswordLength applies to new accounts only; login accepts any
// non-empty password.
const MinPasswordLength = 8

// ValidateSignup applies Validate plus the minimum password length.
func (c Credentials) ValidateSignup() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// AuthResponse is returned by POST /auth/login (and optionally /auth/signup).
// The refresh token is decoded but not used by this client.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// HasAccessToken reports whether the response carries a usable credential.
func (r *AuthResponse) HasAccessToken() bool {
	return r != nil && r.AccessToken != ""
}
