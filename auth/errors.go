package auth

import (
	"github.com/jrsteele09/studysphere/gateway"
)

// Op names a session operation that can fail with a user facing message.
type Op string

const (
	OpLogin       Op = "login"
	OpGoogleLogin Op = "google login"
	OpRegister    Op = "register"
)

func (op Op) fallback() string {
	switch op {
	case OpLogin:
		return "Login failed"
	case OpGoogleLogin:
		return "Google login failed"
	case OpRegister:
		return "Registration failed"
	}
	return "Request failed"
}

// Error is a failed credential exchange. Error() is the message to show
// the user; the underlying failure is available through Unwrap.
type Error struct {
	Op      Op
	Message string
	Err     error
}

func newError(op Op, message string, err error) *Error {
	return &Error{Op: op, Message: message, Err: err}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// registerFields is the order validation messages are surfaced in. The three
// user facing fields come first; the rest cover errors the backend raises
// for the confirmation and name fields, then detail, before the generic
// message.
var registerFields = []string{"username", "email", "password", "password2", "first_name", "last_name", "non_field_errors"}

func loginMessage(err error) string {
	if apiErr, ok := gateway.AsAPIError(err); ok {
		if d := apiErr.Detail(); d != "" {
			return d
		}
	}
	return OpLogin.fallback()
}

func googleLoginMessage(err error) string {
	if apiErr, ok := gateway.AsAPIError(err); ok {
		if m := apiErr.StringField("error"); m != "" {
			return m
		}
		if d := apiErr.Detail(); d != "" {
			return d
		}
	}
	return OpGoogleLogin.fallback()
}

func registerMessage(err error) string {
	if apiErr, ok := gateway.AsAPIError(err); ok {
		for _, field := range registerFields {
			if m := apiErr.FieldError(field); m != "" {
				return m
			}
		}
		if d := apiErr.Detail(); d != "" {
			return d
		}
	}
	return OpRegister.fallback()
}
