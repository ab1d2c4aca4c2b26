// Package errors defines the bot's failure taxonomy. Only startup failures
// (ConnectionError, ConfigError) stop the process. Failures while handling a
// single message (PersistenceError, TransportError) are logged by the router
// and swallowed: the sender simply gets no reply and nothing is retried.
package errors

import (
	"errors"
	"fmt"
)

// Error codes, one per failure class.
const (
	CodeUnknown     = "UNKNOWN"
	CodeConnection  = "CONNECTION"
	CodePersistence = "PERSISTENCE"
	CodeTransport   = "TRANSPORT"
	CodeConfig      = "CONFIG"
)

// ApplicationError is implemented by every error in the taxonomy.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error carries the code, message and cause shared by the typed errors.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of the first ApplicationError in err's chain,
// or CodeUnknown if it doesn't.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// ConnectionError reports that the message store or the messaging session
// could not be set up at startup. The process exits with status 1.
type ConnectionError struct {
	base Error
}

func (e *ConnectionError) Error() string {
	return e.base.Error()
}

func (e *ConnectionError) Code() string {
	return e.base.Code()
}

func (e *ConnectionError) Unwrap() error {
	return e.base.Unwrap()
}

func NewConnectionError(message string, cause error) error {
	return &ConnectionError{
		base: Error{
			code:    CodeConnection,
			message: message,
			err:     cause,
		},
	}
}

// PersistenceError reports a failed message write. The reply still goes out.
type PersistenceError struct {
	base Error
}

func (e *PersistenceError) Error() string {
	return e.base.Error()
}

func (e *PersistenceError) Code() string {
	return e.base.Code()
}

func (e *PersistenceError) Unwrap() error {
	return e.base.Unwrap()
}

func NewPersistenceError(message string, cause error) error {
	return &PersistenceError{
		base: Error{
			code:    CodePersistence,
			message: message,
			err:     cause,
		},
	}
}

// TransportError reports a failed send, typing indicator or contact lookup,
// or a session that stopped while running. Per message it is only logged.
type TransportError struct {
	base Error
}

func (e *TransportError) Error() string {
	return e.base.Error()
}

func (e *TransportError) Code() string {
	return e.base.Code()
}

func (e *TransportError) Unwrap() error {
	return e.base.Unwrap()
}

func NewTransportError(message string, cause error) error {
	return &TransportError{
		base: Error{
			code:    CodeTransport,
			message: message,
			err:     cause,
		},
	}
}

// ConfigError reports invalid configuration. The process exits with status 1.
type ConfigError struct {
	base Error
}

func (e *ConfigError) Error() string {
	return e.base.Error()
}

func (e *ConfigError) Code() string {
	return e.base.Code()
}

func (e *ConfigError) Unwrap() error {
	return e.base.Unwrap()
}

func NewConfigError(message string, cause error) error {
	return &ConfigError{
		base: Error{
			code:    CodeConfig,
			message: message,
			err:     cause,
		},
	}
}

// IsFatal reports whether err is a startup failure that must stop the process.
func IsFatal(err error) bool {
	switch Code(err) {
	case CodeConnection, CodeConfig:
		return true
	default:
		return false
	}
}
