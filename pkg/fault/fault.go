// Package fault defines the failure taxonomy shared by the client flows:
// local validation, rejected session, server-reported logical errors and
// transport faults.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	Validation Kind = iota
	Auth
	Server
	Transport
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Auth:
		return "auth"
	case Server:
		return "server"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

// Failure is a user-presentable flow error. Message is safe to render
// verbatim; Err, when set, carries the underlying cause for logs.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// New creates a Failure without an underlying cause.
func New(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// Wrap creates a Failure carrying its underlying cause.
func Wrap(kind Kind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// As unwraps err into a *Failure if one is in its chain.
func As(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
