// Package auth provides interfaces and registry for identity token
// verifiers.
package auth

import (
	"context"
	"encoding/json"
)

// AuthErr is a structure for reporting an error condition.
type AuthErr string

func (e AuthErr) Error() string {
	return string(e)
}

const (
	// ErrInternal means the verification service or other internal failure.
	ErrInternal = AuthErr("internal")
	// ErrMalformed means the token cannot be parsed or is otherwise wrong.
	ErrMalformed = AuthErr("malformed")
	// ErrFailed means the token did not verify.
	ErrFailed = AuthErr("failed")
	// ErrExpired means the token has expired.
	ErrExpired = AuthErr("expired")
	// ErrUnsupported means an operation is not supported.
	ErrUnsupported = AuthErr("unsupported")
)

// Subject is the authenticated party behind a verified token.
type Subject struct {
	// Unique id of the subject, assigned by the identity service.
	ID string
	// Subject role, either "patient" or "doctor".
	Role string
}

// Verifier is the interface identity providers must implement.
type Verifier interface {
	// Init initializes the verifier.
	Init(jsonconf json.RawMessage) error

	// Verify checks the given identity token and resolves it to a
	// subject. Returns one of the AuthErr values on failure.
	Verify(ctx context.Context, token string) (*Subject, error)
}

var verifiers = make(map[string]Verifier)

// RegisterVerifier makes an identity verifier available by the provided
// name. If the name is already taken or the verifier is nil, it panics.
func RegisterVerifier(name string, v Verifier) {
	if v == nil {
		panic("auth: Register verifier is nil")
	}
	if _, ok := verifiers[name]; ok {
		panic("auth: verifier '" + name + "' is already registered")
	}
	verifiers[name] = v
}

// GetVerifier returns a verifier by name or nil if unknown.
func GetVerifier(name string) Verifier {
	return verifiers[name]
}
