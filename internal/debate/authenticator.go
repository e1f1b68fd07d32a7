package debate

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IdentityVerifier validates a bearer credential.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// VerifierFunc adapts a function to IdentityVerifier.
type VerifierFunc func(ctx context.Context, credential string) (Identity, error)

func (f VerifierFunc) Verify(ctx context.Context, credential string) (Identity, error) {
	return f(ctx, credential)
}

// Authenticator binds a verified identity to a new session.
type Authenticator struct {
	verifier IdentityVerifier
	seq      atomic.Uint64
}

func NewAuthenticator(v IdentityVerifier) *Authenticator {
	return &Authenticator{verifier: v}
}

// Authenticate verifies the credential and creates the connection's session.
// No session exists when it fails.
func (a *Authenticator) Authenticate(ctx context.Context, credential string, n Notifier) (*Session, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: missing credential", ErrAuthentication)
	}
	identity, err := a.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: empty identity", ErrAuthentication)
	}
	return newSession(uuid.NewString(), a.seq.Add(1), identity, n), nil
}
