// Package auth models the session identity the dream store uses to pick its
// storage path, and the bearer-token source the API gateway attaches to
// authenticated requests.
//
// Token verification is the server's job; the client only decodes claims to
// learn who it is acting as.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Mode is the session tri-state.
type Mode int

const (
	// SessionNone is an unauthenticated session: no token, no local journal.
	SessionNone Mode = iota
	// SessionGuest keeps all persistence local-only, with no server sync.
	SessionGuest
	// SessionSignedIn syncs with the server using a bearer token.
	SessionSignedIn
)

func (m Mode) String() string {
	switch m {
	case SessionGuest:
		return "guest"
	case SessionSignedIn:
		return "signed-in"
	default:
		return "none"
	}
}

// Session identifies who the client is acting as.
type Session struct {
	Mode   Mode
	UserID string
	Email  string
}

// TokenSource supplies the current bearer token and session identity.
// IDToken returns an empty string when no token exists; that is not an
// error, since unauthenticated reads may be legal for some endpoints.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
	Session() Session
}

// Guest is a TokenSource for local-only sessions.
type Guest struct{}

func (Guest) IDToken(context.Context) (string, error) { return "", nil }
func (Guest) Session() Session                        { return Session{Mode: SessionGuest} }

// Anonymous is a TokenSource for sessions with no identity at all.
type Anonymous struct{}

func (Anonymous) IDToken(context.Context) (string, error) { return "", nil }
func (Anonymous) Session() Session                        { return Session{Mode: SessionNone} }

// Bearer is a TokenSource around a raw ID token (e.g. pasted from the
// Firebase console or written by the mobile app). Identity hints are decoded
// from the token claims without signature verification.
type Bearer struct {
	token   string
	session Session
}

// NewBearer decodes the token's claims and returns a signed-in TokenSource.
// A token that does not parse as a JWT is rejected: sending garbage as a
// bearer header would only produce confusing 401s later.
func NewBearer(token string) (*Bearer, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	s := Session{Mode: SessionSignedIn}
	if v, ok := claims["user_id"].(string); ok && v != "" {
		s.UserID = v
	} else if v, ok := claims["sub"].(string); ok {
		s.UserID = v
	}
	if v, ok := claims["email"].(string); ok {
		s.Email = v
	}

	return &Bearer{token: token, session: s}, nil
}

// NewBearerFromFile reads a token from path (whitespace-trimmed).
func NewBearerFromFile(path string) (*Bearer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	return NewBearer(string(data))
}

func (b *Bearer) IDToken(context.Context) (string, error) { return b.token, nil }
func (b *Bearer) Session() Session                        { return b.session }
