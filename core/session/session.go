// Package session models the authenticated browsing session shared by
// every catalog and download request. Acquiring the credential is an
// external concern (an interactive browser login against the host);
// this package only carries the resulting cookie string and the header
// constants that must accompany it.
package session

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoCredential is returned when no session credential is available.
var ErrNoCredential = errors.New("session: no credential available")

// Session is the immutable bundle of credential and standard headers.
// It is constructed once per run and shared read-only by all fetch and
// download operations.
type Session struct {
	Cookie    string
	UserAgent string
	Referer   string
}

// Apply sets the session headers on an outgoing request.
func (s Session) Apply(req *http.Request) {
	req.Header.Set("Referer", s.Referer)
	req.Header.Set("Cookie", s.Cookie)
	req.Header.Set("User-Agent", s.UserAgent)
}

// Provider obtains a Session. Implementations may run a browser login,
// read a stored credential, or hand back a fixed value; the pipeline
// does not care which.
type Provider interface {
	Obtain(ctx context.Context) (Session, error)
}

// Static is a Provider wrapping a pre-obtained session.
type Static struct {
	Session Session
}

// Obtain returns the wrapped session, or ErrNoCredential when its
// cookie is empty.
func (s Static) Obtain(ctx context.Context) (Session, error) {
	if s.Session.Cookie == "" {
		return Session{}, ErrNoCredential
	}
	return s.Session, nil
}
