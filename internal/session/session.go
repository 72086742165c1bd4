// Package session wraps gorilla/sessions with the small vocabulary the rest
// of the app needs: who is logged in, and where to send them back after a
// login interrupted their navigation.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"

	"storyshelf/internal/entity"
)

const (
	cookieName = "storyshelf_session"

	// MaxAge bounds both the cookie lifetime and how old a cookie the
	// codec will still accept, so a replayed stale cookie attaches as a
	// fresh anonymous session.
	MaxAge = 24 * time.Hour

	// DefaultReturnPath is where a consumed-but-empty return target lands.
	DefaultReturnPath = "/"

	keyUserID    = "user_id"
	keyUserEmail = "user_email"
	keyUserRole  = "user_role"
	keyReturnTo  = "return_to"
)

// CurrentUser is the denormalized identity snapshot kept in the session.
// The password hash is never stored here.
type CurrentUser struct {
	ID    int
	Email string
	Role  string
}

func (u CurrentUser) IsAdmin() bool {
	return u.Role == entity.RoleAdmin
}

// NewCookieStore builds the production store: signed cookie, 24h lifetime,
// HttpOnly, same-site lax.
func NewCookieStore(secret []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.MaxAge(int(MaxAge.Seconds()))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// Manager mediates all session reads and writes. The store is an interface
// so tests can construct their own.
type Manager struct {
	store sessions.Store
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// Attach restores the session for the request. A missing, malformed or
// expired cookie yields a fresh anonymous session rather than an error.
func (m *Manager) Attach(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, cookieName)
	return s
}

// Save persists any pending session mutations to the response.
func (m *Manager) Save(r *http.Request, w http.ResponseWriter, s *sessions.Session) error {
	return s.Save(r, w)
}

// Current returns the authenticated user, if any.
func (m *Manager) Current(s *sessions.Session) (CurrentUser, bool) {
	id, ok := s.Values[keyUserID].(int)
	if !ok || id == 0 {
		return CurrentUser{}, false
	}
	email, _ := s.Values[keyUserEmail].(string)
	role, _ := s.Values[keyUserRole].(string)
	return CurrentUser{ID: id, Email: email, Role: role}, true
}

// SetAuthenticated records a successful login or signup.
func (m *Manager) SetAuthenticated(s *sessions.Session, u entity.User) {
	s.Values[keyUserID] = u.ID
	s.Values[keyUserEmail] = u.Email
	s.Values[keyUserRole] = u.Role
}

// MarkReturnTarget remembers the path an anonymous request was denied, so a
// later login can resume there. Only the first mark of a redirect cycle
// sticks, and only same-site paths are accepted.
func (m *Manager) MarkReturnTarget(s *sessions.Session, path string) {
	if _, exists := s.Values[keyReturnTo]; exists {
		return
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return
	}
	s.Values[keyReturnTo] = path
}

// ConsumeReturnTarget returns the stored path and clears it in the same
// call. A second consume yields the default path, never the stored one
// again.
func (m *Manager) ConsumeReturnTarget(s *sessions.Session) string {
	path, ok := s.Values[keyReturnTo].(string)
	delete(s.Values, keyReturnTo)
	if !ok || path == "" {
		return DefaultReturnPath
	}
	return path
}

// Destroy logs the session out: values are dropped and the cookie is
// expired. Save errors are ignored so logout always succeeds from the
// user's point of view.
func (m *Manager) Destroy(r *http.Request, w http.ResponseWriter, s *sessions.Session) {
	for key := range s.Values {
		delete(s.Values, key)
	}
	s.Options.MaxAge = -1
	_ = s.Save(r, w)
}
