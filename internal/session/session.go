// Package session keeps the logged-in user and one-shot flash messages in a
// signed cookie.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "food_roulette"
	// CurrentUserKey holds the logged-in user's id.
	CurrentUserKey = "curr_user"
)

// Flash is a one-shot message shown on the next rendered page. Category maps
// to a Bootstrap alert class ("success", "danger", ...).
type Flash struct {
	Category string
	Text     string
}

func init() {
	gob.Register(Flash{})
}

// Manager reads and writes the session cookie.
type Manager struct {
	store sessions.Store
}

// NewManager creates a cookie-backed manager signed with secret.
func NewManager(secret string, secure bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 16,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

func (m *Manager) get(r *http.Request) *sessions.Session {
	// A cookie that fails to decode yields a fresh session; treat it as anonymous.
	s, _ := m.store.Get(r, cookieName)
	return s
}

// UserID returns the logged-in user's id, or false when nobody is logged in.
func (m *Manager) UserID(r *http.Request) (uint, bool) {
	id, ok := m.get(r).Values[CurrentUserKey].(uint)
	return id, ok && id != 0
}

// Login stores the user id in the session.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	s := m.get(r)
	s.Values[CurrentUserKey] = userID
	return s.Save(r, w)
}

// Logout forgets the user but keeps pending flashes.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, CurrentUserKey)
	return s.Save(r, w)
}

// AddFlash queues a message for the next page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, category, text string) error {
	s := m.get(r)
	s.AddFlash(Flash{Category: category, Text: text})
	return s.Save(r, w)
}

// Flashes pops every queued message.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			out = append(out, flash)
		}
	}
	_ = s.Save(r, w)
	return out
}
