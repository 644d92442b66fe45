package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
)

const (
	SessionName = "activities_session"
	userIDKey   = "user_id"
)

// NewStore builds the cookie store shared by the app and gothic.
func NewStore(secret string, secure bool, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// Sessions reads and writes the signed-in user id.
type Sessions struct {
	store sessions.Store
}

func NewSessions(store sessions.Store) *Sessions {
	return &Sessions{store: store}
}

// UserID returns the signed-in user id, or "" when there is none. A cookie
// that fails to decode counts as signed out.
func (s *Sessions) UserID(r *http.Request) string {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	id, _ := session.Values[userIDKey].(string)
	return id
}

func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

// Logout drops the app session and any provider session gothic kept.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return err
	}
	if gothic.Store != nil {
		gothic.Logout(w, r)
	}
	return nil
}
