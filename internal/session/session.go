// Package session keeps per-client server-side state correlated by a cookie.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// CookieName is the name of the cookie carrying the session ID.
const CookieName = "session_id"

// Authorization is the login state stored in a session.
type Authorization struct {
	AccessToken string
	Username    string
}

// Session is the server-side record for one client.
type Session struct {
	ID            string
	Authorization *Authorization
}

// Manager stores sessions in a TTL cache and maps them to clients by cookie.
type Manager struct {
	store    *cache.Cache
	lifetime time.Duration
	secure   bool
}

// NewManager returns a Manager whose sessions expire lifetime after they were
// last saved. Secure marks the cookie HTTPS-only.
func NewManager(lifetime time.Duration, secure bool) *Manager {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &Manager{
		store:    cache.New(lifetime, 10*time.Minute),
		lifetime: lifetime,
		secure:   secure,
	}
}

// Load returns the session referenced by the request's cookie. A missing
// cookie or an unknown/expired ID yields (nil, nil). An error means the stored
// entry could not be read.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	v, found := m.store.Get(c.Value)
	if !found {
		return nil, nil
	}
	s, ok := v.(*Session)
	if !ok {
		return nil, errors.Errorf("session %s holds unexpected type %T", c.Value, v)
	}

	cp := *s
	if s.Authorization != nil {
		auth := *s.Authorization
		cp.Authorization = &auth
	}
	return &cp, nil
}

// New returns a session with a fresh random ID. It is not stored until Save.
func (m *Manager) New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Save stores s and sets the session cookie on w.
func (m *Manager) Save(w http.ResponseWriter, s *Session) {
	m.store.Set(s.ID, s, cache.DefaultExpiration)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.store.ItemCount()
}
