package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// ContextSessionKey stores the *SessionState inside Gin context.
	ContextSessionKey = "session_state"

	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	sessionVisitedKey  = "visited"
	sessionViewedKey   = "viewed"
)

// SessionState is the per-request view of the browser session: admin identity, the day the visit
// was counted, and the artworks already counted as viewed. Handlers receive it through the Gin
// context instead of reaching for the cookie themselves.
type SessionState struct {
	store sessions.Session
}

// LoadSession wraps the cookie session of the request into a SessionState. It must run after
// sessions.Sessions.
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextSessionKey, &SessionState{store: sessions.Default(c)})
		c.Next()
	}
}

// CurrentSession returns the request's SessionState, or nil when LoadSession did not run.
func CurrentSession(c *gin.Context) *SessionState {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	state, _ := v.(*SessionState)
	return state
}

// UserID returns the signed-in admin id.
func (s *SessionState) UserID() (uint, bool) {
	id, ok := s.store.Get(sessionUserIDKey).(uint)
	return id, ok && id != 0
}

// Username returns the signed-in admin name, empty when anonymous.
func (s *SessionState) Username() string {
	name, _ := s.store.Get(sessionUsernameKey).(string)
	return name
}

// Authenticated reports whether an admin identity is present.
func (s *SessionState) Authenticated() bool {
	_, ok := s.UserID()
	return ok
}

// SignIn records the admin identity.
func (s *SessionState) SignIn(id uint, username string) {
	s.store.Set(sessionUserIDKey, id)
	s.store.Set(sessionUsernameKey, username)
}

// SignOut drops everything held by the session, counters' markers included.
func (s *SessionState) SignOut() {
	s.store.Clear()
}

// Visited reports whether the visit of day was already counted for this session.
func (s *SessionState) Visited(day string) bool {
	v, _ := s.store.Get(sessionVisitedKey).(string)
	return v == day
}

// MarkVisited remembers that the visit of day was counted.
func (s *SessionState) MarkVisited(day string) {
	s.store.Set(sessionVisitedKey, day)
}

// HasViewed reports whether the artwork was already counted for this session.
func (s *SessionState) HasViewed(artworkID uint) bool {
	for _, id := range s.viewed() {
		if id == artworkID {
			return true
		}
	}
	return false
}

// MarkViewed adds the artwork to the session's viewed set.
func (s *SessionState) MarkViewed(artworkID uint) {
	if s.HasViewed(artworkID) {
		return
	}
	s.store.Set(sessionViewedKey, append(s.viewed(), artworkID))
}

func (s *SessionState) viewed() []uint {
	ids, _ := s.store.Get(sessionViewedKey).([]uint)
	return ids
}

// AddFlash queues a one-shot notice for the next rendered page.
func (s *SessionState) AddFlash(msg string) {
	s.store.AddFlash(msg)
}

// Flashes drains the queued notices. Callers must Save afterwards.
func (s *SessionState) Flashes() []string {
	raw := s.store.Flashes()
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Save writes the session cookie.
func (s *SessionState) Save() error {
	return s.store.Save()
}
