package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/sessions"

	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/models"
)

// SessionName is the cookie that carries the visitor's state.
const SessionName = "session"

// SessionStoreCookie selects a cookie-only session store.
const SessionStoreCookie = "cookie"

// NewSessionStore returns a filesystem store that keeps only the session id
// in the cookie. With cfg.Store set to "cookie" the whole state lives in the
// cookie and is capped at 4KB.
func NewSessionStore(cfg config.SessionConfig, secure bool) (sessions.Store, error) {
	options := &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	if cfg.Store == SessionStoreCookie {
		store := sessions.NewCookieStore([]byte(cfg.Secret))
		store.Options = options
		return store, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "movie-booking-sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	store := sessions.NewFilesystemStore(dir, []byte(cfg.Secret))
	store.MaxLength(0)
	store.Options = options
	return store, nil
}

// SessionManager hands out per-request views of the visitor's state.
type SessionManager struct {
	store sessions.Store
}

func NewSessionManager(store sessions.Store) *SessionManager {
	return &SessionManager{store: store}
}

// State returns the visitor's state for this request. A session that cannot
// be decoded is replaced by a fresh one.
func (m *SessionManager) State(w http.ResponseWriter, r *http.Request) *SessionState {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		log.Printf("Discarding unreadable session: %v", err)
		session, _ = m.store.New(r, SessionName)
		if session == nil {
			session = sessions.NewSession(m.store, SessionName)
		}
	}
	return &SessionState{w: w, r: r, session: session}
}

// SessionState stores JSON values in the session and writes the cookie on
// every change.
type SessionState struct {
	w       http.ResponseWriter
	r       *http.Request
	session *sessions.Session
}

func (s *SessionState) Load(key string, dest any) (bool, error) {
	raw, ok := s.session.Values[key]
	if !ok {
		return false, nil
	}
	str, ok := raw.(string)
	if !ok {
		return true, fmt.Errorf("session value %s has unexpected type %T", key, raw)
	}
	if err := json.Unmarshal([]byte(str), dest); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *SessionState) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.session.Values[key] = string(data)
	return s.persist()
}

func (s *SessionState) Remove(key string) error {
	if _, ok := s.session.Values[key]; !ok {
		return nil
	}
	delete(s.session.Values, key)
	return s.persist()
}

func (s *SessionState) persist() error {
	err := s.session.Save(s.r, s.w)
	if err == nil {
		return nil
	}
	// securecookie reports an oversized value with a plain error
	if strings.Contains(err.Error(), "value is too long") {
		return fmt.Errorf("failed to save session: %w: %v", models.ErrStateTooLarge, err)
	}
	return fmt.Errorf("failed to save session: %w", err)
}
