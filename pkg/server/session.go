package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-priceform/pkg/controller"
)

// SessionCookieName is the cookie carrying the browser session id.
const SessionCookieName = "priceform_session"

// DefaultSessionTTL is how long an idle session keeps its controller.
const DefaultSessionTTL = 30 * time.Minute

// DefaultMaxSessions caps the live sessions. Creating one past the cap evicts
// the least recently seen session.
const DefaultMaxSessions = 10000

type session struct {
	id       string
	csrf     string
	ctrl     *controller.Controller
	lastSeen time.Time
}

func (s *session) validToken(token string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.csrf)) == 1
}

// sessionStore keeps one controller per browser. Sessions live in memory only,
// are dropped after ttl of inactivity and never number more than limit.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	limit    int
	now      func() time.Time
	factory  func() (*controller.Controller, error)
}

func newSessionStore(ttl time.Duration, limit int, factory func() (*controller.Controller, error)) *sessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
		factory:  factory,
	}
}

// get returns the session named by the request cookie, creating a new one
// (and setting its cookie) when the cookie is missing or stale.
func (st *sessionStore) get(w http.ResponseWriter, r *http.Request, secure bool) (*session, error) {
	now := st.now()
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		st.mu.Lock()
		sess, ok := st.sessions[cookie.Value]
		if ok {
			sess.lastSeen = now
		}
		st.mu.Unlock()
		if ok {
			return sess, nil
		}
	}

	ctrl, err := st.factory()
	if err != nil {
		return nil, err
	}
	sess := &session{
		id:       uuid.NewString(),
		csrf:     uuid.NewString(),
		ctrl:     ctrl,
		lastSeen: now,
	}

	st.mu.Lock()
	st.pruneLocked(now)
	for len(st.sessions) >= st.limit {
		st.evictOldestLocked()
	}
	st.sessions[sess.id] = sess
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// prune drops idle sessions and reports how many were removed.
func (st *sessionStore) prune() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	before := len(st.sessions)
	st.pruneLocked(st.now())
	return before - len(st.sessions)
}

// pruneEvery prunes on a ticker until ctx is done.
func (st *sessionStore) pruneEvery(ctx context.Context, interval time.Duration, logger Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.prune(); n > 0 {
				logger.Printf("pruned %d idle sessions", n)
			}
		}
	}
}

func (st *sessionStore) evictOldestLocked() {
	var oldest *session
	for _, sess := range st.sessions {
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	if oldest == nil {
		return
	}
	oldest.ctrl.Close()
	delete(st.sessions, oldest.id)
}

func (st *sessionStore) pruneLocked(now time.Time) {
	for id, sess := range st.sessions {
		if now.Sub(sess.lastSeen) > st.ttl {
			sess.ctrl.Close()
			delete(st.sessions, id)
		}
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *sessionStore) closeAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, sess := range st.sessions {
		sess.ctrl.Close()
		delete(st.sessions, id)
	}
}
