package app

import (
	"sync"

	"dvg-portal/internal/arcade"
	"dvg-portal/internal/domain"
	"dvg-portal/internal/progress"
	"dvg-portal/internal/quiz"
)

// userSession is the live in-process state of one signed-in user: their
// progress ledger plus whichever quiz or arcade game is currently running.
type userSession struct {
	mu           sync.Mutex
	displayName  string
	ledger       *progress.Ledger
	quiz         *quiz.Session
	arcade       *arcade.Engine
	lastUnlocked []domain.Badge
}

// sessionRegistry maps user ids to live sessions. A second LoadSession for
// the same user replaces the old session wholesale, which also cancels any
// quiz or game it was running.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*userSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*userSession)}
}

func (r *sessionRegistry) replace(userID, displayName string, ledger *progress.Ledger) *userSession {
	sess := &userSession{displayName: displayName, ledger: ledger}
	r.mu.Lock()
	r.sessions[userID] = sess
	r.mu.Unlock()
	return sess
}

func (r *sessionRegistry) get(userID string) (*userSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[userID]
	return sess, ok
}

func (r *sessionRegistry) drop(userID string) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}
