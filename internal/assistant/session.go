package assistant

import (
	"fmt"
	"sync"
	"time"

	"binhoard-api/internal/common"
)

// SessionState models the review lifecycle of one command
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateNeedsSetup SessionState = "needs_setup"
	StateParsing    SessionState = "parsing"
	StatePreview    SessionState = "preview"
	StateExecuting  SessionState = "executing"
)

// SessionEvent is an input to the session reducer
type SessionEvent string

const (
	EventSubmit          SessionEvent = "submit"
	EventProviderMissing SessionEvent = "provider_missing"
	EventInterpreted     SessionEvent = "interpreted"
	EventInterpretFailed SessionEvent = "interpret_failed"
	EventConfirm         SessionEvent = "confirm"
	EventCancel          SessionEvent = "cancel"
	EventExecutionDone   SessionEvent = "execution_done"
)

// Transition is the pure reducer over the session state machine. It is
// independent of HTTP and storage so the lifecycle can be tested on its own.
func Transition(state SessionState, event SessionEvent) (SessionState, error) {
	switch state {
	case StateIdle, StateNeedsSetup:
		switch event {
		case EventSubmit:
			return StateParsing, nil
		case EventProviderMissing:
			return StateNeedsSetup, nil
		case EventCancel:
			return StateIdle, nil
		}
	case StateParsing:
		switch event {
		case EventInterpreted:
			return StatePreview, nil
		case EventInterpretFailed:
			return StateIdle, nil
		}
	case StatePreview:
		switch event {
		case EventConfirm:
			return StateExecuting, nil
		case EventCancel:
			return StateIdle, nil
		case EventSubmit:
			// a new command discards the pending preview
			return StateParsing, nil
		}
	case StateExecuting:
		// execution always runs to completion of the queue
		if event == EventExecutionDone {
			return StateIdle, nil
		}
	}

	return state, fmt.Errorf("invalid session transition: %s on %s", event, state)
}

// CommandSession holds the pending actions of one user's command between
// interpretation and confirmation. The action list itself is immutable;
// approval is tracked as a parallel included flag per index.
type CommandSession struct {
	UserID         common.UserID
	LocationID     common.LocationID
	State          SessionState
	Actions        []Action
	Included       []bool
	Interpretation string
	LastActivity   time.Time
}

// ApprovedActions returns the subset of actions still marked included
func (s *CommandSession) ApprovedActions() []Action {
	approved := make([]Action, 0, len(s.Actions))
	for i, action := range s.Actions {
		if i < len(s.Included) && s.Included[i] {
			approved = append(approved, action)
		}
	}
	return approved
}

// SessionManager tracks per-user command sessions. No two sessions share
// mutable state; each command invocation owns its snapshot and action list.
type SessionManager struct {
	sessions map[common.UserID]*CommandSession
	mutex    sync.RWMutex
	done     chan struct{}
}

// NewSessionManager creates a new SessionManager instance
func NewSessionManager() *SessionManager {
	sm := &SessionManager{
		sessions: make(map[common.UserID]*CommandSession),
		done:     make(chan struct{}),
	}

	// Start cleanup routine
	go sm.cleanupRoutine()

	return sm
}

// GetSession retrieves a user's session
func (sm *SessionManager) GetSession(userID common.UserID) (*CommandSession, bool) {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	session, exists := sm.sessions[userID]
	return session, exists
}

// SetSession stores a user's session
func (sm *SessionManager) SetSession(userID common.UserID, session *CommandSession) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	session.LastActivity = time.Now()
	sm.sessions[userID] = session
}

// DeleteSession removes a user's session
func (sm *SessionManager) DeleteSession(userID common.UserID) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	delete(sm.sessions, userID)
}

// Stop terminates the cleanup routine
func (sm *SessionManager) Stop() {
	close(sm.done)
}

// cleanupRoutine removes stale sessions
func (sm *SessionManager) cleanupRoutine() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.cleanupStaleSessions()
		case <-sm.done:
			return
		}
	}
}

// cleanupStaleSessions removes sessions inactive for more than an hour; an
// abandoned preview simply discards its pending actions with no store effect
func (sm *SessionManager) cleanupStaleSessions() {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)

	for userID, session := range sm.sessions {
		if session.LastActivity.Before(cutoff) {
			delete(sm.sessions, userID)
		}
	}
}
