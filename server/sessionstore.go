/******************************************************************************
 *
 *  Description :
 *
 *    Management of websocket sessions.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Black3800/zeeu-api/server/store"
	"github.com/gorilla/websocket"
)

// SessionStore holds live sessions.
type SessionStore struct {
	lock sync.Mutex

	// All sessions indexed by session ID.
	sessCache map[string]*Session
}

// NewSession creates a new session and saves it to the session store.
func (ss *SessionStore) NewSession(conn *websocket.Conn, remoteAddr string) (*Session, int) {
	var s Session

	s.sid = store.Store.GetUidString()
	s.ws = conn
	s.remoteAddr = remoteAddr
	s.subs = make(map[string]*Subscription)
	s.send = make(chan any, sendQueueLimit+32)
	s.stop = make(chan any, 1)
	s.lastAction = time.Now().UnixMilli()

	ss.lock.Lock()

	for ss.sessCache[s.sid] != nil {
		s.sid = store.Store.GetUidString()
	}
	ss.sessCache[s.sid] = &s
	count := len(ss.sessCache)

	ss.lock.Unlock()

	statsInc("LiveSessions", 1)
	statsInc("TotalSessions", 1)

	return &s, count
}

// Get fetches a session from the store by session ID.
func (ss *SessionStore) Get(sid string) *Session {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	return ss.sessCache[sid]
}

// Delete removes session from the store.
func (ss *SessionStore) Delete(s *Session) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if _, ok := ss.sessCache[s.sid]; ok {
		delete(ss.sessCache, s.sid)
		statsInc("LiveSessions", -1)
	}
}

// Shutdown terminates all sessions. The notice is pushed through the
// stop channel so each write loop sends it and exits.
func (ss *SessionStore) Shutdown() {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	notice, _ := json.Marshal(&ServerComMessage{
		Event: evtError,
		Data:  &MsgError{Code: errCodeStore, Detail: "server shutdown"},
	})
	for _, s := range ss.sessCache {
		s.stopSession(notice)
	}
}

// Range calls given function for all sessions. It stops if the function returns false.
func (ss *SessionStore) Range(f func(sid string, s *Session) bool) {
	ss.lock.Lock()
	for sid, s := range ss.sessCache {
		if !f(sid, s) {
			break
		}
	}
	ss.lock.Unlock()
}

// NewSessionStore initializes a session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessCache: make(map[string]*Session),
	}
}
