/******************************************************************************
 *
 *  Description :
 *
 *    Handling of user sessions. Each websocket connection is a session;
 *    a session becomes authenticated by a successful {verify} and from
 *    then on multiplexes live subscriptions and one-shot requests over
 *    a single outbound queue.
 *
 *****************************************************************************/

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Black3800/zeeu-api/server/logs"
	"github.com/Black3800/zeeu-api/server/store"
	"github.com/Black3800/zeeu-api/server/store/types"
	"github.com/gorilla/websocket"
)

// Wait time before abandoning the attempt to write to a session's send
// queue. The read loop must not block on a slow client.
const sendTimeout = time.Microsecond * 50

// Maximum number of queued outbound messages per session.
const sendQueueLimit = 128

// Subscription is one live feed attached to a session. Cancelling stops
// the underlying query; no further pushes for this sid are delivered
// after cancel returns.
type Subscription struct {
	// Collection being watched, used as the push event name.
	what string
	// Stops the live query.
	cancel func()
}

// Session holds the state of a single connected client.
type Session struct {
	// Session id.
	sid string

	// Websocket connection.
	ws *websocket.Conn

	// IP address of the client, for logging.
	remoteAddr string

	// Subject id, set by a successful verify. Empty means the session is
	// unauthenticated and everything except {verify} is dropped.
	uid string

	// Subject role, "patient" or "doctor".
	role string

	// Outbound messages, buffered. Content is serialized before queueing.
	send chan any

	// Channel for shutting down the session, buffer 1.
	// Content in the same format as for 'send'.
	stop chan any

	// Live subscriptions indexed by subscription id.
	subs     map[string]*Subscription
	subsLock sync.RWMutex

	// Time when the session received any packet from the client.
	lastAction int64

	// Guard against multiple cleanup runs.
	terminating sync.Once
}

// Operation handlers indexed by request type. The map is consulted only
// after the authentication gate has passed.
var operations map[string]func(*Session, context.Context, *ClientComMessage)

func init() {
	operations = map[string]func(*Session, context.Context, *ClientComMessage){
		typeVerify:      (*Session).verifyRequest,
		typeSubscribe:   (*Session).subscribeRequest,
		typeUnsubscribe: (*Session).unsubscribeRequest,
		typeGet:         (*Session).getRequest,
		typePost:        (*Session).postRequest,
		typeLogout:      (*Session).logoutRequest,
	}
}

func (s *Session) addSub(sub *Subscription) string {
	s.subsLock.Lock()
	defer s.subsLock.Unlock()

	sid := store.Store.GetUidString()
	for s.subs[sid] != nil {
		sid = store.Store.GetUidString()
	}
	s.subs[sid] = sub
	return sid
}

// delSub removes the subscription and cancels it. The entry is removed
// before cancel runs so a concurrent delSub for the same sid is a no-op.
func (s *Session) delSub(sid string) bool {
	s.subsLock.Lock()
	sub := s.subs[sid]
	delete(s.subs, sid)
	s.subsLock.Unlock()

	if sub == nil {
		return false
	}
	sub.cancel()
	return true
}

// unsubAll cancels every live subscription. Used on logout and session
// termination. A panicking cancel must not leak the rest.
func (s *Session) unsubAll() int {
	s.subsLock.Lock()
	subs := s.subs
	s.subs = make(map[string]*Subscription)
	s.subsLock.Unlock()

	for sid, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logs.Err.Println("s.unsubAll: cancel panicked", sid, s.sid, r)
				}
			}()
			sub.cancel()
		}()
	}
	return len(subs)
}

func (s *Session) countSub() int {
	s.subsLock.RLock()
	defer s.subsLock.RUnlock()
	return len(s.subs)
}

// queueOut attempts to send a ServerComMessage to a session write loop;
// if the send buffer is full, timeout is 50 microseconds.
func (s *Session) queueOut(msg *ServerComMessage) bool {
	if s == nil {
		return true
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logs.Err.Println("s.queueOut: marshal failed", s.sid, err)
		return false
	}

	select {
	case s.send <- data:
	case <-time.After(sendTimeout):
		logs.Err.Println("s.queueOut: timeout", s.sid)
		return false
	}
	return true
}

// reqContext returns the context for one request's store calls, bounded
// by the configured request timeout.
func (s *Session) reqContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), globals.requestTimeout)
}

// dispatchRaw parses one inbound frame and processes it. Malformed
// frames are logged and dropped; the session stays up.
func (s *Session) dispatchRaw(raw []byte) {
	var msg ClientComMessage

	if len(raw) == 0 {
		return
	}

	if err := json.Unmarshal(raw, &msg); err != nil {
		maxl := len(raw)
		if maxl > 512 {
			maxl = 512
		}
		logs.Warn.Println("s.dispatch: parse failed", s.sid, err, string(raw[:maxl]))
		return
	}

	s.dispatch(&msg)
}

func (s *Session) dispatch(msg *ClientComMessage) {
	if msg == nil {
		return
	}

	// Authentication gate. An unauthenticated session accepts {verify}
	// and nothing else; everything else is dropped without a reply so
	// the socket leaks nothing to probes.
	if s.uid == "" && msg.Type != typeVerify {
		logs.Warn.Println("s.dispatch: unauthenticated request dropped", s.sid, msg.Type)
		statsInc("DroppedUnauthenticated", 1)
		return
	}

	handler := operations[msg.Type]
	if handler == nil {
		logs.Warn.Println("s.dispatch: unknown request type", s.sid, msg.Type)
		s.queueOut(ErrUnknownOperation(msg.Params.Ref))
		return
	}

	ctx, cancel := s.reqContext()
	defer cancel()

	started := time.Now()
	handler(s, ctx, msg)
	statsAddHistSample("RequestDuration", float64(time.Since(started).Microseconds())/1000.0)
}

// pipeLiveQuery forwards snapshots from a live query to the session's
// send queue until the query is cancelled. Runs as a goroutine, one per
// subscription. Delivery is gated on the sid still being registered:
// snapshots buffered in the updates channel when the subscription is
// removed are drained and discarded, not sent.
func (s *Session) pipeLiveQuery(sid, what, chat string, lq types.LiveQuery) {
	for data := range lq.Updates() {
		if what == collectionMessages {
			data = &MsgThread{Chat: chat, Messages: data}
		}
		s.subsLock.RLock()
		if _, live := s.subs[sid]; live {
			s.queueOut(EvtPush(what, data))
		}
		s.subsLock.RUnlock()
	}
}

// cleanUp is called when the session is terminated: the websocket is
// closed or the server is shutting down.
func (s *Session) cleanUp() {
	s.terminating.Do(func() {
		if n := s.unsubAll(); n > 0 {
			statsInc("LiveSubscriptions", -n)
		}
		if s.uid != "" {
			ctx, cancel := s.reqContext()
			if err := store.Users.SetActive(ctx, s.uid, false); err != nil {
				logs.Warn.Println("s.cleanUp: set inactive failed", s.sid, err)
			}
			cancel()
			statsInc("VerifiedSessions", -1)
		}
		globals.sessionStore.Delete(s)
	})
}

// stopSession asks the write loop to terminate the session, optionally
// sending a final serialized message first. Non-blocking.
func (s *Session) stopSession(data any) {
	select {
	case s.stop <- data:
	default:
	}
}

// Message received, update the last activity timestamp.
func (s *Session) updateLastAction() {
	s.lastAction = time.Now().UnixMilli()
}

// Returns the remote address, preferring the X-Forwarded-For header if
// the server is configured to trust it.
func getRemoteAddr(req *http.Request) string {
	var addr string
	if globals.useXForwardedFor {
		addr = req.Header.Get("X-Forwarded-For")
		if !isRoutableIP(addr) {
			addr = ""
		}
	}
	if addr == "" {
		addr = req.RemoteAddr
	}
	return addr
}
