/******************************************************************************
 *
 *  Description :
 *
 *    Handler of websocket connections. See also hdl_ops.go for request
 *    handlers and http.go for the HTTP server.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Black3800/zeeu-api/server/logs"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 55 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

func (s *Session) closeWS() {
	s.ws.Close()
}

func (s *Session) readLoop() {
	defer func() {
		s.closeWS()
		s.cleanUp()
	}()

	s.ws.SetReadLimit(globals.maxMessageSize)
	s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		s.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Read a ClientComMessage
		_, raw, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logs.Err.Println("ws: readLoop", s.sid, err)
			}
			return
		}
		statsInc("IncomingMessagesWebsockTotal", 1)
		s.updateLastAction()

		s.dispatchRaw(raw)
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		// Break readLoop.
		s.closeWS()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				// Channel closed.
				return
			}
			if len(s.send) > sendQueueLimit {
				logs.Err.Println("ws: outbound queue limit exceeded", s.sid)
				return
			}
			statsInc("OutgoingMessagesWebsockTotal", 1)
			if err := wsWrite(s.ws, websocket.TextMessage, msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logs.Err.Println("ws: writeLoop", s.sid, err)
				}
				return
			}

		case msg := <-s.stop:
			// Shutdown requested. Best-effort final message.
			if msg != nil {
				wsWrite(s.ws, websocket.TextMessage, msg)
			}
			return

		case <-ticker.C:
			if err := wsWrite(s.ws, websocket.PingMessage, nil); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logs.Err.Println("ws: writeLoop ping", s.sid, err)
				}
				return
			}
		}
	}
}

// Writes a message with the given message type (mt) and payload.
func wsWrite(ws *websocket.Conn, mt int, msg any) error {
	var bits []byte
	if msg != nil {
		bits = msg.([]byte)
	} else {
		bits = []byte{}
	}
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteMessage(mt, bits)
}

// Handles websocket requests from peers.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow connections from any Origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWebSocket upgrades the connection to websocket and starts the
// session's read and write loops.
func serveWebSocket(wrt http.ResponseWriter, req *http.Request) {
	now := time.Now().UTC()

	if req.Method != http.MethodGet {
		wrt.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(wrt).Encode(map[string]any{"code": http.StatusMethodNotAllowed, "ts": now})
		return
	}

	if globals.apiKeySalt != nil {
		if ok, _ := checkAPIKey(getAPIKey(req)); !ok {
			wrt.WriteHeader(http.StatusForbidden)
			json.NewEncoder(wrt).Encode(map[string]any{"code": http.StatusForbidden, "ts": now})
			logs.Warn.Println("ws: invalid or missing API key", req.RemoteAddr)
			return
		}
	}

	ws, err := upgrader.Upgrade(wrt, req, nil)
	if _, ok := err.(websocket.HandshakeError); ok {
		logs.Err.Println("ws: not a websocket handshake", req.RemoteAddr)
		return
	} else if err != nil {
		logs.Err.Println("ws: failed to upgrade", req.RemoteAddr, err)
		return
	}

	sess, count := globals.sessionStore.NewSession(ws, getRemoteAddr(req))
	logs.Info.Println("ws: session started", sess.sid, sess.remoteAddr, count)

	// Do work in goroutines to return from serveWebSocket() to release file pointers.
	// Otherwise "too many open files" will happen.
	go sess.writeLoop()
	go sess.readLoop()
}
