package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// wsWriteTimeout bounds every websocket write. A deadline timeout on a
	// websocket cannot be recovered, so the connection is dropped and the
	// client reconnects.
	wsWriteTimeout = 10 * time.Second

	// wsPingPeriod is how often a ping frame is sent on an otherwise idle
	// connection to keep intermediaries from closing it.
	wsPingPeriod = 30 * time.Second

	// wsPongTimeout is how long to wait for any read (pong included)
	// before considering the peer gone.
	wsPongTimeout = 60 * time.Second
)

// wsUpgrader upgrades roster subscription requests. Origin checking is left
// open: the session ID in the query string is what gates access, and the
// payload is the same data GET /api/flights serves.
var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS handles GET /api/ws?session=<sessionID>.
//
// This is the realtime push channel: the client receives the full roster
// state once on connect and again after every change (a snapshot, never a
// diff). The subscription lives until the client disconnects or the server
// shuts down; either way the observer is unregistered so nothing leaks.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on websocket requests, so the session
	// rides in the query string instead of the Authorization header.
	sess, err := s.sessions.Lookup(r.URL.Query().Get("session"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	changes, unsubscribe := s.view.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: the client never sends application data, but reading is
	// what surfaces close frames and answers pings. Any read error means
	// the peer is gone.
	go func() {
		defer cancel()

		ws.SetReadDeadline(time.Now().Add(wsPongTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(wsPongTimeout))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.log.Debug("roster subscription opened", "participant_id", sess.ParticipantID)

	// Write pump: snapshot on connect, snapshot per change signal, ping
	// when idle.
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	if err := s.writeSnapshot(ws); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if err := s.writeSnapshot(ws); err != nil {
				s.log.Debug("roster subscription closed", "participant_id", sess.ParticipantID, "error", err)
				return
			}
		case <-ping.C:
			ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeSnapshot sends the current roster state as one JSON text message.
func (s *Server) writeSnapshot(ws *websocket.Conn) error {
	ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return ws.WriteJSON(s.currentRoster())
}
