package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

const (
	eventsBuffer     = 32
	eventsWriteWait  = 10 * time.Second
	eventsPingPeriod = 30 * time.Second
)

// StreamEvents handles GET /events. It upgrades to a websocket and writes
// one JSON message {"key","version"} per collection change until the client
// goes away. Notifications may be dropped for slow clients; a client should
// re-read the collection named in any message it does get.
func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		s.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	changes, unsubscribe := s.svc.Changes.Subscribe(eventsBuffer)
	defer unsubscribe()

	// The read loop only notices the client closing; incoming messages are
	// discarded.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(eventsPingPeriod)
	defer ping.Stop()

	s.logger.DebugContext(r.Context(), "events subscriber connected")
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteJSON(c); err != nil {
				s.logger.DebugContext(r.Context(), "events write failed", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWriteWait)); err != nil {
				return
			}
		}
	}
}

// checkOrigin accepts requests without an Origin header and those from an
// allowed origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(s.opts.AllowedOrigins, origin)
}
