package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/internal/events"
)

// writeTimeout keeps one wedged websocket write from holding the forwarder
// goroutine forever.
const writeTimeout = 5 * time.Second

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	writeJSONObject(w, s.bridge.Recent())
}

// handleEvents upgrades to a websocket and forwards one bridge subscription
// as JSON text messages until the client goes away or the server stops. A
// slow client loses events through the bridge's drop policy instead of
// stalling publishers.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns(),
	})
	if err != nil {
		log.Errorf("failed to accept ws connection: %s", err)
		return
	}
	defer func() {
		if err := wsConn.Close(websocket.StatusNormalClosure, ""); err != nil {
			log.Debugf("failed to close websocket: %v", err)
		}
	}()

	sub := s.bridge.Subscribe()
	defer s.bridge.Unsubscribe(sub)

	log.Debugf("event stream opened for %s", r.RemoteAddr)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case event := <-sub.Events():
			if err := writeEvent(ctx, wsConn, event); err != nil {
				log.Debugf("closing event stream to %s: %v", r.RemoteAddr, err)
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, wsConn *websocket.Conn, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsConn.Write(writeCtx, websocket.MessageText, payload)
}

// originPatterns reduces the configured origins to the host patterns the
// websocket handshake checks. Non-browser clients send no Origin header and
// pass regardless.
func (s *Server) originPatterns() []string {
	patterns := make([]string, 0, len(s.cfg.AllowedOrigins))
	for _, origin := range s.cfg.AllowedOrigins {
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			patterns = append(patterns, parsed.Host)
			continue
		}
		patterns = append(patterns, origin)
	}
	return patterns
}
