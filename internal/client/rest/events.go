package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"

	"github.com/quillchat/desktop/internal/events"
)

// EventsAPI APIs for the event stream, do not use directly
type EventsAPI struct {
	c *Client
}

// Recent returns the daemon's buffered event history, oldest first.
func (a *EventsAPI) Recent(ctx context.Context) ([]events.Event, error) {
	resp, err := a.c.newRequest(ctx, "GET", "/api/events/recent", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[[]events.Event](resp)
	return ret, err
}

// Stream is a live event subscription. Events published before the stream
// was opened are not replayed; use Recent for history.
type Stream struct {
	conn *websocket.Conn
}

// Subscribe opens the live event stream over a websocket. The caller owns
// the returned stream and must close it.
func (a *EventsAPI) Subscribe(ctx context.Context) (*Stream, error) {
	conn, _, err := websocket.Dial(ctx, "ws://"+a.c.addr+"/api/events", nil)
	if err != nil {
		return nil, fmt.Errorf("dial event stream: %w", err)
	}
	return &Stream{conn: conn}, nil
}

// Next blocks until an event arrives, the stream closes or ctx is done.
func (s *Stream) Next(ctx context.Context) (events.Event, error) {
	var event events.Event

	_, data, err := s.conn.Read(ctx)
	if err != nil {
		return event, err
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("parse event: %w", err)
	}
	return event, nil
}

// Close closes the subscription.
func (s *Stream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
