package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/json"
)

// Event is a frame pushed by the session service.
type Event struct {
	Type      string     `json:"type"`
	Assistant *Assistant `json:"assistant,omitempty"`
}

const EventAssistant = "assistant"

// Watcher keeps a Current signal in sync with a websocket feed of
// assistant selections.
type Watcher struct {
	url     string
	headers http.Header
	dialer  *websocket.Dialer
	current *Current
	logger  func(format string, args ...interface{})
}

// NewWatcher creates a watcher publishing into current. token, when set,
// is sent as a bearer Authorization header.
func NewWatcher(url, token string, current *Current, logger func(format string, args ...interface{})) *Watcher {
	if logger == nil {
		logger = func(format string, args ...interface{}) {}
	}
	hdr := http.Header{}
	if token != "" {
		hdr.Set("Authorization", "Bearer "+token)
	}
	return &Watcher{
		url:     url,
		headers: hdr,
		dialer:  &websocket.Dialer{HandshakeTimeout: 30 * time.Second},
		current: current,
		logger:  logger,
	}
}

// Run dials the feed and applies events until ctx is cancelled or the
// server closes the connection. A normal close returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	if !(strings.HasPrefix(w.url, "wss://") || strings.HasPrefix(w.url, "ws://localhost") || strings.HasPrefix(w.url, "ws://127.0.0.1")) {
		return fmt.Errorf("security error: URL must use WSS or localhost; got: %s", w.url)
	}

	conn, _, err := w.dialer.DialContext(ctx, w.url, w.headers)
	if err != nil {
		return fmt.Errorf("dial assistant feed: %w", err)
	}
	defer conn.Close()
	w.logger("Watching assistant feed at %s", w.url)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var ce *websocket.CloseError
			if errors.As(err, &ce) && ce.Code == websocket.CloseNormalClosure {
				return nil
			}
			return fmt.Errorf("read assistant feed: %w", err)
		}
		w.apply(msg)
	}
}

func (w *Watcher) apply(msg []byte) {
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		w.logger("Ignoring malformed assistant event: %v", err)
		return
	}
	if ev.Type != EventAssistant || ev.Assistant == nil {
		return
	}
	w.current.Set(*ev.Assistant)
}
