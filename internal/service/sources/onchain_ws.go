package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
)

// OnchainStream implements a CommentaryStream backed by the on-chain
// commentary WebSocket feed.
type OnchainStream struct {
	websocketURL   string
	channels       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// NewOnchainStream creates a new on-chain CommentaryStream.
func NewOnchainStream(websocketURL string, channels []string, reconnectDelay, pingInterval time.Duration) drepo.CommentaryStream {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &OnchainStream{
		websocketURL:   websocketURL,
		channels:       channels,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *OnchainStream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("onchain connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("onchain: connected")
	return nil
}

// Subscribe subscribes to configured commentary channels.
func (c *OnchainStream) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("onchain not connected")
	}
	for _, ch := range c.channels {
		msg := map[string]string{"type": "subscribe", "channel": ch}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", ch, err)
		}
		log.Printf("onchain: subscribed %s", ch)
	}
	return nil
}

type ocEntry struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Source   string `json:"source"`
	T        int64  `json:"t"` // unix seconds or ms
	Severity string `json:"severity"`
	Entities []struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	} `json:"entities"`
}

type ocMessage struct {
	Type string    `json:"type"`
	Data []ocEntry `json:"data"`
}

// Read streams commentary items and errors.
func (c *OnchainStream) Read(ctx context.Context) (<-chan *models.RawItem, <-chan error) {
	items := make(chan *models.RawItem, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(items)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("onchain conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("onchain read: %w", err)
					return
				}
				var m ocMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-commentary frames
					continue
				}
				if m.Type != "commentary" {
					continue
				}
				for _, d := range m.Data {
					select {
					case items <- entryToItem(d):
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return items, errs
}

func entryToItem(d ocEntry) *models.RawItem {
	sec := d.T
	if sec > 1e11 { // ms
		sec = sec / 1000
	}
	ts := time.Now()
	if sec > 0 {
		ts = time.Unix(sec, 0)
	}
	it := &models.RawItem{
		SourceKind: models.SourceOnchain,
		SourceName: d.Source,
		Title:      d.Title,
		Body:       d.Body,
		Timestamp:  ts,
		Severity:   models.Severity(d.Severity),
	}
	for _, e := range d.Entities {
		kind := models.KindNarrative
		if e.Kind == "token" {
			kind = models.KindToken
		}
		it.Mentions = append(it.Mentions, models.Mention{Kind: kind, Name: e.Name})
	}
	return it
}

// Reconnect closes and re-establishes the connection after a delay.
func (c *OnchainStream) Reconnect(ctx context.Context) error {
	c.connected = false
	if c.conn != nil {
		_ = c.conn.Close()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.reconnectDelay):
	}
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the connection.
func (c *OnchainStream) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected reports connection state.
func (c *OnchainStream) IsConnected() bool { return c.connected }

// OnchainAdapter drains items the stream collector buffered since the last
// cycle. Like the social adapter it cannot fail the fan-out.
type OnchainAdapter struct {
	buf *ItemBuffer
}

func NewOnchainAdapter(buf *ItemBuffer) *OnchainAdapter {
	return &OnchainAdapter{buf: buf}
}

func (a *OnchainAdapter) Kind() models.SourceKind { return models.SourceOnchain }

func (a *OnchainAdapter) Fetch(_ context.Context) ([]*models.RawItem, error) {
	return a.buf.Drain(), nil
}

var _ drepo.SourceAdapter = (*OnchainAdapter)(nil)
