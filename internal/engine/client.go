package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumihub/lumi-gateway/internal/config"
)

// Client talks to a remote reasoning engine service. Invoke goes over plain
// HTTP; Stream upgrades to a websocket and relays the engine's event frames.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	dialer     *websocket.Dialer
}

// NewClient creates a remote engine client from config.
func NewClient(cfg *config.EngineConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		authToken: cfg.AuthToken,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		dialer: websocket.DefaultDialer,
	}
}

// Invoke implements Runner.
func (c *Client) Invoke(ctx context.Context, state State) (State, error) {
	body, err := json.Marshal(state)
	if err != nil {
		return State{}, fmt.Errorf("failed to marshal engine state: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/graph/invoke", bytes.NewReader(body))
	if err != nil {
		return State{}, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return State{}, fmt.Errorf("engine invoke failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return State{}, fmt.Errorf("engine returned status %d: %s", resp.StatusCode, string(detail))
	}

	var final State
	if err := json.NewDecoder(resp.Body).Decode(&final); err != nil {
		return State{}, fmt.Errorf("failed to decode engine state: %w", err)
	}
	return final, nil
}

// Stream implements Runner.
func (c *Client) Stream(ctx context.Context, state State, modes []string) (EventStream, error) {
	wsURL, err := c.streamURL()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	c.setHeaders(header)
	header.Del("Content-Type")

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("engine stream dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("engine stream dial failed: %w", err)
	}

	start := struct {
		State      State    `json:"state"`
		StreamMode []string `json:"stream_mode"`
	}{State: state, StreamMode: modes}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start engine stream: %w", err)
	}

	return &wsEventStream{conn: conn}, nil
}

func (c *Client) streamURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/graph/stream")
	if err != nil {
		return "", fmt.Errorf("invalid engine url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String(), nil
}

func (c *Client) setHeaders(h http.Header) {
	if c.authToken != "" {
		h.Set("Authorization", "Bearer "+c.authToken)
	}
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", "Lumi-Gateway/1.0")
}

// wsEventStream adapts a websocket connection to EventStream. Frames are JSON
// Events; a frame with mode "end" terminates the stream.
type wsEventStream struct {
	conn *websocket.Conn
}

func (s *wsEventStream) Next() (Event, error) {
	var ev Event
	if err := s.conn.ReadJSON(&ev); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return Event{}, io.EOF
		}
		return Event{}, fmt.Errorf("engine stream read failed: %w", err)
	}
	if ev.Mode == "end" {
		return Event{}, io.EOF
	}
	return ev, nil
}

func (s *wsEventStream) Close() error {
	// Best effort: tell the engine we are done so it can cancel the run.
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}
