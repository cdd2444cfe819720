package tts

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/lumihub/lumi-gateway/internal/config"
)

// EdgeProvider stream-synthesizes speech through a local edge-speech service
// over a websocket. The service pushes typed frames; only "audio" frames
// carry payload bytes and an "end" frame (or a normal close) terminates the
// stream.
type EdgeProvider struct {
	url    string
	voice  string
	dialer *websocket.Dialer
}

// NewEdgeProvider creates an edge provider from config.
func NewEdgeProvider(cfg *config.EdgeConfig) *EdgeProvider {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = cfg.GetTimeout()
	return &EdgeProvider{
		url:    cfg.URL,
		voice:  cfg.Voice,
		dialer: &dialer,
	}
}

// Name implements Provider.
func (p *EdgeProvider) Name() string {
	return "edge"
}

type edgeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type edgeFrame struct {
	Type string `json:"type"`
	Data []byte `json:"data,omitempty"`
}

// Synthesize implements Provider.
func (p *EdgeProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if p.url == "" {
		return nil, fmt.Errorf("edge service url is not configured")
	}
	wsURL, err := toWebsocketURL(p.url)
	if err != nil {
		return nil, err
	}

	conn, _, err := p.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("edge dial failed: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(edgeRequest{Text: text, Voice: p.voice}); err != nil {
		return nil, fmt.Errorf("edge request failed: %w", err)
	}

	var audio []byte
read:
	for {
		var frame edgeFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || err == io.EOF {
				break
			}
			return nil, fmt.Errorf("edge stream read failed: %w", err)
		}
		switch frame.Type {
		case "audio":
			audio = append(audio, frame.Data...)
		case "end":
			break read
		}
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio produced")
	}
	return audio, nil
}

func toWebsocketURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid edge url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String(), nil
}
