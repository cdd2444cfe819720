package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumihub/lumi-gateway/internal/config"
)

func newEdgeTestServer(t *testing.T, frames []edgeFrame) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var req edgeRequest
		require.NoError(t, conn.ReadJSON(&req))
		assert.NotEmpty(t, req.Text)

		for _, frame := range frames {
			require.NoError(t, conn.WriteJSON(frame))
		}
	}))
}

func TestEdgeSynthesizeAccumulatesAudioFrames(t *testing.T) {
	srv := newEdgeTestServer(t, []edgeFrame{
		{Type: "metadata"},
		{Type: "audio", Data: []byte("part-one-")},
		{Type: "audio", Data: []byte("part-two")},
		{Type: "end"},
	})
	defer srv.Close()

	provider := NewEdgeProvider(&config.EdgeConfig{URL: srv.URL, Voice: "ko-KR-SunHiNeural"})
	data, err := provider.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("part-one-part-two"), data)
}

func TestEdgeSynthesizeNoAudioFrames(t *testing.T) {
	srv := newEdgeTestServer(t, []edgeFrame{
		{Type: "metadata"},
		{Type: "end"},
	})
	defer srv.Close()

	provider := NewEdgeProvider(&config.EdgeConfig{URL: srv.URL})
	_, err := provider.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio produced")
}

func TestEdgeSynthesizeUnconfigured(t *testing.T) {
	provider := NewEdgeProvider(&config.EdgeConfig{})
	_, err := provider.Synthesize(context.Background(), "hello")
	require.Error(t, err)
}

func TestEdgeSynthesizeUnreachable(t *testing.T) {
	provider := NewEdgeProvider(&config.EdgeConfig{URL: "http://127.0.0.1:1", Timeout: "1s"})
	_, err := provider.Synthesize(context.Background(), "hello")
	require.Error(t, err)
}
