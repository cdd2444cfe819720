package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lumihub/lumi-gateway/internal/metrics"
	"github.com/lumihub/lumi-gateway/internal/orchestrator"
	"github.com/lumihub/lumi-gateway/internal/viseme"
)

// ChatRequest represents a turn intake request
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
}

// Validate rejects malformed input before any engine interaction. Limits
// count characters, not bytes: a Korean message is three bytes per rune.
func (r *ChatRequest) Validate() error {
	if n := utf8.RuneCountInString(r.Message); n < 1 || n > 2000 {
		return fmt.Errorf("message must be 1-2000 characters")
	}
	if n := utf8.RuneCountInString(r.SessionID); n < 1 || n > 100 {
		return fmt.Errorf("session_id must be 1-100 characters")
	}
	if utf8.RuneCountInString(r.UserID) > 100 {
		return fmt.Errorf("user_id must be at most 100 characters")
	}
	return nil
}

// ChatResponse represents a completed non-streaming turn.
// Message duplicates Text for older clients. AudioURL and ToolUsed render as
// explicit null when absent; clients key off the null, not a missing field.
type ChatResponse struct {
	Message   string          `json:"message"`
	Text      string          `json:"text"`
	Emotion   string          `json:"emotion"`
	AudioURL  *string         `json:"audio_url"`
	Visemes   []viseme.Viseme `json:"visemes"`
	ToolUsed  *string         `json:"tool_used"`
	Cached    bool            `json:"cached"`
	Timestamp string          `json:"timestamp"`
}

// chatHandler handles non-streaming turns
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	// The stream and audio routes are registered separately; anything else
	// under the prefix is unknown.
	if r.URL.Path != "/api/v1/chat" && r.URL.Path != "/api/v1/chat/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	s.logger.Info("chat request", "session_id", req.SessionID)

	result, err := s.orch.Complete(r.Context(), req.SessionID, req.UserID, req.Message)
	if err != nil {
		s.logger.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Message:   result.Text,
		Text:      result.Text,
		Emotion:   result.Emotion,
		AudioURL:  optionalString(result.AudioURL),
		Visemes:   result.Visemes,
		ToolUsed:  optionalString(result.ToolUsed),
		Cached:    false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// chatStreamHandler handles streaming turns over SSE
func (s *Server) chatStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	s.logger.Info("chat stream request", "session_id", req.SessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	emit := func(ev orchestrator.StreamEvent) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal stream event: %w", err)
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		metrics.StreamEventCount.WithLabelValues(ev.Type).Inc()
		return nil
	}

	// The orchestrator already emitted error and done events for engine
	// failures; emit failures just mean the client went away.
	if err := s.orch.Stream(r.Context(), req.SessionID, req.UserID, req.Message, emit); err != nil {
		s.logger.Warn("chat stream ended with error", "session_id", req.SessionID, "error", err)
	}
}

// audioHandler serves stored synthesis results
func (s *Server) audioHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/chat/audio/")
	blob, ok := s.blobs.Get(id)
	if !ok {
		http.Error(w, "audio not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}

// optionalString maps the empty string to JSON null.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request) (*ChatRequest, bool) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}
