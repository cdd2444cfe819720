package orchestrator

import "github.com/lumihub/lumi-gateway/internal/viseme"

// Stream event types, in the order a well-formed stream may emit them:
// any number of thinking/token events, at most one response, then done.
// An error event replaces response and still precedes done.
const (
	EventThinking = "thinking"
	EventToken    = "token"
	EventResponse = "response"
	EventError    = "error"
	EventDone     = "done"
)

// StreamEvent is one externally visible event of a streaming turn. Fields
// with no value are omitted from the JSON encoding, never null.
type StreamEvent struct {
	Type       string          `json:"type"`
	Node       string          `json:"node,omitempty"`
	Content    string          `json:"content,omitempty"`
	ToolName   string          `json:"tool_name,omitempty"`
	ToolResult any             `json:"tool_result,omitempty"`
	ToolUsed   string          `json:"tool_used,omitempty"`
	Text       string          `json:"text,omitempty"`
	Emotion    string          `json:"emotion,omitempty"`
	AudioURL   string          `json:"audio_url,omitempty"`
	Visemes    []viseme.Viseme `json:"visemes,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Recognized emotions. Anything else the engine reports is coerced to
// neutral, never propagated.
const (
	EmotionNeutral = "neutral"
	EmotionHappy   = "happy"
	EmotionSad     = "sad"
	EmotionAngry   = "angry"
)

// NormalizeEmotion coerces an engine-supplied emotion to a recognized value.
func NormalizeEmotion(value string) string {
	switch value {
	case EmotionNeutral, EmotionHappy, EmotionSad, EmotionAngry:
		return value
	}
	return EmotionNeutral
}
