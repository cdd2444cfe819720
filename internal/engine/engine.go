// Package engine defines the contract with the external reasoning engine and
// a remote client implementation.
//
// The engine is opaque to the gateway: it takes a conversation state and
// either returns a final state (Invoke) or a stream of interleaved
// stage-update and token events (Stream). Any implementation of Runner is
// substitutable, which is how tests drive the orchestrator with a
// deterministic stub.
package engine

import (
	"context"

	"github.com/lumihub/lumi-gateway/internal/session"
)

// Stream modes requested from the engine.
const (
	ModeUpdates  = "updates"
	ModeMessages = "messages"
)

// ChunkTypeAIMessage marks a genuine incremental text chunk. Tool-call and
// bookkeeping chunks carry other types and contribute no token text.
const ChunkTypeAIMessage = "AIMessageChunk"

// State is the per-invocation payload exchanged with the engine. The gateway
// only interprets Messages, Emotion and ToolName; everything else passes
// through untouched.
type State struct {
	Messages      []session.Message `json:"messages"`
	Intent        string            `json:"intent,omitempty"`
	RetrievedDocs []any             `json:"retrieved_docs"`
	ToolName      string            `json:"tool_name,omitempty"`
	ToolArgs      map[string]any    `json:"tool_args,omitempty"`
	ToolResult    any               `json:"tool_result,omitempty"`
	SessionID     string            `json:"session_id"`
	UserID        string            `json:"user_id,omitempty"`
	Emotion       string            `json:"emotion,omitempty"`
}

// NodeOutput is the structured payload a stage produced, when it produced one.
type NodeOutput map[string]any

// MessageChunk is one token-level fragment from the engine.
type MessageChunk struct {
	Content string `json:"content"`
	Type    string `json:"type"`
	Node    string `json:"node"`
}

// Event is one raw engine stream event, discriminated by Mode.
type Event struct {
	Mode    string                `json:"mode"`
	Updates map[string]NodeOutput `json:"updates,omitempty"`
	Chunk   *MessageChunk         `json:"chunk,omitempty"`
}

// EventStream is a terminated sequence of raw engine events.
type EventStream interface {
	// Next returns the next event, or io.EOF once the stream is exhausted.
	Next() (Event, error)

	// Close releases the underlying stream. Safe to call after Next returned
	// an error and after io.EOF.
	Close() error
}

// Runner is the capability interface for the reasoning engine.
type Runner interface {
	// Invoke runs the engine to completion and returns the final state.
	Invoke(ctx context.Context, state State) (State, error)

	// Stream runs the engine and yields raw events for the requested modes.
	Stream(ctx context.Context, state State, modes []string) (EventStream, error)
}
