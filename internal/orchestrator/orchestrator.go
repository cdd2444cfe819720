// Package orchestrator drives one conversation turn end to end: it builds
// engine input from session history, consumes the engine's result or event
// stream, updates the session, and attaches the audio/viseme side pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lumihub/lumi-gateway/internal/engine"
	"github.com/lumihub/lumi-gateway/internal/metrics"
	"github.com/lumihub/lumi-gateway/internal/session"
	"github.com/lumihub/lumi-gateway/internal/tts"
	"github.com/lumihub/lumi-gateway/internal/viseme"
)

// ErrEmptyResponse reports an engine result without an assistant answer.
var ErrEmptyResponse = errors.New("no response message")

// TurnResult is the outcome of a completed non-streaming turn.
type TurnResult struct {
	Text     string
	Emotion  string
	AudioURL string
	Visemes  []viseme.Viseme
	ToolUsed string
}

// Orchestrator coordinates the engine, session store and synthesis pipeline.
type Orchestrator struct {
	runner   engine.Runner
	sessions session.Store
	synth    *tts.Synthesizer
	logger   *slog.Logger
}

// New creates a turn orchestrator.
func New(runner engine.Runner, sessions session.Store, synth *tts.Synthesizer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		runner:   runner,
		sessions: sessions,
		synth:    synth,
		logger:   logger,
	}
}

// buildState assembles the engine input from history plus the new user
// message. All optional fields start empty; the engine owns them.
func buildState(history []session.Message, userMsg session.Message, sessionID, userID string) engine.State {
	return engine.State{
		Messages:      append(history, userMsg),
		RetrievedDocs: []any{},
		SessionID:     sessionID,
		UserID:        userID,
	}
}

// Complete runs one blocking turn. The session is only mutated after the
// engine produced a non-empty answer, so a failed turn never leaves a
// half-written history.
func (o *Orchestrator) Complete(ctx context.Context, sessionID, userID, text string) (*TurnResult, error) {
	history, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		metrics.TurnCount.WithLabelValues("complete", "failure").Inc()
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	userMsg := session.Message{Role: session.RoleUser, Content: text}
	state := buildState(history, userMsg, sessionID, userID)

	final, err := o.runner.Invoke(ctx, state)
	if err != nil {
		metrics.TurnCount.WithLabelValues("complete", "failure").Inc()
		return nil, fmt.Errorf("engine invoke failed: %w", err)
	}
	if len(final.Messages) < 2 {
		metrics.TurnCount.WithLabelValues("complete", "failure").Inc()
		return nil, ErrEmptyResponse
	}

	answer := final.Messages[len(final.Messages)-1].Content
	if err := o.sessions.Append(ctx, sessionID,
		userMsg,
		session.Message{Role: session.RoleAssistant, Content: answer},
	); err != nil {
		metrics.TurnCount.WithLabelValues("complete", "failure").Inc()
		return nil, fmt.Errorf("failed to append session history: %w", err)
	}

	metrics.TurnCount.WithLabelValues("complete", "success").Inc()
	return &TurnResult{
		Text:     answer,
		Emotion:  NormalizeEmotion(final.Emotion),
		AudioURL: o.synth.Synthesize(ctx, answer),
		Visemes:  viseme.Generate(answer),
		ToolUsed: final.ToolName,
	}, nil
}

// EmitFunc delivers one stream event to the transport layer. Returning an
// error stops the turn promptly; it means the client is gone and nothing
// further can be delivered.
type EmitFunc func(StreamEvent) error

// Stream runs one streaming turn, emitting ordered events through emit.
//
// The emitted sequence always terminates with exactly one done event, even
// after an engine failure. Emit errors abort immediately without done: there
// is no consumer left to terminate for, and the session stays untouched when
// the final text was never fully accumulated.
func (o *Orchestrator) Stream(ctx context.Context, sessionID, userID, text string, emit EmitFunc) error {
	if sessionID == "" {
		sessionID = "default"
	}

	fail := func(cause error) error {
		metrics.TurnCount.WithLabelValues("stream", "failure").Inc()
		o.logger.Error("stream turn failed", "session_id", sessionID, "error", cause)
		if err := emit(StreamEvent{Type: EventError, Error: cause.Error()}); err != nil {
			return err
		}
		if err := emit(StreamEvent{Type: EventDone}); err != nil {
			return err
		}
		return cause
	}

	history, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return fail(fmt.Errorf("failed to load session history: %w", err))
	}

	userMsg := session.Message{Role: session.RoleUser, Content: text}
	state := buildState(history, userMsg, sessionID, userID)

	stream, err := o.runner.Stream(ctx, state, []string{engine.ModeUpdates, engine.ModeMessages})
	if err != nil {
		return fail(fmt.Errorf("engine stream failed: %w", err))
	}
	defer stream.Close()

	mux := newMuxState()
	for {
		ev, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}
		for _, se := range mux.step(ev) {
			if emitErr := emit(se); emitErr != nil {
				return emitErr
			}
		}
	}

	final := mux.finalText()
	if final != "" {
		if err := o.sessions.Append(ctx, sessionID,
			userMsg,
			session.Message{Role: session.RoleAssistant, Content: final},
		); err != nil {
			return fail(fmt.Errorf("failed to append session history: %w", err))
		}

		response := StreamEvent{
			Type:     EventResponse,
			Content:  final,
			Text:     final,
			Emotion:  mux.emotion,
			ToolUsed: mux.toolUsed,
			AudioURL: o.synth.Synthesize(ctx, final),
			Visemes:  viseme.Generate(final),
		}
		if err := emit(response); err != nil {
			return err
		}
	}

	metrics.TurnCount.WithLabelValues("stream", "success").Inc()
	return emit(StreamEvent{Type: EventDone})
}
