// Package tts turns response text into stored speech audio.
//
// Providers share a uniform text-in, bytes-or-error-out contract; the
// synthesizer tries them in order and treats every failure as "no audio".
// A turn never fails because synthesis did.
package tts

import (
	"context"
	"log/slog"

	"github.com/lumihub/lumi-gateway/internal/audio"
	"github.com/lumihub/lumi-gateway/internal/config"
	"github.com/lumihub/lumi-gateway/internal/metrics"
)

// audioURLPrefix is where the server exposes stored blobs.
const audioURLPrefix = "/api/v1/chat/audio/"

const mimeMPEG = "audio/mpeg"

// Provider is a single speech synthesis backend.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Synthesizer coordinates an ordered provider chain and the blob store.
// It holds no mutable state of its own; invocations are independent.
type Synthesizer struct {
	chain  []Provider
	blobs  *audio.Store
	logger *slog.Logger
}

// NewSynthesizer builds the provider chain for the configured backend:
// "none" means an empty chain, "elevenlabs" means ElevenLabs with edge
// fallback, "edge" means edge only.
func NewSynthesizer(cfg *config.TTSConfig, blobs *audio.Store, logger *slog.Logger) *Synthesizer {
	var chain []Provider
	switch cfg.Provider {
	case "elevenlabs":
		chain = []Provider{
			NewElevenLabsProvider(&cfg.ElevenLabs),
			NewEdgeProvider(&cfg.Edge),
		}
	case "edge":
		chain = []Provider{NewEdgeProvider(&cfg.Edge)}
	}
	return &Synthesizer{
		chain:  chain,
		blobs:  blobs,
		logger: logger,
	}
}

// NewSynthesizerWithChain is the assembly used by tests and custom setups.
func NewSynthesizerWithChain(chain []Provider, blobs *audio.Store, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		chain:  chain,
		blobs:  blobs,
		logger: logger,
	}
}

// Synthesize renders text with the first provider that succeeds, stores the
// audio, and returns its retrieval URL. An empty string means no audio was
// produced; provider errors are logged, never propagated.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) string {
	for i, provider := range s.chain {
		data, err := provider.Synthesize(ctx, text)
		if err != nil {
			metrics.SynthesisCount.WithLabelValues(provider.Name(), "failure").Inc()
			if i+1 < len(s.chain) {
				s.logger.Warn("synthesis failed, trying fallback",
					"provider", provider.Name(), "error", err)
			} else {
				s.logger.Warn("synthesis failed",
					"provider", provider.Name(), "error", err)
			}
			continue
		}

		metrics.SynthesisCount.WithLabelValues(provider.Name(), "success").Inc()
		id := s.blobs.Put(data, mimeMPEG)
		metrics.AudioBlobs.Set(float64(s.blobs.Len()))
		return audioURLPrefix + id
	}
	return ""
}
