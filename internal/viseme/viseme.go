// Package viseme derives a lip-sync timeline from response text.
//
// The mapping is intentionally crude: each of the five Japanese-style vowel
// mouth shapes is driven directly by the matching vowel letter, with fixed
// pacing for consonants and whitespace. The avatar renderer interpolates
// between shapes, so precise phoneme timing is not required.
package viseme

import (
	"math"
	"strings"
	"unicode"
)

// Viseme is a single timed mouth-shape event.
type Viseme struct {
	Phoneme string  `json:"phoneme"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Per-rune cursor advances, in seconds.
const (
	vowelStep = 0.11
	spaceStep = 0.03
	otherStep = 0.02
)

// Generate walks the text and emits one viseme per vowel, advancing a time
// cursor for every rune. It is pure and case-insensitive; output length is
// bounded by input length and start times never decrease.
func Generate(text string) []Viseme {
	visemes := []Viseme{}
	t := 0.0
	for _, r := range strings.ToLower(text) {
		switch {
		case isVowel(r):
			visemes = append(visemes, Viseme{
				Phoneme: string(r),
				Start:   round3(t),
				End:     round3(t + vowelStep),
			})
			t += vowelStep
		case unicode.IsSpace(r):
			t += spaceStep
		default:
			t += otherStep
		}
	}
	return visemes
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	}
	return false
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
