package viseme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHello(t *testing.T) {
	got := Generate("hello")

	// h(0.02) e[0.02,0.13] l(0.02) l(0.02) o[0.17,0.28]
	require.Len(t, got, 2)
	assert.Equal(t, Viseme{Phoneme: "e", Start: 0.02, End: 0.13}, got[0])
	assert.Equal(t, Viseme{Phoneme: "o", Start: 0.17, End: 0.28}, got[1])
}

func TestGenerateCaseInsensitive(t *testing.T) {
	assert.Equal(t, Generate("hello"), Generate("HeLLo"))
}

func TestGenerateWhitespaceAdvancesCursor(t *testing.T) {
	spaced := Generate("a a")
	require.Len(t, spaced, 2)
	assert.Equal(t, 0.14, spaced[1].Start)
}

func TestGenerateEmpty(t *testing.T) {
	got := Generate("")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGenerateDeterministic(t *testing.T) {
	text := "annyeong, lumi here! 안녕"
	assert.Equal(t, Generate(text), Generate(text))
}

func TestGenerateOrderingAndBounds(t *testing.T) {
	texts := []string{
		"hi there",
		"aeiou",
		"xyz",
		"  leading and trailing  ",
		strings.Repeat("lumi says hello ", 40),
	}
	for _, text := range texts {
		got := Generate(text)
		assert.LessOrEqual(t, len(got), len([]rune(text)))
		prev := 0.0
		for _, v := range got {
			assert.GreaterOrEqual(t, v.Start, prev, "start times must not decrease")
			assert.LessOrEqual(t, v.Start, v.End)
			prev = v.Start
		}
	}
}
