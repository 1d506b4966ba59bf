package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterEmptyInput(t *testing.T) {
	s := NewSplitter(512, 100)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitterShortInput(t *testing.T) {
	s := NewSplitter(512, 100)

	chunks := s.Split("a short sentence about cricket")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short sentence about cricket", chunks[0])
}

func TestSplitterChunkSizeBound(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("the bowler delivers a yorker ", 40)

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 50)
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitterOverlap(t *testing.T) {
	// Deterministic text with no repeats so shared suffix/prefix must come
	// from the overlap window.
	var sb strings.Builder
	for r := 'a'; r <= 'z'; r++ {
		for q := 'a'; q <= 'z'; q++ {
			sb.WriteRune(r)
			sb.WriteRune(q)
		}
	}
	s := NewSplitter(100, 20)

	chunks := s.Split(sb.String())
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks)-1; i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-20:])
		assert.True(t, strings.HasPrefix(chunks[i], tail),
			"chunk %d should start with the last 20 runes of its predecessor", i)
	}
}

func TestSplitterCoversAllText(t *testing.T) {
	text := strings.Repeat("x", 1000)
	s := NewSplitter(100, 25)

	chunks := s.Split(text)
	var total int
	for _, chunk := range chunks {
		total += len(chunk)
	}
	// Every rune appears at least once; overlap duplicates some.
	assert.GreaterOrEqual(t, total, len(text))
}

func TestSplitterInvalidArgsFallBack(t *testing.T) {
	s := NewSplitter(0, -5)
	chunks := s.Split(strings.Repeat("a", 600))

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 512)
}
