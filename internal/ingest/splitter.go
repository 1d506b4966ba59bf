package ingest

import "strings"

// Splitter cuts text into chunks of at most chunkSize runes, each sharing
// overlap runes with its predecessor so local context survives the cut.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a splitter. Invalid arguments fall back to the defaults
// used at ingestion (512 runes per chunk, 100 overlap).
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 100
		if overlap >= chunkSize {
			overlap = chunkSize / 4
		}
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split returns the overlapping chunks of text. Whitespace-only input yields
// no chunks.
func (s *Splitter) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	step := s.chunkSize - s.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
