package domain

import "time"

// Chunk is a vectorized slice of a scraped source page stored in pgvector.
type Chunk struct {
	ID         string    `json:"id"          db:"id"`
	SourceURL  string    `json:"source_url"  db:"source_url"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Content    string    `json:"content"     db:"content"`
	Vector     []float32 `json:"-"           db:"embedding"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}

// ScoredChunk is returned by similarity search, including the similarity score.
type ScoredChunk struct {
	Chunk
	Similarity float64 `json:"similarity"`
}
