package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/coverdrive-ai/coverdrive/internal/domain"
)

// Metric is the similarity metric of a collection. It is fixed when the
// collection is created and cannot change afterwards.
type Metric string

const (
	MetricCosine     Metric = "cosine"
	MetricDotProduct Metric = "dot_product"
	MetricEuclidean  Metric = "euclidean"
)

// ParseMetric maps a configuration string to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCosine, MetricDotProduct, MetricEuclidean:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown similarity metric %q", s)
	}
}

// operator returns the pgvector distance operator for ORDER BY.
func (m Metric) operator() string {
	switch m {
	case MetricDotProduct:
		return "<#>"
	case MetricEuclidean:
		return "<->"
	default:
		return "<=>"
	}
}

// opclass returns the pgvector index operator class.
func (m Metric) opclass() string {
	switch m {
	case MetricDotProduct:
		return "vector_ip_ops"
	case MetricEuclidean:
		return "vector_l2_ops"
	default:
		return "vector_cosine_ops"
	}
}

// similarity converts the operator's distance into a best-is-highest score.
// Cosine distance is 1-similarity; <#> yields negated inner product.
func (m Metric) similarity(distance float64) float64 {
	switch m {
	case MetricCosine:
		return 1 - distance
	default:
		return -distance
	}
}

var tablePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// VectorStore handles pgvector operations for one chunk collection.
// Implements port.VectorStore.
type VectorStore struct {
	store     *PostgresStore
	table     string
	metric    Metric
	dimension int
}

// NewVectorStore creates a vector store backed by the given Postgres store.
// The table name must be a plain lowercase identifier since it is interpolated
// into DDL and queries.
func NewVectorStore(store *PostgresStore, table string, metric Metric, dimension int) (*VectorStore, error) {
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid collection name %q", table)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dimension)
	}
	return &VectorStore{store: store, table: table, metric: metric, dimension: dimension}, nil
}

// EnsureCollection creates the extension, table, and metric index if missing.
func (v *VectorStore) EnsureCollection(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			source_url TEXT NOT NULL,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, v.table, v.dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding %s)`,
			v.table, v.table, v.metric.opclass()),
	}
	for _, stmt := range statements {
		if _, err := v.store.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure collection %s: %w", v.table, err)
		}
	}
	return nil
}

// Write appends one chunk with its vector as a single record. Text and vector
// land in the same row, so a write is atomic per chunk.
func (v *VectorStore) Write(ctx context.Context, chunk *domain.Chunk) error {
	if len(chunk.Vector) != v.dimension {
		return fmt.Errorf("write chunk: vector has %d dimensions, collection expects %d",
			len(chunk.Vector), v.dimension)
	}
	query := fmt.Sprintf(`INSERT INTO %s (source_url, chunk_index, content, embedding)
	          VALUES ($1, $2, $3, $4::vector)`, v.table)

	_, err := v.store.db.ExecContext(ctx, query,
		chunk.SourceURL, chunk.ChunkIndex, chunk.Content, vectorToString(chunk.Vector),
	)
	if err != nil {
		return fmt.Errorf("write chunk: %w", err)
	}
	return nil
}

// Search returns up to limit records nearest to the query vector, best-first.
// An empty collection yields an empty slice, not an error.
func (v *VectorStore) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredChunk, error) {
	op := v.metric.operator()
	query := fmt.Sprintf(`SELECT id, source_url, chunk_index, content, created_at,
	                 embedding %s $1::vector AS distance
	          FROM %s
	          ORDER BY embedding %s $1::vector
	          LIMIT $2`, op, v.table, op)

	rows, err := v.store.db.QueryContext(ctx, query, vectorToString(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", v.table, err)
	}
	defer rows.Close()

	var results []domain.ScoredChunk
	for rows.Next() {
		var sc domain.ScoredChunk
		var distance float64
		if err := rows.Scan(&sc.ID, &sc.SourceURL, &sc.ChunkIndex, &sc.Content, &sc.CreatedAt, &distance); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		sc.Similarity = v.metric.similarity(distance)
		results = append(results, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", v.table, err)
	}
	return results, nil
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
