// Package similarity decides whether a candidate topic is a near-duplicate of
// any stored topic, using cosine similarity over embedding vectors.
//
// The decision threshold is strict: a score exactly equal to the threshold is
// NOT a duplicate. Provider failures degrade to "not a duplicate" so that
// publishing stays available when the embedding service is down.
package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/blogpilot/blogpilot/internal/core/embeddings"
	apperrors "github.com/blogpilot/blogpilot/internal/core/errors"
	"github.com/blogpilot/blogpilot/internal/core/textnorm"
)

// DefaultThreshold separates "same topic" from "different topic" in cosine
// similarity space.
const DefaultThreshold = 0.92

// minEmbeddingLength is the minimum text length worth embedding; shorter
// strings carry too little signal for a meaningful semantic comparison.
const minEmbeddingLength = 10

// topMatchesLogged caps how many ranked matches are logged per check.
const topMatchesLogged = 3

// Cosine computes the cosine similarity of two vectors, in [-1, 1].
// Vectors of differing or zero length fail with apperrors.ErrDimensionMismatch.
// A zero-magnitude vector yields 0 by convention.
func Cosine(a, b []float32) (float32, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("%w: %d vs %d", apperrors.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float32

	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))), nil
}

// Score pairs a stored topic with its similarity to a query vector.
type Score struct {
	Topic string  `json:"topic"`
	Score float32 `json:"score"`
}

// Engine checks candidate topics against the embedding store.
type Engine struct {
	store     *embeddings.Store
	threshold float32
	logger    *zerolog.Logger
}

// New creates a similarity engine over the given store. A non-positive
// threshold falls back to DefaultThreshold.
func New(store *embeddings.Store, threshold float32, logger *zerolog.Logger) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Engine{store: store, threshold: threshold, logger: logger}
}

// Threshold returns the configured similarity threshold.
func (e *Engine) Threshold() float32 {
	return e.threshold
}

// Rank computes the similarity of the query vector against every stored
// vector, descending by score. Dimension mismatches are logged as defects and
// the affected comparison is skipped rather than aborting the scan.
func (e *Engine) Rank(query []float32, stored map[string][]float32) []Score {
	scores := make([]Score, 0, len(stored))

	for topic, vec := range stored {
		score, err := Cosine(query, vec)
		if err != nil {
			e.logger.Error().Err(err).Str("topic", topic).Msg("stored embedding has wrong dimensions, skipping")
			continue
		}

		scores = append(scores, Score{Topic: topic, Score: score})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	return scores
}

// RankText embeds the query text with the given provider and ranks it against
// every stored topic. Used by the similarity stats endpoint.
func (e *Engine) RankText(ctx context.Context, text string, provider embeddings.Provider) ([]Score, error) {
	query, err := provider.Embed(ctx, textnorm.Normalize(text))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return e.Rank(query, e.store.Load()), nil
}

// IsNearDuplicate reports whether text is semantically close to any stored
// topic, and if so which one.
//
// Texts under 10 characters are skipped without a provider call. An exact
// normalized match against a stored topic short-circuits without embedding.
// Provider failures degrade to (false, ""): duplicate checking assumes
// uniqueness when embeddings are unavailable.
func (e *Engine) IsNearDuplicate(ctx context.Context, text string, provider embeddings.Provider) (bool, string) {
	if len(text) < minEmbeddingLength {
		e.logger.Debug().Str("text", text).Msg("text too short for semantic comparison, skipping")

		return false, ""
	}

	normalized := textnorm.Normalize(text)

	stored := e.store.Load()
	for topic := range stored {
		if textnorm.Normalize(topic) == normalized {
			e.logger.Warn().Str("text", text).Str("match", topic).Msg("exact normalized topic match")

			return true, topic
		}
	}

	if len(stored) == 0 {
		return false, ""
	}

	query, err := provider.Embed(ctx, normalized)
	if err != nil {
		e.logger.Warn().Err(err).Str("text", text).Msg("embedding failed, assuming topic is unique")

		return false, ""
	}

	scores := e.Rank(query, stored)
	if len(scores) == 0 {
		return false, ""
	}

	for i, s := range scores {
		if i >= topMatchesLogged {
			break
		}

		e.logger.Debug().Str("text", text).Str("topic", s.Topic).Float32("score", s.Score).Msg("similarity candidate")
	}

	best := scores[0]
	if best.Score > e.threshold {
		e.logger.Warn().
			Str("text", text).
			Str("match", best.Topic).
			Float32("score", best.Score).
			Float32("threshold", e.threshold).
			Msg("near-duplicate topic detected")

		return true, best.Topic
	}

	return false, ""
}
