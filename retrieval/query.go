package retrieval

import (
	"errors"
	"fmt"
)

// Default query parameters.
const (
	// DefaultTopK is the default maximum number of results returned.
	DefaultTopK = 5

	// DefaultMinScore is the default minimum similarity threshold. It is
	// deliberately permissive (just above zero) so that "best available"
	// passages are still returned unless a caller tightens it, while
	// passages with no term overlap at all are excluded.
	DefaultMinScore = 1e-9
)

// Query describes one retrieval request with a fluent builder pattern.
type Query struct {
	// Terms are the query terms. They are tokenized with the same folding
	// and stop-word filtering as the index vocabulary, so raw analyst text
	// can be passed directly.
	Terms []string `json:"terms"`

	// TopK is the maximum number of results to return.
	TopK int `json:"top_k"`

	// MinScore is the minimum cosine similarity; passages scoring below it
	// are excluded from the result entirely, not merely ranked low.
	MinScore float64 `json:"min_score"`

	// Weights optionally assigns per-term weights. Terms without an entry
	// get weight 1. Keys must be in folded (post-Tokenize) form.
	Weights map[string]float64 `json:"weights,omitempty"`
}

// NewQuery creates a Query over the given terms with default TopK and
// MinScore.
func NewQuery(terms ...string) *Query {
	return &Query{
		Terms:    terms,
		TopK:     DefaultTopK,
		MinScore: DefaultMinScore,
	}
}

// WithTopK sets the maximum number of results and returns the query for
// chaining.
func (q *Query) WithTopK(k int) *Query {
	q.TopK = k
	return q
}

// WithMinScore sets the minimum similarity threshold and returns the query
// for chaining.
func (q *Query) WithMinScore(score float64) *Query {
	q.MinScore = score
	return q
}

// WithWeight assigns a weight to one folded term and returns the query for
// chaining.
func (q *Query) WithWeight(term string, weight float64) *Query {
	if q.Weights == nil {
		q.Weights = make(map[string]float64)
	}
	q.Weights[term] = weight
	return q
}

// Validate ensures the query parameters are usable. An empty term list is
// valid; it yields an empty result, not an error.
func (q *Query) Validate() error {
	if q.TopK <= 0 {
		return fmt.Errorf("TopK must be greater than 0, got %d", q.TopK)
	}
	if q.MinScore < 0 || q.MinScore > 1 {
		return fmt.Errorf("MinScore must be between 0.0 and 1.0, got %f", q.MinScore)
	}
	for term, w := range q.Weights {
		if w < 0 {
			return fmt.Errorf("weight for term %q must be non-negative, got %f", term, w)
		}
	}
	return nil
}

// ErrInvalidQuery wraps query validation failures reported by Search.
var ErrInvalidQuery = errors.New("retrieval: invalid query")
