package retrieval

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyCorpus is returned by BuildIndex when the corpus holds no
// passages; an index with nothing to rank cannot serve retrieval.
var ErrEmptyCorpus = errors.New("retrieval: corpus is empty")

// Index is the term-weighted retrieval index over a passage corpus.
//
// An Index is built once by BuildIndex and immutable afterwards: the
// vocabulary is frozen, passage vectors and norms are precomputed, and
// Search only reads. One Index may serve any number of concurrent searches.
type Index struct {
	passages []Passage

	// vocab maps a folded term to its dimension in the term space. Terms
	// absent from the map carry zero weight in every query.
	vocab map[string]int

	// vectors holds one sparse term-frequency vector per passage, indexed
	// like passages.
	vectors []map[int]float64

	// norms holds the Euclidean norm of each passage vector.
	norms []float64
}

// BuildIndex constructs the index from a fixed corpus. The corpus is
// validated and its vocabulary derived in one pass; an empty or invalid
// corpus is a construction failure and returns an error.
func BuildIndex(corpus []Passage) (*Index, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	idx := &Index{
		passages: make([]Passage, len(corpus)),
		vocab:    make(map[string]int),
		vectors:  make([]map[int]float64, len(corpus)),
		norms:    make([]float64, len(corpus)),
	}
	copy(idx.passages, corpus)

	seen := make(map[string]struct{}, len(corpus))
	for i, p := range idx.passages {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("retrieval: %w", err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("retrieval: duplicate passage %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		vec := make(map[int]float64)
		for _, term := range Tokenize(p.Title + " " + p.Content) {
			dim, ok := idx.vocab[term]
			if !ok {
				dim = len(idx.vocab)
				idx.vocab[term] = dim
			}
			vec[dim]++
		}
		idx.vectors[i] = vec
		idx.norms[i] = norm(vec)
	}
	return idx, nil
}

// Len returns the number of passages in the index.
func (idx *Index) Len() int {
	return len(idx.passages)
}

// VocabularySize returns the number of distinct terms in the frozen
// vocabulary.
func (idx *Index) VocabularySize() int {
	return len(idx.vocab)
}

// Search ranks the corpus against the query by cosine similarity.
//
// Query terms are tokenized with the index's folding and stop-word rules;
// terms outside the frozen vocabulary contribute nothing. An empty or
// entirely out-of-vocabulary query yields an empty result. Results are
// ordered by score descending, ties broken by passage ID ascending, and
// truncated to the query's TopK after passages below MinScore are dropped.
func (idx *Index) Search(q *Query) (Results, error) {
	if q == nil {
		q = NewQuery()
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	qvec := idx.queryVector(q)
	if len(qvec) == 0 {
		return Results{}, nil
	}
	qnorm := norm(qvec)

	scored := make(Results, 0, len(idx.passages))
	for i, p := range idx.passages {
		score := cosine(qvec, qnorm, idx.vectors[i], idx.norms[i])
		if score < q.MinScore {
			continue
		}
		scored = append(scored, Result{Passage: p, Score: score})
	}

	sort.Sort(scored)
	if len(scored) > q.TopK {
		scored = scored[:q.TopK]
	}
	return scored, nil
}

// queryVector folds the query terms into the index's term space. Terms
// receive their configured weight (default 1), accumulated over repeats.
func (idx *Index) queryVector(q *Query) map[int]float64 {
	vec := make(map[int]float64)
	for _, raw := range q.Terms {
		for _, term := range Tokenize(raw) {
			dim, ok := idx.vocab[term]
			if !ok {
				continue
			}
			weight := 1.0
			if w, ok := q.Weights[term]; ok {
				weight = w
			}
			vec[dim] += weight
		}
	}
	return vec
}

// norm returns the Euclidean norm of a sparse vector, floored at 1 to avoid
// division by zero on empty vectors.
func norm(vec map[int]float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return 1
	}
	return math.Sqrt(sum)
}

// cosine returns the cosine similarity between two sparse vectors with
// precomputed norms. Iteration order over the map does not affect the sum.
func cosine(a map[int]float64, normA float64, b map[int]float64, normB float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot float64
	for dim, v := range a {
		if w, ok := b[dim]; ok {
			dot += v * w
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (normA * normB)
}
