package retrieval

// Result pairs a passage with its similarity score for one query.
type Result struct {
	// Passage is the matched reference passage.
	Passage Passage `json:"passage"`

	// Score is the cosine similarity between query and passage (0.0 to 1.0).
	Score float64 `json:"score"`
}

// Results is a ranked sequence of retrieval results, ordered by score
// descending with ties broken by passage ID ascending. The ordering is an
// explicit comparator rather than a property of any container, so it is
// stable across runs.
type Results []Result

// Len implements sort.Interface.
func (r Results) Len() int { return len(r) }

// Swap implements sort.Interface.
func (r Results) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// Less implements sort.Interface: higher scores first, equal scores ordered
// by passage ID ascending.
func (r Results) Less(i, j int) bool {
	if r[i].Score != r[j].Score {
		return r[i].Score > r[j].Score
	}
	return r[i].Passage.ID < r[j].Passage.ID
}

// IDs returns the passage IDs in ranked order.
func (r Results) IDs() []string {
	out := make([]string, len(r))
	for i, res := range r {
		out[i] = res.Passage.ID
	}
	return out
}
