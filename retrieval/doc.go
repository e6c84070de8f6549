// Package retrieval provides a term-weighted index over a fixed corpus of
// reference passages and cosine-similarity ranking against term queries.
//
// The index is built once from the corpus: a case-folded, stop-word-filtered
// vocabulary is derived at build time and frozen, and each passage gets a
// term-frequency vector with a precomputed norm. Query terms outside the
// vocabulary contribute zero weight; the vocabulary never grows at query
// time. After construction the index is immutable and safe for unlimited
// concurrent queries.
//
// Ranking is deterministic: results are ordered by score descending with
// ties broken by passage ID ascending, and passages scoring below the
// query's minimum threshold are excluded from the result entirely.
//
// Example:
//
//	index, err := retrieval.BuildIndex(corpus)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := index.Search(retrieval.NewQuery("credential", "dumping").WithTopK(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Printf("%s %.3f\n", r.Passage.ID, r.Score)
//	}
package retrieval
