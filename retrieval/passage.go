package retrieval

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// snippetLimit is the maximum rune length of a display snippet.
const snippetLimit = 260

// Passage is one immutable unit of reference text. Passages are supplied by
// an external documentation step; the index never modifies them.
type Passage struct {
	// ID is the stable identifier of the passage, unique within the corpus.
	// It doubles as the deterministic tie-breaker in ranked results.
	ID string `json:"id" yaml:"id"`

	// Title is a short human-readable heading.
	Title string `json:"title" yaml:"title"`

	// Content is the full reference text.
	Content string `json:"content" yaml:"content"`
}

// Validate checks that the passage carries an ID and content.
func (p Passage) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("passage ID cannot be empty")
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("passage %q: content cannot be empty", p.ID)
	}
	return nil
}

// Snippet returns the passage content truncated at a word boundary for
// display layers. Content shorter than the limit is returned unchanged.
func (p Passage) Snippet() string {
	if utf8.RuneCountInString(p.Content) <= snippetLimit {
		return p.Content
	}
	runes := []rune(p.Content)
	cut := string(runes[:snippetLimit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// corpusDocument is the YAML serialization of a passage corpus.
type corpusDocument struct {
	Passages []Passage `yaml:"passages"`
}

// LoadCorpus reads a YAML corpus file into a passage slice. Duplicate or
// invalid passages make the whole corpus unusable, so any problem is
// returned as an error.
func LoadCorpus(path string) ([]Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return ParseCorpus(data)
}

// ParseCorpus decodes and validates a YAML corpus document.
func ParseCorpus(data []byte) ([]Passage, error) {
	var doc corpusDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse corpus document: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Passages))
	for _, p := range doc.Passages {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("corpus: %w", err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("corpus: duplicate passage %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return doc.Passages, nil
}
