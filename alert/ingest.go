package alert

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadShape identifies the envelope format a raw alert payload arrived in.
type PayloadShape string

// Payload shape constants for the envelope formats ParsePayload recognizes.
const (
	// ShapeObject is a single JSON object holding one alert.
	ShapeObject PayloadShape = "object"

	// ShapeArray is a JSON array of alert objects.
	ShapeArray PayloadShape = "array"

	// ShapeNDJSON is newline-delimited JSON, one alert object per line.
	ShapeNDJSON PayloadShape = "ndjson"

	// ShapeSearchResponse is an Elasticsearch-style search response; alerts
	// are the _source documents under hits.hits.
	ShapeSearchResponse PayloadShape = "search_response"
)

// String returns the string representation of the payload shape.
func (s PayloadShape) String() string {
	return string(s)
}

// Payload is the uniform result of parsing a raw alert payload: the envelope
// shape that was detected and the individual alert records it contained.
type Payload struct {
	// Shape is the detected envelope format.
	Shape PayloadShape `json:"shape"`

	// Records holds one entry per alert found in the payload. Entries that
	// were not JSON objects (e.g. bare scalars in an array) are dropped.
	Records []map[string]any `json:"records"`
}

// searchResponse is the subset of an Elasticsearch search response needed to
// pull out the matched documents.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// ParsePayload parses a raw alert payload into individual records.
//
// The payload may be a single JSON object, a JSON array of objects,
// newline-delimited JSON, or an Elasticsearch search response (in which case
// the hits' _source documents become the records). An empty or
// whitespace-only payload yields a Payload with zero records.
//
// Returns an error only when the payload is not valid JSON in any of the
// recognized envelope shapes; a syntactically valid payload that simply
// contains no alert objects is not an error.
func ParsePayload(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Payload{Shape: ShapeObject}, nil
	}

	if lines, ok := splitNDJSON(trimmed); ok {
		return parseNDJSON(lines)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("parse alert array: %w", err)
		}
		p := &Payload{Shape: ShapeArray}
		for _, item := range items {
			var rec map[string]any
			if err := json.Unmarshal(item, &rec); err == nil {
				p.Records = append(p.Records, rec)
			}
		}
		return p, nil

	case '{':
		var rec map[string]any
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("parse alert object: %w", err)
		}
		if sources, ok := extractSearchHits(trimmed, rec); ok {
			return &Payload{Shape: ShapeSearchResponse, Records: sources}, nil
		}
		return &Payload{Shape: ShapeObject, Records: []map[string]any{rec}}, nil

	default:
		return nil, fmt.Errorf("parse alert payload: unrecognized leading byte %q", trimmed[0])
	}
}

// splitNDJSON reports whether the payload looks like newline-delimited JSON:
// two or more non-empty lines, each starting with an object brace.
func splitNDJSON(data []byte) ([][]byte, bool) {
	var lines [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if scanner.Err() != nil || len(lines) < 2 {
		return nil, false
	}
	for _, line := range lines {
		if line[0] != '{' {
			return nil, false
		}
	}
	return lines, true
}

// parseNDJSON decodes each line independently. Lines that fail to decode are
// skipped so that one corrupt line does not discard the rest of the batch.
func parseNDJSON(lines [][]byte) (*Payload, error) {
	p := &Payload{Shape: ShapeNDJSON}
	for _, line := range lines {
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		p.Records = append(p.Records, rec)
	}
	return p, nil
}

// extractSearchHits detects an Elasticsearch search response and returns the
// _source document of every hit. The detection requires a hits.hits array so
// that ordinary alerts that happen to carry a "hits" field are not mistaken
// for an envelope.
func extractSearchHits(raw []byte, rec map[string]any) ([]map[string]any, bool) {
	outer, ok := rec["hits"].(map[string]any)
	if !ok {
		return nil, false
	}
	if _, ok := outer["hits"].([]any); !ok {
		return nil, false
	}

	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	sources := make([]map[string]any, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source != nil {
			sources = append(sources, hit.Source)
		}
	}
	return sources, true
}
