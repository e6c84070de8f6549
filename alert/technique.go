package alert

import (
	"regexp"
	"strings"
)

// TechniqueID is the canonical identifier of one taxonomy technique.
//
// The canonical form is uppercase with a dotted sub-technique suffix, for
// example "T1059" or "T1059.001". Surface spellings that use underscore or
// hyphen separators ("t1059_001", "T1059-001") normalize to the same
// canonical value. Exactly one canonical form exists per technique; spellings
// that cannot be normalized are rejected.
type TechniqueID string

// canonicalPattern matches an identifier that is already in canonical form:
// a "T" prefix, four digits, and an optional three-digit sub-technique suffix.
var canonicalPattern = regexp.MustCompile(`^T\d{4}(?:\.\d{3})?$`)

// surfacePattern matches technique identifiers embedded in free text.
// Matches must be bounded by non-identifier characters so that codes inside
// longer unrelated tokens (e.g. "XT1059X" or "T1059_FOO") are not picked up;
// a trailing underscore separator is accepted only when it introduces a
// three-digit sub-technique suffix.
var surfacePattern = regexp.MustCompile(`(?i)\bT\d{4}(?:[._-]\d{3})?\b`)

// aliasTable maps retired or renamed technique identifiers to their current
// canonical form. The table is fixed at build time; normalization is
// idempotent because every value in the table is itself canonical.
var aliasTable = map[TechniqueID]TechniqueID{
	"T1035": "T1569.002", // Service Execution
	"T1064": "T1059",     // Scripting
	"T1060": "T1547.001", // Registry Run Keys / Startup Folder
	"T1075": "T1550.002", // Pass the Hash
	"T1076": "T1021.001", // Remote Desktop Protocol
	"T1077": "T1021.002", // Windows Admin Shares
	"T1086": "T1059.001", // PowerShell
	"T1158": "T1564.001", // Hidden Files and Directories
}

// Canonicalize normalizes a surface spelling of a technique identifier.
//
// Normalization trims whitespace, uppercases, converts underscore and hyphen
// sub-technique separators to a dot, and collapses known alias spellings via
// the static alias table. The boolean result reports whether the input was a
// well-formed identifier; malformed values (wrong length, invalid characters)
// return ("", false).
//
// Canonicalize is idempotent: applying it to an already-canonical identifier
// returns the identifier unchanged.
func Canonicalize(s string) (TechniqueID, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", ".")
	s = strings.ReplaceAll(s, "-", ".")
	if !canonicalPattern.MatchString(s) {
		return "", false
	}

	id := TechniqueID(s)
	if canonical, ok := aliasTable[id]; ok {
		return canonical, true
	}
	return id, true
}

// IsValid reports whether the identifier is in canonical form.
func (t TechniqueID) IsValid() bool {
	return canonicalPattern.MatchString(string(t))
}

// Base returns the parent technique identifier, stripping any sub-technique
// suffix. For "T1059.001" it returns "T1059"; identifiers without a suffix
// are returned unchanged.
func (t TechniqueID) Base() TechniqueID {
	if i := strings.IndexByte(string(t), '.'); i >= 0 {
		return t[:i]
	}
	return t
}

// IsSubTechnique reports whether the identifier carries a sub-technique
// suffix.
func (t TechniqueID) IsSubTechnique() bool {
	return strings.IndexByte(string(t), '.') >= 0
}

// String returns the identifier as a plain string.
func (t TechniqueID) String() string {
	return string(t)
}

// scanText extracts every bounded technique identifier from a free-text
// value, in order of appearance. Matches that fail canonicalization are
// discarded.
func scanText(text string, emit func(TechniqueID)) {
	for _, m := range surfacePattern.FindAllString(text, -1) {
		if id, ok := Canonicalize(m); ok {
			emit(id)
		}
	}
}
