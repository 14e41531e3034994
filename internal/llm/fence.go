package llm

import (
	"encoding/json"
	"strings"

	"github.com/prepline/recipe-extractor/internal/common"
)

// ExtractJSONObject coerces a free-form completion into a JSON payload.
// Models routinely wrap the object in markdown code fences, lead with
// prose, or append trailing commentary; this slices out the first balanced
// top-level object that is valid JSON and ignores everything around it.
// Brace-delimited prose ahead of the payload ("I think {this} fits: {...}")
// is skipped over, not fatal.
//
// If no well-formed object is present, fails with MalformedResponseError
// carrying the raw text for diagnostics.
func ExtractJSONObject(raw string) ([]byte, error) {
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		if end := scanBalancedObject(raw, start); end >= 0 {
			candidate := raw[start : end+1]
			if json.Valid([]byte(candidate)) {
				return []byte(candidate), nil
			}
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return nil, &common.MalformedResponseError{Raw: raw}
}

// scanBalancedObject returns the index of the brace closing the object
// opened at start, honoring string literals and escapes, or -1 if the
// object never closes.
func scanBalancedObject(raw string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
