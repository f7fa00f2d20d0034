package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractFencedJSON returns the first fenced ```json block in text. It fails
// when no block is present or the block is not valid JSON.
func ExtractFencedJSON(text string) (json.RawMessage, error) {
	m := fencedJSONRe.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("no fenced json block found")
	}
	candidate := strings.TrimSpace(m[1])
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("fenced block is not valid json")
	}
	return json.RawMessage(candidate), nil
}

// ExtractJSON is the lenient variant: it tries a fenced block first, then
// the outermost brace pair.
func ExtractJSON(text string) (json.RawMessage, error) {
	if raw, err := ExtractFencedJSON(text); err == nil {
		return raw, nil
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last <= first {
		return nil, fmt.Errorf("no json object found")
	}
	candidate := text[first : last+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("brace-delimited candidate is not valid json")
	}
	return json.RawMessage(candidate), nil
}
