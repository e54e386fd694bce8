package recognition

import (
	"bytes"
	"strings"

	"casedesk/internal/domain"
)

// ParseJSON extracts a JSON object from model output. The whole text is tried
// first; failing that, the span from the first '{' to the last '}' is tried.
// Returns nil when neither decodes to an object.
func ParseJSON(text string) *domain.ExtractedData {
	if d := decodeObject(text); d != nil {
		return d
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	return decodeObject(text[start : end+1])
}

func decodeObject(s string) *domain.ExtractedData {
	trimmed := bytes.TrimSpace([]byte(s))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	d := domain.NewExtractedData()
	if err := d.UnmarshalJSON(trimmed); err != nil {
		return nil
	}
	return d
}
