package domain

import (
	"encoding/json"
	"fmt"
)

// Topics is an ordered list of topic strings as returned by the backend.
// Duplicates are allowed; nil means the backend omitted the field.
type Topics []string

// Analysis is the result of running the topic pipeline over a request's documents.
type Analysis struct {
	Topics    Topics
	FileCount int
}

// DecodeTopics reads field from a backend answer that must be a JSON object.
// A missing or null field yields nil; any other shape wraps ErrGeneration.
func DecodeTopics(content, field string) (Topics, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %v", ErrGeneration, err)
	}

	raw, ok := obj[field]
	if !ok {
		return nil, nil
	}

	var topics Topics
	if err := json.Unmarshal(raw, &topics); err != nil {
		return nil, fmt.Errorf("%w: field %q is not a list of strings: %v", ErrGeneration, field, err)
	}
	return topics, nil
}
