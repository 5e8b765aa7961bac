package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

// Result is either a parsed value or an unparseable raw response.
type Result[T any] struct {
	value T
	ok    bool
	raw   string
	err   error
}

func (r Result[T]) Parsed() (T, bool) { return r.value, r.ok }

func (r Result[T]) Raw() string { return r.raw }

// Err explains why the response was unparseable. It is nil for parsed results.
func (r Result[T]) Err() error { return r.err }

// ExtractJSON returns the first-to-last brace span of raw, preferring the
// contents of a fenced code block when one is present.
func ExtractJSON(raw string) (string, bool) {
	text := raw
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func Parse[T any](raw string) Result[T] {
	result := Result[T]{raw: raw}

	candidate, found := ExtractJSON(raw)
	if !found {
		result.err = fmt.Errorf("no json object in response")
		return result
	}

	if err := json.Unmarshal([]byte(candidate), &result.value); err != nil {
		result.err = fmt.Errorf("parse response: %w", err)
		return result
	}

	result.ok = true
	return result
}
