package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON locates the JSON object embedded in raw model text and returns
// it verbatim. Models wrap their reply in prose or code fences despite the
// JSON-only instruction, so the span is cut out by brace matching rather than
// decoded from position zero.
func ExtractJSON(raw string) (json.RawMessage, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end < start {
		return nil, ErrNoJSONFound
	}

	span := balancedSpan(raw, start)
	if span == "" {
		// No balanced block; fall back to the widest cut so the parse
		// error reports on what the model actually produced.
		span = raw[start : end+1]
	}

	if !json.Valid([]byte(span)) {
		return nil, fmt.Errorf("%w: %s", ErrMalformedJSON, truncate(span, 200))
	}

	return json.RawMessage(span), nil
}

// balancedSpan returns the first balanced { ... } block starting at start,
// tracking string literals so braces inside values don't miscount.
func balancedSpan(s string, start int) string {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
