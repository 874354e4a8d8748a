package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a decoded value after JSON extraction.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw model output into T.
// It tolerates markdown code fences, prose around the object, comments
// and trailing commas. Any failure wraps ErrInvalidOutput.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := extractJSONBlock(stripCodeFences(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	block = stripTrailingCommas(stripJSONComments(block))

	var result T
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// stripCodeFences drops ``` and ```json fence lines.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// extractJSONBlock finds the first balanced { ... } block in the text.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// scanOutsideStrings calls fn for every byte that is not inside a JSON string.
// fn returns how many bytes to skip after the current one and whether to keep it.
func scanOutsideStrings(s string, fn func(s string, i int) (skip int, keep bool)) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if inString {
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		skip, keep := fn(s, i)
		if keep {
			b.WriteByte(c)
		}
		i += skip
	}
	return b.String()
}

// stripJSONComments removes // and /* */ comments outside string values.
func stripJSONComments(s string) string {
	return scanOutsideStrings(s, func(s string, i int) (int, bool) {
		if s[i] != '/' || i+1 >= len(s) {
			return 0, true
		}
		switch s[i+1] {
		case '/':
			end := strings.IndexByte(s[i:], '\n')
			if end == -1 {
				return len(s) - i - 1, false
			}
			return end - 1, false
		case '*':
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				return len(s) - i - 1, false
			}
			return end + 3, false
		}
		return 0, true
	})
}

// stripTrailingCommas removes a comma that directly precedes } or ].
func stripTrailingCommas(s string) string {
	return scanOutsideStrings(s, func(s string, i int) (int, bool) {
		if s[i] != ',' {
			return 0, true
		}
		next := strings.TrimLeft(s[i+1:], " \n\r\t")
		if next != "" && (next[0] == '}' || next[0] == ']') {
			return 0, false
		}
		return 0, true
	})
}
