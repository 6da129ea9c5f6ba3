package handlers

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var fencedJSONBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n```")

// extractJSON implements the best-effort JSON extraction contract: the
// entire text, a fenced ```json code block, or the first balanced {...}/
// [...] span, in that order. It never panics and returns (nil, false)
// rather than an error when nothing in text looks like JSON.
func extractJSON(text string) (any, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && gjson.Valid(trimmed) {
		return gjson.Parse(trimmed).Value(), true
	}

	if m := fencedJSONBlock.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if gjson.Valid(candidate) {
			return gjson.Parse(candidate).Value(), true
		}
	}

	if span, ok := firstBalancedJSONSpan(text); ok {
		return gjson.Parse(span).Value(), true
	}

	return nil, false
}

// firstBalancedJSONSpan scans text for the first bracket-balanced {...} or
// [...] substring that parses as valid JSON, skipping bracket characters
// that appear inside quoted strings.
func firstBalancedJSONSpan(text string) (string, bool) {
	for i, r := range text {
		if r != '{' && r != '[' {
			continue
		}
		if span, ok := balancedSpanFrom(text, i); ok {
			var v json.RawMessage
			if json.Unmarshal([]byte(span), &v) == nil {
				return span, true
			}
		}
	}
	return "", false
}

func balancedSpanFrom(text string, start int) (string, bool) {
	open := text[start]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
