package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy records which recovery step produced a structured payload.
type Strategy int

const (
	// StrategyNone means no step produced valid JSON; callers fall back to the raw text.
	StrategyNone Strategy = iota
	StrategyDirect
	StrategyFenced
	StrategyBraces
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyFenced:
		return "fenced"
	case StrategyBraces:
		return "braces"
	default:
		return "none"
	}
}

// fencedBlockPattern matches the body of the first markdown code block, with or without a language tag.
var fencedBlockPattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)```")

// DecodeLayered decodes raw into v by trying, in order: the whole text, the first fenced
// code block, and the slice from the first '{' to the last '}'. It returns the strategy
// that succeeded, or StrategyNone, in which case v is left untouched.
func DecodeLayered(raw string, v any) Strategy {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StrategyNone
	}

	if tryDecode(raw, v) {
		return StrategyDirect
	}

	if m := fencedBlockPattern.FindStringSubmatch(raw); len(m) > 1 {
		if tryDecode(strings.TrimSpace(m[1]), v) {
			return StrategyFenced
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if tryDecode(raw[start:end+1], v) {
			return StrategyBraces
		}
	}

	return StrategyNone
}

// tryDecode only writes into v when the whole candidate is valid JSON of v's shape.
func tryDecode(candidate string, v any) bool {
	if candidate == "" || candidate == "null" || !json.Valid([]byte(candidate)) {
		return false
	}
	return json.Unmarshal([]byte(candidate), v) == nil
}
