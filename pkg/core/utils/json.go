package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripCodeFence removes an outer ``` fence (with or without a language tag).
func StripCodeFence(input string) string {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}

// RepairJSON fixes common LLM JSON mistakes: unquoted keys, single quotes,
// trailing commas, unclosed brackets and similar.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses Hjson (comments, unquoted keys and strings, optional
// commas) and returns standard JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("hjson re-encode failed: %w", err)
	}
	return string(out), nil
}

// DecodeLLMJSON decodes model output into v, trying strict JSON, then a
// repaired copy, then Hjson. The JSON that finally decoded is returned.
func DecodeLLMJSON(raw string, v interface{}) (string, error) {
	input := StripCodeFence(raw)
	if input == "" {
		return "", fmt.Errorf("empty model output")
	}

	firstErr := json.Unmarshal([]byte(input), v)
	if firstErr == nil {
		return input, nil
	}
	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return repaired, nil
		}
	}
	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), v); err == nil {
			return converted, nil
		}
	}
	return "", fmt.Errorf("could not decode model output: %w", firstErr)
}

// DecodeLenient is for human-edited files: strict JSON first, then Hjson.
func DecodeLenient(data []byte, v interface{}) error {
	strictErr := json.Unmarshal(data, v)
	if strictErr == nil {
		return nil
	}
	converted, err := ParseHJSON(string(data))
	if err != nil {
		return fmt.Errorf("invalid document: %w", strictErr)
	}
	if err := json.Unmarshal([]byte(converted), v); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}
