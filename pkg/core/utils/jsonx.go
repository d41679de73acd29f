// Package utils holds lenient parsing helpers for summarizer output. Model
// responses frequently arrive as almost-JSON (code fences, single quotes,
// trailing commas), so decoding escalates through progressively more
// forgiving parsers instead of failing on the first error.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the common model-output defects: missing key quotes,
// single quotes, unclosed brackets, trailing commas, surrounding code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("failed to repair JSON: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses human-friendly JSON (unquoted keys, comments, optional
// commas) and re-encodes it as standard JSON.
func ParseHJSON(input string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(input), &result); err != nil {
		return "", fmt.Errorf("failed to parse hjson: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to re-encode hjson: %w", err)
	}
	return string(out), nil
}

// SmartParse decodes input into schema, trying strict JSON first, then
// repair, then hjson. Returns the form that decoded successfully.
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	if relaxed, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(relaxed), schema); err == nil {
			return relaxed, nil
		}
	}

	return "", fmt.Errorf("no parsing strategy could decode the input")
}
