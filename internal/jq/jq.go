package jq

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
)

func PerformJqQueryOnFile(filePath string, jqQuery string) ([]byte, error) {
	// Read the content of the JSON file
	jsonContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return PerformJqQuery(jsonContent, jqQuery)
}

func PerformJqQuery(jsonContent []byte, jqQuery string) ([]byte, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, err
	}

	var jsonData interface{}
	if err := json.Unmarshal(jsonContent, &jsonData); err != nil {
		return nil, err
	}

	iter := query.Run(jsonData)
	v, ok := iter.Next()
	if !ok {
		return nil, fmt.Errorf("jq query %q produced no output", jqQuery)
	}
	if err, ok := v.(error); ok {
		return nil, err
	}

	return json.Marshal(v)
}

// Match evaluates a jq expression against a value and reports whether the
// first output is truthy (neither null nor false). Used for result filtering.
func Match(v interface{}, jqQuery string) (bool, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return false, err
	}

	// Round-trip through JSON so struct inputs become the map form gojq expects.
	raw, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	var jsonData interface{}
	if err := json.Unmarshal(raw, &jsonData); err != nil {
		return false, err
	}

	iter := query.Run(jsonData)
	out, ok := iter.Next()
	if !ok {
		return false, nil
	}
	if err, ok := out.(error); ok {
		return false, err
	}

	return out != nil && out != false, nil
}
