// Package source reads raw paper records from input files.
package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arxdex/arxdex/internal/paper"
)

// envelope is the object form of the input: an array under "papers".
type envelope struct {
	Papers []paper.Raw `json:"papers"`
}

// Parse decodes input data that is either a bare JSON array of records
// or an object wrapping the array under a "papers" field.
func Parse(data []byte) ([]paper.Raw, error) {
	var raws []paper.Raw
	if err := json.Unmarshal(data, &raws); err == nil {
		return raws, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing papers JSON: %w", err)
	}
	if env.Papers == nil {
		return nil, fmt.Errorf(`parsing papers JSON: expected an array or an object with a "papers" field`)
	}
	return env.Papers, nil
}

// ReadFile loads and parses an input file.
func ReadFile(path string) ([]paper.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}
