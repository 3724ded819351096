package elmkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transcript ingestion: conversations stored as JSON or YAML documents are
// decoded into plain values and pushed through Normalize, so a file may hold
// any of the accepted shapes (a bare string, one record, a record list, or a
// full payload with instructions).

// ParseJSON decodes a JSON document and normalizes it.
func ParseJSON(data []byte, opts *NormalizeOptions) (*Payload, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("elmkit: decode transcript JSON: %w", err)
	}
	return Normalize(raw, opts)
}

// ParseYAML decodes a YAML document and normalizes it.
func ParseYAML(data []byte, opts *NormalizeOptions) (*Payload, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("elmkit: decode transcript YAML: %w", err)
	}
	return Normalize(raw, opts)
}

// LoadTranscript reads a transcript file and normalizes its contents.
// The format is picked by extension: .yaml/.yml parse as YAML, everything
// else as JSON.
func LoadTranscript(path string, opts *NormalizeOptions) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("elmkit: read transcript: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, opts)
	default:
		return ParseJSON(data, opts)
	}
}
