package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"startup_valuation/pkg/core/valuation"
)

// Syntax names an input encoding.
type Syntax string

const (
	SyntaxYAML  Syntax = "yaml"
	SyntaxJSON  Syntax = "json"
	SyntaxHJSON Syntax = "hjson"
)

// SyntaxFor picks the decoder from a file extension. Unknown extensions
// are read as YAML, which also accepts plain JSON.
func SyntaxFor(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SyntaxJSON
	case ".hjson":
		return SyntaxHJSON
	default:
		return SyntaxYAML
	}
}

// Parse decodes data in the given syntax. Malformed JSON gets one repair
// attempt (trailing commas, single quotes, comments) before failing.
func Parse(data []byte, syntax Syntax) (Document, error) {
	var doc Document
	switch syntax {
	case SyntaxJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			repaired, rerr := jsonrepair.RepairJSON(string(data))
			if rerr != nil {
				return Document{}, fmt.Errorf("JSON_PARSE_ERROR: %w", err)
			}
			doc = Document{}
			if err2 := json.Unmarshal([]byte(repaired), &doc); err2 != nil {
				return Document{}, fmt.Errorf("JSON_PARSE_ERROR: %w", err)
			}
		}
	case SyntaxHJSON:
		if err := hjson.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("HJSON_PARSE_ERROR: %w", err)
		}
	case SyntaxYAML:
		if err := yaml.UnmarshalStrict(data, &doc); err != nil {
			return Document{}, fmt.Errorf("YAML_PARSE_ERROR: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported input syntax %q", syntax)
	}
	return doc, nil
}

// LoadFile reads and decodes a parameter file.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read parameter file: %w", err)
	}
	doc, err := Parse(data, SyntaxFor(path))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadParams reads path and overlays it on base. The variant named in the
// file, if any, is returned alongside.
func LoadParams(path string, base valuation.Params) (valuation.Params, string, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return valuation.Params{}, "", err
	}
	p, err := doc.Apply(base)
	if err != nil {
		return valuation.Params{}, "", err
	}
	return p, doc.Variant, nil
}
