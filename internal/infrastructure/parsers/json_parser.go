package parsers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// JSONParser parses a JSON array of objects, a single object, or an array of strings.
// Strings become records under DefaultTextField.
type JSONParser struct {
	config *ParserConfig
}

// NewJSONParser creates a new JSON parser
func NewJSONParser(config *ParserConfig) *JSONParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &JSONParser{
		config: config,
	}
}

// Parse reads and parses a JSON file from disk
func (p *JSONParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openFile(p.config, filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream reads and parses JSON data from an io.Reader
func (p *JSONParser) ParseStream(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFile, "failed to read JSON input")
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, apperrors.InvalidFile("empty JSON input")
	}

	var items []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, apperrors.FileParseError(err, "JSON")
		}
	} else {
		items = []json.RawMessage{trimmed}
	}

	records := make([]Record, 0, len(items))
	skipped := 0
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := decodeItem(item)
		if err != nil {
			return nil, apperrors.FileParseError(err, "JSON").WithDetails("item", i+1)
		}
		if p.config.SkipEmptyRows && len(record) == 0 {
			skipped++
			continue
		}
		records = append(records, record)
	}

	return &ParseResult{
		Records:     records,
		TotalRows:   len(items),
		SkippedRows: skipped,
		Columns:     collectColumns(records),
		Format:      "JSON",
	}, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *JSONParser) SupportedFormats() []string {
	return []string{".json"}
}

// decodeItem accepts an object or a bare string.
func decodeItem(raw json.RawMessage) (Record, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return Record{DefaultTextField: text}, nil
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// collectColumns returns the union of record keys, sorted.
func collectColumns(records []Record) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			seen[key] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}
