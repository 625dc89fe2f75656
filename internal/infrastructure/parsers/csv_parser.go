package parsers

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// CSVParser parses CSV files with a header row
type CSVParser struct {
	config *ParserConfig
}

// NewCSVParser creates a new CSV parser
func NewCSVParser(config *ParserConfig) *CSVParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &CSVParser{
		config: config,
	}
}

// Parse reads and parses a CSV file from disk
func (p *CSVParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openFile(p.config, filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream reads and parses CSV data from an io.Reader.
// Malformed rows are counted as skipped.
func (p *CSVParser) ParseStream(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = p.config.TrimWhitespace
	csvReader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := csvReader.Read()
	if err != nil {
		return nil, apperrors.FileParseError(err, "CSV").WithDetails("stage", "header")
	}
	for i := range header {
		header[i] = cellValue(p.config, header[i])
	}

	var rows [][]string
	malformed := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			malformed++
			continue
		}
		rows = append(rows, row)
	}

	records, skipped, err := rowsToRecords(ctx, p.config, header, rows)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		Records:     records,
		TotalRows:   len(rows) + malformed,
		SkippedRows: skipped + malformed,
		Columns:     header,
		Format:      "CSV",
	}, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *CSVParser) SupportedFormats() []string {
	return []string{".csv"}
}
