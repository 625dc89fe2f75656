// Package parsers reads text corpora from disk or streams so each document can be
// tokenized and cleaned. Tabular formats yield one record per row; plain text
// yields one record per non-empty line under DefaultTextField.
package parsers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// DefaultTextField is the column holding document text when none is configured.
const DefaultTextField = "text"

// Record represents a single data record as a map
type Record map[string]interface{}

// ParseResult contains parsing statistics
type ParseResult struct {
	Records     []Record
	TotalRows   int
	SkippedRows int
	Columns     []string
	Format      string
}

// Texts returns the field value of every record as a string, in record order.
// Records without the field, or with a null value, yield an empty document.
func (r *ParseResult) Texts(field string) ([]string, error) {
	if field == "" {
		field = DefaultTextField
	}
	if len(r.Records) > 0 && !r.hasColumn(field) {
		return nil, apperrors.NotFound(fmt.Sprintf("field '%s' not found", field)).
			WithDetails("columns", r.Columns)
	}

	texts := make([]string, len(r.Records))
	for i, record := range r.Records {
		value, ok := record[field]
		if !ok || value == nil {
			continue
		}
		text, err := cast.ToStringE(value)
		if err != nil {
			return nil, apperrors.InvalidFile(fmt.Sprintf("record %d: field '%s' is not text", i+1, field))
		}
		texts[i] = text
	}
	return texts, nil
}

func (r *ParseResult) hasColumn(field string) bool {
	for _, col := range r.Columns {
		if col == field {
			return true
		}
	}
	return false
}

// FileParser is the interface all parsers must implement
type FileParser interface {
	// Parse reads and parses the file from the given path
	Parse(ctx context.Context, filePath string) (*ParseResult, error)

	// ParseStream reads and parses from an io.Reader
	ParseStream(ctx context.Context, reader io.Reader) (*ParseResult, error)

	// SupportedFormats returns the file extensions this parser supports
	SupportedFormats() []string
}

// ParserConfig holds configuration for all parsers
type ParserConfig struct {
	// SkipEmptyRows determines if empty rows should be skipped
	SkipEmptyRows bool

	// TrimWhitespace determines if cell values should be trimmed
	TrimWhitespace bool

	// MaxFileSize is the maximum file size in bytes (0 = unlimited)
	MaxFileSize int64

	// MaxLineSize bounds a single line for the line-oriented formats
	MaxLineSize int
}

// DefaultParserConfig returns sensible defaults
func DefaultParserConfig() *ParserConfig {
	return &ParserConfig{
		SkipEmptyRows:  true,
		TrimWhitespace: true,
		MaxFileSize:    100 * 1024 * 1024, // 100 MB
		MaxLineSize:    1024 * 1024,
	}
}

// openFile opens path and enforces MaxFileSize.
func openFile(config *ParserConfig, filePath string) (*os.File, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFile, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFile, "failed to stat file")
	}
	if stat.IsDir() {
		file.Close()
		return nil, apperrors.InvalidFile(fmt.Sprintf("%s is a directory", filePath))
	}
	if config.MaxFileSize > 0 && stat.Size() > config.MaxFileSize {
		file.Close()
		return nil, apperrors.FileTooLarge(stat.Size(), config.MaxFileSize)
	}

	return file, nil
}

// cellValue trims a cell when configured
func cellValue(config *ParserConfig, value string) string {
	if config.TrimWhitespace {
		return strings.TrimSpace(value)
	}
	return value
}

// isEmptyRow checks if a row contains only empty strings
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowsToRecords maps tabular rows onto the header, padding missing cells.
func rowsToRecords(ctx context.Context, config *ParserConfig, header []string, rows [][]string) ([]Record, int, error) {
	records := make([]Record, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if config.SkipEmptyRows && isEmptyRow(row) {
			skipped++
			continue
		}

		record := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = cellValue(config, row[i])
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}

	return records, skipped, nil
}
