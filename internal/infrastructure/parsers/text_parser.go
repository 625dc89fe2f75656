package parsers

import (
	"bufio"
	"context"
	"io"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// TextParser treats every line of a plain text file as one document.
type TextParser struct {
	config *ParserConfig
}

// NewTextParser creates a new plain text parser
func NewTextParser(config *ParserConfig) *TextParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &TextParser{
		config: config,
	}
}

// Parse reads and parses a text file from disk
func (p *TextParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openFile(p.config, filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream reads one record per line under DefaultTextField.
func (p *TextParser) ParseStream(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), p.config.MaxLineSize)

	var records []Record
	totalRows := 0
	skippedRows := 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		totalRows++
		line := cellValue(p.config, scanner.Text())
		if p.config.SkipEmptyRows && isEmptyRow([]string{line}) {
			skippedRows++
			continue
		}

		records = append(records, Record{DefaultTextField: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, apperrors.FileParseError(err, "TXT")
	}

	return &ParseResult{
		Records:     records,
		TotalRows:   totalRows,
		SkippedRows: skippedRows,
		Columns:     []string{DefaultTextField},
		Format:      "TXT",
	}, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *TextParser) SupportedFormats() []string {
	return []string{".txt", ".text"}
}
