package parsers

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// ExcelParser parses the first sheet of .xlsx workbooks; the first row is the header.
type ExcelParser struct {
	config *ParserConfig
	// Sheet overrides the first sheet when set
	Sheet string
}

// NewExcelParser creates a new Excel parser
func NewExcelParser(config *ParserConfig) *ExcelParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &ExcelParser{
		config: config,
	}
}

// Parse reads and parses an Excel file from disk
func (p *ExcelParser) Parse(ctx context.Context, filePath string) (*ParseResult, error) {
	file, err := openFile(p.config, filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.ParseStream(ctx, file)
}

// ParseStream reads and parses Excel data from an io.Reader
func (p *ExcelParser) ParseStream(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, apperrors.FileParseError(err, "XLSX")
	}
	defer f.Close()

	return p.parseWorkbook(ctx, f)
}

func (p *ExcelParser) parseWorkbook(ctx context.Context, f *excelize.File) (*ParseResult, error) {
	sheetName := p.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, apperrors.InvalidFile("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, apperrors.FileParseError(err, "XLSX").
			WithDetails("sheet", sheetName)
	}

	if len(rows) == 0 {
		return &ParseResult{
			Records: []Record{},
			Columns: []string{},
			Format:  "XLSX",
		}, nil
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = cellValue(p.config, col)
		if header[i] == "" {
			header[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	data := rows[1:]
	records, skipped, err := rowsToRecords(ctx, p.config, header, data)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		Records:     records,
		TotalRows:   len(data),
		SkippedRows: skipped,
		Columns:     header,
		Format:      "XLSX",
	}, nil
}

// SupportedFormats returns the file extensions this parser supports
func (p *ExcelParser) SupportedFormats() []string {
	return []string{".xlsx"}
}
