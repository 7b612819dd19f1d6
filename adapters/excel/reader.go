package excel

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/domain/core"
	"inkartidy/domain/tidy"
	"inkartidy/internal"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// RawReader reads the wide INKAR table from delimited text or a workbook
type RawReader struct {
	filePath string
	fileType string
	config   ReaderConfig
	log      *internal.Logger
}

// NewRawReader creates a reader; the file type follows the extension
func NewRawReader(filePath string, config ReaderConfig, log *internal.Logger) *RawReader {
	if config.Separator == 0 {
		config.Separator = DefaultReaderConfig().Separator
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	return &RawReader{
		filePath: filePath,
		fileType: DetectFileType(filePath),
		config:   config,
		log:      log,
	}
}

// FileType returns "csv" or "xlsx"
func (r *RawReader) FileType() string {
	return r.fileType
}

// NumberFormat returns the format numbers arrive in. Workbook cells are read
// as raw values, which always use a dot.
func (r *RawReader) NumberFormat(configured coercer.NumberFormat) coercer.NumberFormat {
	if r.fileType == FileTypeXLSX {
		return coercer.PlainNumberFormat()
	}
	return configured
}

// Read loads the table. A missing file is the only input condition reported
// as core.ErrMissingInput; an empty file is malformed.
func (r *RawReader) Read() (*tidy.RawTable, error) {
	r.log.Debug("[RawReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.NewMissingInputError(r.filePath)
		}
		return nil, fmt.Errorf("stat %s: %w", r.filePath, err)
	}

	var (
		rows [][]string
		err  error
	)
	readStart := time.Now()
	switch r.fileType {
	case FileTypeXLSX:
		rows, err = r.readWorkbookRows()
	default:
		rows, err = r.readDelimitedRows()
	}
	if err != nil {
		return nil, err
	}
	r.log.Debug("[RawReader] %s read in %.2fms (%d lines)",
		strings.ToUpper(r.fileType), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return nil, core.NewMalformedInputError(r.filePath, "no header row")
	}
	return r.processRows(rows), nil
}

func (r *RawReader) readDelimitedRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.filePath, err)
	}
	defer file.Close()

	src, err := decodingReader(file, r.config.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(skipBOM(src))
	reader.Comma = r.config.Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewMalformedInputError(r.filePath, err.Error())
	}
	return rows, nil
}

func (r *RawReader) readWorkbookRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, core.NewMalformedInputError(r.filePath, err.Error())
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// processRows names the columns and squares every row to the header width
func (r *RawReader) processRows(rows [][]string) *tidy.RawTable {
	headers := NormalizeHeaders(rows[0])

	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		squared := make([]string, len(headers))
		for j := range squared {
			if j < len(row) {
				squared[j] = strings.TrimSpace(row[j])
			}
		}
		body = append(body, squared)
	}

	r.log.Info("[RawReader] %s file processed (%d columns, %d rows incl. metadata row)",
		strings.ToUpper(r.fileType), len(headers), len(body))

	return &tidy.RawTable{Columns: headers, Rows: body}
}

// decodingReader wraps src so that it yields UTF-8
func decodingReader(src io.Reader, label string) (io.Reader, error) {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" || label == "utf-8" || label == "utf8" {
		return src, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(src), nil
}

// ValidateEncoding reports whether label names a supported encoding
func ValidateEncoding(label string) error {
	_, err := decodingReader(strings.NewReader(""), label)
	return err
}

func skipBOM(src io.Reader) io.Reader {
	br := bufio.NewReader(src)
	if r, _, err := br.ReadRune(); err == nil && r != '\uFEFF' {
		_ = br.UnreadRune()
	}
	return br
}
