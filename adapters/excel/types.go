package excel

import (
	"path/filepath"
	"strings"
)

// File types the raw reader understands.
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// DetectFileType maps a path to a file type by extension. Anything that is
// not a workbook is read as delimited text.
func DetectFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	default:
		return FileTypeCSV
	}
}
