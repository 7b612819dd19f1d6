package excel

// ReaderConfig holds settings for reading the raw wide table
type ReaderConfig struct {
	Separator rune   `json:"separator"` // field separator for delimited text
	Encoding  string `json:"encoding"`  // WHATWG encoding label, e.g. "utf-8", "windows-1252"
	Sheet     string `json:"sheet"`     // workbook sheet; empty means the first sheet
}

// DefaultReaderConfig returns the INKAR export conventions
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Separator: ';',
		Encoding:  "utf-8",
	}
}
