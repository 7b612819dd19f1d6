// Package tidyfile persists the tidy record set as delimited text. The file
// is the only contract between the reshaper and the aggregator.
package tidyfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/domain/core"
	"inkartidy/domain/tidy"
)

// Options configures the tidy file dialect
type Options struct {
	Separator rune
	Numbers   coercer.NumberFormat
}

// DefaultOptions is comma separated with dot decimals
func DefaultOptions() Options {
	return Options{Separator: ',', Numbers: coercer.PlainNumberFormat()}
}

func (o Options) withDefaults() Options {
	if o.Separator == 0 {
		o.Separator = ','
	}
	if o.Numbers.Decimal == "" {
		o.Numbers = coercer.PlainNumberFormat()
	}
	return o
}

// Encode writes the header and one line per record. Nulls are empty fields.
func Encode(w io.Writer, records []tidy.Record, opts Options) error {
	opts = opts.withDefaults()
	c := coercer.NewTypeCoercer(opts.Numbers)

	writer := csv.NewWriter(w)
	writer.Comma = opts.Separator

	if err := writer.Write(tidy.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	line := make([]string, len(tidy.Columns))
	for i, r := range records {
		line[0] = ""
		if r.Kennziffer.Valid {
			line[0] = strconv.FormatInt(r.Kennziffer.Int64, 10)
		}
		line[1] = r.Region
		line[2] = strconv.Itoa(r.Year)
		line[3] = r.Variable
		line[4] = ""
		if r.Value.Valid {
			line[4] = c.FormatFloat(r.Value.Float64)
		}
		line[5] = r.VariableRaw
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Write replaces path with the encoded records and returns the content hash.
// The file is written next to path and renamed into place, so a reader
// never sees a partial file.
func Write(path string, records []tidy.Record, opts Options) (core.Hash, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, records, opts); err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return core.NewHash(buf.Bytes()), nil
}
