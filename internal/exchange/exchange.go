// Package exchange reads and writes flat position records as CSV, JSON or
// XLSX files.
package exchange

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/orgweaver/internal/position"
)

// ErrUnsupportedFormat is returned for unknown format names or extensions.
var ErrUnsupportedFormat = errors.New("exchange: unsupported format")

// Format names a file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension for f, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes records to w in format f.
func Encode(w io.Writer, f Format, records []position.Position) error {
	switch f {
	case FormatJSON:
		return encodeJSON(w, records)
	case FormatCSV:
		return encodeCSV(w, records)
	case FormatXLSX:
		return encodeXLSX(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// Decode reads records from r in format f. Missing fields get defaults and
// records that still fail validation are rejected with their line number.
func Decode(r io.Reader, f Format) ([]position.Position, error) {
	switch f {
	case FormatJSON:
		return decodeJSON(r)
	case FormatCSV:
		return decodeCSV(r)
	case FormatXLSX:
		return decodeXLSX(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// ReadFile decodes the file at path, choosing the format from its extension.
func ReadFile(path string) ([]position.Position, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("exchange: read %s: %w", path, err)
	}
	records, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, fmt.Errorf("exchange: %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// WriteFile encodes records into path, creating parent directories.
func WriteFile(path string, f Format, records []position.Position) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f, records); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("exchange: create dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("exchange: write %s: %w", path, err)
	}
	return nil
}
