// Package extract turns uploaded documents into plain text.
//
// The accepted formats are a closed set: plain text, PDF and Word (.docx)
// documents. A filename is resolved to a Format once, at the boundary, and
// everything downstream switches on the Format value instead of the name.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported document type.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatPDF
	FormatDocx
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatText, FormatPDF, FormatDocx}

// String returns the short name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatPDF:
		return "pdf"
	case FormatDocx:
		return "docx"
	default:
		return "unknown"
	}
}

// Extension returns the filename suffix accepted for the format.
func (f Format) Extension() string {
	if f == FormatUnknown {
		return ""
	}
	return "." + f.String()
}

// ErrUnsupportedFormat is returned when a filename does not carry one of the
// accepted extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DecodeError reports content that could not be read as its declared format.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s content: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ParseFormat resolves a filename to a Format by case-sensitive suffix
// match, so "notes.TXT" is rejected just like "notes.csv".
func ParseFormat(filename string) (Format, error) {
	for _, f := range Formats {
		if strings.HasSuffix(filename, f.Extension()) {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// FromBytes extracts plain text from data according to f.
func FromBytes(f Format, data []byte) (string, error) {
	switch f {
	case FormatText:
		return decodeText(data)
	case FormatPDF:
		return extractPDF(data)
	case FormatDocx:
		return extractDocx(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// Extract dispatches on the extension after the last dot in filename.
// Unknown extensions yield an empty string and no error; callers are
// expected to have rejected them with ParseFormat already.
func Extract(filename string, data []byte) (string, error) {
	dot := strings.LastIndex(filename, ".")
	if dot < 0 {
		return "", nil
	}
	ext := filename[dot:]
	for _, f := range Formats {
		if ext == f.Extension() {
			return FromBytes(f, data)
		}
	}
	return "", nil
}

// decodeText returns data as a string if it is valid UTF-8.
func decodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &DecodeError{Format: FormatText, Err: errors.New("invalid UTF-8 byte sequence")}
	}
	return string(data), nil
}
