// Package validation checks command-line paths and input buffers before they
// reach the parser.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits on what the compiler accepts.
const (
	// MaxFileSize is the maximum allowed source size after decompression (64 MB).
	MaxFileSize = 64 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidEncoding  = errors.New("source is not valid UTF-8")
	ErrBinaryContent    = errors.New("source contains a NUL byte")
	ErrControlCharacter = errors.New("source contains a control character")
)

// ValidatePath checks a user-supplied path for length limits and invalid
// characters. "-" is accepted and means stdin or stdout.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateSource checks that data can be parsed as fla source text.
func ValidateSource(data []byte) error {
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), MaxFileSize)
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return fmt.Errorf("%w at offset %d", ErrBinaryContent, i)
	}
	if !utf8.Valid(data) {
		return ErrInvalidEncoding
	}

	line, col := 1, 1
	for _, r := range string(data) {
		switch {
		case r == '\n':
			line, col = line+1, 1
			continue
		case !sourceChar(r):
			return fmt.Errorf("%w %U at line %d, column %d", ErrControlCharacter, r, line, col)
		}
		col++
	}
	return nil
}

// sourceChar reports whether r may appear in a source file. The set is the
// XML 1.0 character range, so every payload survives a debug dump.
func sourceChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xFFFE && r <= 0xFFFF:
		return false
	}
	return true
}

// FileType is the kind of file a path names.
type FileType string

const (
	FileTypeFla    FileType = "fla"
	FileTypeDebug  FileType = "debug"
	FileTypeXZ     FileType = "xz"
	FileTypeSQLite FileType = "sqlite"
	FileTypeText   FileType = "text"

	FileTypeUnknown FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeSQLite, []byte("SQLite format 3\x00")},
	{FileTypeDebug, []byte("<?xml")},
}

// ValidateFileType checks that the first bytes of reader agree with the
// extension of filename and returns the detected type. A .xz suffix must
// hold xz data; plain text files must not.
func ValidateFileType(reader io.Reader, filename string) (FileType, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	detected := DetectFileTypeFromMagic(buf)
	expected := DetectFileTypeFromExtension(filename)

	switch {
	case detected == expected && detected != FileTypeUnknown:
		return detected, nil
	case expected == FileTypeXZ || detected == FileTypeXZ || detected == FileTypeSQLite:
		return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is %s", expected, detected)
	case detected == FileTypeUnknown && (len(buf) == 0 || isLikelyText(buf)):
		if expected == FileTypeUnknown {
			return FileTypeFla, nil
		}
		return expected, nil
	case detected == FileTypeDebug:
		// An XML header in a file without a debug extension is still text.
		return expected, nil
	}
	return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is binary", expected)
}

// DetectFileTypeFromMagic detects file type from magic bytes.
func DetectFileTypeFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

// DetectFileTypeFromExtension determines the expected file type from the
// filename extension.
func DetectFileTypeFromExtension(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fla":
		return FileTypeFla
	case ".debug":
		return FileTypeDebug
	case ".xz":
		return FileTypeXZ
	case ".db", ".sqlite", ".sqlite3":
		return FileTypeSQLite
	case ".md", ".html", ".txt":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' || b == '\f' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// bytes >= 0x7f are UTF-8 and count for neither side
	}

	return control == 0 || float64(printable)/float64(printable+control) > 0.95
}
