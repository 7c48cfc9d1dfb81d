// Package extract turns uploaded contract files into plain text.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFormat is returned for file types that cannot be read
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrInsufficientText is returned when too little text was extracted
	ErrInsufficientText = errors.New("insufficient text extracted")
)

// MinTextChars is the default minimum of non-whitespace characters
const MinTextChars = 50

// SupportedExtensions lists the extensions Extract understands
var SupportedExtensions = []string{".txt", ".md", ".html", ".htm", ".docx"}

// Extract converts file bytes to text based on the file extension
func Extract(data []byte, ext string) (string, error) {
	ext = normalizeExt(ext)

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt", ".md":
		text, err = extractPlain(data)
	case ".html", ".htm":
		text, err = extractHTML(data)
	case ".docx":
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	return CleanText(text), nil
}

// IsSupported reports whether Extract can read files with ext
func IsSupported(ext string) bool {
	ext = normalizeExt(ext)
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}

// Validate rejects text with fewer than minChars non-whitespace characters
func Validate(text string, minChars int) error {
	if minChars <= 0 {
		minChars = MinTextChars
	}
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	if n < minChars {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrInsufficientText, n, minChars)
	}
	return nil
}

func extractPlain(data []byte) (string, error) {
	// Strip a UTF-8 byte order mark
	data = []byte(strings.TrimPrefix(string(data), "\ufeff"))
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	return string(data), nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
