package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var unsafeFilenameRe = regexp.MustCompile(`[^\w\s\-.]`)

// maxFilenameLen bounds sanitized filenames, extension included
const maxFilenameLen = 100

// CleanText removes NUL bytes and control characters, maps bullet glyphs
// to hyphens and normalizes line endings
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\x00':
			return -1
		case r == '•' || r == '▪' || r == '◦':
			return '-'
		case r == '\n' || r == '\t':
			return r
		case r == ' ':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}

// SanitizeFilename strips directories and unsafe characters from an upload name
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base("/" + name)
	if name == "/" || name == "." {
		return ""
	}
	name = unsafeFilenameRe.ReplaceAllString(name, "")

	if utf8.RuneCountInString(name) > maxFilenameLen {
		ext := filepath.Ext(name)
		stem := []rune(strings.TrimSuffix(name, ext))
		keep := maxFilenameLen - utf8.RuneCountInString(ext)
		if keep < 1 {
			return string([]rune(name)[:maxFilenameLen])
		}
		if len(stem) > keep {
			stem = stem[:keep]
		}
		name = string(stem) + ext
	}
	return name
}

// HashText returns the hex sha256 of text
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
