// Package aozora fetches and cleans Aozora Bunko work text.
package aozora

import (
	"regexp"
	"strings"
)

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)

	// Aozora plain-text notation.
	reRubyBar   = regexp.MustCompile(`｜([^《]+)《[^》]+》`)
	reRubyKanji = regexp.MustCompile(`([一-龯]+)《[^》]+》`)
	reNote      = regexp.MustCompile(`［＃[^］]*］`)
	reSpaces    = regexp.MustCompile(`[ \t　]+`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>) from HTML content before article extraction, so furigana
// does not duplicate the base text. Operates on bytes and is safe for
// Shift_JIS input because the tag characters are ASCII and < is never a
// trailing byte in Shift_JIS.
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	cleaned = reRP.ReplaceAll(cleaned, []byte{})
	return cleaned
}

// CleanText strips Aozora plain-text notation: ruby readings (《...》 with
// an optional ｜ base marker), editorial annotations (［＃...］), and runs
// of whitespace. Line structure is preserved for sentence splitting.
func CleanText(text string) string {
	text = reRubyBar.ReplaceAllString(text, "$1")
	text = reRubyKanji.ReplaceAllString(text, "$1")
	text = reNote.ReplaceAllString(text, "")
	text = reSpaces.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
