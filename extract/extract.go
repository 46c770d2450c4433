// Package extract pulls question strings out of free-form model output.
package extract

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

var (
	listMarker = regexp.MustCompile(`^[\d.\-+*]+\s*`)
	emphasis   = regexp.MustCompile(`\*+`)

	// lineBreaks maps every line boundary a model may emit onto '\n'.
	lineBreaks = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\v", "\n",
		"\f", "\n",
		"\x1c", "\n",
		"\x1d", "\n",
		"\x1e", "\n",
		"\u0085", "\n",
		"\u2028", "\n",
		"\u2029", "\n",
	)
)

// Questions returns the questions found in text, one per line, in order.
// Lines may be separated by "\r\n", a bare '\r', or any of the Unicode line
// and paragraph separators.
// Leading list markers (digits, '.', '-', '+', '*') and emphasis asterisks
// are removed; only lines that still contain a '?' are kept.
//
// The sequence is lazy and stateless: ranging over it again re-scans text
// and yields the same questions.
func Questions(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(lineBreaks.Replace(text)) {
			q, ok := parseLine(line)
			if !ok {
				continue
			}
			if !yield(q) {
				return
			}
		}
	}
}

// QuestionList collects Questions(text) into a slice.
func QuestionList(text string) []string {
	return slices.Collect(Questions(text))
}

func parseLine(line string) (string, bool) {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return "", false
	}
	cleaned := listMarker.ReplaceAllString(stripped, "")
	cleaned = strings.TrimSpace(emphasis.ReplaceAllString(cleaned, ""))
	if !strings.Contains(cleaned, "?") {
		return "", false
	}
	return cleaned, true
}
