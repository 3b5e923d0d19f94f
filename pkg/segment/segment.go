// Package segment splits extracted text lines into sentences.
package segment

import "strings"

// terminal reports CJK sentence-final punctuation: full stop, exclamation,
// question mark, semicolon, ellipsis.
func terminal(r rune) bool {
	switch r {
	case '。', '！', '？', '；', '…':
		return true
	}
	return false
}

// Sentences splits a line at positions immediately following sentence-final
// punctuation. Content is never dropped and never merged across lines: a
// line without terminal punctuation yields one sentence, the trimmed line.
// Whitespace-only fragments are omitted.
func Sentences(line string) []string {
	var out []string
	var sb strings.Builder

	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			out = append(out, s)
		}
		sb.Reset()
	}

	for _, r := range line {
		sb.WriteRune(r)
		if terminal(r) {
			flush()
		}
	}
	flush()

	if len(out) == 0 {
		if s := strings.TrimSpace(line); s != "" {
			return []string{s}
		}
		return nil
	}
	return out
}
