package lexicon

import "unicode"

// MaybeWrong reports whether a word looks like segmentation noise or a
// typo. Best-effort heuristic, not a correctness guarantee.
//
// A word in the custom dictionary is never flagged. Otherwise a word is
// flagged when any of the following holds:
//   - length (in runes) <= 1
//   - contains a character outside digits, Latin letters, CJK ideographs
//   - contains a run of 3+ identical consecutive characters
//   - length (in runes) > 10
//   - composed entirely of Latin letters (extraction residue)
func (s *Snapshot) MaybeWrong(word string) bool {
	if s.InDict(word) {
		return false
	}
	runes := []rune(word)
	if len(runes) <= 1 {
		return true
	}
	if containsNonCJKAlnum(runes) {
		return true
	}
	if hasTripleRepeat(runes) {
		return true
	}
	if len(runes) > 10 {
		return true
	}
	return allLatin(runes)
}

func isCJKIdeograph(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func containsNonCJKAlnum(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsDigit(r) && r < 128 {
			continue
		}
		if isLatinLetter(r) || isCJKIdeograph(r) {
			continue
		}
		return true
	}
	return false
}

func hasTripleRepeat(runes []rune) bool {
	for i := 2; i < len(runes); i++ {
		if runes[i] == runes[i-1] && runes[i] == runes[i-2] {
			return true
		}
	}
	return false
}

func allLatin(runes []rune) bool {
	for _, r := range runes {
		if !isLatinLetter(r) {
			return false
		}
	}
	return len(runes) > 0
}
