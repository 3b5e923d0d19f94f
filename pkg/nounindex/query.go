package nounindex

import (
	"sort"
	"strings"

	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

// Sort is a noun list ordering mode.
type Sort string

const (
	SortCountDesc Sort = "count_desc"
	SortCountAsc  Sort = "count_asc"
	SortAlpha     Sort = "alpha"
)

// ParseSort maps a request parameter to a Sort. Unrecognized values fall
// back to count_desc.
func ParseSort(s string) Sort {
	switch Sort(strings.TrimSpace(s)) {
	case SortCountAsc:
		return SortCountAsc
	case SortAlpha:
		return SortAlpha
	default:
		return SortCountDesc
	}
}

// AnnotatedNoun is a query result entry. InDict and MaybeWrong are
// computed against the dictionary state at query time, not at build time.
type AnnotatedNoun struct {
	Noun       string `json:"noun"`
	Count      int    `json:"count"`
	InDict     bool   `json:"in_dict"`
	MaybeWrong bool   `json:"maybe_wrong"`
}

// QueryNouns filters, sorts, and annotates the persisted noun list.
// query filters to nouns containing it as a substring; empty disables
// filtering.
func QueryNouns(ix *Index, query string, mode Sort, snap *lexicon.Snapshot) []AnnotatedNoun {
	nouns := make([]NounCount, 0, len(ix.Nouns))
	q := strings.TrimSpace(query)
	for _, n := range ix.Nouns {
		if q != "" && !strings.Contains(n.Noun, q) {
			continue
		}
		nouns = append(nouns, n)
	}

	switch mode {
	case SortCountAsc:
		sort.SliceStable(nouns, func(i, j int) bool {
			if nouns[i].Count != nouns[j].Count {
				return nouns[i].Count < nouns[j].Count
			}
			return nouns[i].Noun < nouns[j].Noun
		})
	case SortAlpha:
		sort.SliceStable(nouns, func(i, j int) bool {
			return nouns[i].Noun < nouns[j].Noun
		})
	default:
		sort.SliceStable(nouns, func(i, j int) bool {
			if nouns[i].Count != nouns[j].Count {
				return nouns[i].Count > nouns[j].Count
			}
			return nouns[i].Noun < nouns[j].Noun
		})
	}

	out := make([]AnnotatedNoun, 0, len(nouns))
	for _, n := range nouns {
		out = append(out, AnnotatedNoun{
			Noun:       n.Noun,
			Count:      n.Count,
			InDict:     snap.InDict(n.Noun),
			MaybeWrong: snap.MaybeWrong(n.Noun),
		})
	}
	return out
}

// Occurrences returns a noun's occurrences sorted by page then line.
// An unknown noun yields an empty list, not an error.
func Occurrences(ix *Index, noun string) []Occurrence {
	occ := ix.OccurrencesByNoun[noun]
	out := make([]Occurrence, len(occ))
	copy(out, occ)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].Line < out[j].Line
	})
	return out
}
