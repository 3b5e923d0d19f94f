// Package nounindex builds and queries the per-job noun index.
//
// The index is built once per job, persisted as a single JSON document,
// and immutable afterwards. The standing invariant: for every noun, Count
// equals the length of its occurrence list.
package nounindex

import (
	"fmt"
	"sort"

	"github.com/Wangkaiwei233/word-fetcher/pkg/document"
	"github.com/Wangkaiwei233/word-fetcher/pkg/extract"
	"github.com/Wangkaiwei233/word-fetcher/pkg/segment"
)

// Occurrence is one recorded noun instance at a page/line/sentence.
type Occurrence struct {
	Page     int    `json:"page"`
	Line     int    `json:"line"`
	Sentence string `json:"sentence"`
}

// NounCount is one distinct noun with its total occurrence count.
type NounCount struct {
	Noun  string `json:"noun"`
	Count int    `json:"count"`
}

// Index is the persisted job result.
//
// Nouns is stored pre-sorted (count descending, noun ascending on ties);
// the default query sort relies on this persisted ordering.
type Index struct {
	Nouns             []NounCount             `json:"nouns"`
	OccurrencesByNoun map[string][]Occurrence `json:"occurrences_by_noun"`
}

// Build segments each line into sentences, extracts nouns per sentence,
// and aggregates counts and occurrences. Occurrence lists preserve the
// order lines and sentences were processed in.
func Build(lines []document.Line, ex *extract.Extractor) (*Index, error) {
	counts := make(map[string]int)
	occurrences := make(map[string][]Occurrence)
	var order []string

	for _, line := range lines {
		for _, sentence := range segment.Sentences(line.Text) {
			nouns, err := ex.Extract(sentence)
			if err != nil {
				return nil, fmt.Errorf("extract nouns: %w", err)
			}
			for _, n := range nouns {
				if counts[n.Word] == 0 {
					order = append(order, n.Word)
				}
				counts[n.Word]++
				occurrences[n.Word] = append(occurrences[n.Word], Occurrence{
					Page:     line.Page,
					Line:     line.Number,
					Sentence: sentence,
				})
			}
		}
	}

	nouns := make([]NounCount, 0, len(order))
	for _, word := range order {
		nouns = append(nouns, NounCount{Noun: word, Count: counts[word]})
	}
	sort.SliceStable(nouns, func(i, j int) bool {
		if nouns[i].Count != nouns[j].Count {
			return nouns[i].Count > nouns[j].Count
		}
		return nouns[i].Noun < nouns[j].Noun
	})

	return &Index{Nouns: nouns, OccurrencesByNoun: occurrences}, nil
}

// Validate checks the count/occurrence-list invariant.
func (ix *Index) Validate() error {
	if len(ix.Nouns) != len(ix.OccurrencesByNoun) {
		return fmt.Errorf("index has %d nouns but %d occurrence lists", len(ix.Nouns), len(ix.OccurrencesByNoun))
	}
	for _, n := range ix.Nouns {
		occ, ok := ix.OccurrencesByNoun[n.Noun]
		if !ok {
			return fmt.Errorf("noun %q has no occurrence list", n.Noun)
		}
		if len(occ) != n.Count {
			return fmt.Errorf("noun %q count %d != %d occurrences", n.Noun, n.Count, len(occ))
		}
	}
	return nil
}
