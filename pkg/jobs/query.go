package jobs

import (
	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
	"github.com/Wangkaiwei233/word-fetcher/pkg/nounindex"
)

// Query composes the persisted index with the current lexicon at read
// time. Dictionary edits change annotations without rebuilding the job.
type Query struct {
	store *Store
	lex   *lexicon.Store
}

// NewQuery creates a query layer over the job store and lexicon.
func NewQuery(store *Store, lex *lexicon.Store) *Query {
	return &Query{store: store, lex: lex}
}

// JobNouns returns the filtered, sorted, annotated noun list of a job.
// Unrecognized sort values fall back to count_desc.
func (q *Query) JobNouns(jobID, query, sortParam string) ([]nounindex.AnnotatedNoun, error) {
	ix, err := q.store.ReadResult(jobID)
	if err != nil {
		return nil, err
	}
	snap, err := q.lex.Current()
	if err != nil {
		return nil, err
	}
	return nounindex.QueryNouns(ix, query, nounindex.ParseSort(sortParam), snap), nil
}

// NounOccurrences returns a noun's occurrences sorted by page then line.
// An unknown noun on a known job yields an empty list.
func (q *Query) NounOccurrences(jobID, noun string) ([]nounindex.Occurrence, error) {
	ix, err := q.store.ReadResult(jobID)
	if err != nil {
		return nil, err
	}
	return nounindex.Occurrences(ix, noun), nil
}
