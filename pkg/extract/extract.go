// Package extract filters analyzer output down to candidate nouns.
//
// The filter pipeline is ordered and short-circuits on the first rejection:
//
//  1. empty/whitespace-only tokens
//  2. stopwords (exact match against the current snapshot)
//  3. pure-numeric tokens (digits segmented by . , : / -)
//  4. single Latin letters (mis-segmented abbreviation noise)
//  5. accept iff the POS tag starts with the noun marker, or the entity
//     label is person/organization/location
//
// Rejection runs before acceptance, so a stopword that is also a named
// entity is still rejected.
package extract

import (
	"regexp"
	"strings"

	"github.com/Wangkaiwei233/word-fetcher/pkg/analyzer"
	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

// nounPosPrefix marks nominal POS categories (n, nr, ns, nt, nz, ng, ...).
const nounPosPrefix = "n"

var (
	reNumeric     = regexp.MustCompile(`^[0-9]+([.,:/\-][0-9]+)*$`)
	reLatinSingle = regexp.MustCompile(`^[A-Za-z]$`)
)

// Noun is one accepted token.
type Noun struct {
	Word string
	Pos  string
}

// Extractor runs the analyzer and the filter pipeline per sentence.
type Extractor struct {
	analyzer analyzer.Analyzer
	lex      *lexicon.Store
}

// New creates an extractor bound to an analyzer and the lexical store.
func New(a analyzer.Analyzer, lex *lexicon.Store) *Extractor {
	return &Extractor{analyzer: a, lex: lex}
}

// Extract returns the accepted nouns of one sentence, in token order.
// The result is bounded by the sentence's token count.
//
// The current lexicon snapshot is fetched per call, so a dictionary edit
// is observed on the next sentence processed, including by builds already
// in flight.
func (e *Extractor) Extract(sentence string) ([]Noun, error) {
	snap, err := e.lex.Current()
	if err != nil {
		return nil, err
	}
	if err := analyzer.IngestLexicon(e.analyzer, snap); err != nil {
		return nil, err
	}

	tokens, err := e.analyzer.Analyze(sentence)
	if err != nil {
		return nil, err
	}

	var out []Noun
	for _, tok := range tokens {
		word := strings.TrimSpace(tok.Text)
		if !Accept(word, tok.Pos, tok.Entity, snap) {
			continue
		}
		out = append(out, Noun{Word: word, Pos: tok.Pos})
	}
	return out, nil
}

// Accept applies the filter pipeline to one trimmed token.
func Accept(word, posTag, entity string, snap *lexicon.Snapshot) bool {
	if word == "" {
		return false
	}
	if snap.IsStopword(word) {
		return false
	}
	if reNumeric.MatchString(word) {
		return false
	}
	if reLatinSingle.MatchString(word) {
		return false
	}

	if strings.HasPrefix(posTag, nounPosPrefix) {
		return true
	}
	switch entity {
	case analyzer.EntityPerson, analyzer.EntityOrganization, analyzer.EntityLocation:
		return true
	}
	return false
}
