package analyzer

import (
	"fmt"
	"sync"

	"github.com/go-ego/gse"
	"github.com/go-ego/gse/hmm/pos"

	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

// statistical is the in-process fallback backend: dictionary + HMM
// segmentation with part-of-speech tagging, no named entities.
type statistical struct {
	mu     sync.Mutex
	seg    gse.Segmenter
	posSeg pos.Segmenter

	lexVersion uint64
	applied    map[string]lexicon.Entry
}

func newStatistical() (*statistical, error) {
	s := &statistical{applied: make(map[string]lexicon.Entry)}
	if err := s.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("load segmenter dictionary: %w", err)
	}
	s.posSeg.WithGse(s.seg)
	return s, nil
}

func (s *statistical) Name() string { return "gse" }

func (s *statistical) Analyze(sentence string) ([]Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := s.posSeg.Cut(sentence, true)
	out := make([]Token, 0, len(segs))
	for _, sp := range segs {
		out = append(out, Token{Text: sp.Text, Pos: sp.Pos})
	}
	return out, nil
}

// IngestLexicon applies custom dictionary entries to the segmenter. Only
// the delta against the previously applied snapshot is touched, so a
// version match is a no-op.
func (s *statistical) IngestLexicon(snap *lexicon.Snapshot) error {
	if snap == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Version == s.lexVersion {
		return nil
	}

	next := make(map[string]lexicon.Entry, len(snap.Entries))
	for _, e := range snap.Entries {
		next[e.Word] = e
	}

	for word := range s.applied {
		if _, keep := next[word]; !keep {
			if err := s.seg.RemoveToken(word); err != nil {
				return fmt.Errorf("remove dictionary token %q: %w", word, err)
			}
		}
	}
	for word, e := range next {
		prev, had := s.applied[word]
		if had && prev == e {
			continue
		}
		if err := s.seg.AddToken(word, float64(e.Frequency), e.Tag); err != nil {
			return fmt.Errorf("add dictionary token %q: %w", word, err)
		}
	}

	s.applied = next
	s.lexVersion = snap.Version
	return nil
}
