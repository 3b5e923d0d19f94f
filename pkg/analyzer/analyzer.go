// Package analyzer produces per-token (word, part-of-speech, entity)
// triples for Chinese sentences.
//
// Two backends exist: a remote joint segmenter/tagger/NER service (richer,
// supplies entity labels) and an in-process statistical segmenter/tagger
// (no entity labels). Availability of the remote backend is probed exactly
// once; a broken backend is never retried per call.
package analyzer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

// Entity labels recognized by the rich backend and consumed by noun
// extraction: person, organization, location.
const (
	EntityPerson       = "Nh"
	EntityOrganization = "Ni"
	EntityLocation     = "Ns"
)

// Token is one analyzed token. Entity is empty for tokens outside any
// recognized span, and always empty for the statistical backend.
type Token struct {
	Text   string `json:"text"`
	Pos    string `json:"pos"`
	Entity string `json:"entity,omitempty"`
}

// Analyzer turns one sentence into its token sequence.
type Analyzer interface {
	// Name identifies the selected backend ("remote" or "gse") for
	// observability and tests.
	Name() string

	Analyze(sentence string) ([]Token, error)
}

// LexiconAware is implemented by backends whose segmentation is biased by
// the custom dictionary. IngestLexicon must be cheap when the snapshot
// version is unchanged.
type LexiconAware interface {
	IngestLexicon(snap *lexicon.Snapshot) error
}

// Config tunes backend selection.
type Config struct {
	// Endpoint is the base URL of the remote backend. Empty disables it.
	Endpoint string

	// ProbeTimeout bounds the one-time availability probe.
	ProbeTimeout time.Duration

	// RequestTimeout bounds each remote analyze call.
	RequestTimeout time.Duration
}

// Select picks the backend for the remainder of the process lifetime.
//
// Preference order: the remote joint backend when configured and its probe
// succeeds, otherwise the statistical backend. The decision is made here,
// once; callers hold on to the returned Analyzer.
func Select(cfg Config, logger *zap.Logger) (Analyzer, error) {
	if cfg.Endpoint != "" {
		remote := newRemote(cfg)
		if err := remote.probe(); err != nil {
			logger.Warn("remote analyzer unavailable, falling back to statistical backend",
				zap.String("endpoint", cfg.Endpoint),
				zap.Error(err))
		} else {
			logger.Info("analyzer selected", zap.String("backend", remote.Name()))
			return remote, nil
		}
	}

	statistical, err := newStatistical()
	if err != nil {
		return nil, err
	}
	logger.Info("analyzer selected", zap.String("backend", statistical.Name()))
	return statistical, nil
}

// IngestLexicon applies snap to a if the backend is lexicon-aware.
func IngestLexicon(a Analyzer, snap *lexicon.Snapshot) error {
	if aware, ok := a.(LexiconAware); ok {
		return aware.IngestLexicon(snap)
	}
	return nil
}
