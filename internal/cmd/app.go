package cmd

import (
	"os"

	"go.uber.org/zap"

	"github.com/Wangkaiwei233/word-fetcher/internal/config"
	"github.com/Wangkaiwei233/word-fetcher/internal/observability"
	"github.com/Wangkaiwei233/word-fetcher/pkg/analyzer"
	"github.com/Wangkaiwei233/word-fetcher/pkg/document"
	"github.com/Wangkaiwei233/word-fetcher/pkg/extract"
	"github.com/Wangkaiwei233/word-fetcher/pkg/jobs"
	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

// app bundles the wired core components shared by serve and extract.
type app struct {
	cfg       *config.Config
	lexicon   *lexicon.Store
	analyzer  analyzer.Analyzer
	extractor *extract.Extractor
	converter *document.Converter
	store     *jobs.Store
	runner    *jobs.Runner
	marks     *jobs.MarkStore
	query     *jobs.Query
}

// buildApp wires the core from config. Backend selection happens here,
// once per process.
func buildApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	lex := lexicon.NewStore(cfg.DictsDir())

	if seed := cfg.Data.LexiconSeed; seed != "" {
		if _, err := os.Stat(seed); err == nil {
			manifest, err := lexicon.LoadSeedManifest(seed)
			if err != nil {
				return nil, err
			}
			if err := lex.Seed(manifest); err != nil {
				return nil, err
			}
		}
	}

	a, err := analyzer.Select(analyzer.Config{
		Endpoint:       cfg.Analyzer.Endpoint,
		ProbeTimeout:   cfg.Analyzer.ProbeTimeout,
		RequestTimeout: cfg.Analyzer.RequestTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	ex := extract.New(a, lex)
	conv := document.NewConverter(document.ConverterConfig{
		SofficePath: cfg.Converter.SofficePath,
		Timeout:     cfg.Converter.Timeout,
	})
	store := jobs.NewStore(cfg.JobsDir())
	runner := jobs.NewRunner(store, lex, ex, conv, logger)

	return &app{
		cfg:       cfg,
		lexicon:   lex,
		analyzer:  a,
		extractor: ex,
		converter: conv,
		store:     store,
		runner:    runner,
		marks:     jobs.NewMarkStore(store),
		query:     jobs.NewQuery(store, lex),
	}, nil
}

// cliApp builds the app with the CLI logger.
func cliApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, observability.CLILogger)
}
