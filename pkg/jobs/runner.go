package jobs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Wangkaiwei233/word-fetcher/pkg/document"
	"github.com/Wangkaiwei233/word-fetcher/pkg/extract"
	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
	"github.com/Wangkaiwei233/word-fetcher/pkg/nounindex"
)

// Guard errors returned by Run before any execution starts.
var (
	// ErrJobBusy rejects a second Run while one is in flight for the
	// same job. This is a hard invariant, not caller discipline.
	ErrJobBusy = errors.New("job execution already in flight")

	// ErrJobFinished rejects re-running a job already in a terminal
	// state. Terminal jobs are write-once; a fresh job must be created
	// to retry.
	ErrJobFinished = errors.New("job already finished")
)

// Runner executes the document pipeline for one job at a time per job id.
type Runner struct {
	store     *Store
	lex       *lexicon.Store
	extractor *extract.Extractor
	converter *document.Converter
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewRunner wires the pipeline collaborators.
func NewRunner(store *Store, lex *lexicon.Store, ex *extract.Extractor, conv *document.Converter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		store:     store,
		lex:       lex,
		extractor: ex,
		converter: conv,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// Run executes the pipeline for jobID.
//
// Guard violations (unknown job, terminal job, concurrent run) are
// returned to the caller. Everything past the guard is fire-and-forget:
// pipeline failures are recorded as the job's terminal error status and
// Run returns nil.
func (r *Runner) Run(ctx context.Context, jobID string) error {
	// The terminal check and the in-flight claim happen under the same
	// lock that guards slot release. A run writes its terminal status
	// before releasing its slot, so a concurrent caller either sees the
	// slot held (busy) or sees the terminal state (finished); there is
	// no window to re-execute a job across the completion instant.
	r.mu.Lock()
	if _, busy := r.inFlight[jobID]; busy {
		r.mu.Unlock()
		return fmt.Errorf("job %s: %w", jobID, ErrJobBusy)
	}
	st, err := r.store.ReadStatus(jobID)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if st.State.Terminal() {
		r.mu.Unlock()
		return fmt.Errorf("job %s is %s: %w", jobID, st.State, ErrJobFinished)
	}
	r.inFlight[jobID] = struct{}{}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inFlight, jobID)
		r.mu.Unlock()
	}()

	r.execute(ctx, jobID)
	return nil
}

func (r *Runner) setStatus(jobID string, state State, progress int, message string) {
	if err := r.store.WriteStatus(jobID, Status{State: state, Progress: progress, Message: message}); err != nil {
		r.logger.Error("failed to write job status",
			zap.String("job_id", jobID),
			zap.Error(err))
	}
}

func (r *Runner) execute(ctx context.Context, jobID string) {
	jobDir := r.store.JobDir(jobID)

	inputPath, err := document.FindInput(jobDir)
	if err != nil {
		// Precondition failure: no extraction attempted, progress stays 0.
		r.setStatus(jobID, StateError, 0, err.Error())
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("job execution panicked",
				zap.String("job_id", jobID),
				zap.Any("panic", rec))
			r.setStatus(jobID, StateError, progressTerminal, fmt.Sprintf("error: internal failure: %v", rec))
		}
	}()

	fail := func(err error) {
		r.logger.Warn("job failed",
			zap.String("job_id", jobID),
			zap.Error(err))
		r.setStatus(jobID, StateError, progressTerminal, "error: "+err.Error())
	}

	r.setStatus(jobID, StateRunning, progressPreparing, "preparing")

	pdfPath := inputPath
	if document.IsConvertible(inputPath) {
		r.setStatus(jobID, StateRunning, progressConverting, "converting to pdf")
		pdfPath, err = r.converter.Convert(ctx, inputPath, r.store.ConvertedDir(jobID))
		if err != nil {
			fail(err)
			return
		}
	}

	r.setStatus(jobID, StateRunning, progressExtracting, "extracting text")
	lines, err := document.ExtractLines(pdfPath)
	if err != nil {
		fail(err)
		return
	}

	r.setStatus(jobID, StateRunning, progressLexicon, "loading dictionaries")
	if _, err := r.lex.Reload(); err != nil {
		fail(err)
		return
	}

	r.setStatus(jobID, StateRunning, progressNouns, "extracting nouns")
	ix, err := nounindex.Build(lines, r.extractor)
	if err != nil {
		fail(err)
		return
	}

	r.setStatus(jobID, StateRunning, progressSaving, "saving result")
	if err := r.store.WriteResult(jobID, ix); err != nil {
		fail(err)
		return
	}

	r.setStatus(jobID, StateDone, progressTerminal, "done")
	r.logger.Info("job done",
		zap.String("job_id", jobID),
		zap.String("input", filepath.Base(inputPath)),
		zap.Int("lines", len(lines)),
		zap.Int("nouns", len(ix.Nouns)))
}
