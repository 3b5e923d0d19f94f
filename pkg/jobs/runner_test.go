package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
	"github.com/Wangkaiwei233/word-fetcher/pkg/analyzer"
	"github.com/Wangkaiwei233/word-fetcher/pkg/document"
	"github.com/Wangkaiwei233/word-fetcher/pkg/extract"
	"github.com/Wangkaiwei233/word-fetcher/pkg/lexicon"
)

type noopAnalyzer struct{}

func (noopAnalyzer) Name() string { return "noop" }

func (noopAnalyzer) Analyze(string) ([]analyzer.Token, error) { return nil, nil }

// fixedAnalyzer returns the same tokens for every sentence.
type fixedAnalyzer struct {
	tokens []analyzer.Token
}

func (f fixedAnalyzer) Name() string { return "fixed" }

func (f fixedAnalyzer) Analyze(string) ([]analyzer.Token, error) { return f.tokens, nil }

// gateAnalyzer blocks inside Analyze until released, so a test can hold a
// run open across other Run calls.
type gateAnalyzer struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateAnalyzer() *gateAnalyzer {
	return &gateAnalyzer{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gateAnalyzer) Name() string { return "gate" }

func (g *gateAnalyzer) Analyze(string) ([]analyzer.Token, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return nil, nil
}

func newRunnerFixture(t *testing.T) (*Runner, *Store) {
	t.Helper()
	return newRunnerWith(t, noopAnalyzer{})
}

func newRunnerWith(t *testing.T, a analyzer.Analyzer) (*Runner, *Store) {
	t.Helper()
	store := NewStore(t.TempDir())
	lex := lexicon.NewStore(t.TempDir())
	ex := extract.New(a, lex)
	conv := document.NewConverter(document.ConverterConfig{})
	return NewRunner(store, lex, ex, conv, zap.NewNop()), store
}

// minimalPDF builds a one-page PDF whose text layer holds a single line.
// text must be ASCII.
func minimalPDF(text string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestRunner_UnknownJob(t *testing.T) {
	runner, _ := newRunnerFixture(t)
	err := runner.Run(context.Background(), "no-such-job")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRunner_RejectsFinishedJob(t *testing.T) {
	runner, store := newRunnerFixture(t)
	job, err := store.Create("doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	for _, state := range []State{StateDone, StateError} {
		require.NoError(t, store.WriteStatus(job.JobID, Status{State: state, Progress: 100, Message: string(state)}))
		err := runner.Run(context.Background(), job.JobID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrJobFinished), "state %s must reject re-run", state)
	}
}

func TestRunner_MissingInput(t *testing.T) {
	runner, store := newRunnerFixture(t)

	// Status exists but no input file was ever placed in the job dir.
	const jobID = "orphan"
	require.NoError(t, store.WriteStatus(jobID, Status{State: StateQueued, Progress: 0, Message: "queued"}))

	require.NoError(t, runner.Run(context.Background(), jobID))

	st, err := store.ReadStatus(jobID)
	require.NoError(t, err)
	assert.Equal(t, StateError, st.State)
	assert.Equal(t, 0, st.Progress, "no extraction was attempted")
	assert.Contains(t, st.Message, "input file missing")
}

func TestRunner_UnsupportedInput(t *testing.T) {
	runner, store := newRunnerFixture(t)
	job, err := store.Create("notes.txt", strings.NewReader("plain text"))
	require.NoError(t, err)

	require.NoError(t, runner.Run(context.Background(), job.JobID))

	st, err := store.ReadStatus(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, StateError, st.State)
	assert.Equal(t, 0, st.Progress)
	assert.Contains(t, st.Message, "unsupported file type")
}

func TestRunner_DonePath(t *testing.T) {
	runner, store := newRunnerWith(t, fixedAnalyzer{tokens: []analyzer.Token{
		{Text: "Gradient", Pos: "n"},
	}})
	job, err := store.Create("paper.pdf", bytes.NewReader(minimalPDF("Gradient Descent")))
	require.NoError(t, err)

	require.NoError(t, runner.Run(context.Background(), job.JobID))

	st, err := store.ReadStatus(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, StateDone, st.State)
	assert.Equal(t, 100, st.Progress)
	assert.Equal(t, "done", st.Message)

	ix, err := store.ReadResult(job.JobID)
	require.NoError(t, err, "done implies a persisted result")
	require.NoError(t, ix.Validate())
	require.Len(t, ix.Nouns, 1)
	assert.Equal(t, "Gradient", ix.Nouns[0].Noun)
	assert.Equal(t, 1, ix.Nouns[0].Count)
	require.Len(t, ix.OccurrencesByNoun["Gradient"], 1)
	occ := ix.OccurrencesByNoun["Gradient"][0]
	assert.Equal(t, 1, occ.Page)
	assert.Equal(t, 1, occ.Line)
}

func TestRunner_BusyThenFinished(t *testing.T) {
	gate := newGateAnalyzer()
	runner, store := newRunnerWith(t, gate)
	job, err := store.Create("paper.pdf", bytes.NewReader(minimalPDF("Gradient Descent")))
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() { firstDone <- runner.Run(context.Background(), job.JobID) }()

	select {
	case <-gate.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never reached analysis")
	}

	err = runner.Run(context.Background(), job.JobID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobBusy), "a second run while one is in flight is rejected")

	close(gate.release)
	require.NoError(t, <-firstDone)

	// After the slot is released the job is terminal; a re-run is
	// rejected as finished, never re-executed.
	err = runner.Run(context.Background(), job.JobID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobFinished))

	st, err := store.ReadStatus(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, StateDone, st.State)
}

func TestRunner_InvalidPDF(t *testing.T) {
	runner, store := newRunnerFixture(t)
	job, err := store.Create("doc.pdf", strings.NewReader("not a pdf"))
	require.NoError(t, err)

	require.NoError(t, runner.Run(context.Background(), job.JobID), "pipeline failures are recorded, not returned")

	st, err := store.ReadStatus(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, StateError, st.State)
	assert.Equal(t, 100, st.Progress)
	assert.True(t, strings.HasPrefix(st.Message, "error: "), "message %q", st.Message)

	err = runner.Run(context.Background(), job.JobID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobFinished), "failed jobs are terminal")
}
