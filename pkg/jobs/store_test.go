package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
	"github.com/Wangkaiwei233/word-fetcher/pkg/nounindex"
)

func TestStore_Create(t *testing.T) {
	store := NewStore(t.TempDir())

	job, err := store.Create("../report.pdf", strings.NewReader("%PDF-dummy"))
	require.NoError(t, err)

	_, err = uuid.Parse(job.JobID)
	require.NoError(t, err, "job id must be a uuid")
	assert.Equal(t, ".._report.pdf", job.Filename)

	content, err := os.ReadFile(job.InputPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-dummy", string(content))
	assert.Equal(t, filepath.Join(store.JobDir(job.JobID), job.Filename), job.InputPath)

	st, err := store.ReadStatus(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, StateQueued, st.State)
	assert.Equal(t, 0, st.Progress)
}

func TestStore_ReadStatus_UnknownJob(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.ReadStatus("no-such-job")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStore_StatusRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	job, err := store.Create("doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	want := Status{State: StateRunning, Progress: 35, Message: "extracting text"}
	require.NoError(t, store.WriteStatus(job.JobID, want))

	got, err := store.ReadStatus(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestStore_ResultRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	job, err := store.Create("doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = store.ReadResult(job.JobID)
	require.Error(t, err, "result before completion is not found")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	ix := &nounindex.Index{
		Nouns: []nounindex.NounCount{{Noun: "苹果", Count: 1}},
		OccurrencesByNoun: map[string][]nounindex.Occurrence{
			"苹果": {{Page: 1, Line: 1, Sentence: "苹果。"}},
		},
	}
	require.NoError(t, store.WriteResult(job.JobID, ix))

	got, err := store.ReadResult(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, ix.Nouns, got.Nouns)
	assert.Equal(t, ix.OccurrencesByNoun, got.OccurrencesByNoun)
}

func TestStore_ReadResult_DoneWithoutResult(t *testing.T) {
	store := NewStore(t.TempDir())
	job, err := store.Create("doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.WriteStatus(job.JobID, Status{State: StateDone, Progress: 100, Message: "done"}))

	_, err = store.ReadResult(job.JobID)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound), "an inconsistent done job is an internal error")
}

func TestStore_ReadResult_EmptyIndex(t *testing.T) {
	store := NewStore(t.TempDir())
	job, err := store.Create("doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.WriteResult(job.JobID, &nounindex.Index{}))
	got, err := store.ReadResult(job.JobID)
	require.NoError(t, err)
	assert.NotNil(t, got.OccurrencesByNoun)
}

func TestStore_List(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "jobs"))

	got, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, got, "missing root lists as empty")

	a, err := store.Create("a.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	b, err := store.Create("b.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	// A directory without a readable status is skipped.
	require.NoError(t, os.MkdirAll(store.JobDir("stray"), 0755))

	got, err = store.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	ids := []string{got[0].JobID, got[1].JobID}
	assert.ElementsMatch(t, []string{a.JobID, b.JobID}, ids)
}
