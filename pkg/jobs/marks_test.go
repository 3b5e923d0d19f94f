package jobs

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

func newMarkFixture(t *testing.T) (*MarkStore, string) {
	t.Helper()
	store := NewStore(t.TempDir())
	job, err := store.Create("doc.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	return NewMarkStore(store), job.JobID
}

func TestMarkID(t *testing.T) {
	assert.Equal(t, "3:7:苹果:苹果很甜。", MarkID("苹果", 3, 7, "苹果很甜。"))
}

func TestMarkStore_ListEmptyVsNotFound(t *testing.T) {
	marks, jobID := newMarkFixture(t)

	got, err := marks.List(jobID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got, "existing job with no marks is an empty list")

	_, err = marks.List("no-such-job")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMarkStore_AddIdempotent(t *testing.T) {
	marks, jobID := newMarkFixture(t)

	first, err := marks.Add(jobID, "苹果", 1, 2, "苹果很甜。")
	require.NoError(t, err)
	assert.Equal(t, MarkID("苹果", 1, 2, "苹果很甜。"), first.ID)

	second, err := marks.Add(jobID, "苹果", 1, 2, "苹果很甜。")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := marks.List(jobID)
	require.NoError(t, err)
	assert.Len(t, got, 1, "duplicate add must not grow the list")
}

func TestMarkStore_AddValidation(t *testing.T) {
	marks, jobID := newMarkFixture(t)

	_, err := marks.Add(jobID, "  ", 1, 1, "句子。")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = marks.Add("no-such-job", "苹果", 1, 1, "句子。")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMarkStore_Toggle(t *testing.T) {
	marks, jobID := newMarkFixture(t)

	res, err := marks.Toggle(jobID, "苹果", 1, 2, "苹果很甜。")
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.False(t, res.Removed)

	got, err := marks.List(jobID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	res, err = marks.Toggle(jobID, "苹果", 1, 2, "苹果很甜。")
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.False(t, res.Added)

	got, err = marks.List(jobID)
	require.NoError(t, err)
	assert.Empty(t, got, "toggling twice returns to the initial state")
}

func TestMarkStore_ToggleDistinctIdentities(t *testing.T) {
	marks, jobID := newMarkFixture(t)

	// Same noun on a different line is a different mark.
	_, err := marks.Toggle(jobID, "苹果", 1, 2, "苹果很甜。")
	require.NoError(t, err)
	_, err = marks.Toggle(jobID, "苹果", 1, 3, "苹果很甜。")
	require.NoError(t, err)

	got, err := marks.List(jobID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMarkStore_ConcurrentToggles(t *testing.T) {
	marks, jobID := newMarkFixture(t)

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(line int) {
			defer wg.Done()
			_, err := marks.Add(jobID, "苹果", 1, line, "句子。")
			assert.NoError(t, err)
		}(i + 1)
	}
	wg.Wait()

	got, err := marks.List(jobID)
	require.NoError(t, err)
	assert.Len(t, got, n, "concurrent adds must not lose updates")
}
