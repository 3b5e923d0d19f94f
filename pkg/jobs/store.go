// Package jobs owns job identity, per-job on-disk state, and the
// execution lifecycle of the document-to-noun-index pipeline.
//
// Directory layout:
//
//	<root>/<job_id>/status.json
//	<root>/<job_id>/result.json
//	<root>/<job_id>/marks.json
//	<root>/<job_id>/<uploaded file>
//	<root>/<job_id>/converted/
//
// All JSON writes are atomic replaces.
package jobs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
	"github.com/Wangkaiwei233/word-fetcher/pkg/document"
	"github.com/Wangkaiwei233/word-fetcher/pkg/jsonstore"
	"github.com/Wangkaiwei233/word-fetcher/pkg/nounindex"
)

// Store persists per-job state under a root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: strings.TrimSpace(root)}
}

// RootDir returns the jobs root directory.
func (s *Store) RootDir() string { return s.root }

// JobDir returns the directory holding one job's state.
func (s *Store) JobDir(jobID string) string { return filepath.Join(s.root, jobID) }

// StatusPath returns the status document path.
func (s *Store) StatusPath(jobID string) string {
	return filepath.Join(s.JobDir(jobID), "status.json")
}

// ResultPath returns the result document path.
func (s *Store) ResultPath(jobID string) string {
	return filepath.Join(s.JobDir(jobID), "result.json")
}

// MarksPath returns the marks document path.
func (s *Store) MarksPath(jobID string) string {
	return filepath.Join(s.JobDir(jobID), "marks.json")
}

// ConvertedDir returns the conversion scratch directory.
func (s *Store) ConvertedDir(jobID string) string {
	return filepath.Join(s.JobDir(jobID), "converted")
}

// Exists reports whether a job with jobID has been created.
func (s *Store) Exists(jobID string) bool {
	return jsonstore.Exists(s.StatusPath(jobID))
}

// Create places the uploaded content in a fresh job directory and writes
// the initial queued status.
func (s *Store) Create(filename string, content io.Reader) (*Job, error) {
	jobID := uuid.NewString()
	jobDir := s.JobDir(jobID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}

	safe := document.SafeFileName(filename)
	inputPath := filepath.Join(jobDir, safe)
	f, err := os.Create(inputPath)
	if err != nil {
		return nil, fmt.Errorf("create input file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write input file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close input file: %w", err)
	}

	if err := s.WriteStatus(jobID, Status{State: StateQueued, Progress: 0, Message: "queued"}); err != nil {
		return nil, err
	}

	return &Job{
		JobID:     jobID,
		Filename:  safe,
		InputPath: inputPath,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// WriteStatus atomically replaces the status document.
func (s *Store) WriteStatus(jobID string, st Status) error {
	return jsonstore.Write(s.StatusPath(jobID), st)
}

// ReadStatus returns the status document, or NotFound for unknown jobs.
func (s *Store) ReadStatus(jobID string) (*Status, error) {
	var st Status
	if err := jsonstore.Read(s.StatusPath(jobID), &st); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("job %s", jobID)
		}
		return nil, err
	}
	return &st, nil
}

// WriteResult atomically replaces the result document.
func (s *Store) WriteResult(jobID string, ix *nounindex.Index) error {
	return jsonstore.Write(s.ResultPath(jobID), ix)
}

// ReadResult returns the persisted index, or NotFound when the job or its
// result does not exist. A done job without a result is an invariant
// violation and reported as an internal error.
func (s *Store) ReadResult(jobID string) (*nounindex.Index, error) {
	var ix nounindex.Index
	if err := jsonstore.Read(s.ResultPath(jobID), &ix); err != nil {
		if os.IsNotExist(err) {
			st, stErr := s.ReadStatus(jobID)
			if stErr != nil {
				return nil, stErr
			}
			if st.State == StateDone {
				return nil, fmt.Errorf("job %s is done but has no result", jobID)
			}
			return nil, apperrors.NotFound("result for job %s", jobID)
		}
		return nil, err
	}
	if ix.OccurrencesByNoun == nil {
		ix.OccurrencesByNoun = map[string][]nounindex.Occurrence{}
	}
	return &ix, nil
}

// Summary is one row of the operator job listing.
type Summary struct {
	JobID    string `json:"job_id"`
	State    State  `json:"state"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
}

// List returns summaries of all jobs, newest directory first. Jobs with
// unreadable status are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read jobs root: %w", err)
	}

	type row struct {
		summary Summary
		mod     time.Time
	}
	var rows []row
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		jobID := entry.Name()
		st, err := s.ReadStatus(jobID)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		rows = append(rows, row{
			summary: Summary{JobID: jobID, State: st.State, Progress: st.Progress, Message: st.Message},
			mod:     info.ModTime(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].mod.After(rows[j].mod) })

	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.summary)
	}
	return out, nil
}
