package jobs

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
	"github.com/Wangkaiwei233/word-fetcher/pkg/jsonstore"
)

// Mark is one user annotation of a noun occurrence. Marks are immutable:
// toggling changes presence, never fields.
type Mark struct {
	Noun     string `json:"noun"`
	Page     int    `json:"page"`
	Line     int    `json:"line"`
	Sentence string `json:"sentence"`
	ID       string `json:"id"`
}

// MarkID is the canonical encoding of the composite identity
// (page, line, noun, sentence). Two marks with equal IDs are the same mark.
func MarkID(noun string, page, line int, sentence string) string {
	return fmt.Sprintf("%d:%d:%s:%s", page, line, noun, sentence)
}

// ToggleResult reports which branch a toggle took.
type ToggleResult struct {
	Removed bool   `json:"removed"`
	Added   bool   `json:"added"`
	ID      string `json:"id"`
}

// MarkStore persists the per-job mark list.
//
// Mutations are load-modify-persist over the whole list; a per-job mutex
// serializes writers so concurrent toggles cannot lose updates.
type MarkStore struct {
	store *Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMarkStore creates a mark store over the job store's layout.
func NewMarkStore(store *Store) *MarkStore {
	return &MarkStore{store: store, locks: make(map[string]*sync.Mutex)}
}

func (m *MarkStore) jobLock(jobID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[jobID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[jobID] = l
	}
	return l
}

func (m *MarkStore) load(jobID string) ([]Mark, error) {
	if !m.store.Exists(jobID) {
		return nil, apperrors.NotFound("job %s", jobID)
	}
	var marks []Mark
	if err := jsonstore.Read(m.store.MarksPath(jobID), &marks); err != nil {
		if os.IsNotExist(err) {
			// No marks yet: an empty list, distinct from job-not-found.
			return nil, nil
		}
		return nil, err
	}
	return marks, nil
}

func (m *MarkStore) persist(jobID string, marks []Mark) error {
	if marks == nil {
		marks = []Mark{}
	}
	return jsonstore.Write(m.store.MarksPath(jobID), marks)
}

func validateNoun(noun string) (string, error) {
	noun = strings.TrimSpace(noun)
	if noun == "" {
		return "", apperrors.InvalidArgument("noun required")
	}
	return noun, nil
}

// List returns all marks of a job. Empty list for a mark-less existing
// job; NotFound only when the job itself does not exist.
func (m *MarkStore) List(jobID string) ([]Mark, error) {
	marks, err := m.load(jobID)
	if err != nil {
		return nil, err
	}
	if marks == nil {
		marks = []Mark{}
	}
	return marks, nil
}

// Add creates a mark unless one with the same composite identity exists.
// Duplicate add is a no-op success returning the logical entry.
func (m *MarkStore) Add(jobID, noun string, page, line int, sentence string) (*Mark, error) {
	noun, err := validateNoun(noun)
	if err != nil {
		return nil, err
	}

	lock := m.jobLock(jobID)
	lock.Lock()
	defer lock.Unlock()

	marks, err := m.load(jobID)
	if err != nil {
		return nil, err
	}

	id := MarkID(noun, page, line, sentence)
	entry := Mark{Noun: noun, Page: page, Line: line, Sentence: sentence, ID: id}
	for _, existing := range marks {
		if existing.ID == id {
			return &entry, nil
		}
	}

	marks = append(marks, entry)
	if err := m.persist(jobID, marks); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Toggle removes the mark when present and adds it when absent. Both
// branches persist the full list before returning.
func (m *MarkStore) Toggle(jobID, noun string, page, line int, sentence string) (*ToggleResult, error) {
	noun, err := validateNoun(noun)
	if err != nil {
		return nil, err
	}

	lock := m.jobLock(jobID)
	lock.Lock()
	defer lock.Unlock()

	marks, err := m.load(jobID)
	if err != nil {
		return nil, err
	}

	id := MarkID(noun, page, line, sentence)
	remaining := make([]Mark, 0, len(marks))
	for _, existing := range marks {
		if existing.ID != id {
			remaining = append(remaining, existing)
		}
	}

	if len(remaining) != len(marks) {
		if err := m.persist(jobID, remaining); err != nil {
			return nil, err
		}
		return &ToggleResult{Removed: true, Added: false, ID: id}, nil
	}

	remaining = append(remaining, Mark{Noun: noun, Page: page, Line: line, Sentence: sentence, ID: id})
	if err := m.persist(jobID, remaining); err != nil {
		return nil, err
	}
	return &ToggleResult{Removed: false, Added: true, ID: id}, nil
}
