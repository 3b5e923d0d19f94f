// Package lexicon loads and maintains the analyzer's lexical resources:
// the stopword set and the user-maintained custom dictionary.
//
// Resources are flat files under a dicts directory. Mutations rewrite the
// file atomically and synchronously rebuild the in-memory snapshot before
// returning, bumping a version counter so analyzer backends can detect that
// they must re-ingest the dictionary. There is no implicit staleness
// tolerance: readers always see a fully-applied snapshot.
package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Wangkaiwei233/word-fetcher/internal/apperrors"
)

const (
	// DefaultFrequency is assumed for dictionary entries without an
	// explicit frequency. High, to favor recognition of user words.
	DefaultFrequency = 200000

	// DefaultTag is the generic noun tag assumed for entries without an
	// explicit part-of-speech tag.
	DefaultTag = "n"

	dictFileName      = "custom_dict.txt"
	stopwordsFileName = "stopwords.txt"
)

// Entry is one custom dictionary entry. Word is the dedup key.
type Entry struct {
	Word      string
	Frequency int
	Tag       string
}

// Snapshot is an immutable view of the lexical resources at one version.
type Snapshot struct {
	// Version increases on every reload. Analyzer backends compare it
	// against the version they last ingested.
	Version uint64

	// Entries are the custom dictionary entries in file order.
	Entries []Entry

	stopwords map[string]struct{}
	words     map[string]struct{}
}

// IsStopword reports exact-match membership in the stopword set.
func (s *Snapshot) IsStopword(word string) bool {
	_, ok := s.stopwords[word]
	return ok
}

// InDict reports membership in the custom dictionary.
func (s *Snapshot) InDict(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Words returns the dictionary words, deduplicated and sorted.
func (s *Snapshot) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Store owns the on-disk lexical resources and the current snapshot.
type Store struct {
	dir string

	mu      sync.Mutex // serializes file mutations and reloads
	version atomic.Uint64
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store rooted at dir. Files are created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DictPath returns the custom dictionary file path.
func (s *Store) DictPath() string { return filepath.Join(s.dir, dictFileName) }

// StopwordsPath returns the stopword file path.
func (s *Store) StopwordsPath() string { return filepath.Join(s.dir, stopwordsFileName) }

// Current returns the current snapshot, loading from disk on first use.
func (s *Store) Current() (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	return s.Reload()
}

// Reload re-reads both files and installs a new snapshot with a bumped
// version. The reload is synchronous: when it returns, every subsequent
// Current call observes the new state.
func (s *Store) Reload() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *Store) reloadLocked() (*Snapshot, error) {
	stopwords, err := loadStopwords(s.StopwordsPath())
	if err != nil {
		return nil, err
	}
	entries, err := ParseDictFile(s.DictPath())
	if err != nil {
		return nil, err
	}

	words := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		words[e.Word] = struct{}{}
	}

	snap := &Snapshot{
		Version:   s.version.Add(1),
		Entries:   entries,
		stopwords: stopwords,
		words:     words,
	}
	s.current.Store(snap)
	return snap, nil
}

// Add appends word to the custom dictionary if absent and reloads.
// Returns false when the word was already present.
func (s *Store) Add(word string) (bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return false, apperrors.InvalidArgument("empty word")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := ParseDictFile(s.DictPath())
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Word == word {
			return false, nil
		}
	}
	entries = append(entries, Entry{Word: word, Frequency: DefaultFrequency, Tag: DefaultTag})
	if err := writeDictFile(s.DictPath(), entries); err != nil {
		return false, err
	}
	if _, err := s.reloadLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes word from the custom dictionary and reloads.
// Returns NotFound when the word is not present.
func (s *Store) Remove(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return apperrors.InvalidArgument("empty word")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := ParseDictFile(s.DictPath())
	if err != nil {
		return err
	}
	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.Word == word {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return apperrors.NotFound("word %q", word)
	}
	if err := writeDictFile(s.DictPath(), kept); err != nil {
		return err
	}
	_, err = s.reloadLocked()
	return err
}

// Replace overwrites the whole custom dictionary file with content
// (original line format) and reloads.
func (s *Store) Replace(content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.DictPath(), content); err != nil {
		return err
	}
	_, err := s.reloadLocked()
	return err
}

// ParseDictLine parses one non-comment dictionary line.
//
// Format: word [frequency [tag]], whitespace separated. A malformed
// frequency falls back to DefaultFrequency, matching the tolerant reader
// the dictionary has always had.
func ParseDictLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false
	}
	fields := strings.Fields(line)
	e := Entry{Word: fields[0], Frequency: DefaultFrequency, Tag: DefaultTag}
	if len(fields) >= 2 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			e.Frequency = n
		}
	}
	if len(fields) >= 3 {
		e.Tag = fields[2]
	}
	return e, true
}

// ParseDictFile reads all entries from path. A missing file is an empty
// dictionary, not an error. Duplicate words keep the first occurrence.
func ParseDictFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer func() { _ = f.Close() }()

	seen := make(map[string]struct{})
	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		e, ok := ParseDictLine(sc.Text())
		if !ok {
			continue
		}
		if _, dup := seen[e.Word]; dup {
			continue
		}
		seen[e.Word] = struct{}{}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return entries, nil
}

func loadStopwords(path string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w != "" {
			out[w] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}
	return out, nil
}

func writeDictFile(path string, entries []Entry) error {
	var sb strings.Builder
	for _, e := range entries {
		if e.Frequency == DefaultFrequency && e.Tag == DefaultTag {
			sb.WriteString(e.Word)
		} else {
			fmt.Fprintf(&sb, "%s %d %s", e.Word, e.Frequency, e.Tag)
		}
		sb.WriteByte('\n')
	}
	return writeFileAtomic(path, []byte(sb.String()))
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dicts dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
