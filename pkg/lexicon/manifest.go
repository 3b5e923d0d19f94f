package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedManifest describes initial lexical resources. Used to bootstrap a
// fresh data directory; existing flat files always win.
type SeedManifest struct {
	Stopwords  []string    `yaml:"stopwords"`
	Dictionary []SeedEntry `yaml:"dictionary"`
}

// SeedEntry is one dictionary entry in a seed manifest.
type SeedEntry struct {
	Word      string `yaml:"word"`
	Frequency int    `yaml:"frequency"`
	Tag       string `yaml:"tag"`
}

// LoadSeedManifest parses a YAML seed manifest from path.
func LoadSeedManifest(path string) (*SeedManifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed manifest: %w", err)
	}
	var m SeedManifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse seed manifest %s: %w", path, err)
	}
	return &m, nil
}

// Seed writes the manifest's resources for any flat file that does not
// exist yet, then reloads. Files that already exist are left untouched.
func (s *Store) Seed(m *SeedManifest) error {
	if m == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.StopwordsPath()); os.IsNotExist(err) && len(m.Stopwords) > 0 {
		content := strings.Join(m.Stopwords, "\n") + "\n"
		if err := writeFileAtomic(s.StopwordsPath(), []byte(content)); err != nil {
			return err
		}
	}

	if _, err := os.Stat(s.DictPath()); os.IsNotExist(err) && len(m.Dictionary) > 0 {
		entries := make([]Entry, 0, len(m.Dictionary))
		seen := make(map[string]struct{}, len(m.Dictionary))
		for _, se := range m.Dictionary {
			word := strings.TrimSpace(se.Word)
			if word == "" {
				continue
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			e := Entry{Word: word, Frequency: se.Frequency, Tag: se.Tag}
			if e.Frequency <= 0 {
				e.Frequency = DefaultFrequency
			}
			if e.Tag == "" {
				e.Tag = DefaultTag
			}
			entries = append(entries, e)
		}
		if err := writeDictFile(s.DictPath(), entries); err != nil {
			return err
		}
	}

	_, err := s.reloadLocked()
	return err
}
