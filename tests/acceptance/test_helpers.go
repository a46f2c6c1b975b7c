package acceptance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DocumentHashes records the rendered pixel hash of every output page of one
// split document.
type DocumentHashes struct {
	Name  string         `json:"name"`
	Pages map[int]string `json:"pages"`
}

// HashStore keeps golden page hashes in testdata/expected_hashes.json. Run
// with UPDATE_TEST_DATA=true to rewrite the file from the current output.
type HashStore struct {
	path         string
	updateHashes bool
	hashes       map[string]DocumentHashes
}

func NewHashStore(testDataPath string) *HashStore {
	return &HashStore{
		path:         filepath.Join(testDataPath, "expected_hashes.json"),
		updateHashes: os.Getenv("UPDATE_TEST_DATA") == "true",
		hashes:       make(map[string]DocumentHashes),
	}
}

func (s *HashStore) Load() error {
	if s.updateHashes {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hash file: %w", err)
	}

	var docs []DocumentHashes
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to parse hash file: %w", err)
	}
	for _, d := range docs {
		s.hashes[d.Name] = d
	}
	return nil
}

func (s *HashStore) Save() error {
	if !s.updateHashes {
		return nil
	}

	docs := make([]DocumentHashes, 0, len(s.hashes))
	for _, d := range s.hashes {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal hashes: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create testdata dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write hash file: %w", err)
	}
	return nil
}

func (s *HashStore) Update(name string, pages map[int]string) {
	if !s.updateHashes {
		return
	}
	s.hashes[name] = DocumentHashes{Name: name, Pages: pages}
}

func (s *HashStore) Get(name string) (DocumentHashes, bool) {
	d, ok := s.hashes[name]
	return d, ok
}

func (s *HashStore) IsUpdateMode() bool {
	return s.updateHashes
}
