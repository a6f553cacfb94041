package embeddings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Store persists topic embeddings as a single JSON file mapping original topic
// text to its vector. The file is loaded and rewritten wholesale; a missing or
// structurally invalid file is treated as an empty store, never as a hard
// failure. Writes within one process are serialized; concurrent writers from
// different processes are not coordinated (last writer wins).
type Store struct {
	path   string
	logger *zerolog.Logger

	mu sync.Mutex
}

// NewStore creates an embedding store backed by the file at path.
func NewStore(path string, logger *zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all persisted embeddings. A missing or corrupt file yields an
// empty map and a warning log, never an error.
func (s *Store) Load() map[string][]float32 {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("embedding store unreadable, treating as empty")
		}

		return map[string][]float32{}
	}

	var out map[string][]float32
	if err := json.Unmarshal(data, &out); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("embedding store corrupt, treating as empty")

		return map[string][]float32{}
	}

	if out == nil {
		out = map[string][]float32{}
	}

	return out
}

// Save rewrites the persisted state wholesale. The write goes through a temp
// file and rename so readers never observe a partial file.
func (s *Store) Save(embeddings map[string][]float32) error {
	data, err := json.Marshal(embeddings)
	if err != nil {
		return fmt.Errorf("marshal embeddings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create embedding store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp embedding file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("write embeddings: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("close temp embedding file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("replace embedding store: %w", err)
	}

	return nil
}

// Upsert sets one topic's vector and rewrites the store. Last writer wins.
func (s *Store) Upsert(topic string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.Load()
	all[topic] = vector

	return s.Save(all)
}

// RemoveMissing prunes entries whose topic is not in validTopics. Used as a
// garbage collection pass after posts are deleted. Returns the number of
// entries removed.
func (s *Store) RemoveMissing(validTopics map[string]struct{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.Load()
	if len(all) == 0 {
		return 0, nil
	}

	removed := 0

	for topic := range all {
		if _, ok := validTopics[topic]; !ok {
			delete(all, topic)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}

	if err := s.Save(all); err != nil {
		return 0, err
	}

	return removed, nil
}

// StoreStats summarizes the persisted embeddings.
type StoreStats struct {
	TotalEmbeddings int   `json:"total_embeddings"`
	FileSizeBytes   int64 `json:"file_size_bytes"`
}

// Stats reports entry count and backing file size.
func (s *Store) Stats() StoreStats {
	stats := StoreStats{TotalEmbeddings: len(s.Load())}

	if info, err := os.Stat(s.path); err == nil {
		stats.FileSizeBytes = info.Size()
	}

	return stats
}
