package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"aptwatcher/logger"
	"aptwatcher/pkg/errors"
)

// FileStore persists the seen-set as a JSON array of identifier strings
type FileStore struct {
	path string
	log  *logger.Logger
}

// NewFileStore creates a file-backed seen-set store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.ForStore(),
	}
}

// Load reads the seen-set from disk. A missing file is a normal first run.
// A corrupt or unreadable file is treated as empty (fail-open): re-notifying
// beats silently losing the monitor.
func (f *FileStore) Load() (SeenSet, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.Warn().
				Err(err).
				Str("path", f.path).
				Msg("Seen-set file unreadable, starting from empty set")
		}
		return NewSeenSet(), nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		f.log.Warn().
			Err(err).
			Str("path", f.path).
			Msg("Seen-set file corrupt, starting from empty set")
		return NewSeenSet(), nil
	}

	return NewSeenSet(ids...), nil
}

// Save writes the seen-set to disk via a temp file and rename so a failed
// write never leaves a truncated snapshot behind.
func (f *FileStore) Save(seen SeenSet) error {
	data, err := json.Marshal(seen.IDs())
	if err != nil {
		return errors.NewPersistence("store", "failed to encode seen-set", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".seen-*.json")
	if err != nil {
		return errors.NewPersistence("store", "failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewPersistence("store", "failed to write seen-set", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistence("store", "failed to close temp file", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistence("store", fmt.Sprintf("failed to replace %s", f.path), err)
	}

	return nil
}
