package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/leadscout/linkedin-post-parser/internal/domain"
	"github.com/leadscout/linkedin-post-parser/pkg/errors"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Logger logger.Logger
}

// Store persists PostRecord collections as a UTF-8 JSON array. Writes go to
// a temp file in the target directory and are renamed into place, so a crash
// never leaves a truncated collection behind.
type Store struct {
	Logger logger.Logger
}

func New(opts Opts) *Store {
	return &Store{
		Logger: opts.Logger,
	}
}

// Load reads a collection from path. A missing file is an empty collection,
// not an error.
func (s *Store) Load(path string) ([]*domain.PostRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read collection")
	}

	var records []*domain.PostRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode collection")
	}
	return records, nil
}

// Save atomically replaces the collection at path.
func (s *Store) Save(path string, records []*domain.PostRecord) error {
	if records == nil {
		records = []*domain.PostRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode collection")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to replace collection file")
	}

	s.Logger.Debug("Saved collection", "path", path, "records", len(records))
	return nil
}

// SaveOne writes a single parsed record into dir, named after its identity.
// Returns the file path.
func (s *Store) SaveOne(dir string, rec *domain.PostRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}

	path := filepath.Join(dir, FileNameFor(rec)+".json")
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode record")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write record")
	}
	return path, nil
}

// FileNameFor derives a filesystem-safe base name from the record identity.
func FileNameFor(rec *domain.PostRecord) string {
	return SafeFileName(rec.Identity())
}

var unsafeChars = strings.NewReplacer("/", "_", ":", "_", "?", "_", "&", "_", "=", "_", "#", "_")

// SafeFileName strips the URL scheme and replaces path characters so the
// value can be used as a file name.
func SafeFileName(name string) string {
	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "http://")
	return unsafeChars.Replace(name)
}
