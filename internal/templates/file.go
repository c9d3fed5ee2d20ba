package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type templateFile struct {
	Templates []domain.CategoryTemplate `yaml:"templates"`
}

// FileStore keeps templates in a YAML file. The file is read once and cached;
// writes go to a temporary file that is renamed over the original.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu        sync.RWMutex
	loaded    bool
	templates []domain.CategoryTemplate
}

// NewFileStore creates a store backed by path. The file does not need to exist.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Templates() []domain.CategoryTemplate {
	f.mu.RLock()
	if f.loaded {
		defer f.mu.RUnlock()
		return clone(f.templates)
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded {
		f.templates = f.load()
		f.loaded = true
	}
	return clone(f.templates)
}

func (f *FileStore) SaveAll(ctx context.Context, templates []domain.CategoryTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(templateFile{Templates: templates})
	if err != nil {
		return fmt.Errorf("SaveAll: marshal templates: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := writeAtomic(f.path, data); err != nil {
		return fmt.Errorf("SaveAll: %w", err)
	}
	f.templates = clone(templates)
	f.loaded = true

	f.log.Debug().Str("path", f.path).Int("templates", len(templates)).Msg("Templates saved")
	return nil
}

// load reads the file. A missing or corrupted file yields an empty list.
func (f *FileStore) load() []domain.CategoryTemplate {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("Could not read templates file")
		return nil
	}

	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("Templates file is corrupted, ignoring it")
		return nil
	}
	return tf.Templates
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating templates dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".templates-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
