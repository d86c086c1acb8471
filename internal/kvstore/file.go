package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in one JSON document on disk, mirroring the
// per-origin storage area a browser offers.
type FileStore struct {
	path string

	mu    sync.Mutex
	known map[string]string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	store := &FileStore{path: abs, known: map[string]string{}}
	if doc, err := store.readDocument(); err == nil {
		store.remember(doc)
	}
	return store, nil
}

// Path returns the absolute location of the backing document.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDocument()
	if err != nil {
		return nil, err
	}
	value, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDocument()
	if err != nil {
		// A corrupt document is replaced rather than blocking every write.
		doc = map[string]json.RawMessage{}
	}
	doc[key] = json.RawMessage(value)

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage document: %w", err)
	}
	if err := writeAtomic(f.path, encoded); err != nil {
		return err
	}
	f.remember(doc)
	return nil
}

func (f *FileStore) Ping(context.Context) error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat storage dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// changedKeys re-reads the document and reports keys whose raw value differs
// from the last state this store observed or wrote.
func (f *FileStore) changedKeys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDocument()
	if errors.Is(err, ErrNotFound) {
		doc = map[string]json.RawMessage{}
	} else if err != nil {
		return nil, err
	}

	var changed []string
	for key, value := range doc {
		if prev, ok := f.known[key]; !ok || prev != string(value) {
			changed = append(changed, key)
		}
	}
	for key := range f.known {
		if _, ok := doc[key]; !ok {
			changed = append(changed, key)
		}
	}
	f.remember(doc)
	return changed, nil
}

func (f *FileStore) remember(doc map[string]json.RawMessage) {
	known := make(map[string]string, len(doc))
	for key, value := range doc {
		known[key] = string(value)
	}
	f.known = known
}

// readDocument returns ErrNotFound when the file does not exist yet.
func (f *FileStore) readDocument() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read storage document: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode storage document: %w", err)
	}
	return doc, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage document: %w", err)
	}
	return nil
}
