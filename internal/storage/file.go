package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in one JSON document on disk. The document is
// loaded once and rewritten in full on each mutation.
type FileStore struct {
	doc  fileDocument
	path string
	mu   sync.Mutex
}

// fileDocument is the on-disk layout. Compact JSON values are kept inline so
// the file stays readable; anything else is kept as base64 under Raw.
type fileDocument struct {
	Values map[string]json.RawMessage `json:"values"`
	Raw    map[string][]byte          `json:"raw,omitempty"`
}

func newFileDocument() fileDocument {
	return fileDocument{
		Values: make(map[string]json.RawMessage),
		Raw:    make(map[string][]byte),
	}
}

// NewFileStore loads path, or starts empty if it does not exist yet.
// A document that cannot be decoded is discarded and logged.
func NewFileStore(path string) (*FileStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	fs := &FileStore{path: path, doc: newFileDocument()}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	if len(data) > 0 {
		doc, err := decodeFileDocument(data)
		if err != nil {
			slog.Warn("storage file is not readable, starting empty",
				"path", path,
				"error", err)
			doc = newFileDocument()
		}
		fs.doc = doc
	}

	return fs, nil
}

// decodeFileDocument reverses flush. Inline values were compact when stored,
// so compacting them again undoes the indentation added on disk.
func decodeFileDocument(data []byte) (fileDocument, error) {
	doc := newFileDocument()
	if err := json.Unmarshal(data, &doc); err != nil {
		return fileDocument{}, err
	}
	if doc.Values == nil {
		doc.Values = make(map[string]json.RawMessage)
	}
	if doc.Raw == nil {
		doc.Raw = make(map[string][]byte)
	}
	for key, value := range doc.Values {
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return fileDocument{}, fmt.Errorf("value %q: %w", key, err)
		}
		doc.Values[key] = buf.Bytes()
	}
	return doc, nil
}

// isCompactJSON reports whether value is valid JSON that json.Compact leaves unchanged.
func isCompactJSON(value []byte) bool {
	if !json.Valid(value) {
		return false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return false
	}
	return bytes.Equal(buf.Bytes(), value)
}

// Get returns the value stored under key.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(ctx, key); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if value, ok := f.doc.Values[key]; ok {
		return append([]byte(nil), value...), nil
	}
	if value, ok := f.doc.Raw[key]; ok {
		return append([]byte{}, value...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// Set replaces the value stored under key and rewrites the file.
func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	value = append([]byte{}, value...)

	f.mu.Lock()
	defer f.mu.Unlock()

	prev := f.snapshot(key)
	delete(f.doc.Values, key)
	delete(f.doc.Raw, key)
	if isCompactJSON(value) {
		f.doc.Values[key] = value
	} else {
		f.doc.Raw[key] = value
	}
	if err := f.flush(); err != nil {
		f.restore(key, prev)
		return err
	}
	return nil
}

// Remove deletes key and rewrites the file.
func (f *FileStore) Remove(ctx context.Context, key string) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev := f.snapshot(key)
	if !prev.present {
		return nil
	}
	delete(f.doc.Values, key)
	delete(f.doc.Raw, key)
	if err := f.flush(); err != nil {
		f.restore(key, prev)
		return err
	}
	return nil
}

type entrySnapshot struct {
	value   []byte
	inline  bool
	present bool
}

func (f *FileStore) snapshot(key string) entrySnapshot {
	if v, ok := f.doc.Values[key]; ok {
		return entrySnapshot{value: v, inline: true, present: true}
	}
	if v, ok := f.doc.Raw[key]; ok {
		return entrySnapshot{value: v, present: true}
	}
	return entrySnapshot{}
}

func (f *FileStore) restore(key string, prev entrySnapshot) {
	delete(f.doc.Values, key)
	delete(f.doc.Raw, key)
	switch {
	case !prev.present:
	case prev.inline:
		f.doc.Values[key] = prev.value
	default:
		f.doc.Raw[key] = prev.value
	}
}

// Close is a no-op; every mutation is already on disk.
func (f *FileStore) Close() error {
	return nil
}

// flush writes the document to a temp file and renames it over the old one.
func (f *FileStore) flush() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".bolso-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close storage file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set storage file mode: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
