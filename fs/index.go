// Package fs provides file-based storage for the name index.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/castindex"
)

// DefaultIndexPath is the file the index is written to when no path is configured.
const DefaultIndexPath = "searchTerms.json"

// Ensure IndexStore implements castindex.IndexStore at compile time.
var _ castindex.IndexStore = (*IndexStore)(nil)

// IndexStore implements castindex.IndexStore as a single JSON object mapping
// each word to its title list, indented by four spaces.
// Saves go to path.tmp first and are renamed over path once complete.
type IndexStore struct {
	path string
}

// NewIndexStore creates an IndexStore backed by the file at path.
func NewIndexStore(path string) *IndexStore {
	return &IndexStore{path: path}
}

// Path returns the index file path.
func (s *IndexStore) Path() string {
	return s.path
}

func (s *IndexStore) tempPath() string {
	return s.path + ".tmp"
}

// SaveIndex writes idx, replacing any previous file.
func (s *IndexStore) SaveIndex(ctx context.Context, idx castindex.Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if idx == nil {
		idx = castindex.Index{}
	}

	data, err := Encode(idx)
	if err != nil {
		return castindex.Errorf(castindex.EPERSIST, "encode index: %v", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return castindex.Errorf(castindex.EPERSIST, "create index directory: %v", err)
		}
	}

	if err := os.WriteFile(s.tempPath(), data, 0644); err != nil {
		return castindex.Errorf(castindex.EPERSIST, "write index: %v", err)
	}

	// Atomically replace the previous index
	if err := os.Rename(s.tempPath(), s.path); err != nil {
		_ = os.Remove(s.tempPath())
		return castindex.Errorf(castindex.EPERSIST, "replace index: %v", err)
	}
	return nil
}

// LoadIndex reads the index file.
func (s *IndexStore) LoadIndex(ctx context.Context) (castindex.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, castindex.Errorf(castindex.ENOTFOUND, "index file %s not found", s.path)
	}
	if err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "read index: %v", err)
	}

	idx, err := Decode(data)
	if err != nil {
		return nil, castindex.Errorf(castindex.EPERSIST, "decode index %s: %v", s.path, err)
	}
	return idx, nil
}

// Encode renders idx as an indented JSON object. Words are written in
// sorted order and titles in index order, duplicates included.
func Encode(idx castindex.Index) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(idx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses an index previously written by Encode.
func Decode(data []byte) (castindex.Index, error) {
	idx := castindex.Index{}
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	if idx == nil {
		idx = castindex.Index{}
	}
	return idx, nil
}
