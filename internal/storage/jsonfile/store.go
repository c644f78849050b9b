package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// Store keeps the whole catalog in a single JSON file. Reads and writes always
// cover the full document; WriteAll goes through a temp file plus rename so a
// reader never observes a half-written document.
type Store struct{ path string }

func New(path string) *Store { return &Store{path: path} }

// ReadAll returns the persisted document. A missing or empty file is an empty
// catalog, not an error.
func (s *Store) ReadAll(ctx context.Context) (domain.HotelDocument, error) {
	doc, err := s.readAll(ctx)
	observability.ObserveStore("read", err)
	return doc, err
}

func (s *Store) readAll(ctx context.Context) (domain.HotelDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.HotelDocument{}, nil
		}
		return nil, fmt.Errorf("read hotels file: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return domain.HotelDocument{}, nil
	}
	var doc domain.HotelDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse hotels file: %w", err)
	}
	return doc, nil
}

// WriteAll replaces the backing document with doc.
func (s *Store) WriteAll(ctx context.Context, doc domain.HotelDocument) error {
	err := s.writeAll(ctx, doc)
	observability.ObserveStore("write", err)
	return err
}

func (s *Store) writeAll(ctx context.Context, doc domain.HotelDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc == nil {
		doc = domain.HotelDocument{} // encode as [], never null
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode hotels: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".hotels-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write hotels file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace hotels file: %w", err)
	}
	return nil
}
