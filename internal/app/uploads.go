package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/semaphore"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// Upload constraints, enforced per file and per request during parsing.
const (
	MaxImageBytes = 5 << 20 // per file
	MaxImageCount = 10      // per request
)

// UploadService stores uploaded image files under a per-hotel directory and
// appends their public paths to the owning record. File writes and the
// document write are two sequential fallible steps with no compensating
// rollback: a crash in between leaves orphaned files on disk.
type UploadService struct {
	store domain.HotelStore
	cache domain.Cache
	gate  *semaphore.Weighted
	dir   string
}

// NewUploadService wires the service. gate must be the same semaphore the
// catalog service writes under; cache may be nil.
func NewUploadService(store domain.HotelStore, cache domain.Cache, gate *semaphore.Weighted, dir string) *UploadService {
	if gate == nil {
		gate = semaphore.NewWeighted(1)
	}
	return &UploadService{store: store, cache: cache, gate: gate, dir: dir}
}

// SaveFile streams one uploaded part to <dir>/<hotelID>/<basename> and
// returns the file's public URL. hotelID must be a single path element; values
// with separators or dot components are rejected before anything touches the
// disk. The original filename is kept, so a repeated name overwrites the
// previous file (last write wins). A part larger than MaxImageBytes is removed
// again and rejected; earlier files of the same request stay on disk.
func (s *UploadService) SaveFile(hotelID, filename string, r io.Reader) (string, error) {
	if id := filepath.Base(filepath.Clean(hotelID)); id != hotelID || id == "." || id == ".." {
		return "", fmt.Errorf("unusable hotel id %q", hotelID)
	}
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("unusable filename %q", filename)
	}

	dir := filepath.Join(s.dir, hotelID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxImageBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if n > MaxImageBytes {
		os.Remove(f.Name())
		observability.ObserveUploadRejected()
		return "", domain.ErrFileTooLarge
	}

	observability.ObserveUpload(n)
	return "/uploads/" + hotelID + "/" + name, nil
}

// Attach appends urls to the matching hotel's image list, in order, and
// persists the document exactly once. When the hotel is missing the files
// already written stay on disk; the directory is keyed by hotel_id and gets
// reused on the next attempt.
func (s *UploadService) Attach(ctx context.Context, hotelID string, urls []string) (domain.HotelRecord, error) {
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return domain.HotelRecord{}, err
	}
	defer s.gate.Release(1)

	doc, err := s.store.ReadAll(ctx)
	if err != nil {
		return domain.HotelRecord{}, err
	}
	idx := -1
	for i, r := range doc {
		if r.HotelID.Matches(hotelID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.HotelRecord{}, domain.ErrNotFound
	}

	doc[idx].Images = append(doc[idx].Images, urls...)
	if err := s.store.WriteAll(ctx, doc); err != nil {
		return domain.HotelRecord{}, fmt.Errorf("update hotel record: %w", err)
	}
	invalidate(ctx, s.cache, hotelID)
	return doc[idx], nil
}
