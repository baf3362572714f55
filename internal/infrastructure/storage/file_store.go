package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"CropInsights/internal/domain"
	"CropInsights/internal/ports"
)

const bundleExt = ".json"

// FileStore keeps one JSON document per date plus a single marker file.
// Writes go through a temp file and rename, so readers never observe a
// half-written bundle and concurrent writers resolve to last-rename-wins.
type FileStore struct {
	dir        string
	markerPath string
}

var _ ports.InsightStore = (*FileStore)(nil)

// NewFileStore creates the bundle directory and the marker's parent if needed.
func NewFileStore(dir, markerPath string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(markerPath), 0o755); err != nil {
		return nil, fmt.Errorf("create marker dir: %w", err)
	}
	return &FileStore{dir: dir, markerPath: markerPath}, nil
}

// Save overwrites the bundle for its date.
func (s *FileStore) Save(ctx context.Context, bundle domain.InsightBundle) error {
	path, err := s.bundlePath(bundle.Date)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(bundle, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal bundle %s: %w", bundle.Date, err)
	}

	if err := writeAtomic(path, payload); err != nil {
		return fmt.Errorf("write bundle %s: %w", bundle.Date, err)
	}
	return nil
}

// Load returns domain.ErrNotFound when no bundle exists for the date.
func (s *FileStore) Load(ctx context.Context, date string) (domain.InsightBundle, error) {
	path, err := s.bundlePath(date)
	if err != nil {
		return domain.InsightBundle{}, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.InsightBundle{}, fmt.Errorf("bundle %s: %w", date, domain.ErrNotFound)
	}
	if err != nil {
		return domain.InsightBundle{}, fmt.Errorf("read bundle %s: %w", date, err)
	}

	var bundle domain.InsightBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return domain.InsightBundle{}, fmt.Errorf("decode bundle %s: %w", date, err)
	}
	return bundle, nil
}

// ListDates returns every stored date key in ascending order.
func (s *FileStore) ListDates(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list store dir: %w", err)
	}

	dates := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, bundleExt) {
			continue
		}
		key := strings.TrimSuffix(name, bundleExt)
		if _, err := domain.ParseDate(key); err != nil {
			continue
		}
		dates = append(dates, key)
	}

	sort.Strings(dates)
	return dates, nil
}

// MarkRun overwrites the marker with the given date.
func (s *FileStore) MarkRun(ctx context.Context, date string) error {
	payload, err := json.Marshal(domain.LastRunMarker{LastExecution: date})
	if err != nil {
		return fmt.Errorf("marshal marker: %w", err)
	}
	if err := writeAtomic(s.markerPath, payload); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

// LastRun reports false when no run has been recorded yet.
func (s *FileStore) LastRun(ctx context.Context) (string, bool, error) {
	raw, err := os.ReadFile(s.markerPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read marker: %w", err)
	}

	var marker domain.LastRunMarker
	if err := json.Unmarshal(raw, &marker); err != nil {
		return "", false, fmt.Errorf("decode marker: %w", err)
	}
	if marker.LastExecution == "" {
		return "", false, nil
	}
	return marker.LastExecution, true, nil
}

func (s *FileStore) bundlePath(date string) (string, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, date+bundleExt), nil
}

func writeAtomic(path string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
