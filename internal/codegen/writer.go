package codegen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// WriteReport lists what a write changed.
type WriteReport struct {
	Written   []string
	Unchanged []string
	Removed   []string
}

// Changed reports whether anything was written or removed.
func (r *WriteReport) Changed() bool {
	return len(r.Written) > 0 || len(r.Removed) > 0
}

// Writer persists generated files. Files whose content hash matches the
// file on disk are left untouched so build caches stay warm.
type Writer struct {
	// DryRun computes the report without touching the filesystem.
	DryRun bool
	Logger *zap.Logger
}

// Write writes files and removes stale generated files found in dirs.
func (w *Writer) Write(files []File, dirs []string) (*WriteReport, error) {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	report := &WriteReport{}
	keep := make(map[string]bool, len(files))

	sorted := append([]File(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path() < sorted[j].Path() })
	for _, f := range sorted {
		path := f.Path()
		keep[path] = true
		same, err := sameContent(path, f.Content)
		if err != nil {
			return report, err
		}
		if same {
			report.Unchanged = append(report.Unchanged, path)
			continue
		}
		if !w.DryRun {
			if err := os.WriteFile(path, f.Content, 0o644); err != nil {
				return report, fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
		logger.Debug("wrote generated file", zap.String("path", path))
		report.Written = append(report.Written, path)
	}

	stale, err := staleFiles(dirs, keep)
	if err != nil {
		return report, err
	}
	for _, path := range stale {
		if !w.DryRun {
			if err := os.Remove(path); err != nil {
				return report, fmt.Errorf("failed to remove %s: %w", path, err)
			}
		}
		logger.Debug("removed stale generated file", zap.String("path", path))
		report.Removed = append(report.Removed, path)
	}
	return report, nil
}

// Checksum returns the hex SHA-256 of content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func sameContent(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Checksum(existing) == Checksum(content), nil
}

// staleFiles returns generated files in dirs not listed in keep.
func staleFiles(dirs []string, keep map[string]bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, dir := range dirs {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !IsGeneratedFileName(e.Name()) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if keep[path] {
				continue
			}
			generated, err := hasGeneratedHeader(path)
			if err != nil {
				return nil, err
			}
			if generated {
				out = append(out, path)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func hasGeneratedHeader(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return bytes.HasPrefix(data, []byte(GeneratedHeader)), nil
}
