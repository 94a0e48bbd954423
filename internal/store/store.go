// Package store implements the artifact store: a month-keyed directory
// tree of downloaded report images, written atomically, plus the
// in-memory dedup index rebuilt from it at startup. The filesystem is
// the sole source of truth for what was downloaded; the index is a
// rebuildable projection.
package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// dirPerm is the permission used for created store directories.
const dirPerm = 0o755

// artifactFilePattern matches materialized artifact files.
var artifactFilePattern = regexp.MustCompile(`(?i)^ppi-.+\.(jpg|jpeg)$`)

// Artifact is one materialized report image.
type Artifact struct {
	// ID is the canonical identifier (file name without extension).
	ID string
	// Path is the absolute location in the store.
	Path string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the materialization timestamp.
	ModTime time.Time
}

// MonthDir returns the MM-YYYY folder the artifact lives in, or the
// empty string for artifacts at the store root.
func (a Artifact) MonthDir() string {
	dir := filepath.Base(filepath.Dir(a.Path))
	if monthDirPattern.MatchString(dir) {
		return dir
	}
	return ""
}

// monthDirPattern matches MM-YYYY monthly folders.
var monthDirPattern = regexp.MustCompile(`^\d{2}-\d{4}$`)

// Store is a directory tree of artifacts keyed by canonical identifier.
type Store struct {
	root string
}

// New opens (creating if needed) the artifact store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create artifact store %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the destination path for an artifact identifier inside
// the given monthly folder.
func (s *Store) Path(monthDir, id, ext string) string {
	return filepath.Join(s.root, monthDir, id+ext)
}

// Write materializes an artifact atomically: the data is written to a
// temporary file in the destination directory and renamed into place,
// so a crash mid-write never leaves a partial artifact visible.
func (s *Store) Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// List enumerates all artifacts in the store, sorted by identifier.
func (s *Store) List() ([]Artifact, error) {
	var artifacts []Artifact

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !artifactFilePattern.MatchString(d.Name()) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		name := d.Name()
		artifacts = append(artifacts, Artifact{
			ID:      strings.TrimSuffix(name, filepath.Ext(name)),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifact store %s: %w", s.root, err)
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].ID < artifacts[j].ID })
	return artifacts, nil
}

// Scan rebuilds the dedup index from the artifacts present on disk.
func (s *Store) Scan() (*Index, error) {
	artifacts, err := s.List()
	if err != nil {
		return nil, err
	}

	idx := NewIndex()
	for _, a := range artifacts {
		idx.Record(a.ID)
	}
	return idx, nil
}
