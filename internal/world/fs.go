package world

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"matrixterm/internal/logging"
)

// FileSystem is the filesystem surface the session needs: a working
// directory plus metadata queries. Relative names resolve against Getwd.
type FileSystem interface {
	Getwd() (string, error)
	Chdir(dir string) error
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// OSFS is the host filesystem with a session-local working directory.
// Chdir never changes the process working directory.
type OSFS struct {
	mu  sync.RWMutex
	dir string
}

// NewOSFS creates an OSFS rooted at dir ("" = the process working directory).
func NewOSFS(dir string) (*OSFS, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return &OSFS{dir: abs}, nil
}

// Getwd returns the current directory.
func (o *OSFS) Getwd() (string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.dir, nil
}

// Chdir moves the working directory after checking the target is a directory.
func (o *OSFS) Chdir(dir string) error {
	target := o.resolve(dir)
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, target)
		}
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, target)
	}

	o.mu.Lock()
	o.dir = target
	o.mu.Unlock()
	logging.WorldDebug("Changed directory to %s", target)
	return nil
}

// Stat follows symlinks, like ls without -l on most systems.
func (o *OSFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(o.resolve(name))
}

// ReadDir returns the direct children of name sorted by filename.
func (o *OSFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(o.resolve(name))
}

func (o *OSFS) resolve(name string) string {
	if name == "" {
		name = "."
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return filepath.Join(o.dir, name)
}
