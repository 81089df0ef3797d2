package world

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"matrixterm/internal/logging"
)

// Lister builds directory listings over a FileSystem.
type Lister struct {
	fs    FileSystem
	perms PermissionFormatter
}

// NewLister creates a Lister using the platform permission formatter.
func NewLister(fsys FileSystem) *Lister {
	return &Lister{fs: fsys, perms: NewPermissionFormatter()}
}

// NewListerWithFormatter creates a Lister with an explicit permission formatter.
func NewListerWithFormatter(fsys FileSystem, perms PermissionFormatter) *Lister {
	return &Lister{fs: fsys, perms: perms}
}

// List returns the direct children of path ("" = current directory).
func (l *Lister) List(path string, opts Options) (*Listing, error) {
	timer := logging.StartTimer(logging.CategoryWorld, "Directory listing")
	defer timer.Stop()

	if path == "" {
		wd, err := l.fs.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = wd
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	entries, err := l.fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	listing := &Listing{Directory: path}
	for _, entry := range entries {
		fi, ok := l.describe(path, entry)
		if !ok {
			listing.Skipped++
		}
		listing.count(fi)
		if opts.keep(fi) {
			listing.Entries = append(listing.Entries, fi)
		}
	}

	sortEntries(listing.Entries, opts.SortBy)

	if listing.Skipped > 0 {
		logging.WorldWarn("Listing %s: %d entries without metadata", path, listing.Skipped)
	}
	logging.WorldDebug("Listed %s: %d dirs, %d files, %d bytes (sort=%s)",
		path, listing.DirCount, listing.FileCount, listing.TotalSize, opts.SortBy)

	return listing, nil
}

// describe builds a FileInfo for one entry. The second return is false when
// the entry could not be stat'ed and placeholders were used.
func (l *Lister) describe(dir string, entry fs.DirEntry) (FileInfo, bool) {
	fi := FileInfo{
		Name:        entry.Name(),
		Path:        filepath.Join(dir, entry.Name()),
		IsDirectory: entry.IsDir(),
		Permissions: "?????????",
		Owner:       "?",
		Group:       "?",
	}

	info, err := entry.Info()
	if err != nil {
		logging.WorldDebug("Metadata unavailable for %s: %v", fi.Path, err)
		return fi, false
	}

	// Follow symlinks so a link to a directory lists as a directory.
	if info.Mode()&fs.ModeSymlink != 0 {
		if target, err := l.fs.Stat(fi.Path); err == nil {
			info = target
		}
	}

	fi.IsDirectory = info.IsDir()
	if !fi.IsDirectory {
		fi.Size = info.Size()
	}
	fi.Modified = info.ModTime()
	fi.Permissions = l.perms.Permissions(info)
	fi.Owner, fi.Group = l.perms.Ownership(info)
	return fi, true
}

func (o Options) keep(fi FileInfo) bool {
	if !o.ShowHidden && fi.IsHidden() {
		return false
	}
	if o.OnlyDirectories && !fi.IsDirectory {
		return false
	}
	if o.OnlyFiles && fi.IsDirectory {
		return false
	}
	return true
}

// count adds fi to the running totals. Every child is counted, whether or
// not it survives the filters.
func (l *Listing) count(fi FileInfo) {
	if fi.IsDirectory {
		l.DirCount++
	} else {
		l.FileCount++
		l.TotalSize += fi.Size
	}
}

func sortEntries(entries []FileInfo, by SortBy) {
	byName := func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	}

	switch by {
	case SortSize:
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Size != entries[j].Size {
				return entries[i].Size > entries[j].Size
			}
			return byName(i, j)
		})
	case SortModified:
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].Modified.Equal(entries[j].Modified) {
				return entries[i].Modified.After(entries[j].Modified)
			}
			return byName(i, j)
		})
	default:
		sort.SliceStable(entries, byName)
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
