// Package world answers questions about the filesystem the session lives in:
// the working directory and the contents of a directory, one level deep.
package world

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a listed or entered path does not exist.
	ErrNotFound = errors.New("no such file or directory")

	// ErrNotDirectory is returned when a path exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// FileInfo is the metadata of one directory entry.
// It is built fresh on every listing.
type FileInfo struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	IsDirectory bool      `json:"is_directory"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`
	Permissions string    `json:"permissions"` // rwxr-xr-x
	Owner       string    `json:"owner"`
	Group       string    `json:"group"`
}

// IsHidden reports whether the entry is a dot-file.
func (f FileInfo) IsHidden() bool {
	return len(f.Name) > 0 && f.Name[0] == '.'
}

// SortBy selects the listing order.
type SortBy int

const (
	SortName     SortBy = iota // case-insensitive ascending
	SortSize                   // largest first
	SortModified               // newest first
)

func (s SortBy) String() string {
	switch s {
	case SortSize:
		return "size"
	case SortModified:
		return "modified"
	default:
		return "name"
	}
}

// Options controls filtering and ordering of a listing.
// OnlyDirectories together with OnlyFiles yields an empty listing.
type Options struct {
	ShowHidden      bool
	OnlyDirectories bool
	OnlyFiles       bool
	SortBy          SortBy
}

// Listing is the result of listing one directory.
type Listing struct {
	Directory string     `json:"directory"`
	Entries   []FileInfo `json:"entries"`

	// Totals cover every child of Directory, before filtering.
	FileCount int   `json:"file_count"`
	DirCount  int   `json:"dir_count"`
	TotalSize int64 `json:"total_size"` // files only

	// Skipped counts entries whose metadata could not be read at all.
	// They are still listed with placeholder values.
	Skipped int `json:"skipped"`
}

// IsEmpty reports whether nothing survived filtering.
func (l *Listing) IsEmpty() bool {
	return len(l.Entries) == 0
}
