package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"matrixterm/internal/world"
)

const (
	listWrapWidth  = 80
	listDateLayout = "02/01/2006 15:04"
)

var listFlagHelp = []string{
	"  -a  include hidden entries",
	"  -d  directories only",
	"  -f  files only",
	"  -l  long format with details",
	"  -h  human-readable sizes",
	"  -S  sort by size, largest first",
	"  -t  sort by modification time, newest first",
	"  flags combine, e.g. ls -la",
}

// listRequest is a parsed ls invocation.
type listRequest struct {
	path  string
	opts  world.Options
	long  bool
	human bool
}

func parseListArgs(args []string) (listRequest, error) {
	var req listRequest
	havePath := false
	flagsDone := false

	for _, arg := range args {
		if !flagsDone && arg == "--" {
			flagsDone = true
			continue
		}
		if !flagsDone && len(arg) > 1 && arg[0] == '-' {
			for _, f := range arg[1:] {
				switch f {
				case 'a':
					req.opts.ShowHidden = true
				case 'd':
					req.opts.OnlyDirectories = true
				case 'f':
					req.opts.OnlyFiles = true
				case 'l':
					req.long = true
				case 'h':
					req.human = true
				case 'S':
					req.opts.SortBy = world.SortSize
				case 't':
					req.opts.SortBy = world.SortModified
				default:
					return req, syntaxError("ls", "invalid option -- '%c'", f)
				}
			}
			continue
		}
		if havePath {
			return req, syntaxError("ls", "too many arguments")
		}
		req.path = arg
		havePath = true
	}
	return req, nil
}

func runList(_ context.Context, env *Env, args []string) (Output, error) {
	req, err := parseListArgs(args)
	if err != nil {
		return Output{}, err
	}

	path := expandHome(req.path)
	if path != "" && !filepath.IsAbs(path) {
		wd, err := env.FS.Getwd()
		if err != nil {
			return Output{}, &Error{Kind: IoFailure, Name: "ls", Err: err}
		}
		path = filepath.Join(wd, path)
	}

	listing, err := env.Lister.List(path, req.opts)
	if err != nil {
		return Output{}, pathError("ls", req.path, err)
	}
	return Output{Lines: renderListing(listing, req.long, req.human)}, nil
}

// renderListing formats a listing as plain text lines.
func renderListing(l *world.Listing, long, human bool) []string {
	lines := []string{"Directory: " + l.Directory, ""}
	if l.IsEmpty() {
		return append(lines, "empty directory")
	}

	if long {
		lines = append(lines,
			fmt.Sprintf("Total: %d items", len(l.Entries)),
			fmt.Sprintf("Directories: %d", l.DirCount),
			fmt.Sprintf("Files: %d", l.FileCount),
			fmt.Sprintf("Total size: %s", humanize.IBytes(uint64(l.TotalSize))),
			"",
		)
		return append(lines, renderLongTable(l.Entries, human)...)
	}
	return append(lines, wrapNames(l.Entries, listWrapWidth)...)
}

func displayName(fi world.FileInfo) string {
	if fi.IsDirectory {
		return fi.Name + "/"
	}
	return fi.Name
}

func formatSize(size int64, human bool) string {
	if human {
		return humanize.IBytes(uint64(size))
	}
	return fmt.Sprintf("%d", size)
}

func renderLongTable(entries []world.FileInfo, human bool) []string {
	header := []string{"Permissions", "Owner", "Group", "Size", "Modified", "Name"}
	rows := make([][]string, 0, len(entries))
	for _, fi := range entries {
		modified := ""
		if !fi.Modified.IsZero() {
			modified = fi.Modified.Format(listDateLayout)
		}
		rows = append(rows, []string{
			fi.Permissions,
			fi.Owner,
			fi.Group,
			formatSize(fi.Size, human),
			modified,
			displayName(fi),
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	format := func(cells []string) string {
		var b strings.Builder
		last := len(cells) - 1
		for i, cell := range cells {
			switch {
			case i == last:
				b.WriteString(cell)
			case i == 3: // size is right-aligned
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
				b.WriteString(cell)
				b.WriteString("  ")
			default:
				b.WriteString(cell)
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
				b.WriteString("  ")
			}
		}
		return b.String()
	}

	headerLine := format(header)
	out := []string{headerLine, strings.Repeat("-", lipgloss.Width(headerLine))}
	for _, row := range rows {
		out = append(out, format(row))
	}
	return out
}

// wrapNames packs names separated by two spaces into rows of at most width
// terminal cells. A name longer than width gets a row of its own.
func wrapNames(entries []world.FileInfo, width int) []string {
	var out []string
	var line strings.Builder
	lineWidth := 0

	for _, fi := range entries {
		name := displayName(fi)
		n := lipgloss.Width(name)
		if lineWidth > 0 && lineWidth+2+n > width {
			out = append(out, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString("  ")
			lineWidth += 2
		}
		line.WriteString(name)
		lineWidth += n
	}
	if lineWidth > 0 {
		out = append(out, line.String())
	}
	return out
}
