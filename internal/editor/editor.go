// Package editor holds the single-line input buffer and its cursor.
// The buffer is indexed by rune so multi-byte input never splits a
// character; the cursor always stays within [0, Len()].
package editor

import "fmt"

// Line is the editable command line.
type Line struct {
	buf    []rune
	cursor int
}

// New returns an empty line.
func New() *Line {
	return &Line{}
}

// Value returns the buffer contents.
func (l *Line) Value() string {
	return string(l.buf)
}

// Len returns the buffer length in runes.
func (l *Line) Len() int {
	return len(l.buf)
}

// Cursor returns the cursor offset in runes.
func (l *Line) Cursor() int {
	return l.cursor
}

// Insert puts r at the cursor and advances past it.
func (l *Line) Insert(r rune) {
	l.buf = append(l.buf, 0)
	copy(l.buf[l.cursor+1:], l.buf[l.cursor:])
	l.buf[l.cursor] = r
	l.cursor++
}

// InsertString inserts every rune of s at the cursor (paste).
func (l *Line) InsertString(s string) {
	for _, r := range s {
		l.Insert(r)
	}
}

// Backspace removes the rune before the cursor. No-op at the start.
func (l *Line) Backspace() {
	if l.cursor == 0 {
		return
	}
	l.buf = append(l.buf[:l.cursor-1], l.buf[l.cursor:]...)
	l.cursor--
}

// Delete removes the rune under the cursor. No-op at the end.
func (l *Line) Delete() {
	if l.cursor >= len(l.buf) {
		return
	}
	l.buf = append(l.buf[:l.cursor], l.buf[l.cursor+1:]...)
}

// Left moves the cursor one rune back.
func (l *Line) Left() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Right moves the cursor one rune forward.
func (l *Line) Right() {
	if l.cursor < len(l.buf) {
		l.cursor++
	}
}

// Home moves the cursor to the start.
func (l *Line) Home() {
	l.cursor = 0
}

// End moves the cursor past the last rune.
func (l *Line) End() {
	l.cursor = len(l.buf)
}

// Clear empties the buffer.
func (l *Line) Clear() {
	l.buf = l.buf[:0]
	l.cursor = 0
}

// SetValue replaces the buffer and moves the cursor to the end.
func (l *Line) SetValue(s string) {
	l.buf = []rune(s)
	l.cursor = len(l.buf)
}

// Split returns the text before and after the cursor, for rendering.
func (l *Line) Split() (before, after string) {
	return string(l.buf[:l.cursor]), string(l.buf[l.cursor:])
}

// String returns a debug representation.
func (l *Line) String() string {
	return fmt.Sprintf("Line(%q, cursor=%d)", l.Value(), l.cursor)
}
