//go:build windows

package world

// NewPermissionFormatter returns the placeholder formatter; Windows has no
// POSIX mode bits or numeric owners.
func NewPermissionFormatter() PermissionFormatter {
	return placeholderFormatter{}
}
