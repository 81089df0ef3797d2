package world

import "io/fs"

// PermissionFormatter renders the permission and ownership columns of a
// long listing. The implementation is chosen per platform by build tags.
type PermissionFormatter interface {
	Permissions(info fs.FileInfo) string
	Ownership(info fs.FileInfo) (owner, group string)
}

// modeString renders the nine rwx bits of a mode.
func modeString(mode fs.FileMode) string {
	const rwx = "rwxrwxrwx"
	buf := []byte("---------")
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			buf[i] = rwx[i]
		}
	}
	return string(buf)
}

// placeholderFormatter is used where POSIX metadata is unavailable.
type placeholderFormatter struct{}

func (placeholderFormatter) Permissions(fs.FileInfo) string { return "rw-r--r--" }

func (placeholderFormatter) Ownership(fs.FileInfo) (string, string) { return "user", "group" }
