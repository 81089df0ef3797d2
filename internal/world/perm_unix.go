//go:build !windows

package world

import (
	"io/fs"
	"os/user"
	"strconv"
	"sync"
	"syscall"
)

// NewPermissionFormatter returns the POSIX formatter.
func NewPermissionFormatter() PermissionFormatter {
	return &posixFormatter{
		users:  make(map[uint32]string),
		groups: make(map[uint32]string),
	}
}

// posixFormatter reads mode bits and resolves numeric owner/group ids,
// memoizing lookups for the life of the formatter.
type posixFormatter struct {
	mu     sync.Mutex
	users  map[uint32]string
	groups map[uint32]string
}

func (p *posixFormatter) Permissions(info fs.FileInfo) string {
	return modeString(info.Mode())
}

func (p *posixFormatter) Ownership(info fs.FileInfo) (string, string) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return placeholderFormatter{}.Ownership(info)
	}
	return p.userName(st.Uid), p.groupName(st.Gid)
}

func (p *posixFormatter) userName(uid uint32) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name, ok := p.users[uid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name := id
	if u, err := user.LookupId(id); err == nil {
		name = u.Username
	}
	p.users[uid] = name
	return name
}

func (p *posixFormatter) groupName(gid uint32) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name, ok := p.groups[gid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(gid), 10)
	name := id
	if g, err := user.LookupGroupId(id); err == nil {
		name = g.Name
	}
	p.groups[gid] = name
	return name
}
