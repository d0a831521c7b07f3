// Package strings holds the small string defaults modules share
package strings

import (
	"path"
	std "strings"
)

// Or returns def when s is blank
func Or(s, def string) string {
	if std.TrimSpace(s) == "" {
		return def
	}
	return s
}

// MustPrefix cleans a mount prefix to "/a/b" form and panics on the root,
// which would shadow every other module
func MustPrefix(s string) string {
	p := path.Clean("/" + std.TrimSpace(s))
	if p == "/" {
		panic("strings: mount prefix is empty")
	}
	return p
}
