// Package resolver maps request paths to on-disk targets, applying the
// traversal guard before any filesystem access happens.
package resolver

import "strings"

// IndexFile is the default document served for directory-style paths.
const IndexFile = "index.html"

// SearchPage is the File value signalling "render the search page". It
// is a routing signal for the dispatcher, never a filesystem path.
const SearchPage = "search"

// Target is the outcome of resolving a request path. Channel is empty
// unless channel scoping consumed a leading segment. An empty File
// means the path was rejected; callers must answer "not found" and
// never touch the filesystem for it.
type Target struct {
	Channel string
	File    string
}

// Resolve maps a raw request path (leading slash included) to a Target.
// With chanScoped set, the first slash-delimited segment is consumed as
// a channel name and the remainder is resolved as usual. Any remaining
// separator, and any ".." segment anywhere, rejects the path.
func Resolve(path string, chanScoped bool) Target {
	p := strings.TrimPrefix(path, "/")
	var channel string
	if chanScoped {
		if i := strings.IndexByte(p, '/'); i >= 0 {
			channel = p[:i]
			p = p[i+1:]
			if hasParentRef(channel) {
				return Target{}
			}
		}
	}
	if p == "" {
		p = IndexFile
	}
	if strings.IndexByte(p, '/') >= 0 {
		return Target{Channel: channel}
	}
	if hasParentRef(p) {
		return Target{Channel: channel}
	}
	return Target{Channel: channel, File: p}
}

// hasParentRef reports whether any segment of s equals "..". Both slash
// conventions delimit segments here: a backslash is an ordinary
// character for routing, but it must not be able to hide a parent
// reference from the guard.
func hasParentRef(s string) bool {
	for _, seg := range strings.FieldsFunc(s, isSeparator) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
