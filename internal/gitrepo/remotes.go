package gitrepo

import (
	"strings"
)

const (
	remoteDirectionOpenConstant  = "("
	remoteDirectionCloseConstant = ")"
)

// RemoteDirection distinguishes the fetch and push URLs listed by `git remote -v`.
type RemoteDirection string

// Remote directions reported by git.
const (
	RemoteDirectionFetch RemoteDirection = RemoteDirection("fetch")
	RemoteDirectionPush  RemoteDirection = RemoteDirection("push")
)

// RemoteEntry is one line of `git remote -v`.
type RemoteEntry struct {
	Name      string
	URL       string
	Direction RemoteDirection
}

// ParseRemoteListing converts `git remote -v` lines into entries. Lines that do not
// carry both a name and a URL are skipped.
func ParseRemoteListing(lines []string) []RemoteEntry {
	entries := make([]RemoteEntry, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		entry := RemoteEntry{Name: fields[0], URL: fields[1]}
		if len(fields) > 2 {
			entry.Direction = RemoteDirection(strings.TrimSuffix(strings.TrimPrefix(fields[2], remoteDirectionOpenConstant), remoteDirectionCloseConstant))
		}
		entries = append(entries, entry)
	}
	return entries
}

// FetchURL returns the fetch URL of the named remote.
func FetchURL(entries []RemoteEntry, remoteName string) (string, bool) {
	for _, entry := range entries {
		if entry.Name != remoteName {
			continue
		}
		if entry.Direction == RemoteDirectionFetch || len(entry.Direction) == 0 {
			return entry.URL, true
		}
	}
	return "", false
}
