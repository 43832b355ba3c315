package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements shared.FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata without following a final symbolic link, so a
// dangling .git link still counts as present.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}
