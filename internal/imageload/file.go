package imageload

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is one entry of a load batch: a filename and its raw bytes.
type File struct {
	Name string
	Data []byte
}

// ReadFiles reads the given paths from disk. The File name is the base
// name of each path, which is the identity used for sorting and lookup.
func ReadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Clean(p))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}
