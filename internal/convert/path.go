package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResolveOutputPath picks the output file for input. The directory is
// outputDir, or the input's own directory when outputDir is empty. Taken
// names get a " (n)" suffix, counting up from 1.
//
// The result is only free at the time of the check; the writer must still
// create it exclusively.
func ResolveOutputPath(input, outputDir string, f Format) (string, error) {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := filepath.Base(input)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	candidate := filepath.Join(dir, base+f.Ext)
	for n := 1; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, f.Ext))
	}
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
