// Package queue holds the list of inputs selected for conversion.
package queue

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"imconv/pkg/imgutil"
)

// Item is one queued input. Items are never modified once added.
type Item struct {
	Path string
	Name string
	// Ext is the upper-cased extension without the dot, or "?".
	Ext string
}

func NewItem(path string) Item {
	name := filepath.Base(path)
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = "?"
	}
	return Item{Path: path, Name: name, Ext: ext}
}

type Queue struct {
	items []Item
	seen  map[string]struct{}
}

func New() *Queue {
	return &Queue{seen: make(map[string]struct{})}
}

// Add appends paths that are not queued yet and reports how many were new.
func (q *Queue) Add(paths ...string) int {
	added := 0
	for _, p := range paths {
		if _, ok := q.seen[p]; ok {
			continue
		}
		q.seen[p] = struct{}{}
		q.items = append(q.items, NewItem(p))
		added++
	}
	return added
}

func (q *Queue) Remove(index int) error {
	if index < 0 || index >= len(q.items) {
		return fmt.Errorf("queue index %d out of range [0,%d)", index, len(q.items))
	}
	delete(q.seen, q.items[index].Path)
	q.items = slices.Delete(q.items, index, index+1)
	return nil
}

func (q *Queue) Clear() {
	q.items = nil
	clear(q.seen)
}

func (q *Queue) Items() []Item {
	return slices.Clone(q.items)
}

func (q *Queue) Paths() []string {
	paths := make([]string, len(q.items))
	for i, it := range q.items {
		paths[i] = it.Path
	}
	return paths
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Expand turns command-line arguments into input files. Files are kept as
// given; directories are walked and only image files are kept. Hidden
// files and directories inside a walked tree are skipped.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if imgutil.IsImageFile(d.Name()) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
