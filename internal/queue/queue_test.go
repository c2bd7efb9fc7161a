package queue

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestNewItem(t *testing.T) {
	tests := []struct {
		path string
		name string
		ext  string
	}{
		{"/photos/cat.jpg", "cat.jpg", "JPG"},
		{"/photos/IMG_1.HeIc", "IMG_1.HeIc", "HEIC"},
		{"/photos/README", "README", "?"},
	}
	for _, tt := range tests {
		it := NewItem(tt.path)
		if it.Path != tt.path || it.Name != tt.name || it.Ext != tt.ext {
			t.Errorf("NewItem(%q) = %#v", tt.path, it)
		}
	}
}

func TestQueueAddDedup(t *testing.T) {
	q := New()
	if n := q.Add("/a.png", "/b.png", "/a.png"); n != 2 {
		t.Fatalf("added %d, want 2", n)
	}
	if n := q.Add("/b.png", "/c.png"); n != 1 {
		t.Fatalf("added %d, want 1", n)
	}
	if got, want := q.Paths(), []string{"/a.png", "/b.png", "/c.png"}; !slices.Equal(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
}

func TestQueueRemoveAndClear(t *testing.T) {
	q := New()
	q.Add("/a.png", "/b.png", "/c.png")

	if err := q.Remove(1); err != nil {
		t.Fatal(err)
	}
	if got := q.Paths(); !slices.Equal(got, []string{"/a.png", "/c.png"}) {
		t.Fatalf("paths = %v", got)
	}
	if err := q.Remove(5); err == nil {
		t.Fatal("expected out of range error")
	}
	if n := q.Add("/b.png"); n != 1 {
		t.Fatal("removed path should be addable again")
	}

	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("len = %d after clear", q.Len())
	}
	if n := q.Add("/a.png"); n != 1 {
		t.Fatal("cleared path should be addable again")
	}
}

func TestQueueItemsIsCopy(t *testing.T) {
	q := New()
	q.Add("/a.png")
	items := q.Items()
	items[0].Name = "changed"
	if q.Items()[0].Name != "a.png" {
		t.Fatal("Items must return a copy")
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"a.jpg",
		"b.PNG",
		"notes.txt",
		"sub/c.heic",
		"sub/d.svg",
		".hidden/e.png",
		".f.png",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	explicit := filepath.Join(dir, "notes.txt")

	got, err := Expand([]string{dir, explicit})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.PNG"),
		filepath.Join(dir, "sub", "c.heic"),
		filepath.Join(dir, "sub", "d.svg"),
		explicit,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Expand = %v\nwant %v", got, want)
	}
}

func TestExpandMissing(t *testing.T) {
	if _, err := Expand([]string{filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Fatal("expected error for missing path")
	}
}
