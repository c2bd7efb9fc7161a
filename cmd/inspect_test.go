package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imconv/pkg/imgutil"
)

func TestInspectFile(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	pngPath := filepath.Join(dir, "a.png")
	if err := os.WriteFile(pngPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := inspectFile(pngPath)
	if err != nil {
		t.Fatalf("inspectFile: %v", err)
	}
	if a.Container != imgutil.KindPNG || a.HasAny() {
		t.Fatalf("analysis = %#v", a)
	}

	tests := map[string][]byte{
		"short.png": []byte("tiny"),
		"text.jpg":  []byte("plain text that is long enough"),
	}
	for name, data := range tests {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := inspectFile(path); !errors.Is(err, errNotImage) {
			t.Errorf("%s: expected errNotImage, got %v", name, err)
		}
	}

	if _, err := inspectFile(filepath.Join(dir, "missing.png")); err == nil || errors.Is(err, errNotImage) {
		t.Fatalf("missing file should be a real error, got %v", err)
	}
}
