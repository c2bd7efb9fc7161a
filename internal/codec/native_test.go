package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"imconv/internal/metadata"
	"imconv/pkg/imgutil"
)

var _ Gateway = (*Native)(nil)

func TestFitInside(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"no bounds", 200, 100, 0, 0, 200, 100},
		{"width only", 200, 100, 100, 0, 100, 50},
		{"height only", 100, 200, 0, 50, 25, 50},
		{"both bounds width limits", 200, 100, 100, 100, 100, 50},
		{"both bounds height limits", 200, 100, 190, 20, 40, 20},
		{"smaller than box", 50, 40, 100, 0, 50, 40},
		{"exactly box", 100, 50, 100, 50, 100, 50},
		{"never zero", 3, 1000, 1, 10, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitInside(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("FitInside(%d,%d,%d,%d) = %dx%d, want %dx%d",
					tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNativeRoundTrip(t *testing.T) {
	n := NewNative()
	src := &Bitmap{Image: sampleImage(40, 30)}

	formats := map[string]imgutil.Kind{
		"jpeg": imgutil.KindJPEG,
		"png":  imgutil.KindPNG,
		"gif":  imgutil.KindGIF,
		"tiff": imgutil.KindTIFF,
		"bmp":  imgutil.KindBMP,
		"webp": imgutil.KindWebP,
	}

	for format, kind := range formats {
		t.Run(format, func(t *testing.T) {
			data, err := n.Encode(src, format, EncodeOptions{})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := imgutil.SniffBytes(data); got != kind {
				t.Fatalf("encoded container = %v, want %v", got, kind)
			}

			bm, err := n.Decode(FromBytes(data, ""), DecodeOptions{Lenient: true})
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if w, h := bm.Size(); w != 40 || h != 30 {
				t.Fatalf("decoded size = %dx%d, want 40x30", w, h)
			}
			if bm.Container != kind {
				t.Fatalf("container = %v, want %v", bm.Container, kind)
			}
		})
	}
}

func TestNativeAVIF(t *testing.T) {
	if testing.Short() {
		t.Skip("avif encoder is slow")
	}
	n := NewNative()
	data, err := n.Encode(&Bitmap{Image: sampleImage(16, 16)}, "avif", EncodeOptions{Quality: 50})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := imgutil.SniffBytes(data); got != imgutil.KindAVIF {
		t.Fatalf("encoded container = %v, want avif", got)
	}
}

func TestNativeDecodeStrictExtension(t *testing.T) {
	n := NewNative()
	data, err := n.Encode(&Bitmap{Image: sampleImage(4, 4)}, "png", EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "mislabelled.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := n.Decode(FromPath(path), DecodeOptions{}); err == nil {
		t.Fatal("strict decode should reject a PNG named .jpg")
	}
	bm, err := n.Decode(FromPath(path), DecodeOptions{Lenient: true})
	if err != nil {
		t.Fatalf("lenient decode: %v", err)
	}
	if bm.Container != imgutil.KindPNG {
		t.Fatalf("container = %v, want png", bm.Container)
	}
}

func TestNativeDecodeFailures(t *testing.T) {
	n := NewNative()

	heic := []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00")
	if _, err := n.Decode(FromBytes(heic, "x.heic"), DecodeOptions{Lenient: true}); !errors.Is(err, ErrNeedsPreDecode) {
		t.Fatalf("expected ErrNeedsPreDecode, got %v", err)
	}

	garbage := []byte("this is definitely not an image file")
	if _, err := n.Decode(FromBytes(garbage, ""), DecodeOptions{Lenient: true}); !errors.Is(err, ErrUnknownContainer) {
		t.Fatalf("expected ErrUnknownContainer, got %v", err)
	}

	truncated := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0, 1, 1}
	if _, err := n.Decode(FromBytes(truncated, ""), DecodeOptions{Lenient: true}); err == nil {
		t.Fatal("expected error for truncated JPEG")
	}

	full, err := n.Encode(&Bitmap{Image: sampleImage(16, 16)}, "png", EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := n.Decode(FromBytes(full[:len(full)/2], ""), DecodeOptions{Lenient: true}); err == nil {
		t.Fatal("lenient decode must still reject a truncated PNG")
	}

	if _, err := n.Decode(FromPath(filepath.Join(t.TempDir(), "missing.png")), DecodeOptions{Lenient: true}); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestNativeResize(t *testing.T) {
	n := NewNative()
	src := &Bitmap{Image: sampleImage(40, 30), Metadata: metadata.Metadata{ICC: []byte{1}}}

	same := n.Resize(src, ResizeOptions{Width: 100})
	if same != src {
		t.Fatal("expected no-op resize when image already fits")
	}

	smaller := n.Resize(src, ResizeOptions{Width: 20})
	if w, h := smaller.Size(); w != 20 || h != 15 {
		t.Fatalf("resized to %dx%d, want 20x15", w, h)
	}
	if len(smaller.Metadata.ICC) != 1 {
		t.Fatal("resize should carry metadata")
	}
}

func TestNativeEncodeQuality(t *testing.T) {
	n := NewNative()
	src := &Bitmap{Image: noisyImage(64, 64)}

	low, err := n.Encode(src, "jpeg", EncodeOptions{Quality: 10})
	if err != nil {
		t.Fatal(err)
	}
	high, err := n.Encode(src, "jpeg", EncodeOptions{Quality: 95})
	if err != nil {
		t.Fatal(err)
	}
	if len(low) >= len(high) {
		t.Fatalf("quality 10 (%d bytes) should be smaller than quality 95 (%d bytes)", len(low), len(high))
	}
}

func TestNativeEncodeUnsupported(t *testing.T) {
	_, err := NewNative().Encode(&Bitmap{Image: sampleImage(2, 2)}, "ico", EncodeOptions{})
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Fatalf("expected ErrUnsupportedTarget, got %v", err)
	}
}

func TestNativeEncodeMetadata(t *testing.T) {
	n := NewNative()
	exifBlock := buildExifTIFF()
	src := &Bitmap{Image: sampleImage(8, 8), Metadata: metadata.Metadata{Exif: exifBlock}}

	kept, err := n.Encode(src, "jpeg", EncodeOptions{KeepMetadata: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := metadata.Extract(kept); !bytes.Equal(got.Exif, exifBlock) {
		t.Fatal("expected EXIF to be kept")
	}

	stripped, err := n.Encode(src, "jpeg", EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := metadata.Extract(stripped); !got.Empty() {
		t.Fatal("expected no metadata without KeepMetadata")
	}
}

func TestNativeEncodeMetadataWebP(t *testing.T) {
	n := NewNative()
	md := metadata.Metadata{Exif: buildExifTIFF(), ICC: bytes.Repeat([]byte{7}, 40)}
	src := &Bitmap{Image: sampleImage(12, 10), Metadata: md}

	data, err := n.Encode(src, "webp", EncodeOptions{Quality: 75, KeepMetadata: true})
	if err != nil {
		t.Fatal(err)
	}
	got := metadata.Extract(data)
	if !bytes.Equal(got.Exif, md.Exif) || !bytes.Equal(got.ICC, md.ICC) {
		t.Fatalf("webp lost metadata: exif=%d icc=%d", len(got.Exif), len(got.ICC))
	}

	bm, err := n.Decode(FromBytes(data, "out.webp"), DecodeOptions{})
	if err != nil {
		t.Fatalf("decode extended webp: %v", err)
	}
	if w, h := bm.Size(); w != 12 || h != 10 {
		t.Fatalf("decoded size = %dx%d", w, h)
	}
}

func TestNativeEncodeDropsOversizedExif(t *testing.T) {
	n := NewNative()
	huge := append(buildExifTIFF(), make([]byte, 70000)...)
	icc := bytes.Repeat([]byte{3}, 64)
	src := &Bitmap{Image: sampleImage(8, 8), Metadata: metadata.Metadata{Exif: huge, ICC: icc}}

	data, err := n.Encode(src, "jpeg", EncodeOptions{KeepMetadata: true})
	if err != nil {
		t.Fatalf("oversized EXIF should not fail the encode: %v", err)
	}
	got := metadata.Extract(data)
	if got.Exif != nil {
		t.Fatal("oversized EXIF should be dropped")
	}
	if !bytes.Equal(got.ICC, icc) {
		t.Fatal("ICC profile should still be kept")
	}
}

func TestNativeWriteFileExclusive(t *testing.T) {
	n := NewNative()
	path := filepath.Join(t.TempDir(), "out.png")

	if err := n.WriteFile([]byte("first"), path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	err := n.WriteFile([]byte("second"), path)
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected fs.ErrExist, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Fatalf("existing file was modified: %q", data)
	}
}

func sampleImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 7), B: 0x60, A: 0xff})
		}
	}
	return img
}

func noisyImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	seed := uint32(2463534242)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			img.Set(x, y, color.RGBA{R: uint8(seed), G: uint8(seed >> 8), B: uint8(seed >> 16), A: 0xff})
		}
	}
	return img
}

func buildExifTIFF() []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0110))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(26))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write([]byte("TestCam\x00"))
	return tiff.Bytes()
}
