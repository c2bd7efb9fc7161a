// Package codec is the boundary to the image codec libraries. Everything
// pixel-level (decode, resample, encode) happens behind Gateway; callers only
// deal in Sources, Bitmaps and encoded bytes.
package codec

import (
	"errors"
	"image"
	"os"

	"imconv/internal/metadata"
	"imconv/pkg/imgutil"
)

var (
	ErrUnknownContainer  = errors.New("unrecognised image container")
	ErrUnsupportedTarget = errors.New("no encoder for target format")
	ErrNeedsPreDecode    = errors.New("container must be pre-decoded")
)

// Source is an encoded image given either as bytes or as a file path.
// Data wins when both are set; Path is still used for messages and the
// strict extension check.
type Source struct {
	Path string
	Data []byte
}

func FromPath(path string) Source {
	return Source{Path: path}
}

func FromBytes(data []byte, path string) Source {
	return Source{Path: path, Data: data}
}

// Bytes returns the encoded image, reading it from disk if needed.
func (s Source) Bytes() ([]byte, error) {
	if s.Data != nil {
		return s.Data, nil
	}
	return os.ReadFile(s.Path)
}

// Bitmap is a decoded image plus the metadata found in its container.
type Bitmap struct {
	Image     image.Image
	Container imgutil.Kind
	Metadata  metadata.Metadata
}

func (b *Bitmap) Size() (int, int) {
	r := b.Image.Bounds()
	return r.Dx(), r.Dy()
}

type DecodeOptions struct {
	// Lenient picks the decoder from the content alone and falls back to
	// every registered decoder when the signature is unknown.
	Lenient bool
}

// ResizeOptions bound the output size. Zero leaves a dimension unbounded.
type ResizeOptions struct {
	Width  int
	Height int
}

func (o ResizeOptions) Requested() bool {
	return o.Width > 0 || o.Height > 0
}

type EncodeOptions struct {
	// Quality is passed to lossy encoders as-is; zero means encoder default.
	Quality      int
	KeepMetadata bool
}

// Gateway is the stateless codec surface used by the converter.
type Gateway interface {
	Decode(src Source, opts DecodeOptions) (*Bitmap, error)
	Resize(bm *Bitmap, opts ResizeOptions) *Bitmap
	Encode(bm *Bitmap, format string, opts EncodeOptions) ([]byte, error)
	WriteFile(data []byte, path string) error
}
