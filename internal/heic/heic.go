// Package heic turns HEIC/HEIF containers into a lossless raster the codec
// gateway can read. The default build uses goheif; building with the heic
// tag switches to libheif.
package heic

import (
	"bytes"
	"image/png"

	"github.com/adrium/goheif"
	"github.com/pkg/errors"
)

// Decoder is the HEIC pre-decode collaborator.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodeContainer decodes the primary image of a HEIC/HEIF file and
// returns it re-encoded as PNG.
func (d *Decoder) DecodeContainer(data []byte) ([]byte, error) {
	img, err := decodePrimary(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode HEIC image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode intermediate PNG")
	}
	return buf.Bytes(), nil
}

// ExtractExif returns the raw EXIF block of the container, or nil if it
// has none.
func (d *Decoder) ExtractExif(data []byte) []byte {
	exifBlock, err := goheif.ExtractExif(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return exifBlock
}
