// Package metadata carries EXIF and ICC blocks from a source image into an
// encoded output. Codec libraries drop metadata on encode, so keeping it is
// done here at the container level.
package metadata

import (
	"bytes"

	exif "github.com/dsoprea/go-exif/v3"

	"imconv/pkg/imgutil"
)

// Metadata holds the raw blocks lifted from a source container.
// Exif starts at the TIFF header ("II*\x00" or "MM\x00*").
type Metadata struct {
	Exif []byte
	ICC  []byte
}

func (m Metadata) Empty() bool {
	return len(m.Exif) == 0 && len(m.ICC) == 0
}

// Extract pulls EXIF and ICC blocks out of an encoded image. Containers
// without a known layout yield an empty Metadata; malformed blocks are
// dropped rather than reported.
func Extract(data []byte) Metadata {
	var md Metadata
	switch imgutil.SniffBytes(data) {
	case imgutil.KindJPEG:
		md = extractJPEG(data)
	case imgutil.KindPNG:
		md = extractPNG(data)
	case imgutil.KindWebP:
		md = extractWebP(data)
	}
	md.Exif = ValidExif(md.Exif)
	return md
}

var exifPrefix = []byte("Exif\x00\x00")

// ValidExif returns raw with any "Exif\0\0" preamble removed, or nil when
// the block does not start with a parseable EXIF header.
func ValidExif(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, exifPrefix)
	if len(raw) == 0 {
		return nil
	}
	if _, err := exif.ParseExifHeader(raw); err != nil {
		return nil
	}
	return raw
}

// Supports reports whether Embed can write metadata into the given
// output format id.
func Supports(format string) bool {
	switch format {
	case "jpeg", "png", "webp":
		return true
	default:
		return false
	}
}

// Embed writes md into encoded output of the given format id. Formats
// without support are returned unchanged.
func Embed(format string, encoded []byte, md Metadata) ([]byte, error) {
	if md.Empty() {
		return encoded, nil
	}
	switch format {
	case "jpeg":
		return EmbedJPEG(encoded, md)
	case "png":
		return EmbedPNG(encoded, md)
	case "webp":
		return EmbedWebP(encoded, md)
	default:
		return encoded, nil
	}
}
