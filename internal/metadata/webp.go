package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var errInvalidWebP = errors.New("invalid WebP RIFF header")

// VP8X feature flags.
const (
	webpFlagICC   = 0x20
	webpFlagAlpha = 0x10
	webpFlagExif  = 0x08
)

type webpChunk struct {
	fourCC string
	data   []byte
}

func readWebPChunks(data []byte) ([]webpChunk, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, errInvalidWebP
	}

	var chunks []webpChunk
	pos := 12
	for pos+8 <= len(data) {
		fourCC := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4:]))
		start := pos + 8
		if size < 0 || start+size > len(data) {
			break
		}
		chunks = append(chunks, webpChunk{fourCC: fourCC, data: data[start : start+size]})
		// chunks are padded to even sizes
		pos = start + size + size&1
	}
	return chunks, nil
}

// extractWebP walks the RIFF chunks of a WebP file for EXIF and ICCP.
func extractWebP(data []byte) Metadata {
	var md Metadata
	chunks, err := readWebPChunks(data)
	if err != nil {
		return md
	}
	for _, c := range chunks {
		switch c.fourCC {
		case "EXIF":
			md.Exif = c.data
		case "ICCP":
			md.ICC = c.data
		}
	}
	return md
}

// EmbedWebP rewrites a WebP file in the extended layout so it carries md:
// VP8X, ICCP, the image chunks, then EXIF. Blocks of the kinds being
// written replace existing ones.
func EmbedWebP(src []byte, md Metadata) ([]byte, error) {
	chunks, err := readWebPChunks(src)
	if err != nil {
		return nil, err
	}

	var header []byte
	var body []webpChunk
	icc, exifBlock := md.ICC, md.Exif
	for _, c := range chunks {
		switch c.fourCC {
		case "VP8X":
			header = c.data
		case "ICCP":
			if len(icc) == 0 {
				icc = c.data
			}
		case "EXIF":
			if len(exifBlock) == 0 {
				exifBlock = c.data
			}
		default:
			body = append(body, c)
		}
	}

	if header == nil {
		header, err = webpCanvasHeader(body)
		if err != nil {
			return nil, err
		}
	}
	if len(header) < 10 {
		return nil, errInvalidWebP
	}
	vp8x := append([]byte{}, header...)
	vp8x[0] &^= webpFlagICC | webpFlagExif
	if len(icc) > 0 {
		vp8x[0] |= webpFlagICC
	}
	if len(exifBlock) > 0 {
		vp8x[0] |= webpFlagExif
	}

	var buf bytes.Buffer
	buf.Grow(len(src) + len(icc) + len(exifBlock) + 64)
	buf.WriteString("RIFF")
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteString("WEBP")
	writeWebPChunk(&buf, "VP8X", vp8x)
	if len(icc) > 0 {
		writeWebPChunk(&buf, "ICCP", icc)
	}
	for _, c := range body {
		writeWebPChunk(&buf, c.fourCC, c.data)
	}
	if len(exifBlock) > 0 {
		writeWebPChunk(&buf, "EXIF", exifBlock)
	}

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out, nil
}

// webpCanvasHeader builds a VP8X payload for a simple-format file from the
// dimensions in its VP8 or VP8L bitstream header.
func webpCanvasHeader(body []webpChunk) ([]byte, error) {
	var w, h int
	var flags byte
	found := false
	for _, c := range body {
		switch c.fourCC {
		case "VP8 ":
			// frame tag (3) + start code 9d 01 2a + 14-bit width and height
			if len(c.data) < 10 || c.data[3] != 0x9d || c.data[4] != 0x01 || c.data[5] != 0x2a {
				return nil, errInvalidWebP
			}
			w = int(binary.LittleEndian.Uint16(c.data[6:]) & 0x3fff)
			h = int(binary.LittleEndian.Uint16(c.data[8:]) & 0x3fff)
			found = true
		case "VP8L":
			if len(c.data) < 5 || c.data[0] != 0x2f {
				return nil, errInvalidWebP
			}
			bits := binary.LittleEndian.Uint32(c.data[1:])
			w = int(bits&0x3fff) + 1
			h = int((bits>>14)&0x3fff) + 1
			if bits>>28&1 == 1 {
				flags |= webpFlagAlpha
			}
			found = true
		case "ALPH":
			flags |= webpFlagAlpha
		}
	}
	if !found || w == 0 || h == 0 {
		return nil, errInvalidWebP
	}

	header := make([]byte, 10)
	header[0] = flags
	putUint24(header[4:], uint32(w-1))
	putUint24(header[7:], uint32(h-1))
	return header, nil
}

func writeWebPChunk(buf *bytes.Buffer, fourCC string, data []byte) {
	buf.WriteString(fourCC)
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)&1 == 1 {
		buf.WriteByte(0)
	}
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
