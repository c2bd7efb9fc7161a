package metadata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

var errInvalidPNG = errors.New("invalid PNG signature")

const iccProfileName = "ICC Profile"

type pngChunk struct {
	name string
	data []byte
	// raw is the full chunk including length, type and CRC.
	raw []byte
}

func readPNGChunks(data []byte) ([]pngChunk, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errInvalidPNG
	}

	var chunks []pngChunk
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		name := string(data[pos+4 : pos+8])
		end := pos + 8 + length + 4
		if length < 0 || end > len(data) {
			return nil, io.ErrUnexpectedEOF
		}
		chunks = append(chunks, pngChunk{
			name: name,
			data: data[pos+8 : pos+8+length],
			raw:  data[pos:end],
		})
		pos = end
		if name == "IEND" {
			return chunks, nil
		}
	}
	return nil, io.ErrUnexpectedEOF
}

func extractPNG(data []byte) Metadata {
	var md Metadata

	chunks, err := readPNGChunks(data)
	if err != nil {
		return md
	}
	for _, c := range chunks {
		switch c.name {
		case "eXIf":
			md.Exif = c.data
		case "iCCP":
			md.ICC = inflateICCP(c.data)
		}
	}
	return md
}

// iCCP is: profile name, NUL, compression method (0), zlib stream.
func inflateICCP(data []byte) []byte {
	idx := bytes.IndexByte(data, 0)
	if idx <= 0 || idx+2 > len(data) || data[idx+1] != 0 {
		return nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(data[idx+2:]))
	if err != nil {
		return nil
	}
	defer zr.Close()
	icc, err := io.ReadAll(zr)
	if err != nil {
		return nil
	}
	return icc
}

// EmbedPNG rewrites a PNG so it carries md as iCCP and eXIf chunks placed
// right after IHDR. Existing chunks of the kinds being written are dropped.
func EmbedPNG(src []byte, md Metadata) ([]byte, error) {
	chunks, err := readPNGChunks(src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(src) + len(md.Exif) + len(md.ICC) + 64)
	buf.Write(pngSignature)

	for _, c := range chunks {
		if shouldDropPNGChunk(c.name, md) {
			continue
		}
		buf.Write(c.raw)
		if c.name != "IHDR" {
			continue
		}
		if len(md.ICC) > 0 {
			iccp, err := deflateICCP(md.ICC)
			if err != nil {
				return nil, err
			}
			buf.Write(buildPNGChunk("iCCP", iccp))
		}
		if len(md.Exif) > 0 {
			buf.Write(buildPNGChunk("eXIf", md.Exif))
		}
	}

	return buf.Bytes(), nil
}

func shouldDropPNGChunk(name string, md Metadata) bool {
	switch name {
	case "eXIf":
		return len(md.Exif) > 0
	case "iCCP", "sRGB":
		return len(md.ICC) > 0
	default:
		return false
	}
}

func deflateICCP(icc []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(iccProfileName)
	buf.Write([]byte{0, 0})
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(icc); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildPNGChunk(chunkType string, data []byte) []byte {
	chunk := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(chunk, uint32(len(data)))
	copy(chunk[4:], chunkType)
	chunk = append(chunk, data...)
	crc := crc32.ChecksumIEEE(chunk[4:])
	return binary.BigEndian.AppendUint32(chunk, crc)
}
