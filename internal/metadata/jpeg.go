package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	markerAPP0 = 0xe0
	markerAPP1 = 0xe1
	markerAPP2 = 0xe2
	markerSOS  = 0xda
	markerEOI  = 0xd9

	maxSegmentPayload = 0xffff - 2
	// "ICC_PROFILE\0" + sequence number + chunk count
	iccChunkHeader  = 14
	maxICCChunkData = maxSegmentPayload - iccChunkHeader
)

var (
	jpegXmpHeader = []byte("http://ns.adobe.com/xap/1.0/\x00")
	jpegICCHeader = []byte("ICC_PROFILE\x00")

	errInvalidJPEG  = errors.New("invalid JPEG SOI")
	ErrExifTooLarge = errors.New("EXIF block does not fit in a JPEG APP1 segment")
	errICCTooLarge  = errors.New("ICC profile needs more than 255 APP2 segments")
)

type jpegSegment struct {
	marker     byte
	standalone bool
	payload    []byte
}

// readJPEGSegments parses the header segments of a JPEG up to the first
// SOS (or EOI) and returns them with the offset of that marker.
func readJPEGSegments(data []byte) ([]jpegSegment, int, error) {
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		return nil, 0, errInvalidJPEG
	}

	var segs []jpegSegment
	pos := 2
	for pos < len(data) {
		// tolerate garbage between segments
		for pos < len(data) && data[pos] != 0xff {
			pos++
		}
		start := pos
		for pos < len(data) && data[pos] == 0xff {
			pos++
		}
		if pos >= len(data) {
			break
		}
		marker := data[pos]
		pos++

		if marker == markerSOS || marker == markerEOI {
			return segs, start, nil
		}
		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			segs = append(segs, jpegSegment{marker: marker, standalone: true})
			continue
		}

		if pos+2 > len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[pos:]))
		if segLen < 2 || pos+segLen > len(data) {
			return nil, 0, fmt.Errorf("invalid JPEG segment length for marker 0x%02x", marker)
		}
		segs = append(segs, jpegSegment{marker: marker, payload: data[pos+2 : pos+segLen]})
		pos += segLen
	}

	return nil, 0, io.ErrUnexpectedEOF
}

func extractJPEG(data []byte) Metadata {
	var md Metadata

	segs, _, err := readJPEGSegments(data)
	if err != nil {
		return md
	}

	var (
		iccChunks = map[int][]byte{}
		iccCount  int
	)
	for _, seg := range segs {
		switch seg.marker {
		case markerAPP1:
			if md.Exif == nil && bytes.HasPrefix(seg.payload, exifPrefix) {
				md.Exif = seg.payload[len(exifPrefix):]
			}
		case markerAPP2:
			if !bytes.HasPrefix(seg.payload, jpegICCHeader) || len(seg.payload) < iccChunkHeader {
				continue
			}
			seq := int(seg.payload[len(jpegICCHeader)])
			iccCount = int(seg.payload[len(jpegICCHeader)+1])
			iccChunks[seq] = seg.payload[iccChunkHeader:]
		}
	}

	if iccCount > 0 {
		var icc []byte
		for seq := 1; seq <= iccCount; seq++ {
			chunk, ok := iccChunks[seq]
			if !ok {
				icc = nil
				break
			}
			icc = append(icc, chunk...)
		}
		md.ICC = icc
	}

	return md
}

// EmbedJPEG rewrites a JPEG so it carries md: an APP1 Exif segment and
// APP2 ICC_PROFILE segments placed after SOI (and after a leading JFIF
// APP0). Existing blocks of the kinds being written are dropped.
func EmbedJPEG(src []byte, md Metadata) ([]byte, error) {
	segs, scanAt, err := readJPEGSegments(src)
	if err != nil {
		return nil, err
	}
	if len(md.Exif)+len(exifPrefix) > maxSegmentPayload {
		return nil, ErrExifTooLarge
	}

	var buf bytes.Buffer
	buf.Grow(len(src) + len(md.Exif) + len(md.ICC) + 64)
	buf.Write([]byte{0xff, 0xd8})

	rest := segs
	for len(rest) > 0 && rest[0].marker == markerAPP0 {
		writeJPEGSegment(&buf, rest[0])
		rest = rest[1:]
	}

	if len(md.Exif) > 0 {
		payload := append(append([]byte{}, exifPrefix...), md.Exif...)
		writeJPEGSegment(&buf, jpegSegment{marker: markerAPP1, payload: payload})
	}
	if len(md.ICC) > 0 {
		if err := writeICCSegments(&buf, md.ICC); err != nil {
			return nil, err
		}
	}

	for _, seg := range rest {
		if shouldDropJPEGSegment(seg, md) {
			continue
		}
		writeJPEGSegment(&buf, seg)
	}

	buf.Write(src[scanAt:])
	return buf.Bytes(), nil
}

func shouldDropJPEGSegment(seg jpegSegment, md Metadata) bool {
	switch seg.marker {
	case markerAPP1:
		if len(md.Exif) > 0 && (bytes.HasPrefix(seg.payload, exifPrefix) || bytes.HasPrefix(seg.payload, jpegXmpHeader)) {
			return true
		}
	case markerAPP2:
		if len(md.ICC) > 0 && bytes.HasPrefix(seg.payload, jpegICCHeader) {
			return true
		}
	}
	return false
}

func writeICCSegments(buf *bytes.Buffer, icc []byte) error {
	count := (len(icc) + maxICCChunkData - 1) / maxICCChunkData
	if count > 255 {
		return errICCTooLarge
	}
	for i := 0; i < count; i++ {
		end := min((i+1)*maxICCChunkData, len(icc))
		payload := make([]byte, 0, iccChunkHeader+end-i*maxICCChunkData)
		payload = append(payload, jpegICCHeader...)
		payload = append(payload, byte(i+1), byte(count))
		payload = append(payload, icc[i*maxICCChunkData:end]...)
		writeJPEGSegment(buf, jpegSegment{marker: markerAPP2, payload: payload})
	}
	return nil
}

func writeJPEGSegment(buf *bytes.Buffer, seg jpegSegment) {
	buf.Write([]byte{0xff, seg.marker})
	if seg.standalone {
		return
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(seg.payload)+2))
	buf.Write(lenBuf[:])
	buf.Write(seg.payload)
}
