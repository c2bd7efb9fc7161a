package convert

import (
	"fmt"
	"slices"
	"strings"
)

// FormatID is the stable key of an output format.
type FormatID string

const (
	JPEG FormatID = "jpeg"
	PNG  FormatID = "png"
	WebP FormatID = "webp"
	AVIF FormatID = "avif"
	TIFF FormatID = "tiff"
	GIF  FormatID = "gif"
	BMP  FormatID = "bmp"
)

// Format describes one output format.
type Format struct {
	ID    FormatID
	Label string
	Ext   string
	Lossy bool
}

var formats = []Format{
	{ID: JPEG, Label: "JPG", Ext: ".jpg", Lossy: true},
	{ID: PNG, Label: "PNG", Ext: ".png"},
	{ID: WebP, Label: "WebP", Ext: ".webp", Lossy: true},
	{ID: AVIF, Label: "AVIF", Ext: ".avif", Lossy: true},
	{ID: TIFF, Label: "TIFF", Ext: ".tiff"},
	{ID: GIF, Label: "GIF", Ext: ".gif"},
	{ID: BMP, Label: "BMP", Ext: ".bmp"},
}

var formatsByID = func() map[FormatID]Format {
	m := make(map[FormatID]Format, len(formats))
	for _, f := range formats {
		m[f.ID] = f
	}
	return m
}()

// Formats returns every supported output format in display order.
func Formats() []Format {
	return slices.Clone(formats)
}

// LookupFormat returns the descriptor for id or an error wrapping
// ErrUnsupportedFormat.
func LookupFormat(id FormatID) (Format, error) {
	f, ok := formatsByID[id]
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(id))
	}
	return f, nil
}

// ParseFormatID normalises user input: case-folds and maps the jpg/tif
// aliases. The result is not validated.
func ParseFormatID(s string) FormatID {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch s {
	case "jpg":
		return JPEG
	case "tif":
		return TIFF
	default:
		return FormatID(s)
	}
}
