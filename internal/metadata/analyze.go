package metadata

import (
	"bytes"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"imconv/pkg/imgutil"
)

// Analysis summarises what metadata an image carries.
type Analysis struct {
	Container    imgutil.Kind
	ExifTags     int
	HasICC       bool
	HasGPS       bool
	GPSCount     int
	HasModel     bool
	Model        string
	HasTimestamp bool
	SerialCount  int
	TextKeys     []string
}

// HasAny reports whether anything worth keeping was found.
func (a Analysis) HasAny() bool {
	return a.ExifTags > 0 || a.HasICC || len(a.TextKeys) > 0
}

func Analyze(data []byte) (Analysis, error) {
	analysis := Analysis{Container: imgutil.SniffBytes(data)}

	md := Extract(data)
	analysis.HasICC = len(md.ICC) > 0

	if analysis.Container == imgutil.KindPNG {
		scanPNGText(data, &analysis)
	}

	// Parse the block Extract already found; the universal search is only
	// for containers Extract does not walk.
	var tags []exif.ExifTag
	var err error
	if md.Exif != nil {
		tags, _, err = exif.GetFlatExifData(md.Exif, nil)
	} else {
		tags, _, err = exif.GetFlatExifDataUniversalSearchWithReadSeeker(bytes.NewReader(data), nil, true)
	}
	if err != nil {
		if errorsIsNoExif(err) {
			return analysis, nil
		}
		return analysis, err
	}

	analysis.ExifTags = len(tags)
	for _, tag := range tags {
		name := tag.TagName
		lower := strings.ToLower(name)

		if strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			analysis.HasGPS = true
			analysis.GPSCount++
		}
		if name == "Model" || name == "CameraModelName" {
			analysis.HasModel = true
			if analysis.Model == "" {
				analysis.Model = strings.TrimSpace(tag.FormattedFirst)
			}
		}
		if name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime" {
			analysis.HasTimestamp = true
		}
		if strings.Contains(lower, "serial") {
			analysis.SerialCount++
		}
	}

	return analysis, nil
}

func scanPNGText(data []byte, analysis *Analysis) {
	chunks, err := readPNGChunks(data)
	if err != nil {
		return
	}
	for _, c := range chunks {
		switch c.name {
		case "tEXt", "zTXt", "iTXt":
			idx := bytes.IndexByte(c.data, 0)
			if idx <= 0 {
				continue
			}
			key := string(c.data[:idx])
			analysis.TextKeys = append(analysis.TextKeys, key)
			applyTextKey(analysis, key)
		case "tIME":
			analysis.HasTimestamp = true
		}
	}
}

func applyTextKey(analysis *Analysis, key string) {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "gps") || strings.Contains(lower, "latitude") || strings.Contains(lower, "longitude") {
		analysis.HasGPS = true
	}
	if strings.Contains(lower, "model") || strings.Contains(lower, "make") {
		analysis.HasModel = true
	}
	if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
		analysis.HasTimestamp = true
	}
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
