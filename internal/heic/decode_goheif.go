//go:build !heic

package heic

import (
	"bytes"
	"image"

	"github.com/adrium/goheif"
)

func decodePrimary(data []byte) (image.Image, error) {
	return goheif.Decode(bytes.NewReader(data))
}
