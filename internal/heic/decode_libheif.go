//go:build heic

package heic

import (
	"image"

	"github.com/strukturag/libheif-go"
)

// decodePrimary decodes through the system libheif.
func decodePrimary(data []byte) (image.Image, error) {
	ctx, err := libheif.NewContext()
	if err != nil {
		return nil, err
	}

	if err := ctx.ReadFromMemory(data); err != nil {
		return nil, err
	}

	handle, err := ctx.GetPrimaryImageHandle()
	if err != nil {
		return nil, err
	}

	img, err := handle.DecodeImage(libheif.ColorspaceRGB, libheif.ChromaInterleavedRGBA, nil)
	if err != nil {
		return nil, err
	}

	return img.GetImage()
}
