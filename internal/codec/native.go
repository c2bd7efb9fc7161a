package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	xwebp "golang.org/x/image/webp"

	"imconv/internal/metadata"
	"imconv/pkg/imgutil"
)

// Native is the in-process Gateway built on the Go image ecosystem.
type Native struct{}

func NewNative() *Native {
	return &Native{}
}

func (n *Native) Decode(src Source, opts DecodeOptions) (*Bitmap, error) {
	data, err := src.Bytes()
	if err != nil {
		return nil, err
	}

	kind := imgutil.SniffBytes(data)
	if !opts.Lenient && src.Path != "" {
		if want := imgutil.KindFromExt(filepath.Ext(src.Path)); want != imgutil.KindUnknown && want != kind {
			return nil, fmt.Errorf("content is %s but extension says %s", kind, want)
		}
	}

	img, err := decodeKind(data, kind, opts.Lenient)
	if err != nil {
		return nil, err
	}

	return &Bitmap{
		Image:     img,
		Container: kind,
		Metadata:  metadata.Extract(data),
	}, nil
}

func decodeKind(data []byte, kind imgutil.Kind, lenient bool) (image.Image, error) {
	r := bytes.NewReader(data)
	switch kind {
	case imgutil.KindJPEG:
		return jpeg.Decode(r)
	case imgutil.KindPNG:
		return png.Decode(r)
	case imgutil.KindGIF:
		return gif.Decode(r)
	case imgutil.KindBMP:
		return bmp.Decode(r)
	case imgutil.KindTIFF:
		return tiff.Decode(r)
	case imgutil.KindWebP:
		return xwebp.Decode(r)
	case imgutil.KindAVIF:
		return avif.Decode(r)
	case imgutil.KindHEIC:
		return nil, ErrNeedsPreDecode
	}

	if !lenient {
		return nil, ErrUnknownContainer
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownContainer, err)
	}
	return img, nil
}

// Resize scales bm to fit inside the requested box. Images already inside
// the box are returned untouched.
func (n *Native) Resize(bm *Bitmap, opts ResizeOptions) *Bitmap {
	srcW, srcH := bm.Size()
	w, h := FitInside(srcW, srcH, opts.Width, opts.Height)
	if w == srcW && h == srcH {
		return bm
	}

	return &Bitmap{
		Image:     imaging.Resize(bm.Image, w, h, imaging.Lanczos),
		Container: bm.Container,
		Metadata:  bm.Metadata,
	}
}

// FitInside returns the largest size with the source aspect ratio that
// fits within maxW x maxH without exceeding the source size. A bound of
// zero leaves that dimension unconstrained.
func FitInside(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return srcW, srcH
	}

	scale := 1.0
	if maxW > 0 && srcW > maxW {
		scale = math.Min(scale, float64(maxW)/float64(srcW))
	}
	if maxH > 0 && srcH > maxH {
		scale = math.Min(scale, float64(maxH)/float64(srcH))
	}
	if scale >= 1 {
		return srcW, srcH
	}

	w := max(1, int(math.Round(float64(srcW)*scale)))
	h := max(1, int(math.Round(float64(srcH)*scale)))
	if maxW > 0 {
		w = min(w, maxW)
	}
	if maxH > 0 {
		h = min(h, maxH)
	}
	return w, h
}

func (n *Native) Encode(bm *Bitmap, format string, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, bm.Image, format, opts.Quality); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if !opts.KeepMetadata {
		return out, nil
	}

	md := bm.Metadata
	withMeta, err := metadata.Embed(format, out, md)
	if errors.Is(err, metadata.ErrExifTooLarge) {
		slog.Warn("EXIF block too large for output, dropping it", "format", format, "bytes", len(md.Exif))
		md.Exif = nil
		withMeta, err = metadata.Embed(format, out, md)
	}
	return withMeta, err
}

func encode(buf *bytes.Buffer, img image.Image, format string, quality int) error {
	switch format {
	case "jpeg":
		var encOpts []imaging.EncodeOption
		if quality > 0 {
			encOpts = append(encOpts, imaging.JPEGQuality(quality))
		}
		return imaging.Encode(buf, img, imaging.JPEG, encOpts...)
	case "png":
		return imaging.Encode(buf, img, imaging.PNG)
	case "gif":
		return imaging.Encode(buf, img, imaging.GIF)
	case "tiff":
		return imaging.Encode(buf, img, imaging.TIFF)
	case "bmp":
		return imaging.Encode(buf, img, imaging.BMP)
	case "webp":
		var webpOpts *webp.Options
		if quality > 0 {
			webpOpts = &webp.Options{Quality: float32(quality)}
		}
		return webp.Encode(buf, img, webpOpts)
	case "avif":
		if quality > 0 {
			return avif.Encode(buf, img, avif.Options{
				Quality:      quality,
				QualityAlpha: quality,
				Speed:        avif.DefaultSpeed,
			})
		}
		return avif.Encode(buf, img)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTarget, format)
	}
}

// WriteFile creates path exclusively; an existing file is never replaced.
// The returned error matches fs.ErrExist when the path was taken.
func (n *Native) WriteFile(data []byte, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
