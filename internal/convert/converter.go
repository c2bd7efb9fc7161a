package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"imconv/internal/codec"
	"imconv/internal/metadata"
	"imconv/pkg/imgutil"
)

// maxWriteAttempts bounds how often a lost race for an output name is
// retried with a freshly resolved name.
const maxWriteAttempts = 5

// HEICDecoder turns a HEIC/HEIF container into a raster the gateway reads.
type HEICDecoder interface {
	DecodeContainer(data []byte) ([]byte, error)
	ExtractExif(data []byte) []byte
}

// Converter orchestrates single conversions and batches over a Gateway.
type Converter struct {
	gateway codec.Gateway
	heic    HEICDecoder
	logger  *slog.Logger
}

func New(gateway codec.Gateway, heic HEICDecoder, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Converter{gateway: gateway, heic: heic, logger: logger}
}

// ConvertOne converts input to formatID and returns the path written.
// Nothing is written when the format is unknown.
func (c *Converter) ConvertOne(ctx context.Context, input string, formatID FormatID, outputDir string, opts Options) (output string, err error) {
	format, err := LookupFormat(formatID)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stage := StageResolve
	defer func() {
		if r := recover(); r != nil {
			output = ""
			err = &ConversionError{Input: input, Stage: stage, Err: fmt.Errorf("codec panic: %v", r)}
		}
	}()

	outPath, err := ResolveOutputPath(input, outputDir, format)
	if err != nil {
		return "", &ConversionError{Input: input, Stage: StageResolve, Err: err}
	}

	src := codec.FromPath(input)
	var containerExif []byte
	if imgutil.IsHEIC(input) {
		stage = StageRead
		raw, err := os.ReadFile(input)
		if err != nil {
			return "", &ConversionError{Input: input, Stage: StageRead, Err: err}
		}
		if c.heic == nil {
			return "", &DecodeError{Input: input, Err: errors.New("no HEIC decoder configured")}
		}
		stage = StageDecode
		decoded, err := c.heic.DecodeContainer(raw)
		if err != nil {
			return "", &DecodeError{Input: input, Err: err}
		}
		if opts.KeepMetadata {
			containerExif = metadata.ValidExif(c.heic.ExtractExif(raw))
		}
		src = codec.FromBytes(decoded, input)
	}

	stage = StageDecode
	bm, err := c.gateway.Decode(src, codec.DecodeOptions{Lenient: true})
	if err != nil {
		return "", &ConversionError{Input: input, Stage: StageDecode, Err: err}
	}
	if containerExif != nil {
		bm.Metadata.Exif = containerExif
	}

	if resize := opts.resize(); resize.Requested() {
		stage = StageResize
		bm = c.gateway.Resize(bm, resize)
	}

	encOpts := codec.EncodeOptions{KeepMetadata: opts.KeepMetadata}
	if format.Lossy && opts.Quality > 0 {
		encOpts.Quality = opts.Quality
	}
	if opts.KeepMetadata && !bm.Metadata.Empty() && !metadata.Supports(string(format.ID)) {
		c.logger.Debug("metadata not carried", "input", input, "format", format.ID)
	}

	stage = StageEncode
	data, err := c.gateway.Encode(bm, string(format.ID), encOpts)
	if err != nil {
		return "", &ConversionError{Input: input, Stage: StageEncode, Err: err}
	}

	stage = StageWrite
	return c.write(data, input, outPath, outputDir, format)
}

// write creates outPath exclusively. If another writer took the name after
// it was resolved, a new name is resolved and the write retried.
func (c *Converter) write(data []byte, input, outPath, outputDir string, format Format) (string, error) {
	for attempt := 1; ; attempt++ {
		err := c.gateway.WriteFile(data, outPath)
		if err == nil {
			return outPath, nil
		}
		if !errors.Is(err, fs.ErrExist) || attempt >= maxWriteAttempts {
			return "", &ConversionError{Input: input, Stage: StageWrite, Err: err}
		}

		c.logger.Debug("output name taken, resolving again", "path", outPath)
		outPath, err = ResolveOutputPath(input, outputDir, format)
		if err != nil {
			return "", &ConversionError{Input: input, Stage: StageResolve, Err: err}
		}
	}
}
