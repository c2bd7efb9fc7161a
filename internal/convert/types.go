package convert

import (
	"errors"
	"fmt"

	"imconv/internal/codec"
)

// Options control a single conversion. Zero Quality, Width or Height means
// the option is absent.
type Options struct {
	Quality      int
	Width        int
	Height       int
	KeepMetadata bool
}

func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality must be 0 to 100 (0 = encoder default), got %d", o.Quality)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New("width and height must be positive")
	}
	return nil
}

func (o Options) resize() codec.ResizeOptions {
	return codec.ResizeOptions{Width: o.Width, Height: o.Height}
}

// Progress is sent once per item, before that item is converted.
type Progress struct {
	Current int
	Total   int
	File    string
}

// Outcome is the result for one input of a batch.
type Outcome struct {
	Input  string
	Output string
	Err    error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}
