package convert

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when the requested output format is not
// in the registry.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Stage names the step of a single conversion that failed.
type Stage string

const (
	StageResolve Stage = "resolve output path"
	StageRead    Stage = "read"
	StageDecode  Stage = "decode"
	StageResize  Stage = "resize"
	StageEncode  Stage = "encode"
	StageWrite   Stage = "write"
)

// DecodeError means a source container (HEIC/HEIF) could not be turned into
// an intermediate bitmap.
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode container: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConversionError is any other failure while converting one input.
type ConversionError struct {
	Input string
	Stage Stage
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func IsDecode(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

func IsConversion(err error) bool {
	var e *ConversionError
	return errors.As(err, &e)
}
