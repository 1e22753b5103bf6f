package compositor

import "fmt"

// InvalidParameterError reports a geometry parameter outside its sane domain,
// such as a non-positive scale or a resize target that rounds to zero width.
type InvalidParameterError struct {
	reason string
}

func NewInvalidParameterError(reason string) *InvalidParameterError {
	return &InvalidParameterError{reason: reason}
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter: %s", e.reason)
}

func (e *InvalidParameterError) Is(err error) bool {
	_, ok := err.(*InvalidParameterError)
	return ok
}

// DecodeError reports input bytes that could not be parsed as a raster image.
type DecodeError struct {
	cause error
}

func NewDecodeError(cause error) *DecodeError {
	return &DecodeError{cause: cause}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode image: %v", e.cause)
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

func (e *DecodeError) Is(err error) bool {
	_, ok := err.(*DecodeError)
	return ok
}
