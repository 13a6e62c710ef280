package extractor

import "fmt"

type ExtractError struct {
	Op      string
	Err     error
	Message string
	Stderr  string
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

func newExtractError(op string, err error, message string) *ExtractError {
	return &ExtractError{
		Op:      op,
		Err:     err,
		Message: message,
	}
}
