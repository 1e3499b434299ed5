package errors

import (
	"fmt"

	perrors "github.com/pingcap/errors"
)

const (
	ErrCodeConfig   = 1000
	ErrCodeDuration = 1100
	ErrCodeHistory  = 2000
	ErrCodeFetch    = 3000
	ErrCodeSink     = 4000
)

// RangeError 带错误码的错误，errors.Cause 可以取到原始错误
type RangeError struct {
	Code uint16
	error
}

func NewRangeError(code uint16, err error) error {
	if err == nil {
		return nil
	}
	return &RangeError{
		Code:  code,
		error: err,
	}
}

func NewRangeErrorMessage(code uint16, message string) error {
	return &RangeError{
		Code:  code,
		error: perrors.New(message),
	}
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.error.Error())
}

func (e *RangeError) Cause() error {
	return e.error
}

func (e *RangeError) Unwrap() error {
	return e.error
}

// Code 返回错误链上第一个 RangeError 的错误码，没有则返回 0
func Code(err error) uint16 {
	for err != nil {
		if re, ok := err.(*RangeError); ok {
			return re.Code
		}
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Cause() error }:
			err = e.Cause()
		default:
			return 0
		}
	}
	return 0
}

var (
	ErrEmptyKey      = NewRangeErrorMessage(ErrCodeHistory, "history key is empty")
	ErrNilFetcher    = NewRangeErrorMessage(ErrCodeFetch, "fetcher is nil")
	ErrUnknownFormat = NewRangeErrorMessage(ErrCodeConfig, "unrecognized config format")
)
