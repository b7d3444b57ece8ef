package converter

import (
	"fmt"
)

type ErrInvalidInput struct {
	Err error
}

func (e ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e ErrInvalidInput) Unwrap() error {
	return e.Err
}

type ErrScaler struct {
	Err error
}

func (e ErrScaler) Error() string {
	return fmt.Sprintf("unable to scale: %v", e.Err)
}

func (e ErrScaler) Unwrap() error {
	return e.Err
}

type ErrFilter struct {
	Err error
}

func (e ErrFilter) Error() string {
	return fmt.Sprintf("unable to tone-map: %v", e.Err)
}

func (e ErrFilter) Unwrap() error {
	return e.Err
}

type ErrEncoder struct {
	Err error
}

func (e ErrEncoder) Error() string {
	return fmt.Sprintf("unable to encode: %v", e.Err)
}

func (e ErrEncoder) Unwrap() error {
	return e.Err
}
