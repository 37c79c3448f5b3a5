package tagcatalog

import (
	"errors"
	"fmt"
)

var (
	ErrParse            = errors.New("query parse error")
	ErrUnknownFn        = errors.New("unknown function")
	ErrNoSuchTag        = errors.New("no such tag")
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidParameter = errors.New("invalid parameter")

	ErrNoSuchEntry      = errors.New("no such entry")
	ErrNoSuchSequence   = errors.New("no such sequence")
	ErrNoSuchCollection = errors.New("no such collection")
	ErrPathExists       = errors.New("path already exists")
	ErrNameTaken        = errors.New("name already taken")
	ErrEmptyName        = errors.New("tag name cannot be empty")
	ErrIndexOutOfRange  = errors.New("index out of range")
)

type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrParse, e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

type UnknownFnError struct {
	Name string
}

func (e *UnknownFnError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownFn, e.Name)
}

func (e *UnknownFnError) Unwrap() error { return ErrUnknownFn }

type NoSuchTagError struct {
	Name string
}

func (e *NoSuchTagError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNoSuchTag, e.Name)
}

func (e *NoSuchTagError) Unwrap() error { return ErrNoSuchTag }

type MissingParameterError struct {
	Fn string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s for @%s", ErrMissingParameter, e.Fn)
}

func (e *MissingParameterError) Unwrap() error { return ErrMissingParameter }

type InvalidParameterError struct {
	Fn     string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s for @%s: %s", ErrInvalidParameter, e.Fn, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }
