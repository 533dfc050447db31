// seehuhn.de/go/maptiles - render vector map tiles
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package errors provides the structured error types used while rendering
// tiles.
//
// Errors fall into three groups:
//   - CodeData: a single feature is malformed. The layer skips the
//     feature and continues.
//   - CodeBackend: text shaping or drawing failed. The tile render is
//     aborted.
//   - everything else (source, config, input) is reported to the caller
//     unchanged.
//
// A label that finds no free position is not an error at all.
//
// Failures leaving a layer are wrapped in a [LayerError], so that the
// message names the layer which failed.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

// Error codes.
const (
	CodeData         Code = "DATA"
	CodeBackend      Code = "BACKEND"
	CodeSource       Code = "SOURCE"
	CodeConfig       Code = "CONFIG"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInternal     Code = "INTERNAL"
)

// Error is an error with a code and an optional cause.
type Error struct {
	Code    Code   // error category
	Message string // human-readable message
	Cause   error  // underlying error, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error with the given code, wrapping cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Data reports a malformed feature.
func Data(format string, args ...any) *Error {
	return New(CodeData, format, args...)
}

// Backend wraps a failure of the text or drawing backend.
// A nil cause gives a nil result.
func Backend(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return Wrap(CodeBackend, cause, format, args...)
}

// Is reports whether err, or any error it wraps, is an *Error with the
// given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from err.
// The empty string is returned if err does not wrap an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LayerError records which layer of a tile failed to render.
type LayerError struct {
	Layer string
	Err   error
}

func (e *LayerError) Error() string {
	return fmt.Sprintf("failed to render %q: %v", e.Layer, e.Err)
}

// Unwrap returns the error which stopped the layer.
func (e *LayerError) Unwrap() error {
	return e.Err
}

// InLayer wraps err as a *LayerError for the named layer.
// A nil err gives a nil result.
func InLayer(layer string, err error) error {
	if err == nil {
		return nil
	}
	return &LayerError{Layer: layer, Err: err}
}
