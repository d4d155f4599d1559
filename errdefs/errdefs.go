/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package errdefs defines the classes of errors returned by the
// compatibility layer. Callers match them with errors.Is; the concrete error
// usually carries more context, such as the path or the native call.
package errdefs

import (
	"syscall"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned for missing or malformed input and for
	// transfer lengths the native API cannot represent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBadDescriptor is returned for negative or closed descriptors.
	ErrBadDescriptor = errors.New("bad file descriptor")

	// ErrNotFound is returned when a path could not be resolved.
	ErrNotFound = errors.New("not found")

	// ErrNotSupported is returned when the platform has no equivalent.
	ErrNotSupported = errors.New("not supported")
)

// NativeError records a failed native call and the error code the platform
// reported for it.
type NativeError struct {
	Op  string
	Err error
}

func (e *NativeError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NativeError) Unwrap() error {
	return e.Err
}

// Is reports whether the native error code belongs to the class named by
// target, so errors.Is(err, ErrNotFound) works for native failures too.
func (e *NativeError) Is(target error) bool {
	var errno syscall.Errno
	if !errors.As(e.Err, &errno) {
		return false
	}
	switch target {
	case ErrNotFound:
		return isNotFound(errno)
	case ErrBadDescriptor:
		return isBadDescriptor(errno)
	case ErrInvalidArgument:
		return isInvalidArgument(errno)
	}
	return false
}

// Native wraps the error returned by the native call op. A nil error stays
// nil.
func Native(op string, err error) error {
	if err == nil {
		return nil
	}
	return &NativeError{Op: op, Err: err}
}

// IsInvalidArgument returns true if the error is due to an invalid argument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsBadDescriptor returns true if the error is due to an invalid descriptor.
func IsBadDescriptor(err error) bool {
	return errors.Is(err, ErrBadDescriptor)
}

// IsNotFound returns true if the error is due to a missing path.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotSupported returns true if the operation has no native equivalent.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}
