package cdc

import (
	"context"
	"errors"
	"os"
	"syscall"

	usb "github.com/kevmo314/go-usb"
)

// Code is a numeric error classification. The values mirror the libusb error
// enumeration so callers used to it can translate directly.
type Code int

const (
	Success         Code = 0
	ErrIO           Code = -1
	ErrInvalidParam Code = -2
	ErrAccess       Code = -3
	ErrNoDevice     Code = -4
	ErrNotFound     Code = -5
	ErrBusy         Code = -6
	ErrTimeout      Code = -7
	ErrOverflow     Code = -8
	ErrPipe         Code = -9
	ErrInterrupted  Code = -10
	ErrNoMem        Code = -11
	ErrNotSupported Code = -12
	ErrOther        Code = -99
)

// Name returns the enumerator-style name of the code.
func (c Code) Name() string {
	switch c {
	case Success:
		return "CDC_SUCCESS"
	case ErrIO:
		return "CDC_ERROR_IO"
	case ErrInvalidParam:
		return "CDC_ERROR_INVALID_PARAM"
	case ErrAccess:
		return "CDC_ERROR_ACCESS"
	case ErrNoDevice:
		return "CDC_ERROR_NO_DEVICE"
	case ErrNotFound:
		return "CDC_ERROR_NOT_FOUND"
	case ErrBusy:
		return "CDC_ERROR_BUSY"
	case ErrTimeout:
		return "CDC_ERROR_TIMEOUT"
	case ErrOverflow:
		return "CDC_ERROR_OVERFLOW"
	case ErrPipe:
		return "CDC_ERROR_PIPE"
	case ErrInterrupted:
		return "CDC_ERROR_INTERRUPTED"
	case ErrNoMem:
		return "CDC_ERROR_NO_MEM"
	case ErrNotSupported:
		return "CDC_ERROR_NOT_SUPPORTED"
	default:
		return "CDC_ERROR_OTHER"
	}
}

func (c Code) Error() string {
	switch c {
	case Success:
		return "success"
	case ErrIO:
		return "input/output error"
	case ErrInvalidParam:
		return "invalid parameter"
	case ErrAccess:
		return "access denied (insufficient permissions)"
	case ErrNoDevice:
		return "no such device (it may have been disconnected)"
	case ErrNotFound:
		return "entity not found"
	case ErrBusy:
		return "resource busy"
	case ErrTimeout:
		return "operation timed out"
	case ErrOverflow:
		return "overflow"
	case ErrPipe:
		return "pipe error"
	case ErrInterrupted:
		return "system call interrupted (perhaps due to signal)"
	case ErrNoMem:
		return "insufficient memory"
	case ErrNotSupported:
		return "operation not supported or unimplemented on this platform"
	default:
		return "other error"
	}
}

// Error carries the failing operation, its classification and the underlying
// transport error, if any.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Code.Name() + " (" + e.Code.Error() + ")"
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target matches the error's classification, so
// errors.Is(err, cdc.ErrTimeout) works across wrapping.
func (e *Error) Is(target error) bool {
	if c, ok := target.(Code); ok {
		return e.Code == c
	}
	return false
}

// errorCode classifies an underlying transport error.
func errorCode(err error) Code {
	if err == nil {
		return Success
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	switch {
	case errors.Is(err, usb.ErrPermissionDenied):
		return ErrAccess
	case errors.Is(err, usb.ErrDeviceNotFound):
		return ErrNoDevice
	case errors.Is(err, usb.ErrDeviceBusy):
		return ErrBusy
	case errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EIO:
			return ErrIO
		case syscall.EINVAL:
			return ErrInvalidParam
		case syscall.EACCES, syscall.EPERM:
			return ErrAccess
		case syscall.ENODEV, syscall.ENXIO:
			return ErrNoDevice
		case syscall.ENOENT:
			return ErrNotFound
		case syscall.EBUSY:
			return ErrBusy
		case syscall.ETIMEDOUT:
			return ErrTimeout
		case syscall.EOVERFLOW:
			return ErrOverflow
		case syscall.EPIPE:
			return ErrPipe
		case syscall.EINTR:
			return ErrInterrupted
		case syscall.ENOMEM:
			return ErrNoMem
		case syscall.ENOSYS, syscall.EOPNOTSUPP:
			return ErrNotSupported
		}
	}
	return ErrOther
}

// opError wraps a transport error with its operation and classification.
func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Op: op, Code: errorCode(err), Err: err}
}
