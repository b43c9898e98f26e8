package runner

import (
	"errors"
	"fmt"
)

// ProtectedReason is the reason recorded for files no path could decode
const ProtectedReason = "Protected or Encrypted File - cannot scan"

// ErrInvalidTransition is returned when a session is driven out of order
var ErrInvalidTransition = errors.New("invalid scan session transition")

// ContainerOpenError signals that the bytes are not a valid container.
// It is not fatal: the raw fallback path takes over.
type ContainerOpenError struct {
	Err error
}

func (e ContainerOpenError) Error() string {
	return fmt.Sprintf("container open failed: %v", e.Err)
}

func (e ContainerOpenError) Unwrap() error {
	return e.Err
}

// EntryReadError signals one unreadable section inside a valid container
type EntryReadError struct {
	Entry string
	Err   error
}

func (e EntryReadError) Error() string {
	return fmt.Sprintf("entry %s unreadable: %v", e.Entry, e.Err)
}

func (e EntryReadError) Unwrap() error {
	return e.Err
}

// ProtectedFileError signals a file that cannot be decoded by any path
type ProtectedFileError struct {
	File string
	Err  error
}

func (e ProtectedFileError) Error() string {
	if e.Err == nil {
		return ProtectedReason
	}
	return fmt.Sprintf("%s: %v", ProtectedReason, e.Err)
}

func (e ProtectedFileError) Unwrap() error {
	return e.Err
}

// FatalScanError is an error outside the per-file boundary. The batch
// stops but what was gathered so far is kept.
type FatalScanError struct {
	Err error
}

func (e FatalScanError) Error() string {
	return fmt.Sprintf("scan failed: %v", e.Err)
}

func (e FatalScanError) Unwrap() error {
	return e.Err
}
