/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const VibePrefix = "Vibe."

/*
   5-digit Error Code Convention: [xx][yyy]
   [xx] Business ID (00–99), used to distinguish errors from different business interfaces.
   00: General errors
   01: Printer-related errors
   02: Workflow-related errors
   03: Iteration-related errors
   04: Slicer-related errors
   05: Camera-related errors
   [yyy] Error code range (000–999)
*/

// public: 00xxx
const (
	InternalError         = VibePrefix + "00001"
	BadRequest            = VibePrefix + "00002"
	Forbidden             = VibePrefix + "00003"
	AlreadyExist          = VibePrefix + "00004"
	NotFound              = VibePrefix + "00005"
	RequestEntityTooLarge = VibePrefix + "00006"
	NotImplemented        = VibePrefix + "00007"
)

// printer: 01xxx
const (
	PrinterNotConnected = VibePrefix + "01001"
	PrinterBusy         = VibePrefix + "01002"
	JobNotFound         = VibePrefix + "01003"
	UnsupportedFile     = VibePrefix + "01004"
)

// workflow: 02xxx
const (
	WorkflowNotFound   = VibePrefix + "02001"
	CheckpointNotFound = VibePrefix + "02002"
	CheckpointBlocked  = VibePrefix + "02003"
)

// iteration: 03xxx
const (
	IterationNotFound  = VibePrefix + "03001"
	IterationFinalized = VibePrefix + "03002"
)

// slicer: 04xxx
const (
	SlicerNotAvailable = VibePrefix + "04001"
)

// camera: 05xxx
const (
	CameraNotOpen     = VibePrefix + "05001"
	CameraCaptureBusy = VibePrefix + "05002"
)

// StatusError is a coded error carrying the HTTP status it maps to.
type StatusError struct {
	HttpCode int
	Reason   string
	Message  string
}

func (e *StatusError) Error() string {
	return e.Message
}

// ReasonForError returns the error code of err, or empty if err carries none.
func ReasonForError(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Reason
	}
	return ""
}

// HttpCodeForError returns the HTTP status err maps to, defaulting to 500.
func HttpCodeForError(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.HttpCode
	}
	return http.StatusInternalServerError
}

// returns true if the specified error reason is a vibe error.
func IsVibe(err error) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(ReasonForError(err), VibePrefix)
}

func IsAlreadyExist(err error) bool {
	return ReasonForError(err) == AlreadyExist
}

func IsBadRequest(err error) bool {
	return ReasonForError(err) == BadRequest
}

func IsInternal(err error) bool {
	return ReasonForError(err) == InternalError
}

func IsNotFound(err error) bool {
	switch ReasonForError(err) {
	case NotFound, JobNotFound, WorkflowNotFound, CheckpointNotFound, IterationNotFound:
		return true
	}
	return false
}

func IgnoreFound(err error) error {
	if err == nil || IsNotFound(err) {
		return nil
	}
	return err
}

func GetErrorCode(err error) string {
	if err == nil || !IsVibe(err) {
		return ""
	}
	return ReasonForError(err)
}

func NewBadRequest(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusBadRequest,
		Reason:   BadRequest,
		Message:  fmt.Sprintf("Bad request. %s", message),
	}
}

func NewInternalError(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusInternalServerError,
		Reason:   InternalError,
		Message:  fmt.Sprintf("Internal error. %s", message),
	}
}

func NewAlreadyExist(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusConflict,
		Reason:   AlreadyExist,
		Message:  message,
	}
}

func NewForbidden(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusForbidden,
		Reason:   Forbidden,
		Message:  message,
	}
}

func notFoundErrorCode(kind string) string {
	switch kind {
	case "job":
		return JobNotFound
	case "workflow":
		return WorkflowNotFound
	case "checkpoint":
		return CheckpointNotFound
	case "iteration":
		return IterationNotFound
	default:
		return NotFound
	}
}

func NewNotFound(kind, name string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusNotFound,
		Reason:   notFoundErrorCode(kind),
		Message:  fmt.Sprintf("%s %s not found.", kind, name),
	}
}

func NewNotFoundWithMessage(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusNotFound,
		Reason:   NotFound,
		Message:  message,
	}
}

func NewRequestEntityTooLargeError(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusRequestEntityTooLarge,
		Reason:   RequestEntityTooLarge,
		Message:  fmt.Sprintf("Request entity is too large: %s", message),
	}
}

func NewNotImplemented(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusNotImplemented,
		Reason:   NotImplemented,
		Message:  message,
	}
}

func NewPrinterNotConnected(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusServiceUnavailable,
		Reason:   PrinterNotConnected,
		Message:  message,
	}
}

func NewPrinterBusy(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusConflict,
		Reason:   PrinterBusy,
		Message:  message,
	}
}

func NewUnsupportedFile(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusBadRequest,
		Reason:   UnsupportedFile,
		Message:  message,
	}
}

func NewCheckpointBlocked(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusConflict,
		Reason:   CheckpointBlocked,
		Message:  message,
	}
}

func NewIterationFinalized(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusConflict,
		Reason:   IterationFinalized,
		Message:  message,
	}
}

func NewSlicerNotAvailable(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusServiceUnavailable,
		Reason:   SlicerNotAvailable,
		Message:  message,
	}
}

func NewCameraNotOpen(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusServiceUnavailable,
		Reason:   CameraNotOpen,
		Message:  message,
	}
}

func NewCameraCaptureBusy(message string) *StatusError {
	return &StatusError{
		HttpCode: http.StatusConflict,
		Reason:   CameraCaptureBusy,
		Message:  message,
	}
}
