/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package errors

import (
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *StatusError
		httpCode int
		reason   string
	}{
		{"bad request", NewBadRequest("missing field"), http.StatusBadRequest, BadRequest},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError, InternalError},
		{"not found generic", NewNotFound("material", "abs"), http.StatusNotFound, NotFound},
		{"not found workflow", NewNotFound("workflow", "ab12"), http.StatusNotFound, WorkflowNotFound},
		{"not found iteration", NewNotFound("iteration", "ab12"), http.StatusNotFound, IterationNotFound},
		{"printer not connected", NewPrinterNotConnected("offline"), http.StatusServiceUnavailable, PrinterNotConnected},
		{"checkpoint blocked", NewCheckpointBlocked("critical issues"), http.StatusConflict, CheckpointBlocked},
		{"slicer unavailable", NewSlicerNotAvailable("no binary"), http.StatusServiceUnavailable, SlicerNotAvailable},
		{"camera busy", NewCameraCaptureBusy("capture in progress"), http.StatusConflict, CameraCaptureBusy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.httpCode, tt.err.HttpCode)
			assert.Equal(t, tt.reason, tt.err.Reason)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestReasonForWrappedError(t *testing.T) {
	err := NewNotFound("iteration", "ab12")
	wrapped := pkgerrors.Wrap(err, "loading record")

	assert.Equal(t, IterationNotFound, ReasonForError(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusNotFound, HttpCodeForError(wrapped))
}

func TestReasonForPlainError(t *testing.T) {
	err := fmt.Errorf("plain failure")
	assert.Equal(t, "", ReasonForError(err))
	assert.False(t, IsVibe(err))
	assert.Equal(t, "", GetErrorCode(err))
	assert.Equal(t, http.StatusInternalServerError, HttpCodeForError(err))
}

func TestIgnoreFound(t *testing.T) {
	assert.NoError(t, IgnoreFound(NewNotFound("job", "current")))
	assert.Error(t, IgnoreFound(NewInternalError("boom")))
	assert.NoError(t, IgnoreFound(nil))
}
