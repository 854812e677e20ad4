package gridchunk

import (
	"errors"
	"strings"
	"testing"
)

func TestGridError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *GridError
		wantStr string
	}{
		{
			name: "basic error",
			err: &GridError{
				Code:    "TEST_ERROR",
				Message: "test message",
			},
			wantStr: "[TEST_ERROR] test message",
		},
		{
			name: "error with cause",
			err: &GridError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Cause:   errors.New("underlying error"),
			},
			wantStr: "[TEST_ERROR] test message: underlying error",
		},
		{
			name: "error with details",
			err: &GridError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Details: map[string]interface{}{"key": "value"},
			},
			wantStr: "details",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if !strings.Contains(got, tt.wantStr) {
				t.Errorf("Error() = %q, want to contain %q", got, tt.wantStr)
			}
		})
	}
}

func TestGridError_WithCause(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrBackendOpen.WithCause(cause)

	if err.Cause != cause {
		t.Errorf("WithCause() cause = %v, want %v", err.Cause, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("WithCause() should allow errors.Is to work")
	}
}

func TestGridError_WithDetail(t *testing.T) {
	err := ErrAlreadyExists.WithDetail("path", "/tmp/out.tif")

	if err.Details["path"] != "/tmp/out.tif" {
		t.Errorf("WithDetail() path = %v, want /tmp/out.tif", err.Details["path"])
	}
}

func TestGridError_WithMessage(t *testing.T) {
	err := ErrInvalidWindow.WithMessage("custom message")

	if err.Message != "custom message" {
		t.Errorf("WithMessage() message = %q, want 'custom message'", err.Message)
	}
	if err.Code != ErrInvalidWindow.Code {
		t.Errorf("WithMessage() code = %q, want %q", err.Code, ErrInvalidWindow.Code)
	}
}

func TestGridError_IsMatchesByCode(t *testing.T) {
	err := NewBackendOpenError("/missing.tif", errors.New("no such file"))

	if !errors.Is(err, ErrBackendOpen) {
		t.Error("errors.Is should match ErrBackendOpen by code")
	}
	if errors.Is(err, ErrAlreadyExists) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestNewPartialWriteError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPartialWriteError("/tmp/out.tif", 3, cause)

	var ge *GridError
	if !errors.As(err, &ge) {
		t.Fatal("expected a *GridError")
	}
	if ge.Details["band"] != 3 {
		t.Errorf("band detail = %v, want 3", ge.Details["band"])
	}
	if ge.Details["path"] != "/tmp/out.tif" {
		t.Errorf("path detail = %v, want /tmp/out.tif", ge.Details["path"])
	}
	if !errors.Is(err, cause) {
		t.Error("cause should remain reachable through the chain")
	}
}
