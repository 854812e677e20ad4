package gridchunk

import "fmt"

// Error types for gridchunk operations
var (
	// ErrBackendOpen is returned when the source grid cannot be opened
	ErrBackendOpen = &GridError{Code: "BACKEND_OPEN_FAILED", Message: "failed to open source grid"}

	// ErrInvalidWindow is returned when the clamped read window is empty
	ErrInvalidWindow = &GridError{Code: "INVALID_WINDOW_GEOMETRY", Message: "window has no readable area"}

	// ErrAlreadyExists is returned when the output path already exists
	ErrAlreadyExists = &GridError{Code: "OUTPUT_ALREADY_EXISTS", Message: "output path already exists"}

	// ErrPartialWrite is returned when a band write fails and the partial
	// output has been removed
	ErrPartialWrite = &GridError{Code: "PARTIAL_WRITE_FAILED", Message: "band write failed"}
)

// GridError represents a structured error in gridchunk operations
type GridError struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error, if any
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *GridError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GridError) Unwrap() error {
	return e.Cause
}

// Is matches GridErrors by code, so errors.Is works against the sentinel
// values above regardless of attached cause or details
func (e *GridError) Is(target error) bool {
	t, ok := target.(*GridError)
	return ok && t.Code == e.Code
}

// WithCause adds a cause to the error
func (e *GridError) WithCause(cause error) *GridError {
	return &GridError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

// WithDetail adds a detail key-value pair to the error
func (e *GridError) WithDetail(key string, value interface{}) *GridError {
	details := make(map[string]interface{})
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &GridError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *GridError) WithMessage(message string) *GridError {
	return &GridError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// NewBackendOpenError creates a backend open error
func NewBackendOpenError(path string, cause error) error {
	return ErrBackendOpen.
		WithDetail("path", path).
		WithCause(cause)
}

// NewInvalidWindowError creates an invalid window geometry error
func NewInvalidWindowError(xStart, yStart, cols, rows, buffer, srcCols, srcRows int) error {
	return ErrInvalidWindow.
		WithDetail("xStart", xStart).
		WithDetail("yStart", yStart).
		WithDetail("cols", cols).
		WithDetail("rows", rows).
		WithDetail("buffer", buffer).
		WithDetail("srcCols", srcCols).
		WithDetail("srcRows", srcRows)
}

// NewAlreadyExistsError creates an output path collision error
func NewAlreadyExistsError(path string) error {
	return ErrAlreadyExists.WithDetail("path", path)
}

// NewPartialWriteError creates a partial write error
func NewPartialWriteError(path string, band int, cause error) error {
	return ErrPartialWrite.
		WithDetail("path", path).
		WithDetail("band", band).
		WithCause(cause)
}
