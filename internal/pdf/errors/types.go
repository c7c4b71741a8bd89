package errors

import (
	stderrors "errors"
	"fmt"
)

// PDFError is a document-scoped failure with enough context to report it
// against one input file without aborting a batch.
type PDFError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	Err        error     `json:"-"`
}

// ErrorType categorises document failures.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidHeader
	ErrorTypeCorruptedData
	ErrorTypeFileTooLarge
	ErrorTypeAccessDenied
	ErrorTypeInvalidPageRange
	ErrorTypeExportFailed
	ErrorTypeOCRUnavailable
	ErrorTypeWriteFailed
)

// Error implements the error interface.
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the wrapped cause.
func (e *PDFError) Unwrap() error {
	return e.Err
}

// Is matches another PDFError of the same type, so callers can test
// errors.Is(err, &PDFError{Type: ErrorTypeExportFailed}).
func (e *PDFError) Is(target error) bool {
	t, ok := target.(*PDFError)
	return ok && t.Type == e.Type
}

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidHeader:
		return "INVALID_HEADER"
	case ErrorTypeCorruptedData:
		return "CORRUPTED_DATA"
	case ErrorTypeFileTooLarge:
		return "FILE_TOO_LARGE"
	case ErrorTypeAccessDenied:
		return "ACCESS_DENIED"
	case ErrorTypeInvalidPageRange:
		return "INVALID_PAGE_RANGE"
	case ErrorTypeExportFailed:
		return "EXPORT_FAILED"
	case ErrorTypeOCRUnavailable:
		return "OCR_UNAVAILABLE"
	case ErrorTypeWriteFailed:
		return "WRITE_FAILED"
	default:
		return "UNKNOWN"
	}
}

// NewPDFError creates a PDFError.
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{Type: errorType, Message: message}
}

// WrapError wraps err as a PDFError of the given type.
func WrapError(errorType ErrorType, message string, err error) *PDFError {
	return &PDFError{Type: errorType, Message: message, Err: err}
}

// WithContext adds context to an existing PDFError.
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithFile adds file path information to an existing PDFError.
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError.
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// TypeOf returns the ErrorType of the first PDFError in err's chain.
func TypeOf(err error) ErrorType {
	var pe *PDFError
	if stderrors.As(err, &pe) {
		return pe.Type
	}
	return ErrorTypeUnknown
}
