package crud

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/zgent/internal/artifact"
)

// ErrorCode classifies an expected failure.
type ErrorCode string

// Error codes.
const (
	CodeInvalidType ErrorCode = "INVALID_ARTIFACT_TYPE"
	CodeValidation  ErrorCode = "VALIDATION_FAILED"
	CodeNotFound    ErrorCode = "ARTIFACT_NOT_FOUND"
	CodeDuplicate   ErrorCode = "DUPLICATE_ARTIFACT"
)

// Error is an expected failure carried inside a Result.
type Error struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Detail  ErrorDetail `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorDetail is TargetDetail or ValidationDetail.
type ErrorDetail interface {
	errorDetail()
}

// TargetDetail names the artifact a failure is about.
type TargetDetail struct {
	Type artifact.Type `json:"type"`
	ID   string        `json:"id"`
	Path string        `json:"path,omitempty"`
}

// ValidationDetail lists every problem found in the input.
type ValidationDetail struct {
	Issues []string `json:"issues"`
}

func (TargetDetail) errorDetail()     {}
func (ValidationDetail) errorDetail() {}

func invalidType(t artifact.Type) *Error {
	return &Error{
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("unknown artifact type %q", string(t)),
	}
}

func notFound(t artifact.Type, id, path string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %q not found", t, id),
		Detail:  TargetDetail{Type: t, ID: id, Path: path},
	}
}

func duplicate(t artifact.Type, id, path string) *Error {
	return &Error{
		Code:    CodeDuplicate,
		Message: fmt.Sprintf("%s %q already exists", t, id),
		Detail:  TargetDetail{Type: t, ID: id, Path: path},
	}
}

func validationFailed(issues []string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: strings.Join(issues, "; "),
		Detail:  ValidationDetail{Issues: issues},
	}
}
