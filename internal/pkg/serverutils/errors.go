package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNoFiles             = "NO_FILES"
	CodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	CodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	CodeInvalidSource       = "INVALID_SOURCE_FORMAT"
	CodeProcessInterrupt    = "PROCESS_INTERRUPT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotFound            = "NOT_FOUND"
	CodeAuthFault           = "AUTH_FAULT"
	CodeRequest             = "REQUEST_ERROR"
	CodeSystemFault         = "SYSTEM_FAULT"
	CodeGlobalFault         = "GLOBAL_FAULT"
)

// AppError is an error whose message and code are safe to return to clients.
type AppError struct {
	Status   int
	Title    string
	Code     string
	Message  string
	FileName string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func BadRequest(code, message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Title: "Invalid Request", Code: code, Message: message}
}

func NoFiles() *AppError {
	return BadRequest(CodeNoFiles, "No files provided.")
}

func UnsupportedFormat(format string) *AppError {
	e := BadRequest(CodeUnsupportedFormat, fmt.Sprintf("Output format '%s' is not supported.", format))
	e.Title = "Limitation detected"
	return e
}

func UnsupportedLanguage(lang string) *AppError {
	e := BadRequest(CodeUnsupportedLanguage,
		fmt.Sprintf("System capability restricted: Linguistic synchronization for '%s' is not available.", lang))
	e.Title = "Limitation detected"
	return e
}

func InvalidSource(fileName string) *AppError {
	e := BadRequest(CodeInvalidSource, fmt.Sprintf("File %s is not a PDF.", fileName))
	e.FileName = fileName
	return e
}

// ProcessInterrupt reports a failed file. The cause is logged, never returned.
func ProcessInterrupt(fileName string, err error) *AppError {
	return &AppError{
		Status:   fiber.StatusInternalServerError,
		Title:    "Processing failed",
		Code:     CodeProcessInterrupt,
		Message:  fmt.Sprintf("Error converting %s.", fileName),
		FileName: fileName,
		Err:      err,
	}
}

func AuthFault(message string, err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Title:   "Configuration Error",
		Code:    CodeAuthFault,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Title: "Not Found", Code: CodeNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Title: "Unauthorized", Code: CodeUnauthorized, Message: message}
}
