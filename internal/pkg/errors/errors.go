package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifica cada tipo de erro exposto ao chamador.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Rejeição de formato, antes de qualquer leitura
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeInvalidFile       ErrorCode = "INVALID_FILE"
	ErrCodeFileTooLarge      ErrorCode = "FILE_TOO_LARGE"

	// Falhas de estrutura e de rendimento
	ErrCodeStructureNotFound ErrorCode = "STRUCTURE_NOT_FOUND"
	ErrCodeNoValidData       ErrorCode = "NO_VALID_DATA"

	// Gravação
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
)

// AppError é um erro estruturado da aplicação.
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails acrescenta contexto ao erro.
func (e *AppError) WithDetails(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New cria um AppError.
func New(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap envolve um erro existente com o contexto de AppError.
func Wrap(err error, code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message, http.StatusInternalServerError)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// Arquivo

func UnsupportedFormat(format string) *AppError {
	return New(ErrCodeUnsupportedFormat,
		fmt.Sprintf("formato de arquivo não suportado: %s (use .xlsx ou .xls)", format),
		http.StatusUnsupportedMediaType)
}

func InvalidFile(message string) *AppError {
	return New(ErrCodeInvalidFile, message, http.StatusBadRequest)
}

func InvalidFileWrap(err error, message string) *AppError {
	return Wrap(err, ErrCodeInvalidFile, message, http.StatusBadRequest)
}

func FileTooLarge(maxSizeMB int64) *AppError {
	return New(ErrCodeFileTooLarge,
		fmt.Sprintf("o arquivo excede o tamanho máximo de %d MB", maxSizeMB),
		http.StatusRequestEntityTooLarge)
}

// Estrutura e rendimento

func StructureNotFound(message string) *AppError {
	return New(ErrCodeStructureNotFound, message, http.StatusUnprocessableEntity)
}

func NoValidData(message string) *AppError {
	return New(ErrCodeNoValidData, message, http.StatusUnprocessableEntity)
}

// Gravação

func WriteFailed(err error) *AppError {
	return Wrap(err, ErrCodeWriteFailed, "falha ao gravar os registros", http.StatusBadGateway)
}

// IsAppError indica se há um AppError na cadeia.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extrai o AppError da cadeia de erros.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// HasCode indica se a cadeia contém um AppError com o código informado.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}
