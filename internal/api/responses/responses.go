// internal/api/responses/responses.go
package responses

import (
	"net/http"

	apperrors "ingestion-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// APIResponse defines the standard envelope for API responses.
type APIResponse struct {
	Status  string                 `json:"status"` // "success" or "error"
	Data    interface{}            `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Errors  []string               `json:"errors,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// InitLogger sets the structured logger used for API responses.
func InitLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// Success sends a successful response with the provided data and message.
func Success(c *gin.Context, data interface{}, message string) {
	resp := APIResponse{Status: "success", Data: data, Message: message}
	c.JSON(http.StatusOK, resp)
	logger.Info("API success", zap.String("path", c.Request.URL.Path), zap.Int("status", http.StatusOK))
}

// Error sends an error response with the provided code, message, and optional errors.
func Error(c *gin.Context, code int, message string, errs ...string) {
	resp := APIResponse{Status: "error", Message: message, Errors: errs}
	c.JSON(code, resp)
	logger.Error("API error", zap.String("path", c.Request.URL.Path), zap.Int("status", code), zap.Strings("errors", errs))
}

// AppError maps an error chain to the envelope, using the AppError status and
// code when present and a generic 500 otherwise.
func AppError(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		appErr = apperrors.InternalWrap(err, "erro interno ao processar o arquivo")
	}

	resp := APIResponse{
		Status:  "error",
		Message: appErr.Message,
		Code:    string(appErr.Code),
		Details: appErr.Details,
	}
	if appErr.Err != nil {
		resp.Errors = []string{appErr.Err.Error()}
	}
	c.JSON(appErr.StatusCode, resp)

	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", appErr.StatusCode),
		zap.String("code", string(appErr.Code)),
		zap.Error(err),
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("API error", fields...)
		return
	}
	logger.Warn("API error", fields...)
}
