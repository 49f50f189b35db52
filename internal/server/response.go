package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes returned in the "code" field of failed responses.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeMissingTag         = "MISSING_TAG"
	CodeDuplicateTag       = "DUPLICATE_TAG"
	CodeInvalidBoundary    = "INVALID_BOUNDARY"
	CodeLotTooLarge        = "LOT_TOO_LARGE"
	CodeInvalidDimensions  = "INVALID_DIMENSIONS"
	CodeInvalidOrientation = "INVALID_ORIENTATION"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodePreviewTooLarge    = "PREVIEW_TOO_LARGE"
	CodePublishDisabled    = "PUBLISH_DISABLED"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// Success sends a successful JSON response with the given data.
// The response always includes "error": false.
func Success(c echo.Context, data map[string]interface{}) error {
	resp := make(map[string]interface{}, len(data)+1)
	resp["error"] = false
	for k, v := range data {
		resp[k] = v
	}
	return c.JSON(http.StatusOK, resp)
}

// Error sends an error JSON response with the given status code and message.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"message": message,
	})
}

// ErrorWithCode sends an error response carrying a machine-readable code.
func ErrorWithCode(c echo.Context, statusCode int, code string, message string) error {
	return c.JSON(statusCode, map[string]interface{}{
		"error":   true,
		"code":    code,
		"message": message,
	})
}
