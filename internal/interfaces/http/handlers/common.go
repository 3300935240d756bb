// Package handlers implements the gin handlers of the DockNet API.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DataResponse wraps list and result payloads.
type DataResponse struct {
	Data any `json:"data"`
}

func writeJSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// writeError maps err onto its status code.  Errors without an application
// code are masked as internal errors.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		logger.Error("Unhandled error", logging.String("path", c.Request.URL.Path), logging.Err(err))
		code = errors.ErrCodeInternal
		err = errors.New(code, errors.DefaultMessageForCode(code))
	}
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: string(code), Message: message(err)})
}

func message(err error) string {
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		if ae.Detail != "" {
			return ae.Message + " (" + ae.Detail + ")"
		}
		return ae.Message
	}
	return err.Error()
}

// bindJSON decodes the body into dst, reporting malformed input as a
// validation error.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "malformed request body")
	}
	return nil
}
