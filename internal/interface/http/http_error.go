package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/activity-finder/pkg/errors"
)

// HTTPError is the status, code and client-facing message rendered by
// errorHandlingMiddleware. Err stays server side and is only logged.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError builds an HTTPError for failures detected in the transport layer.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// appErrorStatus maps domain error codes to response statuses.
var appErrorStatus = map[string]int{
	"invalid_input":        http.StatusBadRequest,
	"missing_session":      http.StatusBadRequest,
	"upstream_unavailable": http.StatusInternalServerError,
	"session_error":        http.StatusInternalServerError,
}

// asHTTPError resolves err into its response form. Domain errors keep their
// code and message; anything unrecognised becomes an opaque internal_error.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if status, ok := appErrorStatus[appErr.Code]; ok {
			return &HTTPError{Status: status, Code: appErr.Code, Message: appErr.Message, Err: err}
		}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// abortWithError records err for errorHandlingMiddleware and stops the chain.
func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
