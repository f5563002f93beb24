package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-blog-api/pkg/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody is the error payload: a stable code plus optional details.
type ErrorBody struct {
	Code    apperror.Kind `json:"code"`
	Details interface{}   `json:"details,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failure envelope and returns it. Callers in middleware must still Abort.
func Error[T any](ctx *gin.Context, status int, code apperror.Kind, message string, details interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     &ErrorBody{Code: code, Details: details},
	}
	ctx.JSON(status, resp)
	return resp
}

// Fail writes err as a failure envelope. When exposeCause is set the underlying
// cause is included in the details (development only).
func Fail(ctx *gin.Context, err error, exposeCause bool) {
	ae := apperror.From(err)
	details := ae.Details
	if exposeCause && ae.Cause != nil && details == nil {
		details = ae.Cause.Error()
	}
	Error[any](ctx, ae.Status(), ae.Kind, ae.Message, details)
}

// Abort is Fail followed by ctx.Abort, for middleware.
func Abort(ctx *gin.Context, err error, exposeCause bool) {
	Fail(ctx, err, exposeCause)
	ctx.Abort()
}
