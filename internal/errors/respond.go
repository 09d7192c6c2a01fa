package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Paladinnu/paladinspalace/internal/observability"
	"github.com/Paladinnu/paladinspalace/internal/server/middleware"
)

// HTTPErrorDetail is the error body returned to callers.
type HTTPErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// HTTPErrorResponse wraps HTTPErrorDetail in the standard envelope.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// Respond writes err as a JSON error response. Non-AppError values are
// reported as opaque internal errors; database errors keep their code but
// hide the cause from the body.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	var app *AppError
	if !stderrors.As(err, &app) {
		app = Wrap(CodeInternal, "Server error", err)
	}

	status := HTTPStatus(app.Code)
	requestID := ""
	if r != nil {
		requestID = middleware.GetRequestID(r.Context())
	}

	message := app.Message
	if status >= http.StatusInternalServerError {
		// Internal causes stay in the logs only.
		message = "Server error"
	}

	logError(r, app, status, requestID)

	if app.Code == CodeThrottled {
		if retry, ok := app.Details["retry_after"].(int); ok {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:      app.Code,
			Message:   message,
			Details:   app.Details,
			RequestID: requestID,
		},
	})
}

func logError(r *http.Request, app *AppError, status int, requestID string) {
	logger := observability.ServerLogger
	if logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("error_code", app.Code),
		zap.Int("http_status", status),
	}
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if r != nil {
		fields = append(fields, zap.String("path", r.URL.Path))
	}
	if app.cause != nil {
		fields = append(fields, zap.Error(app.cause))
	}

	if status >= http.StatusInternalServerError {
		logger.Error(app.Message, fields...)
		return
	}
	logger.Info(app.Message, fields...)
}
