package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/Paladinnu/paladinspalace/internal/observability"
)

// Recovery recovers from handler panics, logs the stack, and returns an
// opaque internal error envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID := GetRequestID(r.Context())
				if logger := observability.ServerLogger; logger != nil {
					logger.Error("panic recovered",
						zap.String("request_id", requestID),
						zap.String("path", r.URL.Path),
						zap.String("panic", fmt.Sprintf("%v", rec)),
						zap.String("stack", string(debug.Stack())))
				}
				writePanicResponse(w, requestID)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// panicResponse mirrors the errors package envelope; built here directly to
// avoid a circular import.
type panicResponse struct {
	Error panicDetail `json:"error"`
}

type panicDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writePanicResponse(w http.ResponseWriter, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(panicResponse{
		Error: panicDetail{
			Code:      "INTERNAL_ERROR",
			Message:   "Server error",
			RequestID: requestID,
		},
	})
}
