package handlers

import (
	"net/http"
	"runtime"
	"time"
)

type versionResponse struct {
	Version   string    `json:"version"`
	GoVersion string    `json:"goVersion"`
	Timestamp time.Time `json:"timestamp"`
}

// Version returns the version endpoint handler.
func Version(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, versionResponse{
			Version:   version,
			GoVersion: runtime.Version(),
			Timestamp: time.Now().UTC(),
		})
	}
}
