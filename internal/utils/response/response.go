// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/logger"
	"github.com/oggyb/swipe-match/internal/utils/pagination"
)

// Envelope is the body of every response.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Pagination *pagination.Meta  `json:"pagination,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", slog.Any("err", err))
	}
}

// OK writes {success:true, data}.
func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// Message writes {success:true, message} with optional data.
func Message(w http.ResponseWriter, status int, msg string, data any) {
	JSON(w, status, Envelope{Success: true, Message: msg, Data: data})
}

// Paginated writes a list page with its pagination block.
func Paginated(w http.ResponseWriter, data any, meta pagination.Meta) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: &meta})
}

// Error maps err onto its status. 5xx details stay in the log, not the body.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := svcErr.HTTPStatus(err)
	body := Envelope{Success: false, Message: err.Error()}

	var verr *svcErr.ValidationError
	if svcErr.As(err, &verr) {
		body.Errors = verr.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		body.Message = http.StatusText(status)
	}
	JSON(w, status, body)
}
