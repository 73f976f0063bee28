// Package request parses path, query and body input of HTTP handlers.
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oggyb/swipe-match/internal/config"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/middleware"
	"github.com/oggyb/swipe-match/internal/utils/pagination"
)

const maxBodyBytes = 1 << 20

// PathID parses a numeric mux path variable.
func PathID(r *http.Request, name string) (uint64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", svcErr.ErrInvalidArgument, name)
	}
	return id, nil
}

// UserID is the authenticated caller.
func UserID(r *http.Request) (uint64, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return 0, svcErr.ErrUnauthorized
	}
	return id, nil
}

// Page reads ?page&per_page, clamped to the configured bounds.
func Page(r *http.Request, cfg *config.Config) pagination.Params {
	q := r.URL.Query()
	return pagination.Parse(q.Get("page"), q.Get("per_page"), cfg.Pagination.DefaultPerPage, cfg.Pagination.MaxPerPage)
}

// DecodeJSON reads a JSON body into v; unknown fields are ignored.
func DecodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty body", svcErr.ErrInvalidArgument)
		}
		return fmt.Errorf("%w: malformed JSON: %v", svcErr.ErrInvalidArgument, err)
	}
	return nil
}
