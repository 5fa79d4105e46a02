package server

import (
	"encoding/json"
	"errors"
	"net/http"

	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/store"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	switch code := apperr.GetCode(err); {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case code == apperr.ErrCodeNotFound:
		return http.StatusNotFound
	case code == apperr.ErrCodeIterationLimit:
		return http.StatusUnprocessableEntity
	case code == apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
		if status == http.StatusNotFound {
			code = apperr.ErrCodeNotFound
		}
	}
	msg := apperr.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "error", err)
		if code == apperr.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
