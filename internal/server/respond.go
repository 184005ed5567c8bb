// internal/server/respond.go
package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"financeflow/internal/common/errors"
)

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, err error) {
	stdErr := errors.Normalize(err)
	respondJSON(w, errors.HTTPStatus(stdErr.Code), errorBody{
		Error:   stdErr.Message,
		Code:    string(stdErr.Code),
		Details: stdErr.Details,
	})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewValidationFailedError("malformed JSON body")
	}
	return nil
}
