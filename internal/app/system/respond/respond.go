// Package respond writes JSON responses and error envelopes for the API.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// errorBody is the envelope for every failed API call:
//
//	{ "error": { "kind": "conflict", "message": "user has already accepted this request" } }
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an error envelope. Internal errors are logged with
// the operation name and rendered with a generic message.
func Error(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal && log != nil {
		log.Error("request failed", zap.String("operation", op), zap.Error(err))
	}
	JSON(w, apperr.HTTPStatus(kind), errorBody{Error: errorDetail{
		Kind:    kind,
		Message: apperr.PublicMessage(err),
	}})
}

// Message writes a {"message": ...} confirmation body.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// DecodeJSON decodes the request body into v. An empty or malformed body is
// a validation error.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}
