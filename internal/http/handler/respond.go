package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notely/internal/apperr"
)

type errorBody struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and writes the JSON error envelope.
// Unexpected errors are logged and hidden behind a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status := apperr.Status(err)
	body := errorBody{Error: err.Error()}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body.Error = "validation failed"
		body.Fields = ve.Fields
	}

	switch {
	case status == http.StatusUnauthorized:
		body.Error = publicMessage(err, apperr.ErrUnauthorized)
	case status == http.StatusNotFound:
		body.Error = publicMessage(err, apperr.ErrNotFound)
	case status == http.StatusConflict:
		body.Error = publicMessage(err, apperr.ErrConflict)
	case status >= http.StatusInternalServerError:
		log.Error().Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("internal error")
		body.Error = "internal server error"
	}

	writeJSON(w, status, body)
}

// publicMessage strips service prefixes ("note.Update: ...") so only the
// part starting at the sentinel is shown to clients.
func publicMessage(err, sentinel error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if msg := e.Error(); strings.HasPrefix(msg, sentinel.Error()) {
			return msg
		}
	}
	return sentinel.Error()
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("body", "malformed JSON")
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Invalid("id", "must be a valid UUID")
	}
	return id, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Invalid(key, "must be an integer")
	}
	return n, nil
}
