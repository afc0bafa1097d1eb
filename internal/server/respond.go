package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
)

// apiError is the JSON error envelope returned by every failing request.
type apiError struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// validationError carries per-field messages to the error envelope.
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.fields)
}

func newValidationError(field, message string) *validationError {
	return &validationError{fields: map[string]string{field: message}}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Error().Err(err).Msg("Failed to encode response")
		}
	}
}

// respondError maps store sentinels and validation failures to the stable
// error kinds of the API contract. Unknown errors are logged and reported
// as internal without leaking detail.
func respondError(w http.ResponseWriter, err error) {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{
			Kind:    "validation",
			Message: "invalid request",
			Fields:  ve.fields,
		}})

	case errors.Is(err, store.ErrChangeOrderResolved):
		respondJSON(w, http.StatusConflict, errorResponse{Error: apiError{
			Kind:    "conflict",
			Message: "change order already resolved",
		}})

	case errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, store.ErrCustomerNotFound),
		errors.Is(err, store.ErrPartnerNotFound),
		errors.Is(err, store.ErrPropertyNotFound),
		errors.Is(err, store.ErrTemplateNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrChangeOrderNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: apiError{
			Kind:    "not_found",
			Message: err.Error(),
		}})

	default:
		log.Error().Err(err).Msg("Internal error")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: apiError{
			Kind:    "internal",
			Message: "internal server error",
		}})
	}
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return newValidationError("body", "invalid JSON body")
	}
	return nil
}

// intQuery parses a positive integer query parameter, falling back to a
// default when absent or malformed.
func intQuery(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// parseOptionalUUIDQuery parses an optional UUID query parameter.
func parseOptionalUUIDQuery(name, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, newValidationError(name, "must be a valid UUID")
	}
	return &id, nil
}

// pathUUID parses a UUID path segment.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, newValidationError(name, "must be a valid UUID")
	}
	return id, nil
}
