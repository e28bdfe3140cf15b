package httpapi

import (
	"encoding/json"
	"net/http"

	"inferd/pkg/types"
)

// writeJSONError writes the consistent {detail, type} error payload.
func writeJSONError(w http.ResponseWriter, status int, detail, errType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Detail: detail, Type: errType})
}

// writeUnauthorized writes a 401 with the WWW-Authenticate challenge the
// original bearer scheme emits.
func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSONError(w, http.StatusUnauthorized, detail, "authentication_error")
}

// writeValidationError writes a 422 with field-level details.
func writeValidationError(w http.ResponseWriter, fields []types.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(types.ValidationErrorResponse{Detail: fields, Type: "validation_error"})
}

// writeJSON writes a 200 JSON body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response", "internal_error")
	}
}
