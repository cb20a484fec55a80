package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the uniform success/failure wrapper used by every endpoint.
// The zero-value omitempty fields keep each response down to the keys the
// clients of the original API expect.
type Envelope struct {
	Status      bool   `json:"status"`
	Message     string `json:"message,omitempty"`
	User        any    `json:"user,omitempty"`
	Data        any    `json:"data,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ErrorResponse is the bare 401 shape. It deliberately lacks the `status`
// key: unauthenticated responses have always looked like this and clients
// depend on it.
type ErrorResponse struct {
	Error string `json:"error"`
}

// validationResponse is the 422 shape: an `errors` bag and nothing else.
type validationResponse struct {
	Errors map[string][]string `json:"errors"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondSuccess sends a `{status: true, message, data}` envelope.
func RespondSuccess(w http.ResponseWriter, message string, data any, statusCode int) {
	RespondJSON(w, Envelope{Status: true, Message: message, Data: data}, statusCode)
}

// RespondFailure sends a `{status: false, message}` envelope, used for
// empty listings and missing resources.
func RespondFailure(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, Envelope{Status: false, Message: message}, statusCode)
}

// RespondServerError sends the 500 `{status: false, error}` envelope with
// the diagnostic text surfaced as-is.
func RespondServerError(w http.ResponseWriter, errMessage string) {
	RespondJSON(w, Envelope{Status: false, Error: errMessage}, http.StatusInternalServerError)
}

// RespondUnauthorized sends the 401 `{error}` shape.
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondJSON(w, ErrorResponse{Error: message}, http.StatusUnauthorized)
}

// RespondValidationErrors sends the 422 `{errors: {field: [messages]}}`
// shape with the full set of field errors.
func RespondValidationErrors(w http.ResponseWriter, errs map[string][]string) {
	RespondJSON(w, validationResponse{Errors: errs}, http.StatusUnprocessableEntity)
}
