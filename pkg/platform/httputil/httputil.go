package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorBody mirrors the error envelope of the BriteVerify bulk API.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error envelope. Server errors never expose the message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	if status >= http.StatusInternalServerError {
		message = ""
	}
	WriteJSON(w, status, ErrorBody{Status: code, Message: message})
}
