package httputil

import (
	"encoding/json"
	"net/http"
)

// M is a response payload merged into the uniform envelope.
type M map[string]interface{}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing left to do.
			return
		}
	}
}

// WriteSuccess writes the uniform envelope {success: true, message?, ...payload}.
func WriteSuccess(w http.ResponseWriter, status int, message string, payload M) {
	body := M{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	WriteJSON(w, status, body)
}

// WriteError writes the uniform error envelope {success: false, error: message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, M{"success": false, "error": message})
}
