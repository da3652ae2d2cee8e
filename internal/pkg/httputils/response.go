package httputils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"tush00nka/dream_homes/api/response"
)

const maxBodyBytes = 32 << 20 // base64 images travel in the body

func ResponseError(w http.ResponseWriter, errorCode int, errorMessage string) {
	ResponseJSON(w, errorCode, response.ErrorResponse{
		Message: errorMessage,
	})
}

func ResponseStatus(w http.ResponseWriter, statusCode int, status string) {
	ResponseJSON(w, statusCode, response.StatusResponse{
		Status: status,
	})
}

func ResponseJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// DecodeJSON reads a size-limited JSON body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request format: %w", err)
	}
	return nil
}
