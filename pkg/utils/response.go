package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/bizerror"
)

// Envelope is the uniform response body for every JSON endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON writes a success envelope with the given payload
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// JSONMessage writes a success envelope with a message and payload
func JSONMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope. Business errors carry their own HTTP
// status; anything else is a 500 with the detail kept out of the response.
func Error(w http.ResponseWriter, err error) {
	var bizErr *bizerror.Error
	if errors.As(err, &bizErr) {
		ErrorMessage(w, bizErr.Status, bizErr.Message)
		return
	}

	log.Printf("[Error] %v", err)
	ErrorMessage(w, http.StatusInternalServerError, "Internal server error")
}

// ErrorMessage writes a failure envelope with an explicit status and message
func ErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Success: false, Message: message})
}
