// Package bizerror defines the business error taxonomy of the daily close
// workflow. Every error carries a human-readable message and an HTTP status
// classification; handlers translate them into the uniform response envelope
// in one place. None of these conditions is retryable by the engine itself.
package bizerror

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is a business rule violation surfaced to the caller.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a generic business error with 400 classification.
func New(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// DayAlreadyExists: a StockDay for the date already exists (step 1).
func DayAlreadyExists(date string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Message: fmt.Sprintf("stock day already exists for date: %s", date),
	}
}

// PreviousDayNotClosed: the most recent earlier day is still OPEN (step 1).
func PreviousDayNotClosed() *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "previous day must be closed before creating new day",
	}
}

// DayNotFound: no StockDay exists for the date.
func DayNotFound(date string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("stock day not found for date: %s", date),
	}
}

// DayNotOpen: the day exists but is not in OPEN status.
func DayNotOpen(date string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("stock day %s is not in OPEN status", date),
	}
}

// DayAlreadyClosed: close requested on a CLOSED day (step 8).
func DayAlreadyClosed(date string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("day %s is already closed", date),
	}
}

// AgentNotFound: the named delivery agent is not on the active roster.
func AgentNotFound(name string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("delivery agent not found: %s", name),
	}
}

// InvalidCylinderType: the cylinder type code is unknown or inactive.
func InvalidCylinderType(code string) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("invalid cylinder type: %s", code),
	}
}

// InvalidStockData: a quantity or amount fails validation.
func InvalidStockData(message string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: message}
}

// NegativeStock: closing stock went negative for one or more cylinder types.
// All offending types are named, not just the first.
func NegativeStock(cylinderTypes []string) *Error {
	return &Error{
		Status: http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("stock calculation resulted in negative value for %s",
			strings.Join(cylinderTypes, ", ")),
	}
}

// OfficeAgentMissing: the virtual Office agent is not configured.
func OfficeAgentMissing() *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "office delivery agent not configured in system",
	}
}
