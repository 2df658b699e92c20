package response

import (
	"encoding/json"
	"net/http"

	"github.com/chiquebutik/butik/app/errs"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   errs.Kind   `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Pagination describes an offset window over a list response.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON writes v as-is without the envelope. Used for machine callers.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Message sends a 200 with a human message and optional data.
func Message(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Message: message, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response without a kind.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// Fail maps a service error to its status code and writes kind + message.
func Fail(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	status := StatusOf(kind)
	write(w, status, envelope{Status: status, Error: kind, Message: errs.MessageOf(err)})
}

// StatusOf returns the HTTP status for an error kind.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.Unauthorized:
		return http.StatusUnauthorized
	case errs.NotFound:
		return http.StatusNotFound
	case errs.InvalidArgument, errs.SoldOut, errs.SizeUnavailable, errs.EmptyCart, errs.InvalidSig:
		return http.StatusBadRequest
	case errs.PaymentProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Error:   errs.InvalidArgument,
		Message: "Validation failed",
		Errors:  fields,
	})
}

func Paginated(w http.ResponseWriter, data interface{}, pagination Pagination) {
	body := map[string]interface{}{
		"items":      data,
		"pagination": pagination,
	}
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: body})
}

func Unauthorized(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, envelope{Status: http.StatusUnauthorized, Error: errs.Unauthorized, Message: "Unauthorized"})
}

func NotFound(w http.ResponseWriter) {
	write(w, http.StatusNotFound, envelope{Status: http.StatusNotFound, Error: errs.NotFound, Message: "Not found"})
}

func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too Many Requests")
}
