package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edgepay/edgepay-gobackend/internal/services"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// failFromError maps service errors onto the envelope: validation and
// invalid-state problems are the caller's fault (400), missing ids are
// 404, everything else is masked behind a generic 500.
func failFromError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var invalidStateErr *services.InvalidStateError

	switch {
	case errors.As(err, &notFoundErr):
		fail(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr), errors.As(err, &invalidStateErr):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		fail(w, http.StatusInternalServerError, "Something went wrong. Please try again later")
	}
}
