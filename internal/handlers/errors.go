package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fcornetti/booking-yoga-system/internal/database"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
	"github.com/fcornetti/booking-yoga-system/internal/service"
	"github.com/fcornetti/booking-yoga-system/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, msg string) {
	respondWithJSON(w, status, errorResponse{Error: msg})
}

// respondWithServiceError maps domain errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without leaking detail.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		respondWithError(w, http.StatusBadRequest, ve.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrPastStartTime),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrInvalidOrExpiredToken):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotVerified),
		errors.Is(err, repository.ErrNotBookingOwner):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrClassNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrClassFull),
		errors.Is(err, repository.ErrDuplicateBooking),
		errors.Is(err, repository.ErrTimeConflict),
		errors.Is(err, repository.ErrClassInPast):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrUnavailable):
		log.Printf("Database unavailable: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, "service temporarily unavailable, please retry")
	default:
		log.Printf("Internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
