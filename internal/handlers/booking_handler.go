package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/service"
)

// BookingHandler serves the reservation endpoints. All of them sit behind
// RequireAuth, so the user id is always on the context.
type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

type createBookingRequest struct {
	ClassID int64 `json:"class_id"`
}

// Create handles POST /bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClassID <= 0 {
		respondWithError(w, http.StatusBadRequest, "class_id is required")
		return
	}

	bookingID, err := h.bookingService.BookClass(r.Context(), userID, req.ClassID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]any{
		"booking_id": bookingID,
		"class_id":   req.ClassID,
	})
}

type bookingDetailResponse struct {
	BookingID  int64     `json:"booking_id"`
	ClassID    int64     `json:"class_id"`
	ClassName  string    `json:"class_name"`
	Instructor string    `json:"instructor"`
	DateTime   time.Time `json:"date_time"`
	Duration   int       `json:"duration"`
	Location   string    `json:"location,omitempty"`
	TimeRange  string    `json:"time_range"`
}

// List handles GET /bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookings, err := h.bookingService.ListUserBookings(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	out := make([]bookingDetailResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingDetailResponse{
			BookingID:  b.BookingID,
			ClassID:    b.ClassID,
			ClassName:  b.ClassName,
			Instructor: b.Instructor,
			DateTime:   b.DateTime,
			Duration:   b.Duration,
			Location:   b.Location,
			TimeRange:  b.TimeRange(),
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

// Cancel handles PUT /bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookingID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := h.bookingService.CancelBooking(r.Context(), bookingID, userID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "booking cancelled"})
}
