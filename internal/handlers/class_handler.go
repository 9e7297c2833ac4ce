package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/models"
	"github.com/fcornetti/booking-yoga-system/internal/service"
)

// ClassHandler serves the class schedule endpoints.
type ClassHandler struct {
	classService *service.ClassService
}

func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

type createClassRequest struct {
	Name       string    `json:"name"`
	Instructor string    `json:"instructor"`
	DateTime   time.Time `json:"date_time"`
	Duration   int       `json:"duration"`
	Capacity   int       `json:"capacity"`
	Location   string    `json:"location"`
}

type classResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Instructor string    `json:"instructor"`
	DateTime   time.Time `json:"date_time"`
	Duration   int       `json:"duration"`
	Capacity   int       `json:"capacity"`
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
}

type classSummaryResponse struct {
	classResponse
	BookingCount int  `json:"booking_count"`
	SpotsLeft    int  `json:"spots_left"`
	Full         bool `json:"full"`
}

func toClassResponse(c models.YogaClass) classResponse {
	return classResponse{
		ID:         c.ID,
		Name:       c.Name,
		Instructor: c.Instructor,
		DateTime:   c.DateTime,
		Duration:   c.Duration,
		Capacity:   c.Capacity,
		Status:     c.Status,
		Location:   c.Location,
	}
}

// Create handles POST /classes
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	class, err := h.classService.CreateClass(req.Name, req.Instructor, req.DateTime, req.Duration, req.Capacity, req.Location)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toClassResponse(*class))
}

// List handles GET /classes
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classService.ListUpcomingClasses()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	out := make([]classSummaryResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, classSummaryResponse{
			classResponse: toClassResponse(c.YogaClass),
			BookingCount:  c.BookingCount,
			SpotsLeft:     c.SpotsLeft(),
			Full:          c.IsFull(),
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

// Cancel handles PUT /classes/{id}/cancel
func (h *ClassHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	classID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid class id")
		return
	}

	released, err := h.classService.CancelClass(r.Context(), classID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message":           "class cancelled",
		"bookings_released": released,
	})
}
