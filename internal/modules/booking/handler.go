package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dancemax/internal/domain"
	"dancemax/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.POST("/bookings", h.CreateBooking)
	rg.DELETE("/bookings/:id", h.CancelBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Book(c.Request.Context(), userID, req.LessonID)
	if err != nil {
		switch {
		case errors.Is(err, ErrLessonNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lesson not found")
		case errors.Is(err, ErrLessonCancelled):
			response.Error(c, http.StatusBadRequest, "LESSON_CANCELLED", "Lesson is cancelled")
		case errors.Is(err, ErrAlreadyBooked):
			response.Error(c, http.StatusConflict, "ALREADY_BOOKED", "You already have an active booking on this lesson")
		case errors.Is(err, ErrNoSpots):
			response.Error(c, http.StatusConflict, "NO_SPOTS", "No free spots left on this lesson")
		case errors.Is(err, ErrInsufficientBalance):
			response.Error(c, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Not enough lessons on balance")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	userID := c.GetInt64("user_id")

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Booking belongs to another user")
		case errors.Is(err, ErrNotActive):
			response.Error(c, http.StatusBadRequest, "NOT_ACTIVE", "Only active bookings can be cancelled")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel booking")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	userID := c.GetInt64("user_id")

	status := domain.BookingStatus(c.Query("status"))
	switch status {
	case "", domain.BookingActive, domain.BookingCancelled, domain.BookingAttended, domain.BookingMissed:
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown booking status")
		return
	}

	items, err := h.service.ListUserBookings(c.Request.Context(), userID, status)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": items, "total": len(items)})
}
