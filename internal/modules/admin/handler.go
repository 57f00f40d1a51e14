package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dancemax/internal/modules/booking"
	"dancemax/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the staff API. The group must already carry the
// auth and admin-role middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)

	rg.GET("/lessons", h.ListLessons)
	rg.POST("/lessons", h.CreateLesson)
	rg.PUT("/lessons/:id", h.UpdateLesson)
	rg.POST("/lessons/:id/cancel", h.CancelLesson)

	rg.GET("/students", h.ListStudents)
	rg.GET("/students/:id", h.GetStudent)
	rg.POST("/students/:id/balance", h.AdjustBalance)

	rg.POST("/bookings/:id/attended", h.MarkAttended)
	rg.POST("/bookings/:id/missed", h.MarkMissed)

	rg.POST("/directions", h.CreateDirection)
	rg.PUT("/directions/:id", h.UpdateDirection)
	rg.POST("/teachers", h.CreateTeacher)
	rg.PUT("/teachers/:id", h.UpdateTeacher)
	rg.POST("/courses", h.CreateCourse)
	rg.PUT("/courses/:id", h.UpdateCourse)

	rg.POST("/plans", h.CreatePlan)
	rg.PUT("/plans/:id", h.UpdatePlan)
	rg.POST("/promotions", h.CreatePromotion)
	rg.PUT("/promotions/:id", h.UpdatePromotion)

	rg.POST("/subscriptions/deactivate-expired", h.DeactivateExpired)
	rg.POST("/broadcast", h.Broadcast)
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) ListLessons(c *gin.Context) {
	lessons, err := h.service.ListLessons(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Date must be YYYY-MM-DD")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lessons": lessons})
}

func (h *Handler) CreateLesson(c *gin.Context) {
	var req CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	lesson, err := h.service.CreateLesson(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"lesson": lesson})
}

func (h *Handler) UpdateLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	lesson, err := h.service.UpdateLesson(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}

func (h *Handler) CancelLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CancelLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	refunded, err := h.service.CancelLesson(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrLessonNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lesson not found")
		case errors.Is(err, booking.ErrLessonAlreadyCancelled):
			response.Error(c, http.StatusBadRequest, "ALREADY_CANCELLED", "Lesson is already cancelled")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel lesson")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"refunded_students": refunded})
}

func (h *Handler) ListStudents(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	students, err := h.service.ListStudents(c.Request.Context(), c.Query("search"), offset, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"students": students})
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	student, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

func (h *Handler) AdjustBalance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "delta is required and must be non-zero")
		return
	}
	result, err := h.service.AdjustBalance(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Student not found")
		case errors.Is(err, booking.ErrNegativeBalance):
			response.Error(c, http.StatusBadRequest, "NEGATIVE_BALANCE", "Balance cannot go negative")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to adjust balance")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"new_balance": result.NewBalance})
}

func (h *Handler) MarkAttended(c *gin.Context) {
	h.markBooking(c, h.service.MarkAttended)
}

func (h *Handler) MarkMissed(c *gin.Context) {
	h.markBooking(c, h.service.MarkMissed)
}

func (h *Handler) markBooking(c *gin.Context, mark func(ctx context.Context, id int64) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := mark(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, booking.ErrNotActive):
			response.Error(c, http.StatusBadRequest, "NOT_ACTIVE", "Only active bookings can be marked")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update booking")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) CreateDirection(c *gin.Context) {
	var req DirectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and slug are required")
		return
	}
	d, err := h.service.CreateDirection(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"direction": d})
}

func (h *Handler) UpdateDirection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req DirectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and slug are required")
		return
	}
	d, err := h.service.UpdateDirection(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"direction": d})
}

func (h *Handler) CreateTeacher(c *gin.Context) {
	var req TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and slug are required")
		return
	}
	t, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"teacher": t})
}

func (h *Handler) UpdateTeacher(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and slug are required")
		return
	}
	t, err := h.service.UpdateTeacher(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teacher": t})
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and start_date are required")
		return
	}
	course, err := h.service.CreateCourse(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name and start_date are required")
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	plan, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"plan": plan})
}

func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	plan, err := h.service.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	promo, err := h.service.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"promotion": promo})
}

func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	promo, err := h.service.UpdatePromotion(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promotion": promo})
}

func (h *Handler) DeactivateExpired(c *gin.Context) {
	count, err := h.service.DeactivateExpiredSubscriptions(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": count})
}

func (h *Handler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "message is required")
		return
	}
	result, err := h.service.Broadcast(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID in path")
		return 0, false
	}
	return id, true
}
