package schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dancemax/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/schedule", h.ListLessons)
	rg.GET("/lessons/:id", h.GetLesson)
}

func (h *Handler) ListLessons(c *gin.Context) {
	userID := c.GetInt64("user_id")

	opts := ListOptions{
		Date:  c.Query("date"),
		Level: c.Query("level"),
	}
	if v := c.Query("direction_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid direction_id")
			return
		}
		opts.DirectionID = id
	}
	if v := c.Query("teacher_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid teacher_id")
			return
		}
		opts.TeacherID = id
	}

	lessons, err := h.service.ListLessons(c.Request.Context(), userID, opts)
	if err != nil {
		if errors.Is(err, ErrBadDate) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Date must be YYYY-MM-DD")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load schedule")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lessons": lessons, "total": len(lessons)})
}

func (h *Handler) GetLesson(c *gin.Context) {
	userID := c.GetInt64("user_id")

	lessonID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lesson ID")
		return
	}

	lesson, err := h.service.GetLesson(c.Request.Context(), userID, lessonID)
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Lesson not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load lesson")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}
