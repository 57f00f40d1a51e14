package catalog

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
	rg.GET("/directions", h.ListDirections)
	rg.GET("/directions/:slug", h.GetDirection)
	rg.GET("/teachers", h.ListTeachers)
	rg.GET("/teachers/:slug", h.GetTeacher)
	rg.GET("/courses", h.ListCourses)
	rg.GET("/courses/:id", h.GetCourse)
}

func (h *Handler) ListDirections(c *gin.Context) {
	items, err := h.service.ListDirections(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load directions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"directions": items})
}

func (h *Handler) GetDirection(c *gin.Context) {
	item, err := h.service.GetDirection(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Direction not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load direction")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"direction": item})
}

func (h *Handler) ListTeachers(c *gin.Context) {
	items, err := h.service.ListTeachers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load teachers")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teachers": items})
}

func (h *Handler) GetTeacher(c *gin.Context) {
	item, err := h.service.GetTeacher(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Teacher not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load teacher")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teacher": item})
}

func (h *Handler) ListCourses(c *gin.Context) {
	items, err := h.service.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load courses")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": items})
}

func (h *Handler) GetCourse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid course ID")
		return
	}

	item, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Course not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load course")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": item})
}
