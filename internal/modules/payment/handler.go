package payment

import (
	"errors"
	"net/http"

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
	rg.GET("/plans", h.ListPlans)
	rg.GET("/promotions", h.ListPromotions)
	rg.POST("/promo/validate", h.ValidatePromo)
	rg.POST("/subscriptions/purchase", h.Purchase)
}

func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load plans")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plans": plans})
}

func (h *Handler) ListPromotions(c *gin.Context) {
	promos, err := h.service.ListPromotions(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load promotions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promotions": promos})
}

func (h *Handler) ValidatePromo(c *gin.Context) {
	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "code and plan_id are required")
		return
	}

	result, err := h.service.ValidatePromo(c.Request.Context(), req.Code, req.PlanID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Plan not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate promo code")
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Purchase(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "plan_id is required")
		return
	}

	result, err := h.service.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Plan not found")
		case errors.Is(err, ErrPromoInvalid):
			response.Error(c, http.StatusBadRequest, "PROMO_INVALID", "Promo code is not applicable")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to purchase subscription")
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}
