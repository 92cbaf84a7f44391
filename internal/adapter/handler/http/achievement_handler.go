package http

import (
	"net/http"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"
	"github.com/boltauto/garage_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
	logger             ports.LoggerPort
}

type AwardBadgeRequest struct {
	UserID    string `json:"user_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	BadgeName string `json:"badge_name" binding:"required" example:"Garage Starter"`
	Note      string `json:"note,omitempty" example:"Meetup organiser"`
}

type EvaluateResponse struct {
	Awarded []*domain.AchievementAward `json:"awarded"`
	Count   int                        `json:"count"`
}

type BadgesResponse struct {
	Badges []*domain.Badge `json:"badges"`
	Count  int             `json:"count"`
}

type UserBadgesResponse struct {
	Badges []*domain.UserBadge `json:"badges"`
	Count  int                 `json:"count"`
}

func NewAchievementHandler(achievementService *services.AchievementService, logger ports.LoggerPort) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		logger:             logger,
	}
}

// @Summary Evaluate achievements
// @Description Grants every starter achievement the caller has newly satisfied
// @Tags achievements
// @Security BearerAuth
// @Produce json
// @Success 200 {object} EvaluateResponse
// @Failure 401 {object} errorResponse
// @Router /achievements/evaluate [post]
func (h *AchievementHandler) Evaluate(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	awarded, err := h.achievementService.Evaluate(c.Request.Context(), payload.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	if awarded == nil {
		awarded = []*domain.AchievementAward{}
	}

	c.JSON(http.StatusOK, EvaluateResponse{Awarded: awarded, Count: len(awarded)})
}

// @Summary Achievement progress
// @Tags achievements
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.AchievementProgress
// @Failure 401 {object} errorResponse
// @Router /achievements/progress [get]
func (h *AchievementHandler) GetProgress(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	progress, err := h.achievementService.GetProgress(c.Request.Context(), payload.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// @Summary List badges
// @Tags badges
// @Security BearerAuth
// @Produce json
// @Success 200 {object} BadgesResponse
// @Router /badges [get]
func (h *AchievementHandler) ListBadges(c *gin.Context) {
	badges, err := h.achievementService.ListBadges(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if badges == nil {
		badges = []*domain.Badge{}
	}
	c.JSON(http.StatusOK, BadgesResponse{Badges: badges, Count: len(badges)})
}

// @Summary My badges
// @Tags badges
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserBadgesResponse
// @Failure 401 {object} errorResponse
// @Router /badges/my [get]
func (h *AchievementHandler) GetMyBadges(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	badges, err := h.achievementService.GetUserBadges(c.Request.Context(), payload.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	if badges == nil {
		badges = []*domain.UserBadge{}
	}
	c.JSON(http.StatusOK, UserBadgesResponse{Badges: badges, Count: len(badges)})
}

// @Summary Award badge
// @Description Admin only. Awarding a badge the user already holds succeeds without change.
// @Tags badges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AwardBadgeRequest true "Badge award"
// @Success 200 {object} successResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /badges/award [post]
func (h *AchievementHandler) AwardBadge(c *gin.Context) {
	var req AwardBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.achievementService.AwardBadge(c.Request.Context(), userID, req.BadgeName, req.Note); err != nil {
		handleError(c, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Badge awarded", nil)
}
