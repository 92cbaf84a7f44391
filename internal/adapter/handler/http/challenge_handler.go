package http

import (
	"net/http"
	"strconv"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"
	"github.com/boltauto/garage_microservice/internal/core/services"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	logger           ports.LoggerPort
}

type SetProgressRequest struct {
	Progress *int `json:"progress" binding:"required" example:"3"`
}

type IncrementProgressRequest struct {
	ChallengeName string `json:"challenge_name" binding:"required" example:"Log 3 services"`
	Increment     int    `json:"increment,omitempty" example:"1"`
}

type ChallengesResponse struct {
	Challenges []*domain.Challenge `json:"challenges"`
	Count      int                 `json:"count"`
}

type ResetProgressResponse struct {
	Frequency domain.Frequency `json:"frequency"`
	Deleted   int64            `json:"deleted"`
}

func NewChallengeHandler(challengeService *services.ChallengeService, logger ports.LoggerPort) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		logger:           logger,
	}
}

// @Summary List challenges
// @Tags challenges
// @Security BearerAuth
// @Produce json
// @Param filter query string false "active, daily or weekly"
// @Success 200 {object} ChallengesResponse
// @Failure 400 {object} errorResponse
// @Router /challenges [get]
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	filter := domain.ChallengeFilter(c.Query("filter"))

	challenges, err := h.challengeService.ListChallenges(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	if challenges == nil {
		challenges = []*domain.Challenge{}
	}

	c.JSON(http.StatusOK, ChallengesResponse{Challenges: challenges, Count: len(challenges)})
}

// @Summary Get challenge
// @Tags challenges
// @Security BearerAuth
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} domain.Challenge
// @Failure 404 {object} errorResponse
// @Router /challenges/{id} [get]
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	challenge, err := h.challengeService.GetChallenge(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// @Summary My challenges
// @Description Paged challenge progress for the caller
// @Tags challenges
// @Security BearerAuth
// @Produce json
// @Param include_completed query bool false "Include completed challenges"
// @Param page query int false "Page, from 1"
// @Param per_page query int false "Page size, max 100"
// @Success 200 {object} domain.Page[domain.UserChallengeProgress]
// @Failure 401 {object} errorResponse
// @Router /challenges/my [get]
func (h *ChallengeHandler) GetMyChallenges(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	includeCompleted, _ := strconv.ParseBool(c.DefaultQuery("include_completed", "true"))
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.challengeService.GetUserChallenges(
		c.Request.Context(),
		payload.UserID,
		includeCompleted,
		domain.PageRequest{Page: page, PerPage: perPage},
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Start challenge
// @Description Creates a zero progress row; starting twice is a no-op
// @Tags challenges
// @Security BearerAuth
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} domain.UserChallengeProgress
// @Failure 404 {object} errorResponse
// @Router /challenges/{id}/start [post]
func (h *ChallengeHandler) StartChallenge(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	row, err := h.challengeService.StartChallenge(c.Request.Context(), payload.UserID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// @Summary Set challenge progress
// @Tags challenges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body SetProgressRequest true "Absolute progress"
// @Success 200 {object} domain.UserChallengeProgress
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /challenges/{id}/progress [put]
func (h *ChallengeHandler) SetProgress(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SetProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	row, err := h.challengeService.SetProgress(c.Request.Context(), payload.UserID, c.Param("id"), *req.Progress)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// @Summary Increment challenge progress
// @Description Adds increment (default 1) to the named challenge
// @Tags challenges
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body IncrementProgressRequest true "Challenge name and increment"
// @Success 200 {object} domain.UserChallengeProgress
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /challenges/increment [post]
func (h *ChallengeHandler) IncrementProgress(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req IncrementProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	row, err := h.challengeService.IncrementProgress(c.Request.Context(), payload.UserID, req.ChallengeName, req.Increment)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// @Summary Reset my challenge progress
// @Tags challenges
// @Security BearerAuth
// @Produce json
// @Param frequency query string true "daily or weekly"
// @Success 200 {object} ResetProgressResponse
// @Failure 400 {object} errorResponse
// @Router /challenges/progress [delete]
func (h *ChallengeHandler) ResetProgress(c *gin.Context) {
	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	frequency := domain.Frequency(c.Query("frequency"))
	deleted, err := h.challengeService.ResetProgress(c.Request.Context(), payload.UserID, frequency)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResetProgressResponse{Frequency: frequency, Deleted: deleted})
}
