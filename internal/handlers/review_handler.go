package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"etugal/internal/models"
	"etugal/internal/services"
)

type ReviewHandler struct {
	service services.ReviewService
}

func NewReviewHandler(service services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// POST /tasks/:id/review — upsert; repeated posts merge into the single
// review row for the task.
func (h *ReviewHandler) CreateOrUpdate(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var input models.TaskReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.service.CreateOrUpdate(c.Request.Context(), taskID, &input)
	if err != nil {
		log.Printf("[review][upsert][err] task=%d: %v", taskID, err)
		respondError(c, err, "failed to save review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// GET /tasks/:id/review
func (h *ReviewHandler) Retrieve(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	review, err := h.service.Retrieve(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "failed to get review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// GET /performer/reviews — published ratings received as performer.
func (h *ReviewHandler) ListAsPerformer(c *gin.Context) {
	reviews, err := h.service.ListForPerformer(c.Request.Context(), getProfileID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GET /provider/reviews — published ratings received as provider.
func (h *ReviewHandler) ListAsProvider(c *gin.Context) {
	reviews, err := h.service.ListForProvider(c.Request.Context(), getProfileID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}
