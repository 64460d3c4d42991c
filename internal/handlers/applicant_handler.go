package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"etugal/internal/models"
	"etugal/internal/services"
)

type ApplicantHandler struct {
	service services.ApplicantService
}

func NewApplicantHandler(service services.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{service: service}
}

// POST /performer/tasks/:id/apply
func (h *ApplicantHandler) Apply(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Description *string `json:"description"`
	}
	// body is optional, an application can carry no pitch
	_ = c.ShouldBindJSON(&req)

	applicant, err := h.service.Apply(c.Request.Context(), taskID, getProfileID(c), req.Description)
	if err != nil {
		log.Printf("[applicant][apply][err] task=%d performer=%d: %v", taskID, getProfileID(c), err)
		respondError(c, err, "failed to apply")
		return
	}
	c.JSON(http.StatusCreated, applicant)
}

// GET /provider/tasks/:id/applicants
func (h *ApplicantHandler) ListForTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	applicants, err := h.service.ListApplicants(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applicants"})
		return
	}
	c.JSON(http.StatusOK, applicants)
}

// GET /performer/applications — the caller's applications, optionally
// narrowed by the task's status.
func (h *ApplicantHandler) ListMine(c *gin.Context) {
	var status *models.TaskStatus
	if v := c.Query("status"); v != "" {
		s := models.TaskStatus(v)
		if !models.IsValidTaskStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		status = &s
	}

	applicants, err := h.service.ListMyApplications(c.Request.Context(), getProfileID(c), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	c.JSON(http.StatusOK, applicants)
}
