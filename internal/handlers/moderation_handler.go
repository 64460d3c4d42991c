package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"etugal/internal/models"
	"etugal/internal/services"
)

type ModerationHandler struct {
	reports services.ReportService
	trust   services.TrustService
}

func NewModerationHandler(reports services.ReportService, trust services.TrustService) *ModerationHandler {
	return &ModerationHandler{reports: reports, trust: trust}
}

// POST /reports — any authenticated user can file one.
func (h *ModerationHandler) FileReport(c *gin.Context) {
	var req struct {
		ReportedUser       int64    `json:"reported_user" binding:"required"`
		Reason             string   `json:"reason" binding:"required"`
		AdditionalInfo     *string  `json:"additional_info"`
		SuspensionDuration *string  `json:"suspension_duration"`
		Images             []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := &models.UserReport{
		ReporterID:         getUserID(c),
		ReportedUserID:     req.ReportedUser,
		Reason:             req.Reason,
		AdditionalInfo:     req.AdditionalInfo,
		SuspensionDuration: req.SuspensionDuration,
	}
	created, err := h.reports.FileReport(c.Request.Context(), report, req.Images)
	if err != nil {
		log.Printf("[moderation][file][err] reporter=%d: %v", report.ReporterID, err)
		respondError(c, err, "failed to file report")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /admin/reports — unresolved cases, oldest first.
func (h *ModerationHandler) ListPending(c *gin.Context) {
	reports, err := h.reports.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// POST /admin/reports/:id/resolve { "action": "suspend", "notes": "..." }
func (h *ModerationHandler) ResolveReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Action models.ReportAction `json:"action" binding:"required"`
		Notes  string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reports.Resolve(c.Request.Context(), id, req.Action, req.Notes)
	if err != nil {
		log.Printf("[moderation][resolve][err] report=%d: %v", id, err)
		respondError(c, err, "failed to resolve report")
		return
	}
	log.Printf("[moderation][resolve][ok] report=%d action=%q", id, req.Action)
	c.JSON(http.StatusOK, report)
}

// PATCH /admin/profiles/:id/verification { "status": "VERIFIED", "remarks": "" }
func (h *ModerationHandler) SetVerification(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Status  models.VerificationStatus `json:"status" binding:"required"`
		Remarks string                    `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.trust.SetVerificationStatus(c.Request.Context(), profileID, req.Status, req.Remarks); err != nil {
		log.Printf("[moderation][verify][err] profile=%d: %v", profileID, err)
		respondError(c, err, "failed to update verification status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
