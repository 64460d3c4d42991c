package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"etugal/internal/models"
	"etugal/internal/services"
)

type AuthHandler struct {
	userService  services.UserService
	authService  services.AuthService
	trustService services.TrustService
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, trustService services.TrustService) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService, trustService: trustService}
}

// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email           string `json:"email" binding:"required"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
		FirstName       string `json:"first_name" binding:"required"`
		LastName        string `json:"last_name" binding:"required"`
		Birthdate       string `json:"birthdate"` // MM/DD/YYYY
		Gender          string `json:"gender"`
		Address         string `json:"address"`
		ContactNumber   string `json:"contact_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error_message": "Password does not match"})
		return
	}

	var birthdate *time.Time
	if req.Birthdate != "" {
		t, err := time.Parse("01/02/2006", req.Birthdate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthdate (MM/DD/YYYY)"})
			return
		}
		birthdate = &t
	}

	user := &models.User{
		Email:     strings.TrimSpace(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	profile := &models.UserProfile{
		Birthdate:     birthdate,
		Gender:        req.Gender,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	}
	if err := h.userService.Register(c.Request.Context(), user, profile, req.Password); err != nil {
		log.Printf("[auth][signup][err] email=%q: %v", req.Email, err)
		respondError(c, err, "failed to register")
		return
	}

	token, err := h.authService.IssueToken(user.ID, profile.ID, user.IsAdmin)
	if err != nil {
		log.Printf("[auth][signup][err] issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	log.Printf("[auth][signup][ok] user=%d profile=%d", user.ID, profile.ID)
	c.JSON(http.StatusCreated, gin.H{
		"pk":           user.ID,
		"profilePk":    profile.ID,
		"email":        user.Email,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"access_token": token,
	})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)

	user, err := h.userService.GetUserByEmail(c.Request.Context(), email)
	if err != nil || user == nil || !h.authService.CheckPassword(user.PasswordHash, req.Password) {
		log.Printf("[auth][login][deny] email=%q", email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	profile, err := h.userService.GetProfileByUserID(c.Request.Context(), user.ID)
	if err != nil || profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error_description": "User profile does not exist"})
		return
	}

	// lazy suspension expiry runs at login, as everywhere else
	if _, err := h.trustService.CheckActive(c.Request.Context(), profile.ID); err != nil {
		log.Printf("[auth][login][warn] trust check profile=%d: %v", profile.ID, err)
	} else {
		profile, _ = h.userService.GetProfileByID(c.Request.Context(), profile.ID)
	}

	token, err := h.authService.IssueToken(user.ID, profile.ID, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	log.Printf("[auth][login][ok] user=%d profile=%d", user.ID, profile.ID)
	c.JSON(http.StatusOK, gin.H{
		"pk":                 user.ID,
		"profilePk":          profile.ID,
		"email":              user.Email,
		"firstName":          user.FirstName,
		"lastName":           user.LastName,
		"verificationStatus": profile.VerificationStatus,
		"is_suspended":       profile.IsSuspended,
		"suspension_reason":  profile.SuspensionReason,
		"suspended_until":    profile.SuspendedUntil,
		"is_terminated":      profile.IsTerminated,
		"termination_reason": profile.TerminationReason,
		"access_token":       token,
	})
}

// GET /profile
func (h *AuthHandler) Profile(c *gin.Context) {
	profile, err := h.userService.GetProfileByID(c.Request.Context(), getProfileID(c))
	if err != nil || profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
