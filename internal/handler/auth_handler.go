package handler

import (
	"net/http"

	"gooxalert/internal/model"
	"gooxalert/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login, tokens and the password lifecycle.
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, signalements, tokens, err := h.service.Login(c.Request.Context(), req.Telephone, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if signalements == nil {
		signalements = []model.Signalement{}
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"user":         user,
		"signalements": signalements,
		"tokens":       tokens,
	})
}

// Token is the bare token-obtain endpoint: credentials in, pair out.
func (h *AuthHandler) Token(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	tokens, err := h.service.Tokens(c.Request.Context(), req.Telephone, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) TokenRefresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	access, err := h.service.Refresh(req.Refresh)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	tokens, err := h.service.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"message": "Password changed successfully",
		"tokens":  tokens,
	})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req model.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	telephone, err := h.service.RequestPasswordReset(c.Request.Context(), req.Telephone)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"message":   "A reset code has been sent to your telephone",
		"telephone": telephone,
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	tokens, err := h.service.ResetPassword(c.Request.Context(), req.Telephone, req.Code, req.NewPassword)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"message": "Password reset successfully",
		"tokens":  tokens,
	})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, jwtAuthMW gin.HandlerFunc) {
	rg.POST("/register/", h.Register)
	rg.POST("/login/", h.Login)
	rg.POST("/token/", h.Token)
	rg.POST("/token/refresh/", h.TokenRefresh)
	rg.POST("/modifier-mot-de-passe/", jwtAuthMW, h.ChangePassword)
	rg.POST("/demande-reinitialisation/", h.RequestPasswordReset)
	rg.POST("/reinitialiser-mot-de-passe/", h.ResetPassword)
}
