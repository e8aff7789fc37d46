package handler

import (
	"net/http"
	"strconv"

	"gooxalert/internal/model"
	"gooxalert/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and admin user management requests.
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"profile": user})
}

// UpdateProfilePicture accepts a multipart profile_picture file, hands the
// bytes to the image-hosting collaborator and stores the returned URL.
func (h *UserHandler) UpdateProfilePicture(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	file, err := c.FormFile("profile_picture")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image was provided")
		return
	}

	user, err := h.service.UpdateProfilePicture(c.Request.Context(), userID, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdatePersonalInfo(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req model.UpdatePersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, tokens, err := h.service.UpdatePersonalInfo(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// ListUsers returns every account, newest first. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if users == nil {
		users = []model.User{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"users": users})
}

// UpdateUserRole changes a user's role. Admin only.
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.UpdateRole(c.Request.Context(), targetID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"message": "Role updated successfully",
		"user":    user,
	})
}

// RegisterUserRoutes registers profile and admin routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, jwtAuthMW, adminMW gin.HandlerFunc) {
	rg.GET("/profile/", jwtAuthMW, h.GetProfile)
	rg.PUT("/profile/", jwtAuthMW, h.UpdateProfilePicture)
	rg.GET("/me/", jwtAuthMW, h.Me)
	rg.PUT("/update-personal-info/", jwtAuthMW, h.UpdatePersonalInfo)

	adminGroup := rg.Group("/admin", jwtAuthMW, adminMW)
	{
		adminGroup.GET("/users/", h.ListUsers)
		adminGroup.PUT("/users/:id/role/", h.UpdateUserRole)
	}
}
