package handler

import (
	"net/http"
	"strconv"

	"gooxalert/internal/model"
	"gooxalert/internal/service"

	"github.com/gin-gonic/gin"
)

// SignalementHandler handles a user's own civic issue reports.
type SignalementHandler struct {
	service service.SignalementService
}

// NewSignalementHandler creates a new SignalementHandler
func NewSignalementHandler(s service.SignalementService) *SignalementHandler {
	return &SignalementHandler{service: s}
}

func (h *SignalementHandler) Create(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req model.CreateSignalementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	signalement, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, gin.H{"signalement": signalement})
}

func (h *SignalementHandler) List(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	signalements, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if signalements == nil {
		signalements = []model.Signalement{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"signalements": signalements})
}

func (h *SignalementHandler) Get(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid signalement id")
		return
	}

	signalement, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"signalement": signalement})
}

func (h *SignalementHandler) Update(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid signalement id")
		return
	}

	var req model.UpdateSignalementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	signalement, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"signalement": signalement})
}

func (h *SignalementHandler) Delete(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid signalement id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"message": "Signalement deleted successfully"})
}

// RegisterSignalementRoutes registers signalement routes
func (h *SignalementHandler) RegisterSignalementRoutes(rg *gin.RouterGroup, jwtAuthMW gin.HandlerFunc) {
	listGroup := rg.Group("/signalement", jwtAuthMW)
	{
		listGroup.GET("/", h.List)
		listGroup.POST("/", h.Create)
	}

	detailGroup := rg.Group("/signalements", jwtAuthMW)
	{
		detailGroup.GET("/:id/", h.Get)
		detailGroup.PUT("/:id/", h.Update)
		detailGroup.DELETE("/:id/", h.Delete)
	}
}
