package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zots0127/registry/internal/usecase"
	"github.com/zots0127/registry/pkg/types"
)

// AdminHandler exposes the administrative switches. Routes registered
// through it must sit behind the API key middleware.
type AdminHandler struct {
	registry *usecase.RegistryUseCase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(registry *usecase.RegistryUseCase) *AdminHandler {
	return &AdminHandler{registry: registry}
}

// RegisterRoutes registers the admin routes
func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.POST("/pause", h.SetPaused)
	admin.GET("/pause", h.GetPaused)
	admin.POST("/fee", h.SetFee)
	admin.GET("/fee", h.GetFee)
	admin.POST("/max-file-size", h.SetMaxFileSize)
}

// SetPaused flips the pause switch; while paused, mutating registry
// operations answer 503.
func (h *AdminHandler) SetPaused(c *gin.Context) {
	var req types.PauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.registry.SetPaused(req.Paused)
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    gin.H{"paused": req.Paused},
	})
}

// GetPaused reports the pause switch.
func (h *AdminHandler) GetPaused(c *gin.Context) {
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    gin.H{"paused": h.registry.Paused()},
	})
}

// SetFee updates the registration fee.
func (h *AdminHandler) SetFee(c *gin.Context) {
	var req types.FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.registry.SetRegistrationFee(req.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    gin.H{"fee": req.Amount},
	})
}

// GetFee reports the current registration fee.
func (h *AdminHandler) GetFee(c *gin.Context) {
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    gin.H{"fee": h.registry.RegistrationFee()},
	})
}

// SetMaxFileSize updates the single-file size ceiling.
func (h *AdminHandler) SetMaxFileSize(c *gin.Context) {
	var req types.MaxFileSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.registry.SetMaxFileSize(req.Bytes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.APIResponse{
		Success: true,
		Data:    gin.H{"max_file_size": req.Bytes},
	})
}
