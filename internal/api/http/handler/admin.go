package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbay/panelgate/internal/api/http/dto"
)

// MaintenanceWriter toggles the site-wide maintenance flag.
type MaintenanceWriter interface {
	SetMaintenance(ctx context.Context, enabled bool) error
}

type AdminHandler struct {
	configs MaintenanceWriter
}

func NewAdminHandler(configs MaintenanceWriter) *AdminHandler {
	return &AdminHandler{configs: configs}
}

func (h *AdminHandler) SetMaintenance(ctx *gin.Context) {
	var req dto.SetMaintenanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.configs.SetMaintenance(ctx.Request.Context(), *req.Enabled); err != nil {
		slog.Error("Failed to update maintenance setting", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance setting"})
		return
	}

	slog.Info("Maintenance setting updated", "enabled", *req.Enabled)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
