package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbay/panelgate/internal/api/http/dto"
	"github.com/hostbay/panelgate/internal/panelconfig"
	"github.com/hostbay/panelgate/internal/status"
)

// MaintenanceReader reads the site-wide maintenance flag.
type MaintenanceReader interface {
	Maintenance(ctx context.Context) (panelconfig.Maintenance, error)
}

type StatusHandler struct {
	status  *status.Service
	configs MaintenanceReader
}

func NewStatusHandler(statusService *status.Service, configs MaintenanceReader) *StatusHandler {
	return &StatusHandler{status: statusService, configs: configs}
}

func (h *StatusHandler) Nodes(ctx *gin.Context) {
	entries, err := h.status.Nodes(ctx.Request.Context())
	if err != nil {
		h.writeAggregateError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NodeStatusResponse{Success: true, Nodes: entries})
}

func (h *StatusHandler) Servers(ctx *gin.Context) {
	entries, err := h.status.Servers(ctx.Request.Context())
	if err != nil {
		h.writeAggregateError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ServerStatusResponse{Success: true, Servers: entries})
}

func (h *StatusHandler) Maintenance(ctx *gin.Context) {
	m, err := h.configs.Maintenance(ctx.Request.Context())
	if err != nil {
		slog.Error("Failed to read maintenance setting", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error."})
		return
	}

	ctx.JSON(http.StatusOK, dto.MaintenanceResponse{Success: true, MaintenanceMode: m})
}

func (h *StatusHandler) writeAggregateError(ctx *gin.Context, err error) {
	if errors.Is(err, status.ErrNoBackends) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Message: "Panel configuration not found. Set the configuration before requesting status.",
		})
		return
	}
	slog.Error("Status aggregation failed", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error."})
}
