package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbay/panelgate/internal/accesskey"
	"github.com/hostbay/panelgate/internal/panelconfig"
	"github.com/hostbay/panelgate/internal/provisioning"
	"github.com/hostbay/panelgate/internal/pterodactyl"
)

type PanelHandler struct {
	provisioner *provisioning.Service
}

func NewPanelHandler(provisioner *provisioning.Service) *PanelHandler {
	return &PanelHandler{provisioner: provisioner}
}

// Create provisions a panel. On success and on upstream rejection alike, the
// upstream payload and status code are forwarded verbatim.
func (h *PanelHandler) Create(ctx *gin.Context) {
	panelType, ok := panelconfig.ParsePanelType(ctx.Query("panelType"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Missing required parameters."})
		return
	}

	req := provisioning.Request{
		Username:       ctx.Query("username"),
		RAM:            ctx.Query("ram"),
		Disk:           ctx.Query("disk"),
		CPU:            ctx.Query("cpu"),
		HostingPackage: ctx.Query("hostingPackage"),
		PanelType:      panelType,
		AccessKey:      ctx.Query("accessKey"),
	}

	result, err := h.provisioner.Provision(ctx.Request.Context(), req)
	if err != nil {
		h.writeProvisionError(ctx, err)
		return
	}

	ctx.Data(result.StatusCode, "application/json; charset=utf-8", result.Body)
}

func (h *PanelHandler) writeProvisionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, provisioning.ErrMissingFields):
		ctx.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "Missing required parameters."})
	case errors.Is(err, accesskey.ErrMissingKey),
		errors.Is(err, accesskey.ErrKeyNotFound),
		errors.Is(err, accesskey.ErrKeyInactive),
		errors.Is(err, accesskey.ErrKeyBanned):
		ctx.JSON(http.StatusForbidden, gin.H{"status": false, "message": "Invalid or inactive Access Key."})
	case errors.Is(err, accesskey.ErrKeyRestricted):
		ctx.JSON(http.StatusForbidden, gin.H{"status": false, "message": "This Access Key is not allowed to create this panel type."})
	case errors.Is(err, provisioning.ErrConfigNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"status": false, "message": "Configuration for the requested panel type was not found."})
	case errors.Is(err, pterodactyl.ErrUnreachable):
		slog.Error("Upstream provisioning call failed", "error", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"status": false, "message": "Failed to create server via external API."})
	default:
		slog.Error("Panel creation failed", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal server error."})
	}
}
