package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbay/panelgate/internal/accesskey"
	"github.com/hostbay/panelgate/internal/api/http/dto"
	"github.com/hostbay/panelgate/internal/observability"
)

type AccessKeyHandler struct {
	keys    *accesskey.Service
	metrics *observability.Metrics
}

func NewAccessKeyHandler(keys *accesskey.Service, metrics *observability.Metrics) *AccessKeyHandler {
	return &AccessKeyHandler{keys: keys, metrics: metrics}
}

// Check reports the state of a presented access key. Business outcomes
// (not-found, banned, inactive, active) are all 200s carrying a status tag;
// only a missing key or an internal failure is an HTTP error.
func (h *AccessKeyHandler) Check(ctx *gin.Context) {
	key := ctx.Query("accessKey")
	if key == "" {
		ctx.JSON(http.StatusBadRequest, dto.CheckAccessKeyResponse{
			Status:  "error",
			Message: "Access Key is required.",
		})
		return
	}

	result, err := h.keys.CheckStatus(ctx.Request.Context(), key)
	if err != nil {
		slog.Error("Failed to check access key", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.CheckAccessKeyResponse{
			Status:  "error",
			Message: "Internal server error.",
		})
		return
	}

	h.metrics.KeyChecksTotal.WithLabelValues(string(result.Status)).Inc()
	ctx.JSON(http.StatusOK, dto.CheckAccessKeyResponse{
		Status:  string(result.Status),
		Message: result.Message,
	})
}
