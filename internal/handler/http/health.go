package http

import (
	"net/http"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/models"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{Status: statusOK, Timestamp: time.Now().UTC()}

	if err := h.services.HealthService.Check(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Msg("health check failed")
		response.Status = statusUnavailable
		utils.WriteJSON(w, response, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
