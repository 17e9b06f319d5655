package controllers

import (
	"context"
	"net/http"

	"github.com/domora/kiosk-service/internal/app"
	"github.com/domora/kiosk-service/internal/dtos"
	"github.com/domora/kiosk-service/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(a *app.App) *HealthController {
	return &HealthController{app: a}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.app.Ping(context.Background()); err != nil {
		utils.Logger.WithError(err).Error("kiosk-service unhealthy")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Service unhealthy",
			nil,
			err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
