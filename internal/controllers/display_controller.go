// internal/controllers/display_controller.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/domora/kiosk-service/internal/dtos"
	"github.com/domora/kiosk-service/internal/services"
	"github.com/domora/kiosk-service/internal/utils"
)

var validate = validator.New()

type DisplayController struct {
	svc *services.DisplayService
}

func NewDisplayController(svc *services.DisplayService) *DisplayController {
	return &DisplayController{svc: svc}
}

// -----------------------------------------------------------------------------
// POST /api/v1/displays
// -----------------------------------------------------------------------------
func (c *DisplayController) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterDisplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Building id and name are required", nil, err,
		)
		return
	}

	d, err := c.svc.Register(r.Context(), req.BuildingID, req.Name, req.NotifyEmail, req.NotifyPhone)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewDisplayDTO(d))
}

// -----------------------------------------------------------------------------
// POST /api/v1/displays/{displayID}/heartbeat
// -----------------------------------------------------------------------------
func (c *DisplayController) HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["displayID"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid display id", nil, err,
		)
		return
	}

	if err := c.svc.Heartbeat(r.Context(), id); err != nil {
		if errors.Is(err, utils.ErrDisplayNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound, "Display not found", nil, err,
			)
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
