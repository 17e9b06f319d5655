// internal/controllers/assembly_controller.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/domora/kiosk-service/internal/dtos"
	"github.com/domora/kiosk-service/internal/services"
	"github.com/domora/kiosk-service/internal/utils"
)

type AssemblyController struct {
	svc *services.AssemblyService
}

func NewAssemblyController(svc *services.AssemblyService) *AssemblyController {
	return &AssemblyController{svc: svc}
}

// -----------------------------------------------------------------------------
// POST /api/v1/kiosk/{buildingID}/assembly/agenda/{order}/start
// -----------------------------------------------------------------------------
func (c *AssemblyController) StartItemHandler(w http.ResponseWriter, r *http.Request) {
	buildingID, order, ok := c.pathParams(w, r)
	if !ok {
		return
	}

	if err := c.svc.StartItem(r.Context(), buildingID, order); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.AssemblyActionResponse{Status: "started"})
}

// -----------------------------------------------------------------------------
// POST /api/v1/kiosk/{buildingID}/assembly/agenda/{order}/complete
// -----------------------------------------------------------------------------
func (c *AssemblyController) CompleteItemHandler(w http.ResponseWriter, r *http.Request) {
	buildingID, order, ok := c.pathParams(w, r)
	if !ok {
		return
	}

	var req dtos.CompleteAgendaItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid completion payload", nil, err,
		)
		return
	}

	err := c.svc.CompleteItem(r.Context(), buildingID, order, req.DecisionType, req.Decision)
	if err != nil {
		// An empty decision aborts; hand the suggested phrase back so
		// the operator UI can prefill it.
		if errors.Is(err, utils.ErrDecisionRequired) {
			suggestion, sErr := c.svc.SuggestedDecision(buildingID, order)
			if sErr != nil {
				suggestion = ""
			}
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeDecisionRequired,
				"A decision text is required to complete the item",
				dtos.SuggestedDecisionResponse{SuggestedDecision: suggestion},
				err,
			)
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.AssemblyActionResponse{Status: "completed"})
}

// -----------------------------------------------------------------------------
// GET /api/v1/kiosk/{buildingID}/assembly/agenda/{order}/suggested-decision
// -----------------------------------------------------------------------------
func (c *AssemblyController) SuggestedDecisionHandler(w http.ResponseWriter, r *http.Request) {
	buildingID, order, ok := c.pathParams(w, r)
	if !ok {
		return
	}

	suggestion, err := c.svc.SuggestedDecision(buildingID, order)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.SuggestedDecisionResponse{SuggestedDecision: suggestion})
}

// -----------------------------------------------------------------------------
// POST /api/v1/kiosk/{buildingID}/assembly/end
// -----------------------------------------------------------------------------
func (c *AssemblyController) EndAssemblyHandler(w http.ResponseWriter, r *http.Request) {
	buildingID := mux.Vars(r)["buildingID"]

	var req dtos.EndAssemblyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}

	if err := c.svc.End(r.Context(), buildingID, req.Confirm); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.AssemblyActionResponse{Status: "ended"})
}

// -----------------------------------------------------------------------------
// shared helper
// -----------------------------------------------------------------------------
func (c *AssemblyController) pathParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)
	buildingID := vars["buildingID"]

	order, err := strconv.Atoi(vars["order"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid agenda item order", nil, err,
		)
		return "", 0, false
	}
	return buildingID, order, true
}
