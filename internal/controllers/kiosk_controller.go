// internal/controllers/kiosk_controller.go
package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/domora/kiosk-service/internal/dtos"
	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/services"
	"github.com/domora/kiosk-service/internal/utils"
)

type KioskController struct {
	manager *services.WatchManager
}

func NewKioskController(manager *services.WatchManager) *KioskController {
	return &KioskController{manager: manager}
}

// -----------------------------------------------------------------------------
// GET /api/v1/kiosk/{buildingID}
// -----------------------------------------------------------------------------
func (c *KioskController) GetViewHandler(w http.ResponseWriter, r *http.Request) {
	buildingID := mux.Vars(r)["buildingID"]
	if buildingID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing building id", nil,
		)
		return
	}

	// A view request counts as demand; start the watch if this is the
	// first screen asking for the building.
	watch := c.manager.Watch(buildingID)

	snap := watch.Poller.Snapshot()
	resp := dtos.KioskViewResponse{
		BuildingID:       buildingID,
		Loading:          watch.Poller.Loading(),
		Error:            watch.Poller.ErrMessage(),
		Snapshot:         snap,
		UrgentPriorities: []models.UrgentPriority{},
	}
	if snap != nil {
		resp.UrgentPriorities = models.DeriveUrgentPriorities(snap)
	}

	// The countdown disappears entirely once the past cutoff is hit.
	if state, active := watch.Countdown.State(); active && !state.IsPast {
		resp.Countdown = &state
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// -----------------------------------------------------------------------------
// POST /api/v1/kiosk/{buildingID}/refresh
// -----------------------------------------------------------------------------
func (c *KioskController) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	buildingID := mux.Vars(r)["buildingID"]

	watch, ok := c.manager.Get(buildingID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound, "Building is not being watched", nil,
		)
		return
	}

	watch.Poller.Refetch()
	utils.RespondWithJSON(w, http.StatusAccepted, dtos.RefreshResponse{Status: "refreshing"})
}
