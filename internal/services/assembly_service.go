// internal/services/assembly_service.go
package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/domora/kiosk-service/internal/backend"
	"github.com/domora/kiosk-service/internal/models"
	"github.com/domora/kiosk-service/internal/utils"
)

// AssemblyMutator is the slice of the backend client the assembly
// service needs; tests substitute a recording fake.
type AssemblyMutator interface {
	StartAgendaItem(ctx context.Context, assemblyID string, order int) error
	CompleteAgendaItem(ctx context.Context, assemblyID string, order int, decisionType, decision string) error
	EndAssembly(ctx context.Context, assemblyID string) error
}

/*
AssemblyService reflects operator-triggered assembly transitions to the
backend. The authoritative state machine lives server-side; this layer
validates each transition against the last applied snapshot so an
obviously illegal request never leaves the building, then re-polls so
the kiosk view converges on whatever the backend decided.
*/
type AssemblyService struct {
	mutator AssemblyMutator
	manager *WatchManager
}

func NewAssemblyService(mutator AssemblyMutator, manager *WatchManager) *AssemblyService {
	return &AssemblyService{
		mutator: mutator,
		manager: manager,
	}
}

// StartItem moves an agenda item into progress. Only a pending item may
// be started, and only while no other item is in progress.
func (s *AssemblyService) StartItem(ctx context.Context, buildingID string, order int) error {
	watch, asm, err := s.currentAssembly(buildingID)
	if err != nil {
		return err
	}
	if !asm.Status.CanTransitionTo(models.AssemblyInProgress) && asm.Status != models.AssemblyInProgress {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidStatusTransition,
			Message:    "Assembly is not running",
			Err:        utils.ErrWrongStatus,
		}
	}

	item := asm.ItemByOrder(order)
	if item == nil {
		return &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "No such agenda item",
			Err:        utils.ErrNoSuchAgendaItem,
		}
	}
	if item.Status != models.AgendaItemPending {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidStatusTransition,
			Message:    "Agenda item is not pending",
			Err:        utils.ErrWrongStatus,
		}
	}

	running, err := asm.InProgressItem()
	if err != nil {
		return inconsistentAgendaError(err)
	}
	if running != nil {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeConflict,
			Message:    "Another agenda item is already in progress",
			Err:        utils.ErrWrongStatus,
		}
	}

	if err := s.mutator.StartAgendaItem(ctx, asm.ID, order); err != nil {
		return err
	}
	watch.Poller.Refetch()
	return nil
}

// CompleteItem closes the in-progress agenda item with the operator's
// free-text decision. An empty decision aborts without touching the
// backend; the suggested default phrase for the item type rides along
// in the error details so the caller can offer it.
func (s *AssemblyService) CompleteItem(ctx context.Context, buildingID string, order int, decisionType, decision string) error {
	watch, asm, err := s.currentAssembly(buildingID)
	if err != nil {
		return err
	}

	item := asm.ItemByOrder(order)
	if item == nil {
		return &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "No such agenda item",
			Err:        utils.ErrNoSuchAgendaItem,
		}
	}
	if item.Status != models.AgendaItemInProgress {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidStatusTransition,
			Message:    "Agenda item is not in progress",
			Err:        utils.ErrWrongStatus,
		}
	}

	decision = strings.TrimSpace(decision)
	if decision == "" {
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeDecisionRequired,
			Message:    "A decision text is required to complete the item",
			Err:        utils.ErrDecisionRequired,
		}
	}
	if decisionType == "" {
		decisionType = string(item.Type)
	}

	if err := s.mutator.CompleteAgendaItem(ctx, asm.ID, order, decisionType, decision); err != nil {
		return err
	}
	watch.Poller.Refetch()
	return nil
}

// SuggestedDecision returns the default decision phrase for an agenda
// item, used to prefill the operator's input.
func (s *AssemblyService) SuggestedDecision(buildingID string, order int) (string, error) {
	_, asm, err := s.currentAssembly(buildingID)
	if err != nil {
		return "", err
	}
	item := asm.ItemByOrder(order)
	if item == nil {
		return "", &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "No such agenda item",
			Err:        utils.ErrNoSuchAgendaItem,
		}
	}
	return item.Type.DefaultDecision(), nil
}

// End closes the whole assembly. The explicit confirmation flag must be
// set; without it nothing is sent to the backend.
func (s *AssemblyService) End(ctx context.Context, buildingID string, confirmed bool) error {
	watch, asm, err := s.currentAssembly(buildingID)
	if err != nil {
		return err
	}
	if !confirmed {
		return &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeConfirmationRequired,
			Message:    "Ending the assembly requires explicit confirmation",
			Err:        utils.ErrConfirmationRequired,
		}
	}
	if !asm.Status.CanTransitionTo(models.AssemblyCompleted) {
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeInvalidStatusTransition,
			Message:    "Assembly is not running",
			Err:        utils.ErrWrongStatus,
		}
	}

	if err := s.mutator.EndAssembly(ctx, asm.ID); err != nil {
		return err
	}
	watch.Poller.Refetch()
	return nil
}

func (s *AssemblyService) currentAssembly(buildingID string) (*BuildingWatch, *models.UpcomingAssembly, error) {
	watch, ok := s.manager.Get(buildingID)
	if !ok {
		return nil, nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Building is not being watched",
			Err:        utils.ErrBuildingNotWatched,
		}
	}
	snap := watch.Poller.Snapshot()
	if snap == nil || snap.UpcomingAssembly == nil {
		return nil, nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "No assembly is scheduled for this building",
			Err:        utils.ErrNoAssembly,
		}
	}
	return watch, snap.UpcomingAssembly, nil
}

func inconsistentAgendaError(err error) error {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeConflict,
		Message:    "Agenda state is inconsistent; refresh and retry",
		Err:        err,
	}
}

var _ AssemblyMutator = (*backend.Client)(nil)
