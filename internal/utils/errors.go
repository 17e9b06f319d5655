// internal/utils/errors.go
package utils

import (
	"errors"
	"net/http"
)

/*
Sentinel errors for kiosk-service domain logic.
The controller can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrLoadFailed           = errors.New("load_failed")
	ErrDecisionRequired     = errors.New("decision_required")
	ErrConfirmationRequired = errors.New("confirmation_required")
	ErrWrongStatus          = errors.New("wrong_status")
	ErrNoSuchAgendaItem     = errors.New("no_such_agenda_item")
	ErrNoAssembly           = errors.New("no_assembly")
	ErrBuildingNotWatched   = errors.New("building_not_watched")
	ErrDisplayNotFound      = errors.New("display_not_found")
	ErrNoRowsUpdated        = errors.New("no_rows_updated") // Can be used by repos
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
