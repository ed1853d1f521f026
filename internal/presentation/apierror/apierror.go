// Package apierror maps domain errors onto HTTP status codes so every
// handler reports the same shape for the same failure.
package apierror

import (
	"errors"
	"net/http"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/json"
)

// Write translates err into a JSON error response.
func Write(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrMessageNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		json.WriteError(w, http.StatusNotFound, err, err.Error())

	case errors.Is(err, domain.ErrRoomNotActive):
		// The room exists but its window is over.
		json.WriteError(w, http.StatusGone, err, err.Error())

	case errors.Is(err, domain.ErrRoomFull):
		json.WriteError(w, http.StatusConflict, err, err.Error())

	case errors.Is(err, domain.ErrParticipantBanned):
		json.WriteError(w, http.StatusForbidden, err, err.Error())

	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyMessage):
		json.WriteValidationError(w, err)

	case errors.Is(err, domain.ErrPaymentUnverified):
		json.WriteError(w, http.StatusPaymentRequired, err, err.Error())

	case errors.Is(err, domain.ErrProviderUnavailable):
		json.WriteError(w, http.StatusBadGateway, err, "Payment provider unavailable")

	case errors.Is(err, domain.ErrStoreUnavailable):
		json.WriteError(w, http.StatusServiceUnavailable, err, "Store unavailable")

	default:
		json.WriteInternalError(w, err)
	}
}
