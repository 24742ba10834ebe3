package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/api/response"
	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/money"
	"github.com/ndewijer/selic-correction-backend/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

// brasilia is the fixed UTC-3 offset used to decide what "today" is.
var brasilia = time.FixedZone("BRT", -3*60*60)

// parseJSON decodes the request body into a T.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, fmt.Errorf("request body is empty")
		}
		return v, err
	}
	return v, nil
}

// today returns the current calendar day in Brasília as a UTC midnight.
func today(now func() time.Time) time.Time {
	t := now().In(brasilia)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// respondServiceError maps a service error onto an HTTP status. failure is the
// message used when the error is not one the caller can act on.
func respondServiceError(w http.ResponseWriter, err error, failure error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		response.RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, apperrors.ErrNoData):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrNoData.Error(), err.Error())
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrSourceUnavailable.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, failure.Error(), err.Error())
	}
}
