package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/api/request"
	"github.com/ndewijer/selic-correction-backend/internal/api/response"
	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/model"
	"github.com/ndewijer/selic-correction-backend/internal/service"
	"github.com/ndewijer/selic-correction-backend/internal/validation"
)

// SelicHandler handles HTTP requests for SELIC correction endpoints.
// It serves as the HTTP layer adapter, validating requests and delegating
// the calculation to the correctionService.
type SelicHandler struct {
	correctionService *service.CorrectionService
	rateService       *service.RateService
	seriesFloor       time.Time
	now               func() time.Time
}

// NewSelicHandler creates a new SelicHandler. Dates before seriesFloor are rejected.
func NewSelicHandler(correctionService *service.CorrectionService, rateService *service.RateService, seriesFloor time.Time) *SelicHandler {
	return &SelicHandler{
		correctionService: correctionService,
		rateService:       rateService,
		seriesFloor:       seriesFloor,
		now:               time.Now,
	}
}

func (h *SelicHandler) rules() validation.Rules {
	return validation.Rules{
		Today:       today(h.now),
		SeriesFloor: h.seriesFloor,
	}
}

// Correction handles POST requests to correct an amount by the SELIC rate.
//
// Endpoint: POST /api/selic/correction
// Request Body: CorrectionRequest (startDate, endDate, amount)
// Response: 200 OK with CorrectionResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the source has no rates for the period
// Error: 502 Bad Gateway if the rate source is unavailable
// Error: 500 Internal Server Error if the calculation fails
func (h *SelicHandler) Correction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CorrectionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCorrection(req, h.rules()); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCorrect)
		return
	}

	result, err := h.correctionService.CorrectPrincipal(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCorrect)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// FineCorrection handles POST requests to correct an amount and charge a fine on the
// corrected value.
//
// Endpoint: POST /api/selic/fine-correction
// Request Body: FineCorrectionRequest (startDate, endDate, amount, finePercentage)
// Response: 200 OK with FineCorrectionResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the source has no rates for the period
// Error: 502 Bad Gateway if the rate source is unavailable
// Error: 500 Internal Server Error if the calculation fails
func (h *SelicHandler) FineCorrection(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.FineCorrectionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateFineCorrection(req, h.rules()); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCorrectFine)
		return
	}

	result, err := h.correctionService.CorrectFine(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCorrectFine)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// BusinessDay handles GET requests to snap a date to the next business day.
// A source failure is not an error here: the date comes back unadjusted.
//
// Endpoint: GET /api/selic/business-day?date=YYYY-MM-DD
// Response: 200 OK with BusinessDayResponse
// Error: 400 Bad Request if date is missing or invalid
func (h *SelicHandler) BusinessDay(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if err := validation.ValidateDate("date", raw, validation.Rules{SeriesFloor: h.seriesFloor}); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAdjustDate)
		return
	}

	date, err := request.ParseDate("date", raw)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAdjustDate)
		return
	}

	adj := h.rateService.AdjustToBusinessDay(r.Context(), date)
	response.RespondJSON(w, http.StatusOK, model.BusinessDayResponse{
		OriginalDate: adj.Original.Format(model.ISODateLayout),
		AdjustedDate: adj.Adjusted.Format(model.ISODateLayout),
		WasAdjusted:  adj.WasAdjusted,
	})
}

// Series handles GET requests to list the monthly SELIC rates in a date range.
//
// Endpoint: GET /api/selic/series?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
// Response: 200 OK with SeriesResponse
// Error: 400 Bad Request if a date is missing, malformed, in the future, before the
// series floor, or the range is inverted
// Error: 502 Bad Gateway if the rate source is unavailable
// Error: 500 Internal Server Error if retrieval fails
func (h *SelicHandler) Series(w http.ResponseWriter, r *http.Request) {
	startParam, endParam := r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate")
	if err := validation.ValidateSeriesRange(startParam, endParam, h.rules()); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSeries)
		return
	}

	dr, err := request.ParseDateRange(startParam, endParam)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSeries)
		return
	}

	records, err := h.rateService.FetchSeries(r.Context(), dr.Start, dr.End)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSeries)
		return
	}
	if records == nil {
		records = []model.RateRecord{}
	}

	response.RespondJSON(w, http.StatusOK, model.SeriesResponse{
		SeriesCode: h.rateService.SeriesCode(),
		StartDate:  dr.Start.Format(model.ISODateLayout),
		EndDate:    dr.End.Format(model.ISODateLayout),
		Count:      len(records),
		Records:    records,
	})
}
