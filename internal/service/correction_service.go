package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/selic-correction-backend/internal/api/request"
	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/model"
	"github.com/ndewijer/selic-correction-backend/internal/money"
	"github.com/ndewijer/selic-correction-backend/internal/selic"
)

// Decimal places of each kind of figure in a response.
const (
	moneyPlaces      = 2
	factorPlaces     = 8
	percentagePlaces = 6

	calculationTypeMonthly = "monthly"
)

// CorrectionService orchestrates a SELIC correction: business-day adjustment of the
// period bounds, rate retrieval, accrual and, for fines, the fine on the corrected
// amount. Every call is independent; the service holds no per-request state.
type CorrectionService struct {
	rates      *RateService
	calculator *selic.Calculator
	logger     *zap.Logger
}

// NewCorrectionService creates a new CorrectionService.
func NewCorrectionService(rates *RateService, calculator *selic.Calculator, logger *zap.Logger) *CorrectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CorrectionService{
		rates:      rates,
		calculator: calculator,
		logger:     logger,
	}
}

// correction carries the exact figures of a computation before they are rounded
// into a response.
type correction struct {
	id        string
	principal money.Money
	factor    money.Money
	result    selic.CorrectionResult
	response  model.CorrectionResponse
}

// CorrectPrincipal corrects req.Amount by the SELIC accrued between req.StartDate and
// req.EndDate.
//
// Returns apperrors.ErrNoData when the source has no rates for the search window and
// apperrors.ErrSourceUnavailable when the source cannot be reached.
func (s *CorrectionService) CorrectPrincipal(ctx context.Context, req request.CorrectionRequest) (*model.CorrectionResponse, error) {
	c, err := s.correct(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("correction computed",
		zap.String("op", "service.CorrectPrincipal"),
		zap.String("calculationId", c.id),
		zap.String("originalValue", c.principal.ExactString()),
		zap.String("correctionFactor", c.factor.ExactString()),
		zap.String("correctedValue", c.result.CorrectedValue.ExactString()),
		zap.Int("periods", c.response.Periods),
	)
	return &c.response, nil
}

// CorrectFine corrects the principal as CorrectPrincipal does and then charges
// req.FinePercentage on the corrected amount.
func (s *CorrectionService) CorrectFine(ctx context.Context, req request.FineCorrectionRequest) (*model.FineCorrectionResponse, error) {
	mc := s.calculator.Context()
	finePct, err := mc.Parse(req.FinePercentage.String())
	if err != nil {
		return nil, fmt.Errorf("finePercentage: %w", err)
	}

	c, err := s.correct(ctx, req.Correction())
	if err != nil {
		return nil, err
	}

	fine := s.calculator.ComputeFine(c.result.CorrectedValue, finePct)
	totalIncrease := fine.TotalValue.Sub(c.principal)

	s.logger.Info("fine correction computed",
		zap.String("op", "service.CorrectFine"),
		zap.String("calculationId", c.id),
		zap.String("originalValue", c.principal.ExactString()),
		zap.String("correctionFactor", c.factor.ExactString()),
		zap.String("correctedValue", c.result.CorrectedValue.ExactString()),
		zap.String("finePercentage", finePct.ExactString()),
		zap.String("fineValue", fine.FineValue.ExactString()),
		zap.String("totalValue", fine.TotalValue.ExactString()),
	)

	return &model.FineCorrectionResponse{
		CorrectionResponse: c.response,
		FinePercentage:     finePct.JSONNumber(percentagePlaces),
		FineValue:          fine.FineValue.JSONNumber(moneyPlaces),
		TotalValue:         fine.TotalValue.JSONNumber(moneyPlaces),
		TotalIncrease:      totalIncrease.JSONNumber(moneyPlaces),
	}, nil
}

func (s *CorrectionService) correct(ctx context.Context, req request.CorrectionRequest) (*correction, error) {
	start, err := request.ParseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := request.ParseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	principal, err := s.calculator.Context().Parse(req.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	startAdj := s.rates.AdjustToBusinessDay(ctx, start)
	endAdj := s.rates.AdjustToBusinessDay(ctx, end)

	searchFrom, searchTo := selic.SearchWindow(startAdj.Adjusted, endAdj.Adjusted)
	records, err := s.rates.FetchSeries(ctx, searchFrom, searchTo)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrNoData,
			searchFrom.Format(model.ISODateLayout), searchTo.Format(model.ISODateLayout))
	}

	factor, err := s.calculator.ComputeFactor(records, startAdj.Adjusted, endAdj.Adjusted)
	if err != nil {
		return nil, err
	}
	compound, err := s.calculator.ComputeCompoundFactor(records)
	if err != nil {
		return nil, err
	}
	result := s.calculator.ApplyCorrection(principal, factor)

	rates := make([]model.RateRecord, 0, len(records)+1)
	rates = append(rates, records...)
	rates = append(rates, s.calculator.FinalMonthRecord(endAdj.Adjusted))

	id := uuid.New().String()
	return &correction{
		id:        id,
		principal: principal,
		factor:    factor,
		result:    result,
		response: model.CorrectionResponse{
			CalculationID:        id,
			OriginalValue:        principal.JSONNumber(moneyPlaces),
			CorrectedValue:       result.CorrectedValue.JSONNumber(moneyPlaces),
			Correction:           result.Correction.JSONNumber(moneyPlaces),
			CorrectionFactor:     factor.JSONNumber(factorPlaces),
			CompoundFactor:       compound.JSONNumber(factorPlaces),
			CorrectionPercentage: result.Percentage.JSONNumber(percentagePlaces),
			Periods:              len(rates),
			Rates:                rates,
			OriginalStartDate:    start.Format(model.ISODateLayout),
			AdjustedStartDate:    startAdj.Adjusted.Format(model.ISODateLayout),
			StartDateWasAdjusted: startAdj.WasAdjusted,
			SearchStartDate:      searchFrom.Format(model.ISODateLayout),
			OriginalEndDate:      end.Format(model.ISODateLayout),
			AdjustedEndDate:      endAdj.Adjusted.Format(model.ISODateLayout),
			EndDateWasAdjusted:   endAdj.WasAdjusted,
			SearchEndDate:        searchTo.Format(model.ISODateLayout),
			CalculationType:      calculationTypeMonthly,
		},
	}, nil
}
