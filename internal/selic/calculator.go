// Package selic implements the SELIC accrual engine: it turns a sequence of monthly
// rate records into a correction factor by simple addition of the monthly
// percentages, applies that factor to a principal and computes fines on the
// corrected amount.
package selic

import (
	"fmt"
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/model"
	"github.com/ndewijer/selic-correction-backend/internal/money"
	"go.uber.org/zap"
)

// DefaultFinalMonthRate is the flat percentage charged for the month in which the
// correction period ends. It is never fetched from the rate source.
const DefaultFinalMonthRate = "1.00"

// CorrectionResult is the outcome of applying a factor to a principal.
type CorrectionResult struct {
	CorrectedValue money.Money
	Correction     money.Money
	Percentage     money.Money
}

// Calculator computes SELIC correction factors with a fixed money context.
type Calculator struct {
	ctx            *money.Context
	finalMonthRate string
	finalMonth     money.Money
	hundred        money.Money
	logger         *zap.Logger
}

// NewCalculator returns a Calculator. finalMonthRate is a percentage such as "1.00".
func NewCalculator(ctx *money.Context, finalMonthRate string, logger *zap.Logger) (*Calculator, error) {
	if ctx == nil {
		ctx = money.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rate, err := ctx.Parse(finalMonthRate)
	if err != nil {
		return nil, fmt.Errorf("final month rate: %w", err)
	}
	return &Calculator{
		ctx:            ctx,
		finalMonthRate: finalMonthRate,
		finalMonth:     rate.Shift(-2),
		hundred:        ctx.FromInt(100),
		logger:         logger,
	}, nil
}

// Context returns the money context results are computed in.
func (c *Calculator) Context() *money.Context { return c.ctx }

// FinalMonthRate returns the percentage charged for the final month, as configured.
func (c *Calculator) FinalMonthRate() string { return c.finalMonthRate }

// ComputeFactor accumulates the monthly percentages of records, in order, by simple
// addition and returns 1 + accumulated. The records must already be restricted to
// the search window of the period (see SearchWindow).
//
// When both period bounds are set the final-month rate is added after the records,
// so an empty record list still yields 1 + final-month rate. With a zero bound the
// final-month term is left out.
func (c *Calculator) ComputeFactor(records []model.RateRecord, periodStart, periodEnd time.Time) (money.Money, error) {
	accumulated := c.ctx.Zero()

	for _, rec := range records {
		monthly, err := c.rate(rec)
		if err != nil {
			return money.Money{}, err
		}
		accumulated = accumulated.Add(monthly)
		c.logger.Debug("accrued monthly rate",
			zap.String("op", "selic.ComputeFactor"),
			zap.String("date", rec.Date.Format(model.SGSDateLayout)),
			zap.String("rate", rec.Value),
			zap.String("accumulated", accumulated.ExactString()),
		)
	}

	if !periodStart.IsZero() && !periodEnd.IsZero() {
		accumulated = accumulated.Add(c.finalMonth)
	}

	factor := c.ctx.One().Add(accumulated)
	c.logger.Debug("computed correction factor",
		zap.String("op", "selic.ComputeFactor"),
		zap.Int("records", len(records)),
		zap.String("factor", factor.StringFixed(8)),
	)
	return factor, nil
}

// ComputeCompoundFactor multiplies (1 + rate) over every record. It is reported next
// to the statutory factor for comparison and never used to correct a value.
func (c *Calculator) ComputeCompoundFactor(records []model.RateRecord) (money.Money, error) {
	factor := c.ctx.One()
	for _, rec := range records {
		monthly, err := c.rate(rec)
		if err != nil {
			return money.Money{}, err
		}
		factor = factor.Mul(c.ctx.One().Add(monthly))
	}
	return factor, nil
}

// CompoundInterest returns principal × (1 + rate)^periods. rate is a fraction per
// period (0.01 for 1 %), not a percentage.
func (c *Calculator) CompoundInterest(principal, rate money.Money, periods int) (money.Money, error) {
	growth, err := c.ctx.One().Add(rate).Pow(c.ctx.FromInt(int64(periods)))
	if err != nil {
		return money.Money{}, fmt.Errorf("compound interest over %d periods: %w", periods, err)
	}
	return principal.Mul(growth), nil
}

// ApplyCorrection multiplies principal by factor.
func (c *Calculator) ApplyCorrection(principal, factor money.Money) CorrectionResult {
	corrected := principal.Mul(factor)
	return CorrectionResult{
		CorrectedValue: corrected,
		Correction:     corrected.Sub(principal),
		Percentage:     factor.Sub(c.ctx.One()).Mul(c.hundred),
	}
}

// FinalMonthRecord is the synthetic record standing for the final month of a period
// ending at periodEnd. It is listed with the fetched records so that callers see
// every term that went into the factor.
func (c *Calculator) FinalMonthRecord(periodEnd time.Time) model.RateRecord {
	return model.RateRecord{
		Date:  time.Date(periodEnd.Year(), periodEnd.Month(), 1, 0, 0, 0, 0, time.UTC),
		Value: c.finalMonthRate,
	}
}

func (c *Calculator) rate(rec model.RateRecord) (money.Money, error) {
	pct, err := c.ctx.Parse(rec.Value)
	if err != nil {
		return money.Money{}, fmt.Errorf("rate for %s: %w", rec.Date.Format(model.SGSDateLayout), err)
	}
	return pct.Shift(-2), nil
}

// SearchWindow returns the range of records to request for a correction from start
// to end: the event month never accrues and the final month is charged at the
// final-month rate, so the window is [start + 1 month, end - 1 month].
func SearchWindow(start, end time.Time) (time.Time, time.Time) {
	return start.AddDate(0, 1, 0), end.AddDate(0, -1, 0)
}
