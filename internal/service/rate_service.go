package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/selic-correction-backend/internal/bcb"
	"github.com/ndewijer/selic-correction-backend/internal/model"
)

const (
	// maxSingleQuerySpan is the longest range fetched in one SGS request; longer
	// ranges are split into blocks of blockYears.
	maxSingleQuerySpan = 10 * 365 * 24 * time.Hour
	blockYears         = 10

	// businessDayLookahead is how far past a date the next published business day is searched.
	businessDayLookahead = 7
)

// RateService fetches SELIC rate records and snaps dates to business days.
type RateService struct {
	client       bcb.Client
	seriesCode   int
	calendarCode int
	logger       *zap.Logger
}

// NewRateService creates a RateService. seriesCode is the monthly rate series used
// for accrual; calendarCode is a daily series whose observation dates are the
// business days.
func NewRateService(client bcb.Client, seriesCode, calendarCode int, logger *zap.Logger) *RateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateService{
		client:       client,
		seriesCode:   seriesCode,
		calendarCode: calendarCode,
		logger:       logger,
	}
}

// SeriesCode returns the code of the monthly rate series.
func (s *RateService) SeriesCode() int { return s.seriesCode }

// AdjustToBusinessDay returns the first business day on or after date, looking up
// to seven days ahead in the calendar series.
//
// The lookup never fails: if the source errors or publishes nothing in the window
// the original date is returned with WasAdjusted false.
func (s *RateService) AdjustToBusinessDay(ctx context.Context, date time.Time) model.DateAdjustment {
	date = truncateDay(date)
	fallback := model.DateAdjustment{Original: date, Adjusted: date}

	records, err := s.query(ctx, s.calendarCode, date, date.AddDate(0, 0, businessDayLookahead))
	if err != nil {
		s.logger.Warn("business day lookup failed, keeping original date",
			zap.String("op", "service.AdjustToBusinessDay"),
			zap.String("date", date.Format(model.ISODateLayout)),
			zap.Error(err),
		)
		return fallback
	}
	if len(records) == 0 {
		s.logger.Warn("no business day published in lookahead window, keeping original date",
			zap.String("op", "service.AdjustToBusinessDay"),
			zap.String("date", date.Format(model.ISODateLayout)),
		)
		return fallback
	}

	adjusted := truncateDay(records[0].Date)
	return model.DateAdjustment{
		Original:    date,
		Adjusted:    adjusted,
		WasAdjusted: !adjusted.Equal(date),
	}
}

// FetchSeries returns the monthly rate records published between start and end,
// inclusive, in ascending date order.
//
// Ranges longer than ten years are fetched as consecutive ten-year blocks, one after
// the other, each starting the day after the previous block ended. Records that
// appear in more than one block are kept once, the later value winning. An inverted
// range yields no records and no request.
func (s *RateService) FetchSeries(ctx context.Context, start, end time.Time) ([]model.RateRecord, error) {
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		return nil, nil
	}

	if end.Sub(start) <= maxSingleQuerySpan {
		records, err := s.query(ctx, s.seriesCode, start, end)
		if err != nil {
			return nil, err
		}
		return dedupeByDate(records), nil
	}

	var all []model.RateRecord
	blocks := 0
	for blockStart := start; !blockStart.After(end); {
		blockEnd := blockStart.AddDate(blockYears, 0, 0)
		if blockEnd.After(end) {
			blockEnd = end
		}

		records, err := s.query(ctx, s.seriesCode, blockStart, blockEnd)
		if err != nil {
			return nil, fmt.Errorf("block %s to %s: %w",
				blockStart.Format(model.ISODateLayout), blockEnd.Format(model.ISODateLayout), err)
		}
		all = append(all, records...)
		blocks++

		blockStart = blockEnd.AddDate(0, 0, 1)
	}

	unique := dedupeByDate(all)
	s.logger.Debug("fetched paginated series",
		zap.String("op", "service.FetchSeries"),
		zap.Int("blocks", blocks),
		zap.Int("records", len(all)),
		zap.Int("unique", len(unique)),
	)
	return unique, nil
}

// CheckSource performs a small query against the calendar series.
func (s *RateService) CheckSource(ctx context.Context) error {
	today := truncateDay(time.Now().UTC())
	_, err := s.client.QuerySeriesByDateRange(ctx, s.calendarCode, today.AddDate(0, 0, -businessDayLookahead), today)
	return err
}

func (s *RateService) query(ctx context.Context, code int, start, end time.Time) ([]model.RateRecord, error) {
	resp, err := s.client.QuerySeriesByDateRange(ctx, code, start, end)
	if err != nil {
		return nil, err
	}
	records, err := s.client.ParseSeries(resp)
	if err != nil {
		return nil, fmt.Errorf("parse series %d: %w", code, err)
	}
	return records, nil
}

// dedupeByDate keeps the first position of every date with the last value seen for
// it, then sorts ascending.
func dedupeByDate(records []model.RateRecord) []model.RateRecord {
	index := make(map[time.Time]int, len(records))
	unique := make([]model.RateRecord, 0, len(records))
	for _, rec := range records {
		key := truncateDay(rec.Date)
		if i, ok := index[key]; ok {
			unique[i].Value = rec.Value
			continue
		}
		index[key] = len(unique)
		unique = append(unique, rec)
	}
	slices.SortStableFunc(unique, func(a, b model.RateRecord) int {
		return a.Date.Compare(b.Date)
	})
	return unique
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
