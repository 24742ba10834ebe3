package testutil

import (
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/bcb"
	"github.com/ndewijer/selic-correction-backend/internal/model"
)

// Series codes used by the test services.
const (
	MonthlySeriesCode  = 4390
	CalendarSeriesCode = 11
)

// DailyRateValue is the value published for every day by BusinessDays.
const DailyRateValue = "0.043739"

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthlySeries creates an SGS response with one point per month, dated the first
// of the month, starting at the month of from.
//
// Example usage:
//
//	resp := testutil.MonthlySeries(testutil.Date(2023, time.October, 1), "1.00", "0.92")
//	// Returns: [{"data":"01/10/2023","valor":"1.00"},{"data":"01/11/2023","valor":"0.92"}]
func MonthlySeries(from time.Time, values ...string) bcb.Response {
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	resp := make(bcb.Response, len(values))
	for i, v := range values {
		resp[i] = bcb.SeriesPoint{
			Data:  first.AddDate(0, i, 0).Format(model.SGSDateLayout),
			Valor: v,
		}
	}
	return resp
}

// BusinessDays creates a daily SGS response with a point for every weekday between
// from and to, skipping the given holidays.
func BusinessDays(from, to time.Time, holidays ...time.Time) bcb.Response {
	skip := make(map[time.Time]bool, len(holidays))
	for _, h := range holidays {
		skip[h] = true
	}

	var resp bcb.Response
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday || skip[d] {
			continue
		}
		resp = append(resp, bcb.SeriesPoint{Data: d.Format(model.SGSDateLayout), Valor: DailyRateValue})
	}
	return resp
}

// RateRecords creates monthly rate records starting at the month of from.
func RateRecords(from time.Time, values ...string) []model.RateRecord {
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	records := make([]model.RateRecord, len(values))
	for i, v := range values {
		records[i] = model.RateRecord{Date: first.AddDate(0, i, 0), Value: v}
	}
	return records
}
