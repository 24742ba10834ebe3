package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/bcb"
	"github.com/ndewijer/selic-correction-backend/internal/testutil"
)

func TestRateService_AdjustToBusinessDay(t *testing.T) {
	calendar := testutil.BusinessDays(testutil.Date(2023, time.December, 1), testutil.Date(2024, time.January, 31),
		testutil.Date(2023, time.December, 25), testutil.Date(2024, time.January, 1))

	tests := []struct {
		name         string
		date         time.Time
		wantAdjusted time.Time
		wantFlag     bool
	}{
		{
			name:         "saturday moves to monday",
			date:         testutil.Date(2024, time.January, 6),
			wantAdjusted: testutil.Date(2024, time.January, 8),
			wantFlag:     true,
		},
		{
			name:         "business day is kept",
			date:         testutil.Date(2024, time.January, 10),
			wantAdjusted: testutil.Date(2024, time.January, 10),
			wantFlag:     false,
		},
		{
			name:         "holiday moves to next business day",
			date:         testutil.Date(2023, time.December, 30),
			wantAdjusted: testutil.Date(2024, time.January, 2),
			wantFlag:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.NewMockSGSClient().WithSeries(testutil.CalendarSeriesCode, calendar)
			svc := testutil.NewTestRateService(t, client)

			adj := svc.AdjustToBusinessDay(context.Background(), tt.date)

			assert.Equal(t, tt.date, adj.Original)
			assert.Equal(t, tt.wantAdjusted, adj.Adjusted)
			assert.Equal(t, tt.wantFlag, adj.WasAdjusted)

			calls := client.CallsFor(testutil.CalendarSeriesCode)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.date, calls[0].StartDate)
			assert.Equal(t, tt.date.AddDate(0, 0, 7), calls[0].EndDate)
		})
	}
}

func TestRateService_AdjustToBusinessDay_Fallback(t *testing.T) {
	date := testutil.Date(2024, time.January, 6)

	t.Run("source error keeps the original date", func(t *testing.T) {
		client := testutil.NewMockSGSClient().WithError(apperrors.ErrSourceUnavailable)
		svc := testutil.NewTestRateService(t, client)

		adj := svc.AdjustToBusinessDay(context.Background(), date)
		assert.Equal(t, date, adj.Adjusted)
		assert.False(t, adj.WasAdjusted)
	})

	t.Run("empty window keeps the original date", func(t *testing.T) {
		client := testutil.NewMockSGSClient().WithSeries(testutil.CalendarSeriesCode, bcb.Response{})
		svc := testutil.NewTestRateService(t, client)

		adj := svc.AdjustToBusinessDay(context.Background(), date)
		assert.Equal(t, date, adj.Adjusted)
		assert.False(t, adj.WasAdjusted)
	})

	t.Run("unparseable payload keeps the original date", func(t *testing.T) {
		client := testutil.NewMockSGSClient().WithResponse(bcb.Response{{Data: "2024-01-08", Valor: "0.04"}})
		svc := testutil.NewTestRateService(t, client)

		adj := svc.AdjustToBusinessDay(context.Background(), date)
		assert.Equal(t, date, adj.Adjusted)
		assert.False(t, adj.WasAdjusted)
	})
}

func TestRateService_FetchSeries_SingleRequest(t *testing.T) {
	client := testutil.NewMockSGSClient().
		WithSeries(testutil.MonthlySeriesCode, testutil.MonthlySeries(testutil.Date(2023, time.January, 1), "1.12", "0.92", "1.17", "0.92", "1.12"))
	svc := testutil.NewTestRateService(t, client)

	records, err := svc.FetchSeries(context.Background(), testutil.Date(2023, time.February, 1), testutil.Date(2023, time.April, 15))
	require.NoError(t, err)

	assert.Equal(t, testutil.RateRecords(testutil.Date(2023, time.February, 1), "0.92", "1.17", "0.92"), records)
	assert.Equal(t, 1, client.QueryCount)
}

func TestRateService_FetchSeries_Paginates(t *testing.T) {
	values := make([]string, 360)
	for i := range values {
		values[i] = "0.80"
	}
	client := testutil.NewMockSGSClient().
		WithSeries(testutil.MonthlySeriesCode, testutil.MonthlySeries(testutil.Date(1995, time.January, 1), values...))
	svc := testutil.NewTestRateService(t, client)

	start := testutil.Date(1995, time.January, 1)
	end := testutil.Date(2024, time.June, 1)
	records, err := svc.FetchSeries(context.Background(), start, end)
	require.NoError(t, err)

	calls := client.CallsFor(testutil.MonthlySeriesCode)
	require.Len(t, calls, 3)
	assert.Equal(t, start, calls[0].StartDate)
	assert.Equal(t, testutil.Date(2005, time.January, 1), calls[0].EndDate)
	assert.Equal(t, testutil.Date(2005, time.January, 2), calls[1].StartDate)
	assert.Equal(t, testutil.Date(2015, time.January, 2), calls[1].EndDate)
	assert.Equal(t, testutil.Date(2015, time.January, 3), calls[2].StartDate)
	assert.Equal(t, end, calls[2].EndDate)

	// January 1995 through June 2024
	require.Len(t, records, 354)
	assert.Equal(t, start, records[0].Date)
	assert.Equal(t, end, records[len(records)-1].Date)
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Date.Before(records[i].Date), "records out of order at %d", i)
	}
}

func TestRateService_FetchSeries_DeduplicatesAndSorts(t *testing.T) {
	client := testutil.NewMockSGSClient().WithResponse(bcb.Response{
		{Data: "01/02/2024", Valor: "0.80"},
		{Data: "01/01/2024", Valor: "1.00"},
		{Data: "01/02/2024", Valor: "0.81"},
	})
	svc := testutil.NewTestRateService(t, client)

	records, err := svc.FetchSeries(context.Background(), testutil.Date(2024, time.January, 1), testutil.Date(2024, time.March, 1))
	require.NoError(t, err)

	assert.Equal(t, testutil.RateRecords(testutil.Date(2024, time.January, 1), "1.00", "0.81"), records)
}

func TestRateService_FetchSeries_DeduplicatesAcrossBlocks(t *testing.T) {
	client := testutil.NewMockSGSClient().WithResponse(testutil.MonthlySeries(testutil.Date(2010, time.January, 1), "0.66", "0.59"))
	svc := testutil.NewTestRateService(t, client)

	records, err := svc.FetchSeries(context.Background(), testutil.Date(2000, time.January, 1), testutil.Date(2024, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, 3, client.QueryCount)
	assert.Len(t, records, 2)
}

func TestRateService_FetchSeries_InvertedRange(t *testing.T) {
	client := testutil.NewMockSGSClient()
	svc := testutil.NewTestRateService(t, client)

	records, err := svc.FetchSeries(context.Background(), testutil.Date(2024, time.February, 10), testutil.Date(2024, time.January, 10))
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, 0, client.QueryCount)
}

func TestRateService_FetchSeries_Errors(t *testing.T) {
	t.Run("source unavailable", func(t *testing.T) {
		client := testutil.NewMockSGSClient().WithSeriesError(testutil.MonthlySeriesCode, apperrors.ErrSourceUnavailable)
		svc := testutil.NewTestRateService(t, client)

		_, err := svc.FetchSeries(context.Background(), testutil.Date(2023, time.January, 1), testutil.Date(2023, time.June, 1))
		assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
	})

	t.Run("failing block aborts pagination", func(t *testing.T) {
		boom := errors.New("boom")
		client := testutil.NewMockSGSClient().WithError(boom)
		svc := testutil.NewTestRateService(t, client)

		_, err := svc.FetchSeries(context.Background(), testutil.Date(1990, time.January, 1), testutil.Date(2024, time.January, 1))
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, client.QueryCount)
	})

	t.Run("malformed record", func(t *testing.T) {
		client := testutil.NewMockSGSClient().WithResponse(bcb.Response{{Data: "01/01/2024", Valor: ""}})
		svc := testutil.NewTestRateService(t, client)

		_, err := svc.FetchSeries(context.Background(), testutil.Date(2024, time.January, 1), testutil.Date(2024, time.June, 1))
		assert.ErrorIs(t, err, apperrors.ErrMissingRequiredField)
	})
}
