package testutil

import (
	"testing"

	"github.com/ndewijer/selic-correction-backend/internal/money"
	"github.com/ndewijer/selic-correction-backend/internal/selic"
	"github.com/ndewijer/selic-correction-backend/internal/service"
)

// NewTestCalculator creates a Calculator with the default money context and the
// statutory 1% final-month rate.
func NewTestCalculator(t *testing.T) *selic.Calculator {
	t.Helper()

	calc, err := selic.NewCalculator(money.Default(), selic.DefaultFinalMonthRate, nil)
	if err != nil {
		t.Fatalf("Failed to create calculator: %v", err)
	}
	return calc
}

func NewTestRateService(t *testing.T, client *MockSGSClient) *service.RateService {
	t.Helper()

	return service.NewRateService(client, MonthlySeriesCode, CalendarSeriesCode, nil)
}

func NewTestCorrectionService(t *testing.T, client *MockSGSClient) *service.CorrectionService {
	t.Helper()

	return service.NewCorrectionService(
		NewTestRateService(t, client),
		NewTestCalculator(t),
		nil,
	)
}

func NewTestSystemService(t *testing.T, client *MockSGSClient) *service.SystemService {
	t.Helper()

	return service.NewSystemService(
		NewTestRateService(t, client),
		NewTestCalculator(t),
	)
}

// MustMoney parses s with the default money context or fails the test.
//
// Example usage:
//
//	amount := testutil.MustMoney(t, "R$ 1.234,56")
func MustMoney(t *testing.T, s string) money.Money {
	t.Helper()

	m, err := money.Parse(s)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", s, err)
	}
	return m
}
