package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/bcb"
	"github.com/ndewijer/selic-correction-backend/internal/model"
)

// SGSCall records the arguments of one query made against MockSGSClient.
type SGSCall struct {
	SeriesCode int
	StartDate  time.Time
	EndDate    time.Time
}

// MockSGSClient is a mock implementation of bcb.Client for testing.
// It returns predefined series instead of making actual API calls.
//
// Series registered with WithSeries are filtered to the requested date range, so
// a single fixture can serve every query a calculation makes. Codes without a
// registered series get MockResponse unfiltered.
type MockSGSClient struct {
	mu sync.Mutex

	// MockResponse is returned for series codes with no registered series
	MockResponse bcb.Response
	// MockError is returned from every query when set
	MockError error
	// Series maps a series code to its full history
	Series map[int]bcb.Response
	// Errors maps a series code to the error its queries return
	Errors map[int]error
	// QueryCount tracks how many times a query method was called
	QueryCount int
	// Calls lists every query in call order
	Calls []SGSCall
}

// NewMockSGSClient creates a new mock SGS client with no data.
func NewMockSGSClient() *MockSGSClient {
	return &MockSGSClient{
		MockResponse: bcb.Response{},
		Series:       make(map[int]bcb.Response),
		Errors:       make(map[int]error),
	}
}

// QuerySeriesByDateRange returns the registered series for seriesCode restricted to
// [startDate, endDate], or the configured MockResponse and MockError.
func (m *MockSGSClient) QuerySeriesByDateRange(_ context.Context, seriesCode int, startDate, endDate time.Time) (bcb.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	m.Calls = append(m.Calls, SGSCall{SeriesCode: seriesCode, StartDate: startDate, EndDate: endDate})

	if m.MockError != nil {
		return nil, m.MockError
	}
	if err, ok := m.Errors[seriesCode]; ok {
		return nil, err
	}

	series, ok := m.Series[seriesCode]
	if !ok {
		return m.MockResponse, nil
	}

	var out bcb.Response
	for _, p := range series {
		d, err := time.Parse(model.SGSDateLayout, p.Data)
		if err != nil {
			// malformed fixtures pass through so parse errors can be tested
			out = append(out, p)
			continue
		}
		if d.Before(startDate) || d.After(endDate) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseSeries delegates to the real ParseSeries method since it's pure logic with no side effects.
func (m *MockSGSClient) ParseSeries(resp bcb.Response) ([]model.RateRecord, error) {
	return bcb.NewSeriesClient(bcb.Options{}, nil).ParseSeries(resp)
}

// CallsFor returns the queries made for seriesCode.
func (m *MockSGSClient) CallsFor(seriesCode int) []SGSCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []SGSCall
	for _, c := range m.Calls {
		if c.SeriesCode == seriesCode {
			calls = append(calls, c)
		}
	}
	return calls
}

// WithError configures the mock to return the specified error.
func (m *MockSGSClient) WithError(err error) *MockSGSClient {
	m.MockError = err
	return m
}

// WithResponse configures the mock to return the specified response.
func (m *MockSGSClient) WithResponse(resp bcb.Response) *MockSGSClient {
	m.MockResponse = resp
	return m
}

// WithSeries registers the full history of seriesCode.
func (m *MockSGSClient) WithSeries(seriesCode int, resp bcb.Response) *MockSGSClient {
	m.Series[seriesCode] = resp
	return m
}

// WithSeriesError makes every query for seriesCode fail with err.
func (m *MockSGSClient) WithSeriesError(seriesCode int, err error) *MockSGSClient {
	m.Errors[seriesCode] = err
	return m
}
