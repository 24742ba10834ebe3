package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/api/response"
	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/model"
	"github.com/ndewijer/selic-correction-backend/internal/testutil"
)

var seriesFloor = testutil.Date(1986, time.July, 1)

// newSelicClient serves business days for late 2023 through January 2024 and
// monthly rates from August to December 2023.
func newSelicClient() *testutil.MockSGSClient {
	return testutil.NewMockSGSClient().
		WithSeries(testutil.CalendarSeriesCode, testutil.BusinessDays(testutil.Date(2023, time.August, 1), testutil.Date(2024, time.January, 31))).
		WithSeries(testutil.MonthlySeriesCode, testutil.MonthlySeries(testutil.Date(2023, time.August, 1), "1.14", "0.97", "1.15", "1.20", "0.89"))
}

func newSelicHandler(t *testing.T, client *testutil.MockSGSClient) *SelicHandler {
	t.Helper()
	h := NewSelicHandler(
		testutil.NewTestCorrectionService(t, client),
		testutil.NewTestRateService(t, client),
		seriesFloor,
	)
	// 02:00 UTC on June 1st is still May 31st in Brasília.
	h.now = func() time.Time { return time.Date(2024, time.June, 1, 2, 0, 0, 0, time.UTC) }
	return h
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp
}

func TestSelicHandler_Correction(t *testing.T) {
	t.Run("corrects the amount", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction", map[string]any{
			"startDate": "2023-09-01",
			"endDate":   "2023-12-01",
			"amount":    1000.00,
		})
		w := httptest.NewRecorder()

		handler.Correction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp model.CorrectionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.CorrectedValue != "1033.50" {
			t.Errorf("Expected correctedValue 1033.50, got %s", resp.CorrectedValue)
		}
		if resp.CorrectionFactor != "1.03350000" {
			t.Errorf("Expected correctionFactor 1.03350000, got %s", resp.CorrectionFactor)
		}
		if resp.Periods != 3 {
			t.Errorf("Expected 3 periods, got %d", resp.Periods)
		}
		if resp.CalculationID == "" {
			t.Error("Expected a calculationId")
		}
	})

	t.Run("accepts brazilian formatted amounts", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction", map[string]any{
			"startDate": "2023-09-01",
			"endDate":   "2023-12-01",
			"amount":    "R$ 1.000,00",
		})
		w := httptest.NewRecorder()

		handler.Correction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp model.CorrectionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.OriginalValue != "1000.00" {
			t.Errorf("Expected originalValue 1000.00, got %s", resp.OriginalValue)
		}
	})

	t.Run("reads exponent amounts exactly", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction",
			`{"startDate":"2023-09-01","endDate":"2023-12-01","amount":1e3}`)
		w := httptest.NewRecorder()

		handler.Correction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp model.CorrectionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.OriginalValue != "1000.00" {
			t.Errorf("Expected originalValue 1000.00, got %s", resp.OriginalValue)
		}
		if resp.CorrectedValue != "1033.50" {
			t.Errorf("Expected correctedValue 1033.50, got %s", resp.CorrectedValue)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction", `{"startDate":`)
		w := httptest.NewRecorder()

		handler.Correction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction", "")
		w := httptest.NewRecorder()

		handler.Correction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	validationTests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{
			name:  "missing start date",
			body:  map[string]any{"endDate": "2023-12-01", "amount": "1000"},
			field: "startDate",
		},
		{
			name:  "end before start",
			body:  map[string]any{"startDate": "2023-12-01", "endDate": "2023-09-01", "amount": "1000"},
			field: "endDate",
		},
		{
			name:  "future end date",
			body:  map[string]any{"startDate": "2023-09-01", "endDate": "2024-06-01", "amount": "1000"},
			field: "endDate",
		},
		{
			name:  "before series floor",
			body:  map[string]any{"startDate": "1980-01-01", "endDate": "2023-09-01", "amount": "1000"},
			field: "startDate",
		},
		{
			name:  "negative amount",
			body:  map[string]any{"startDate": "2023-09-01", "endDate": "2023-12-01", "amount": -10},
			field: "amount",
		},
		{
			name:  "unparseable amount",
			body:  map[string]any{"startDate": "2023-09-01", "endDate": "2023-12-01", "amount": "abc"},
			field: "amount",
		},
	}

	for _, tt := range validationTests {
		t.Run(tt.name, func(t *testing.T) {
			client := newSelicClient()
			handler := newSelicHandler(t, client)

			req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction", tt.body)
			w := httptest.NewRecorder()

			handler.Correction(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}

			resp := decodeError(t, w)
			details, ok := resp.Details.(map[string]any)
			if !ok {
				t.Fatalf("Expected field details, got %v", resp.Details)
			}
			if _, ok := details[tt.field]; !ok {
				t.Errorf("Expected error for field %s, got %v", tt.field, details)
			}
			if client.QueryCount != 0 {
				t.Errorf("Expected no source queries, got %d", client.QueryCount)
			}
		})
	}

	t.Run("returns 404 when no rates are published", func(t *testing.T) {
		client := testutil.NewMockSGSClient().
			WithSeries(testutil.CalendarSeriesCode, testutil.BusinessDays(testutil.Date(2023, time.August, 1), testutil.Date(2024, time.January, 31)))
		handler := newSelicHandler(t, client)

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction", map[string]any{
			"startDate": "2023-09-01",
			"endDate":   "2023-12-01",
			"amount":    "1000",
		})
		w := httptest.NewRecorder()

		handler.Correction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
		if resp := decodeError(t, w); resp.Error != apperrors.ErrNoData.Error() {
			t.Errorf("Expected error %q, got %q", apperrors.ErrNoData.Error(), resp.Error)
		}
	})

	t.Run("returns 502 when the source is unavailable", func(t *testing.T) {
		client := newSelicClient().WithSeriesError(testutil.MonthlySeriesCode, apperrors.ErrSourceUnavailable)
		handler := newSelicHandler(t, client)

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/correction", map[string]any{
			"startDate": "2023-09-01",
			"endDate":   "2023-12-01",
			"amount":    "1000",
		})
		w := httptest.NewRecorder()

		handler.Correction(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSelicHandler_FineCorrection(t *testing.T) {
	t.Run("charges the fine on the corrected amount", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/fine-correction", map[string]any{
			"startDate":      "2023-09-01",
			"endDate":        "2023-12-01",
			"amount":         "1000.00",
			"finePercentage": 20,
		})
		w := httptest.NewRecorder()

		handler.FineCorrection(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp model.FineCorrectionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.CorrectedValue != "1033.50" {
			t.Errorf("Expected correctedValue 1033.50, got %s", resp.CorrectedValue)
		}
		if resp.FineValue != "206.70" {
			t.Errorf("Expected fineValue 206.70, got %s", resp.FineValue)
		}
		if resp.TotalValue != "1240.20" {
			t.Errorf("Expected totalValue 1240.20, got %s", resp.TotalValue)
		}
		if resp.TotalIncrease != "240.20" {
			t.Errorf("Expected totalIncrease 240.20, got %s", resp.TotalIncrease)
		}
	})

	t.Run("reads exponent fine percentages exactly", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/fine-correction",
			`{"startDate":"2023-09-01","endDate":"2023-12-01","amount":1.0e3,"finePercentage":2e1}`)
		w := httptest.NewRecorder()

		handler.FineCorrection(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp model.FineCorrectionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.FinePercentage != "20.000000" {
			t.Errorf("Expected finePercentage 20.000000, got %s", resp.FinePercentage)
		}
		if resp.FineValue != "206.70" {
			t.Errorf("Expected fineValue 206.70, got %s", resp.FineValue)
		}
	})

	tests := []struct {
		name string
		fine any
	}{
		{name: "missing fine", fine: nil},
		{name: "negative fine", fine: -2},
		{name: "non numeric fine", fine: "twenty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newSelicClient()
			handler := newSelicHandler(t, client)

			req := testutil.NewJSONRequest(http.MethodPost, "/api/selic/fine-correction", map[string]any{
				"startDate":      "2023-09-01",
				"endDate":        "2023-12-01",
				"amount":         "1000.00",
				"finePercentage": tt.fine,
			})
			w := httptest.NewRecorder()

			handler.FineCorrection(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
			resp := decodeError(t, w)
			details, ok := resp.Details.(map[string]any)
			if !ok {
				t.Fatalf("Expected field details, got %v", resp.Details)
			}
			if _, ok := details["finePercentage"]; !ok {
				t.Errorf("Expected finePercentage error, got %v", details)
			}
			if client.QueryCount != 0 {
				t.Errorf("Expected no source queries, got %d", client.QueryCount)
			}
		})
	}
}

func TestSelicHandler_BusinessDay(t *testing.T) {
	t.Run("moves a saturday to monday", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/selic/business-day", map[string]string{
			"date": "2024-01-06",
		})
		w := httptest.NewRecorder()

		handler.BusinessDay(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp model.BusinessDayResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.OriginalDate != "2024-01-06" {
			t.Errorf("Expected originalDate 2024-01-06, got %s", resp.OriginalDate)
		}
		if resp.AdjustedDate != "2024-01-08" {
			t.Errorf("Expected adjustedDate 2024-01-08, got %s", resp.AdjustedDate)
		}
		if !resp.WasAdjusted {
			t.Error("Expected wasAdjusted true")
		}
	})

	t.Run("keeps the date when the source fails", func(t *testing.T) {
		client := testutil.NewMockSGSClient().WithError(apperrors.ErrSourceUnavailable)
		handler := newSelicHandler(t, client)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/selic/business-day", map[string]string{
			"date": "2024-01-06",
		})
		w := httptest.NewRecorder()

		handler.BusinessDay(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp model.BusinessDayResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.AdjustedDate != "2024-01-06" || resp.WasAdjusted {
			t.Errorf("Expected unadjusted date, got %+v", resp)
		}
	})

	for _, date := range []string{"", "06/01/2024"} {
		t.Run("rejects date "+date, func(t *testing.T) {
			handler := newSelicHandler(t, newSelicClient())

			req := httptest.NewRequest(http.MethodGet, "/api/selic/business-day?date="+date, nil)
			w := httptest.NewRecorder()

			handler.BusinessDay(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSelicHandler_Series(t *testing.T) {
	t.Run("lists rates in range", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/selic/series", map[string]string{
			"startDate": "2023-10-01",
			"endDate":   "2023-11-30",
		})
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp model.SeriesResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if resp.SeriesCode != testutil.MonthlySeriesCode {
			t.Errorf("Expected seriesCode %d, got %d", testutil.MonthlySeriesCode, resp.SeriesCode)
		}
		if resp.Count != 2 || len(resp.Records) != 2 {
			t.Fatalf("Expected 2 records, got count %d and %d records", resp.Count, len(resp.Records))
		}
		if resp.Records[0].Value != "1.15" || resp.Records[1].Value != "1.20" {
			t.Errorf("Unexpected records %+v", resp.Records)
		}
	})

	t.Run("empty range returns an empty list", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/selic/series", map[string]string{
			"startDate": "2000-01-01",
			"endDate":   "2000-06-30",
		})
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"records":[]`) {
			t.Errorf("Expected empty records array, got %s", w.Body.String())
		}
	})

	errorTests := []struct {
		name   string
		params map[string]string
		status int
	}{
		{name: "missing dates", params: map[string]string{}, status: http.StatusBadRequest},
		{name: "inverted range", params: map[string]string{"startDate": "2023-12-01", "endDate": "2023-01-01"}, status: http.StatusBadRequest},
		{name: "bad format", params: map[string]string{"startDate": "2023/01/01", "endDate": "2023-12-01"}, status: http.StatusBadRequest},
		{name: "before series floor", params: map[string]string{"startDate": "1970-01-01", "endDate": "1990-01-01"}, status: http.StatusBadRequest},
		{name: "future end date", params: map[string]string{"startDate": "2024-01-01", "endDate": "2024-06-01"}, status: http.StatusBadRequest},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			client := newSelicClient()
			handler := newSelicHandler(t, client)

			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/selic/series", tt.params)
			w := httptest.NewRecorder()

			handler.Series(w, req)

			if w.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if client.QueryCount != 0 {
				t.Errorf("Expected no source queries, got %d", client.QueryCount)
			}
		})
	}

	t.Run("reports the future date field", func(t *testing.T) {
		handler := newSelicHandler(t, newSelicClient())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/selic/series", map[string]string{
			"startDate": "2024-05-31",
			"endDate":   "2024-06-01",
		})
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		resp := decodeError(t, w)
		details, ok := resp.Details.(map[string]any)
		if !ok {
			t.Fatalf("Expected field details, got %v", resp.Details)
		}
		if details["endDate"] != apperrors.ErrFutureDate.Error() {
			t.Errorf("Expected endDate %q, got %v", apperrors.ErrFutureDate.Error(), details["endDate"])
		}
		if _, ok := details["startDate"]; ok {
			t.Errorf("Expected startDate (today in Brasília) to be accepted, got %v", details)
		}
	})

	t.Run("returns 502 when the source is unavailable", func(t *testing.T) {
		handler := newSelicHandler(t, testutil.NewMockSGSClient().WithError(apperrors.ErrSourceUnavailable))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/selic/series", map[string]string{
			"startDate": "2023-10-01",
			"endDate":   "2023-11-30",
		})
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestToday(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.June, 1, 2, 0, 0, 0, time.UTC) }
	if got := today(now); !got.Equal(testutil.Date(2024, time.May, 31)) {
		t.Errorf("Expected 2024-05-31, got %s", got)
	}
}
