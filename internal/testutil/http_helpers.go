package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// NewJSONRequest creates an HTTP request whose body is body encoded as JSON.
// A string or []byte body is sent verbatim, which is useful for malformed payloads.
//
// Example:
//
//	req := testutil.NewJSONRequest(
//	    http.MethodPost,
//	    "/api/selic/correction",
//	    map[string]any{"startDate": "2023-09-15", "endDate": "2023-12-15", "amount": "1000.00"},
//	)
func NewJSONRequest(method, path string, body any) *http.Request {
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	case []byte:
		payload = b
	default:
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			panic("testutil: cannot encode request body: " + err.Error())
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/selic/series",
//	    map[string]string{
//	        "startDate": "2024-01-01",
//	        "endDate": "2024-12-31",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}
