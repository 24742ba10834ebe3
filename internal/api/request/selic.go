package request

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary or percentage input. Clients may send it as a JSON number
// (1033.5) or as a string, including Brazilian formatting ("R$ 1.033,50"). String
// input is kept as sent; a number is kept as its exact plain decimal text, so 1e3
// becomes "1000".
type Amount string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("amount must be a number or a string: %w", err)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return fmt.Errorf("amount must be a number or a string: %w", err)
	}
	*a = Amount(d.String())
	return nil
}

// String returns the literal text of the amount.
func (a Amount) String() string { return string(a) }

// CorrectionRequest represents the request body for a SELIC monetary correction.
type CorrectionRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Amount    Amount `json:"amount"`
}

// FineCorrectionRequest represents the request body for a correction followed by a
// fine (multa) on the corrected amount.
type FineCorrectionRequest struct {
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Amount         Amount `json:"amount"`
	FinePercentage Amount `json:"finePercentage"`
}

// Correction returns the correction part of the request.
func (r FineCorrectionRequest) Correction() CorrectionRequest {
	return CorrectionRequest{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Amount:    r.Amount,
	}
}
