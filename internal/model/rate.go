package model

import (
	"encoding/json"
	"time"
)

// Date layouts used across the service.
const (
	// ISODateLayout is the layout of dates in requests and responses.
	ISODateLayout = "2006-01-02"
	// SGSDateLayout is the layout the SGS rate-series API uses on the wire.
	SGSDateLayout = "02/01/2006"
)

// RateRecord is one published SELIC percentage.
// Value is kept as the decimal text the source published so that no precision is
// lost before the accrual engine parses it.
type RateRecord struct {
	Date  time.Time
	Value string
}

type rateRecordJSON struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// MarshalJSON renders the record as {"date":"DD/MM/YYYY","value":"1.15"}.
func (r RateRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(rateRecordJSON{
		Date:  r.Date.Format(SGSDateLayout),
		Value: r.Value,
	})
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (r *RateRecord) UnmarshalJSON(data []byte) error {
	var raw rateRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(SGSDateLayout, raw.Date)
	if err != nil {
		return err
	}
	r.Date = date
	r.Value = raw.Value
	return nil
}

// DateAdjustment reports the business-day snap of a requested date.
type DateAdjustment struct {
	Original    time.Time
	Adjusted    time.Time
	WasAdjusted bool
}

// BusinessDayResponse is the payload of GET /api/selic/business-day.
type BusinessDayResponse struct {
	OriginalDate string `json:"originalDate"`
	AdjustedDate string `json:"adjustedDate"`
	WasAdjusted  bool   `json:"wasAdjusted"`
}

// SeriesResponse is the payload of GET /api/selic/series.
type SeriesResponse struct {
	SeriesCode int          `json:"seriesCode"`
	StartDate  string       `json:"startDate"`
	EndDate    string       `json:"endDate"`
	Count      int          `json:"count"`
	Records    []RateRecord `json:"records"`
}
