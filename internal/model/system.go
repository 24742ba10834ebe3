package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion     string          `json:"app_version"`
	SeriesCode     int             `json:"series_code"`
	FinalMonthRate string          `json:"final_month_rate"`
	Precision      int32           `json:"precision"`
	Rounding       string          `json:"rounding"`
	Features       map[string]bool `json:"features"`
}
