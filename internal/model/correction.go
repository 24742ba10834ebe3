package model

import "encoding/json"

// CorrectionResponse is the result of a SELIC monetary correction.
// Money fields carry two decimals; the factors carry eight and the percentage six.
// Full precision is kept internally until this boundary.
type CorrectionResponse struct {
	CalculationID        string       `json:"calculationId"`
	OriginalValue        json.Number  `json:"originalValue"`
	CorrectedValue       json.Number  `json:"correctedValue"`
	Correction           json.Number  `json:"correction"`
	CorrectionFactor     json.Number  `json:"correctionFactor"`
	CompoundFactor       json.Number  `json:"compoundFactor"`
	CorrectionPercentage json.Number  `json:"correctionPercentage"`
	Periods              int          `json:"periods"`
	Rates                []RateRecord `json:"rates"`
	OriginalStartDate    string       `json:"originalStartDate"`
	AdjustedStartDate    string       `json:"adjustedStartDate"`
	StartDateWasAdjusted bool         `json:"startDateWasAdjusted"`
	SearchStartDate      string       `json:"searchStartDate"`
	OriginalEndDate      string       `json:"originalEndDate"`
	AdjustedEndDate      string       `json:"adjustedEndDate"`
	EndDateWasAdjusted   bool         `json:"endDateWasAdjusted"`
	SearchEndDate        string       `json:"searchEndDate"`
	CalculationType      string       `json:"calculationType"`
}

// FineCorrectionResponse extends CorrectionResponse with the fine (multa) applied on
// the corrected principal.
type FineCorrectionResponse struct {
	CorrectionResponse
	FinePercentage json.Number `json:"finePercentage"`
	FineValue      json.Number `json:"fineValue"`
	TotalValue     json.Number `json:"totalValue"`
	TotalIncrease  json.Number `json:"totalIncrease"`
}
