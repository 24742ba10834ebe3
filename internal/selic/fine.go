package selic

import "github.com/ndewijer/selic-correction-backend/internal/money"

// FineResult is a fine (multa) computed on a corrected base.
type FineResult struct {
	FineValue  money.Money
	TotalValue money.Money
}

// ComputeFine charges finePercentage on correctedBase. The base must already be
// corrected: fine after correction is the methodology, not the reverse.
func (c *Calculator) ComputeFine(correctedBase, finePercentage money.Money) FineResult {
	fine := correctedBase.Mul(finePercentage.Shift(-2))
	return FineResult{
		FineValue:  fine,
		TotalValue: correctedBase.Add(fine),
	}
}
