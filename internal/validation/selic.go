package validation

import (
	"strings"
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/api/request"
	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/model"
	"github.com/ndewijer/selic-correction-backend/internal/money"
)

// Rules are the request-independent bounds a date must respect.
type Rules struct {
	// Today is the latest acceptable date.
	Today time.Time
	// SeriesFloor is the first date the rate series covers.
	SeriesFloor time.Time
}

// ValidateCorrection validates a correction request.
//
// Required fields:
//   - startDate, endDate: YYYY-MM-DD, not in the future, not before the series floor
//   - endDate: strictly after startDate
//   - amount: a decimal amount greater than zero
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCorrection(req request.CorrectionRequest, rules Rules) error {
	errors := make(map[string]string)
	validatePeriod(errors, req.StartDate, req.EndDate, rules)
	validateAmount(errors, req.Amount)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateFineCorrection validates a fine correction request. It applies the rules of
// ValidateCorrection and requires finePercentage to be zero or greater.
func ValidateFineCorrection(req request.FineCorrectionRequest, rules Rules) error {
	errors := make(map[string]string)
	validatePeriod(errors, req.StartDate, req.EndDate, rules)
	validateAmount(errors, req.Amount)

	if strings.TrimSpace(req.FinePercentage.String()) == "" {
		errors["finePercentage"] = apperrors.ErrMissingRequiredField.Error()
	} else if pct, err := money.Parse(req.FinePercentage.String()); err != nil {
		errors["finePercentage"] = "finePercentage must be a number"
	} else if pct.Sign() < 0 {
		errors["finePercentage"] = "finePercentage cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateDate validates a single date query parameter against rules.
func ValidateDate(field, value string, rules Rules) error {
	errors := make(map[string]string)
	validateDate(errors, field, value, rules)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSeriesRange validates the startDate and endDate of a series listing. Both
// dates follow the rules of a correction period, but the range may be a single day.
func ValidateSeriesRange(startDate, endDate string, rules Rules) error {
	errors := make(map[string]string)
	start, startOK := validateDate(errors, "startDate", startDate, rules)
	end, endOK := validateDate(errors, "endDate", endDate, rules)
	if startOK && endOK && end.Before(start) {
		errors["endDate"] = "endDate cannot be before startDate"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validatePeriod(errors map[string]string, startDate, endDate string, rules Rules) {
	start, startOK := validateDate(errors, "startDate", startDate, rules)
	end, endOK := validateDate(errors, "endDate", endDate, rules)
	if startOK && endOK && !end.After(start) {
		errors["endDate"] = "endDate must be after startDate"
	}
}

func validateDate(errors map[string]string, field, value string, rules Rules) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		errors[field] = field + " is required"
		return time.Time{}, false
	}
	date, err := time.Parse(model.ISODateLayout, strings.TrimSpace(value))
	if err != nil {
		errors[field] = apperrors.ErrInvalidDate.Error()
		return time.Time{}, false
	}
	if !rules.Today.IsZero() && date.After(rules.Today) {
		errors[field] = apperrors.ErrFutureDate.Error()
		return time.Time{}, false
	}
	if !rules.SeriesFloor.IsZero() && date.Before(rules.SeriesFloor) {
		errors[field] = apperrors.ErrBeforeSeriesFloor.Error() + " (" + rules.SeriesFloor.Format(model.ISODateLayout) + ")"
		return time.Time{}, false
	}
	return date, true
}

func validateAmount(errors map[string]string, amount request.Amount) {
	if strings.TrimSpace(amount.String()) == "" {
		errors["amount"] = "amount is required"
		return
	}
	value, err := money.Parse(amount.String())
	if err != nil {
		errors["amount"] = "amount must be a number"
		return
	}
	if value.Sign() <= 0 {
		errors["amount"] = "amount must be positive"
	}
}
