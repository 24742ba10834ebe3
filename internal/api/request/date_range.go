package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/selic-correction-backend/internal/apperrors"
	"github.com/ndewijer/selic-correction-backend/internal/model"
)

// DateRange is a parsed pair of query-string dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a required YYYY-MM-DD query parameter named field.
func ParseDate(field, param string) (time.Time, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return time.Time{}, fmt.Errorf("%s: %w", field, apperrors.ErrMissingRequiredField)
	}
	date, err := time.Parse(model.ISODateLayout, param)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, apperrors.ErrInvalidDate)
	}
	return date, nil
}

// ParseDateRange extracts startDate and endDate query parameters.
// Both are required and endDate may not come before startDate.
func ParseDateRange(startParam, endParam string) (*DateRange, error) {
	start, err := ParseDate("startDate", startParam)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("endDate", endParam)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: endDate %s is before startDate %s",
			apperrors.ErrInvalidDateRange, end.Format(model.ISODateLayout), start.Format(model.ISODateLayout))
	}
	return &DateRange{Start: start, End: end}, nil
}
