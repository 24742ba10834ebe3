package apperrors

import "errors"

// Source errors represent the state of the upstream rate series.
var (
	// ErrNoData indicates that the rate source returned no records for the requested window.
	ErrNoData = errors.New("no SELIC data for the requested period")

	// ErrSourceUnavailable indicates that the rate source could not be reached or answered
	// with an unusable payload after every retry.
	ErrSourceUnavailable = errors.New("SELIC rate source unavailable")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that a calculation cannot be started with the given input.
var (
	// ErrInvalidDateRange indicates that the end date does not come after the start date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrFutureDate indicates a date later than today.
	ErrFutureDate = errors.New("date cannot be in the future")

	// ErrBeforeSeriesFloor indicates a date earlier than the first month the series covers.
	ErrBeforeSeriesFloor = errors.New("date precedes the start of the SELIC series")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidDate indicates a date that is not in YYYY-MM-DD format.
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// Operation failure errors are the messages handlers report when an operation fails
// for a reason other than invalid input.
var (
	ErrFailedToCorrect         = errors.New("failed to compute monetary correction")
	ErrFailedToCorrectFine     = errors.New("failed to compute fine correction")
	ErrFailedToAdjustDate      = errors.New("failed to adjust date to business day")
	ErrFailedToRetrieveSeries  = errors.New("failed to retrieve SELIC series")
	ErrFailedToGetVersionInfo  = errors.New("failed to get version information")
	ErrFailedToCheckRateSource = errors.New("failed to reach SELIC rate source")
)
