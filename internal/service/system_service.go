package service

import (
	"context"

	"github.com/ndewijer/selic-correction-backend/internal/model"
	"github.com/ndewijer/selic-correction-backend/internal/selic"
	"github.com/ndewijer/selic-correction-backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	rates      *RateService
	calculator *selic.Calculator
}

// NewSystemService creates a new SystemService
func NewSystemService(rates *RateService, calculator *selic.Calculator) *SystemService {
	return &SystemService{
		rates:      rates,
		calculator: calculator,
	}
}

// CheckHealth checks that the SELIC rate source answers.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return s.rates.CheckSource(ctx)
}

// CheckVersion reports the application version and the calculation settings in effect.
func (s *SystemService) CheckVersion() model.VersionInfo {
	mc := s.calculator.Context()
	return model.VersionInfo{
		AppVersion:     version.Version,
		SeriesCode:     s.rates.SeriesCode(),
		FinalMonthRate: s.calculator.FinalMonthRate(),
		Precision:      mc.Precision,
		Rounding:       mc.Rounding.String(),
		Features: map[string]bool{
			"correction":      true,
			"fine_correction": true,
			"business_day":    true,
			"series":          true,
		},
	}
}
