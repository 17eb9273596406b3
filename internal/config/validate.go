package config

import (
	"fmt"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Safety.validate(); err != nil {
		return fmt.Errorf("safety: %w", err)
	}

	return nil
}

func (s *SafetyConfig) validate() error {
	if !domain.WarningLevel(s.SugarDiabeticLevel).IsValid() {
		return fmt.Errorf("sugar_diabetic_level %q is not a warning level", s.SugarDiabeticLevel)
	}
	if !domain.WarningLevel(s.SugarDefaultLevel).IsValid() {
		return fmt.Errorf("sugar_default_level %q is not a warning level", s.SugarDefaultLevel)
	}
	if s.ProfileRetryAttempts < 1 {
		return fmt.Errorf("profile_retry_attempts must be >= 1 (got %d)", s.ProfileRetryAttempts)
	}
	if s.BatchParallelism < 1 {
		return fmt.Errorf("batch_parallelism must be >= 1 (got %d)", s.BatchParallelism)
	}
	if s.SearchLimit < 1 || s.SearchLimit > 200 {
		return fmt.Errorf("search_limit must be in [1, 200] (got %d)", s.SearchLimit)
	}
	if s.RecommendLimit < 1 {
		return fmt.Errorf("recommend_limit must be >= 1 (got %d)", s.RecommendLimit)
	}
	return nil
}
