package safety

import (
	"context"
	"time"

	"github.com/greenplate/foodsafe-backend/internal/config"
	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// profileStore loads a user's declared allergen and disease sets.
type profileStore interface {
	AllergensByUserID(ctx context.Context, userID int64) ([]domain.Allergen, error)
	DiseasesByUserID(ctx context.Context, userID int64) ([]domain.Disease, error)
}

// refDataSource loads the reference tables as one immutable snapshot.
type refDataSource interface {
	Snapshot(ctx context.Context) (*domain.RefSnapshot, error)
}

// tagSource bulk-loads per-product structured tags and free text, grouped by
// report number. One call covers an entire batch: the driver never asks for
// one product at a time.
type tagSource interface {
	AllergenTagsByReportNos(ctx context.Context, reportNos []string) (map[string][]int64, error)
	SweetenerTagsByReportNos(ctx context.Context, reportNos []string) (map[string][]int64, error)
	TextsByReportNos(ctx context.Context, reportNos []string) (map[string]domain.ProductTexts, error)
}

// Policy holds the configurable evaluation knobs.
type Policy struct {
	// Sugar-warning severity: the diabetic level applies when the profile
	// declares a diabetes-class disease, the default level otherwise.
	SugarDiabeticLevel domain.WarningLevel
	SugarDefaultLevel  domain.WarningLevel

	// RetryAttempts bounds profile/reference fetch attempts (not retried
	// indefinitely; the profile path degrades after the budget is spent).
	RetryAttempts       int
	RetryInitialBackoff time.Duration

	// BatchParallelism caps concurrent per-candidate evaluations.
	BatchParallelism int
}

// DefaultPolicy returns the policy observed in production: diabetic users get
// a WARN-level disease warning for sugar content, everyone else an
// informational note.
func DefaultPolicy() Policy {
	return Policy{
		SugarDiabeticLevel:  domain.WarningLevelWarn,
		SugarDefaultLevel:   domain.WarningLevelInfo,
		RetryAttempts:       2,
		RetryInitialBackoff: 100 * time.Millisecond,
		BatchParallelism:    8,
	}
}

// PolicyFromConfig builds a Policy from validated configuration.
func PolicyFromConfig(cfg config.SafetyConfig) Policy {
	return Policy{
		SugarDiabeticLevel:  domain.WarningLevel(cfg.SugarDiabeticLevel),
		SugarDefaultLevel:   domain.WarningLevel(cfg.SugarDefaultLevel),
		RetryAttempts:       cfg.ProfileRetryAttempts,
		RetryInitialBackoff: cfg.RetryInitialBackoff,
		BatchParallelism:    cfg.BatchParallelism,
	}
}
