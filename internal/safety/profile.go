package safety

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// ResolveProfile loads the user's declared allergen and disease sets.
//
// It never fails the caller: an unknown user yields an empty profile (which
// is not an error — it simply produces no structured warnings downstream),
// and a store outage degrades to an empty profile after the retry budget is
// spent, with a logged warning. userID 0 short-circuits without touching the
// store.
func (e *Engine) ResolveProfile(ctx context.Context, userID int64) *domain.Profile {
	if userID == 0 {
		return domain.EmptyProfile(0)
	}

	profile, err := e.loadProfile(ctx, userID)
	if err != nil {
		e.log.WarnContext(ctx, "profile unavailable, evaluating with empty profile",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return domain.EmptyProfile(userID)
	}
	return profile
}

func (e *Engine) loadProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var allergens []domain.Allergen
	var diseases []domain.Disease

	err := e.retry(ctx, func() error {
		var err error
		if allergens, err = e.profiles.AllergensByUserID(ctx, userID); err != nil {
			return fmt.Errorf("load user allergens: %w", err)
		}
		if diseases, err = e.profiles.DiseasesByUserID(ctx, userID); err != nil {
			return fmt.Errorf("load user diseases: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProfileUnavailable, err)
	}

	profile := domain.EmptyProfile(userID)
	for _, a := range allergens {
		profile.AllergenIDs[a.ID] = true
		profile.AllergenNames = append(profile.AllergenNames, a.Name)
	}
	for _, d := range diseases {
		profile.DiseaseIDs[d.ID] = true
		profile.DiseaseNames = append(profile.DiseaseNames, d.Name)
	}
	return profile, nil
}

// loadSnapshot fetches the reference tables. Unlike the profile path this is
// fatal on failure: evaluating without reference data would surface "no
// warnings" where "unknown" is the truth.
func (e *Engine) loadSnapshot(ctx context.Context) (*domain.RefSnapshot, error) {
	var snapshot *domain.RefSnapshot

	err := e.retry(ctx, func() error {
		var err error
		snapshot, err = e.refdata.Snapshot(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrReferenceDataUnavailable, err)
	}
	return snapshot, nil
}

// retry runs op with exponential backoff, bounded by the policy's fixed
// attempt budget and the caller's context.
func (e *Engine) retry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.policy.RetryInitialBackoff

	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(e.policy.RetryAttempts-1)), ctx))
}
