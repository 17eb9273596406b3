// Package safety implements the conflict evaluation engine: it decides which
// allergen and disease warnings a product should surface for a given user's
// health profile.
//
// The engine is stateless and side-effect-free per call. Reference data, the
// profile, and per-product tags are loaded up front; matching and
// aggregation then run purely in memory, so independent evaluations can fan
// out in parallel without locking.
package safety

import (
	"context"
	"log/slog"

	"github.com/greenplate/foodsafe-backend/internal/domain"
	"github.com/greenplate/foodsafe-backend/internal/safety/dictionary"
)

// Engine evaluates products against user health profiles.
type Engine struct {
	log      *slog.Logger
	profiles profileStore
	refdata  refDataSource
	tags     tagSource
	dicts    *dictionary.Dictionaries
	policy   Policy

	loaders *loaders
}

// New creates an Engine. The dictionaries and policy are fixed for the
// engine's lifetime; swap the engine to change them.
func New(logger *slog.Logger, profiles profileStore, refdata refDataSource, tags tagSource, dicts *dictionary.Dictionaries, policy Policy) *Engine {
	return &Engine{
		log:      logger.With("service", "safety"),
		profiles: profiles,
		refdata:  refdata,
		tags:     tags,
		dicts:    dicts,
		policy:   policy,
		loaders:  newLoaders(tags),
	}
}

// CheckProduct evaluates a single product for a single user.
//
// Unauthenticated callers (userID 0) get an empty warning list without any
// store access, and a profile that declares nothing short-circuits the same
// way. An unknown reportNo is domain.ErrNotFound. Tag and text lookups go
// through coalescing loaders, so concurrent single checks share the same
// bulk queries the batch driver uses.
func (e *Engine) CheckProduct(ctx context.Context, reportNo string, userID int64) ([]domain.Warning, error) {
	if reportNo == "" {
		return nil, domain.NewValidationError("reportNo", "required")
	}
	if userID == 0 {
		return []domain.Warning{}, nil
	}

	profile := e.ResolveProfile(ctx, userID)
	if profile.IsEmpty() {
		return []domain.Warning{}, nil
	}

	snapshot, err := e.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	product, found, err := e.loaders.hydrate(ctx, reportNo)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	return e.evaluate(product, profile, snapshot), nil
}

// evaluate runs the matchers and the aggregator against in-memory inputs.
// It is the common tail of every evaluation path; batching must never change
// its result for any one product.
func (e *Engine) evaluate(product domain.Product, profile *domain.Profile, ref *domain.RefSnapshot) []domain.Warning {
	structured := matchStructured(product, profile, ref)
	heuristic := matchHeuristic(domain.ProductTexts{
		IngredientText: product.IngredientText,
		NutrientText:   product.NutrientText,
	}, profile, e.dicts, e.policy)

	return aggregate(structured, heuristic)
}
