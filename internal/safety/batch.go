package safety

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// Result pairs a candidate product with its evaluated warnings.
type Result struct {
	Product  domain.Product
	Warnings []domain.Warning
}

// batchData is everything the fan-out phase needs. All fields are read-only
// once the load barrier has passed.
type batchData struct {
	snapshot      *domain.RefSnapshot
	allergenTags  map[string][]int64
	sweetenerTags map[string][]int64
	texts         map[string]domain.ProductTexts
}

// EvaluateBatch runs the evaluation pipeline over a list of candidates
// sharing one profile.
//
// External round-trips are constant in the batch size: the profile once, the
// reference snapshot once, and one grouped fetch per lookup table. After the
// bulk loads complete, per-candidate evaluation fans out over in-memory
// structures only.
//
// Output preserves input order. Candidates whose reportNo does not resolve
// in the catalog are excluded, with a logged warning. Unauthenticated or
// empty-profile calls annotate every candidate with an empty warning list
// without touching the stores.
func (e *Engine) EvaluateBatch(ctx context.Context, products []domain.Product, userID int64) ([]Result, error) {
	if len(products) == 0 {
		return []Result{}, nil
	}

	profile := e.ResolveProfile(ctx, userID)
	if profile.IsEmpty() {
		return emptyResults(products), nil
	}

	data, err := e.loadBatchData(ctx, reportNos(products))
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.policy.BatchParallelism)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			hydrated, known := hydrateFromBatch(p, data)
			if !known {
				e.log.WarnContext(gctx, "candidate not in catalog, excluded from batch",
					slog.String("report_no", p.ReportNo),
				)
				return nil
			}
			results[i] = &Result{
				Product:  hydrated,
				Warnings: e.evaluate(hydrated, profile, data.snapshot),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(products))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// FilterCandidates excludes candidates whose structured allergen tags
// intersect the user's declared allergens. Heuristic findings do not exclude
// here; that is a presentation decision made elsewhere. Round-trips are
// constant: the profile once plus one grouped tag fetch.
func (e *Engine) FilterCandidates(ctx context.Context, products []domain.Product, userID int64) ([]domain.Product, error) {
	if len(products) == 0 || userID == 0 {
		return products, nil
	}

	profile := e.ResolveProfile(ctx, userID)
	if len(profile.AllergenIDs) == 0 {
		return products, nil
	}

	tags, err := e.tags.AllergenTagsByReportNos(ctx, reportNos(products))
	if err != nil {
		return nil, fmt.Errorf("%w: load allergen tags: %w", domain.ErrReferenceDataUnavailable, err)
	}

	safe := make([]domain.Product, 0, len(products))
	for _, p := range products {
		productTags := p.AllergenTags
		if loaded, ok := tags[p.ReportNo]; ok {
			productTags = loaded
		}
		if hasAllergenConflict(productTags, profile) {
			continue
		}
		safe = append(safe, p)
	}
	return safe, nil
}

// loadBatchData performs the bulk loads behind a barrier: every fetch must
// finish before any per-candidate evaluation starts, after which the shared
// structures are read-only.
func (e *Engine) loadBatchData(ctx context.Context, reportNos []string) (*batchData, error) {
	data := &batchData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot, err := e.loadSnapshot(gctx)
		if err != nil {
			return err
		}
		data.snapshot = snapshot
		return nil
	})
	g.Go(func() error {
		tags, err := e.tags.AllergenTagsByReportNos(gctx, reportNos)
		if err != nil {
			return fmt.Errorf("%w: load allergen tags: %w", domain.ErrReferenceDataUnavailable, err)
		}
		data.allergenTags = tags
		return nil
	})
	g.Go(func() error {
		tags, err := e.tags.SweetenerTagsByReportNos(gctx, reportNos)
		if err != nil {
			return fmt.Errorf("%w: load sweetener tags: %w", domain.ErrReferenceDataUnavailable, err)
		}
		data.sweetenerTags = tags
		return nil
	})
	g.Go(func() error {
		texts, err := e.tags.TextsByReportNos(gctx, reportNos)
		if err != nil {
			return fmt.Errorf("%w: load product texts: %w", domain.ErrReferenceDataUnavailable, err)
		}
		data.texts = texts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// hydrateFromBatch overlays bulk-loaded tags and texts onto a candidate.
// known is false only when the catalog resolves nothing for the reportNo and
// the caller supplied no data of its own.
func hydrateFromBatch(p domain.Product, data *batchData) (domain.Product, bool) {
	if tags, ok := data.allergenTags[p.ReportNo]; ok {
		p.AllergenTags = tags
	}
	if tags, ok := data.sweetenerTags[p.ReportNo]; ok {
		p.SweetenerTags = tags
	}

	texts, inCatalog := data.texts[p.ReportNo]
	if inCatalog {
		if p.IngredientText == "" {
			p.IngredientText = texts.IngredientText
		}
		if p.NutrientText == "" {
			p.NutrientText = texts.NutrientText
		}
		return p, true
	}

	carriesOwnData := p.IngredientText != "" || p.NutrientText != "" ||
		len(p.AllergenTags) > 0 || len(p.SweetenerTags) > 0
	return p, carriesOwnData
}

// hasAllergenConflict reports a non-empty intersection between product tags
// and the profile's declared allergens.
func hasAllergenConflict(tags []int64, profile *domain.Profile) bool {
	for _, id := range tags {
		if profile.HasAllergen(id) {
			return true
		}
	}
	return false
}

// reportNos collects the distinct report numbers of a candidate list,
// preserving first-seen order.
func reportNos(products []domain.Product) []string {
	seen := make(map[string]bool, len(products))
	nos := make([]string, 0, len(products))
	for _, p := range products {
		if p.ReportNo == "" || seen[p.ReportNo] {
			continue
		}
		seen[p.ReportNo] = true
		nos = append(nos, p.ReportNo)
	}
	return nos
}

func emptyResults(products []domain.Product) []Result {
	results := make([]Result, len(products))
	for i, p := range products {
		results[i] = Result{Product: p, Warnings: []domain.Warning{}}
	}
	return results
}
