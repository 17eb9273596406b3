package safety

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

const (
	loaderMaxBatch = 100
	loaderWait     = 2 * time.Millisecond
)

// loaders coalesce single-product lookups into the same grouped queries the
// batch driver issues directly. They are engine-scoped and uncached: results
// must always reflect the current catalog, the coalescing window alone is
// the point.
type loaders struct {
	allergenTags  *dataloader.Loader[string, []int64]
	sweetenerTags *dataloader.Loader[string, []int64]
	texts         *dataloader.Loader[string, *domain.ProductTexts]
}

func newLoaders(tags tagSource) *loaders {
	return &loaders{
		allergenTags:  newLoader(newTagsBatchFn(tags.AllergenTagsByReportNos)),
		sweetenerTags: newLoader(newTagsBatchFn(tags.SweetenerTagsByReportNos)),
		texts:         newLoader(newTextsBatchFn(tags)),
	}
}

// hydrate loads tags and texts for one reportNo. found is false when the
// catalog has no row for it.
func (l *loaders) hydrate(ctx context.Context, reportNo string) (domain.Product, bool, error) {
	allergenThunk := l.allergenTags.Load(ctx, reportNo)
	sweetenerThunk := l.sweetenerTags.Load(ctx, reportNo)
	textsThunk := l.texts.Load(ctx, reportNo)

	allergenTags, err := allergenThunk()
	if err != nil {
		return domain.Product{}, false, err
	}
	sweetenerTags, err := sweetenerThunk()
	if err != nil {
		return domain.Product{}, false, err
	}
	texts, err := textsThunk()
	if err != nil {
		return domain.Product{}, false, err
	}
	if texts == nil {
		return domain.Product{}, false, nil
	}

	return domain.Product{
		ReportNo:       reportNo,
		AllergenTags:   allergenTags,
		SweetenerTags:  sweetenerTags,
		IngredientText: texts.IngredientText,
		NutrientText:   texts.NutrientText,
	}, true, nil
}

func newLoader[V any](batchFn dataloader.BatchFunc[string, V]) *dataloader.Loader[string, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[string, V](loaderWait),
		dataloader.WithBatchCapacity[string, V](loaderMaxBatch),
		dataloader.WithCache[string, V](&dataloader.NoCache[string, V]{}),
	)
}

func newTagsBatchFn(fetch func(ctx context.Context, reportNos []string) (map[string][]int64, error)) dataloader.BatchFunc[string, []int64] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[[]int64] {
		grouped, err := fetch(ctx, keys)
		if err != nil {
			return errorResults[[]int64](len(keys), err)
		}
		return mapResults(keys, grouped, func() []int64 { return nil })
	}
}

func newTextsBatchFn(tags tagSource) dataloader.BatchFunc[string, *domain.ProductTexts] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*domain.ProductTexts] {
		found, err := tags.TextsByReportNos(ctx, keys)
		if err != nil {
			return errorResults[*domain.ProductTexts](len(keys), err)
		}

		byKey := make(map[string]*domain.ProductTexts, len(found))
		for no, t := range found {
			t := t
			byKey[no] = &t
		}
		// A nil value marks an unknown reportNo.
		return mapResults(keys, byKey, func() *domain.ProductTexts { return nil })
	}
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for
// missing keys.
func mapResults[V any](keys []string, grouped map[string]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}
