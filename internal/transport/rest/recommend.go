package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/greenplate/foodsafe-backend/internal/domain"
)

// oversampleFactor widens the random sample so the feed stays full after
// allergen filtering drops candidates.
const oversampleFactor = 3

// productSampler is the catalog side of the recommendation endpoint.
type productSampler interface {
	Random(ctx context.Context, limit int) ([]domain.Product, error)
}

// candidateFilter excludes candidates with structured allergen conflicts.
type candidateFilter interface {
	FilterCandidates(ctx context.Context, products []domain.Product, userID int64) ([]domain.Product, error)
}

// RecommendHandler serves the personalized product feed.
type RecommendHandler struct {
	catalog productSampler
	engine  candidateFilter
	log     *slog.Logger
	limit   int
}

// NewRecommendHandler creates a RecommendHandler. limit is the feed size.
func NewRecommendHandler(catalog productSampler, engine candidateFilter, logger *slog.Logger, limit int) *RecommendHandler {
	return &RecommendHandler{
		catalog: catalog,
		engine:  engine,
		log:     logger.With("handler", "recommend"),
		limit:   limit,
	}
}

type recommendResponse struct {
	Products []productPayload `json:"products"`
}

// Recommend handles GET /api/recommend.
// Candidates with a structured allergen conflict never reach the feed;
// anonymous callers get the unfiltered sample.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID := resolveUserID(r)

	sampleSize := h.limit
	if userID != 0 {
		sampleSize = h.limit * oversampleFactor
	}

	candidates, err := h.catalog.Random(r.Context(), sampleSize)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	safe, err := h.engine.FilterCandidates(r.Context(), candidates, userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if len(safe) > h.limit {
		safe = safe[:h.limit]
	}

	products := make([]productPayload, 0, len(safe))
	for _, p := range safe {
		products = append(products, toProductPayload(p))
	}
	writeJSON(w, http.StatusOK, recommendResponse{Products: products})
}
