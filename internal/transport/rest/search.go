package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/greenplate/foodsafe-backend/internal/domain"
	"github.com/greenplate/foodsafe-backend/internal/safety"
)

// productSearcher is the catalog side of the search endpoint.
type productSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Product, error)
}

// batchEvaluator annotates a candidate list with per-product warnings.
type batchEvaluator interface {
	EvaluateBatch(ctx context.Context, products []domain.Product, userID int64) ([]safety.Result, error)
}

// SearchHandler serves catalog search with inline safety annotation.
type SearchHandler struct {
	catalog productSearcher
	engine  batchEvaluator
	log     *slog.Logger
	limit   int
}

// NewSearchHandler creates a SearchHandler. limit caps hits per request.
func NewSearchHandler(catalog productSearcher, engine batchEvaluator, logger *slog.Logger, limit int) *SearchHandler {
	return &SearchHandler{
		catalog: catalog,
		engine:  engine,
		log:     logger.With("handler", "search"),
		limit:   limit,
	}
}

type productPayload struct {
	ReportNo string `json:"reportNo"`
	Name     string `json:"name"`
	Seller   string `json:"seller,omitempty"`
	Capacity string `json:"capacity,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type annotatedProduct struct {
	productPayload
	Warnings []domain.Warning `json:"warnings"`
}

type searchResponse struct {
	Products []annotatedProduct `json:"products"`
}

// Search handles GET /api/search?query=...
// Every hit carries the caller's warnings, so a results page renders safety
// badges without a second round of check calls. An empty query yields an
// empty result set, not an error.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusOK, searchResponse{Products: []annotatedProduct{}})
		return
	}

	products, err := h.catalog.Search(r.Context(), query, h.limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	results, err := h.engine.EvaluateBatch(r.Context(), products, resolveUserID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	annotated := make([]annotatedProduct, 0, len(results))
	for _, res := range results {
		annotated = append(annotated, annotatedProduct{
			productPayload: toProductPayload(res.Product),
			Warnings:       res.Warnings,
		})
	}
	writeJSON(w, http.StatusOK, searchResponse{Products: annotated})
}

func toProductPayload(p domain.Product) productPayload {
	return productPayload{
		ReportNo: p.ReportNo,
		Name:     p.Name,
		Seller:   p.Seller,
		Capacity: p.Capacity,
		ImageURL: p.ImageURL,
	}
}
