package rest

import "net/http"

// RouterDeps bundles the handlers the router mounts.
type RouterDeps struct {
	Safety    *SafetyHandler
	Search    *SearchHandler
	Recommend *RecommendHandler
	Health    *HealthHandler
}

// NewRouter mounts all REST endpoints on a ServeMux.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/product/check-safety", deps.Safety.CheckSafety)
	mux.HandleFunc("GET /api/search", deps.Search.Search)
	mux.HandleFunc("GET /api/recommend", deps.Recommend.Recommend)

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /live", deps.Health.Live)

	return mux
}
