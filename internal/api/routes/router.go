package routes

import (
	"net/http"

	"github.com/NebiyouChanie/pharma-connect-go/internal/api/handlers"
	"github.com/NebiyouChanie/pharma-connect-go/internal/api/middleware"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	searchHandler *handlers.SearchHandler
	cartHandler   *handlers.CartHandler
}

// NewRouter creates a new router

func NewRouter(
	searchHandler *handlers.SearchHandler,
	cartHandler *handlers.CartHandler,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler: searchHandler,
		cartHandler:   cartHandler,
	}
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Root endpoint

	r.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("hello world")); err != nil {
			return
		}
	})

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints

	r.mux.HandleFunc("POST /api/v1/search", r.searchHandler.SearchMedicine)

	// Cart endpoints

	r.mux.HandleFunc("POST /api/v1/cart", r.cartHandler.AddToCart)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
