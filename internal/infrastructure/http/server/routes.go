package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/http/middleware"
	"github.com/pharmadesk/pharmacy-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/sales/validate", s.handleValidateCart)
	mux.HandleFunc("/sales", s.handleSales)
	mux.HandleFunc("/sales/", s.handleSaleRoutes)

	mux.HandleFunc("/items/alerts", s.handleAlerts)
	mux.HandleFunc("/items", s.handleItems)
	mux.HandleFunc("/items/", s.handleItemRoutes)

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) handleValidateCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	s.saleHandler.HandleValidateCart(w, r)
}

func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.saleHandler.HandleProcessSale(w, r)
	case http.MethodGet:
		s.saleHandler.HandleListSales(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleSaleRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sales/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" && r.Method == http.MethodGet {
		s.saleHandler.HandleGetBatch(w, r, parts[0])
		return
	}

	http.NotFound(w, r)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s.itemHandler.HandleGetAlerts(w, r)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.itemHandler.HandleCreateItem(w, r)
	case http.MethodGet:
		s.itemHandler.HandleListItems(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleItemRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/items/")
	parts := strings.Split(path, "/")

	if len(parts) != 1 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.itemHandler.HandleGetItem(w, r, id)
	case http.MethodPut:
		s.itemHandler.HandleUpdateItem(w, r, id)
	case http.MethodDelete:
		s.itemHandler.HandleDeactivateItem(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Link")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}
