package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(instrument)

	// Health and metrics
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Trade routes
	api.HandleFunc("/trades", handler.ListTrades).Methods("GET")
	api.HandleFunc("/trades", handler.CreateTrade).Methods("POST")
	api.HandleFunc("/trades/close-trade", handler.CloseTradeLegacy).Methods("POST")
	api.HandleFunc("/trades/{id}", handler.GetTrade).Methods("GET")
	api.HandleFunc("/trades/{id}", handler.UpdateTrade).Methods("PUT")
	api.HandleFunc("/trades/{id}", handler.DeleteTrade).Methods("DELETE")
	api.HandleFunc("/trades/{id}/close", handler.CloseTrade).Methods("POST")
	api.HandleFunc("/trades/{id}/economics", handler.GetEconomics).Methods("GET")

	// Records attached to trades
	api.HandleFunc("/trades/{id}/adjustments", handler.ListAdjustments).Methods("GET")
	api.HandleFunc("/trades/{id}/adjustments", handler.AddAdjustment).Methods("POST")
	api.HandleFunc("/adjustments/{id}", handler.DeleteAdjustment).Methods("DELETE")
	api.HandleFunc("/trades/{id}/snapshots", handler.ListSnapshots).Methods("GET")
	api.HandleFunc("/trades/{id}/snapshots", handler.RecordSnapshot).Methods("POST")
	api.HandleFunc("/journal", handler.ListJournal).Methods("GET")
	api.HandleFunc("/journal", handler.AddJournalEntry).Methods("POST")

	// Dashboard
	api.HandleFunc("/dashboard", handler.GetDashboard).Methods("GET")
	api.HandleFunc("/dashboard/filters", handler.GetFilters).Methods("GET")
	api.HandleFunc("/dashboard/filters", handler.SaveFilters).Methods("PUT")

	// Performance
	api.HandleFunc("/performance", handler.ListPerformance).Methods("GET")
	api.HandleFunc("/performance", handler.CreatePerformance).Methods("POST")
	api.HandleFunc("/performance/compute", handler.ComputePerformance).Methods("POST")
	api.HandleFunc("/performance/export", handler.ExportReport).Methods("GET")
	api.HandleFunc("/performance/{id}", handler.UpdatePerformance).Methods("PUT")
	api.HandleFunc("/performance/{id}", handler.DeletePerformance).Methods("DELETE")

	// Tools
	api.HandleFunc("/levels", handler.GetLevels).Methods("GET")
	api.HandleFunc("/rates", handler.GetRates).Methods("GET")
	api.HandleFunc("/rates/refresh", handler.RefreshRates).Methods("POST")

	return r
}
