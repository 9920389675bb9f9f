package handler

import (
	"net/http"

	"contract-analyzer/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"contract-analyzer"}`))
	}).Methods("GET")

	contractHandler := NewContractHandler(container.ContractService, container.Config, container.Logger)

	router.HandleFunc("/", contractHandler.Status).Methods("GET")
	router.HandleFunc("/extract", contractHandler.Extract).Methods("POST")
	router.HandleFunc("/metadata", contractHandler.Metadata).Methods("POST")
	router.HandleFunc("/summarize", contractHandler.Summarize).Methods("POST")
	router.HandleFunc("/risks", contractHandler.Risks).Methods("POST")
	router.HandleFunc("/compliance", contractHandler.Compliance).Methods("POST")
	router.HandleFunc("/chat", contractHandler.Chat).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
