package main

import "net/http"

// setupRoutes wires all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Use(s.errorRecoveryMiddleware)
	s.router.Use(s.loggingMiddleware)

	// HTML form, GET to render and POST to submit
	s.router.HandleFunc("/", s.handleHome).Methods(http.MethodGet, http.MethodPost)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	api.HandleFunc("/metadata", s.handleMetadata).Methods(http.MethodGet)
	api.HandleFunc("/tips", s.handleListTips).Methods(http.MethodGet)
	api.HandleFunc("/tips", s.handleAddTip).Methods(http.MethodPost)
}
