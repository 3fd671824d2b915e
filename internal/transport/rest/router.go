package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/vinaythanay/Interview-ChatBOt/internal/service"
	"github.com/vinaythanay/Interview-ChatBOt/internal/transport/rest/handler"
	"github.com/vinaythanay/Interview-ChatBOt/internal/transport/rest/middleware"
	"github.com/vinaythanay/Interview-ChatBOt/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionManager *service.SessionManager
	ReportService  *service.ReportService
	CodeRunner     *service.CodeRunner
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionManager, c.CodeRunner)
	reportHandler := handler.NewReportHandler(c.ReportService, c.SessionManager)
	wsHandler := ws.NewHandler(c.WSHub, c.SessionManager, c.AuthService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Candidate session lifecycle (anonymous; the session id is the secret)
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/setup/{step}", sessionHandler.SetupStep).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answers", sessionHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/code/run", sessionHandler.RunCode).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/code/submit", sessionHandler.SubmitCode).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/code/skip", sessionHandler.SkipCoding).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/pause", sessionHandler.Pause).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/resume", sessionHandler.Resume).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/ack", sessionHandler.Acknowledge).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/completed", sessionHandler.Completed).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/feedback", reportHandler.SubmitFeedback).Methods("POST", "OPTIONS")

	// WebSocket routes
	v1.HandleFunc("/ws/sessions/{id}/candidate", wsHandler.CandidateWS).Methods("GET")
	v1.HandleFunc("/ws/sessions/{id}/operator", wsHandler.OperatorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Operator routes (require auth)
	operatorRoutes := v1.NewRoute().Subrouter()
	operatorRoutes.Use(authMW.RequireOperator)

	operatorRoutes.HandleFunc("/sessions/{id}/report", reportHandler.Get).Methods("GET", "OPTIONS")
	operatorRoutes.HandleFunc("/sessions/{id}/insights", reportHandler.Insights).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
