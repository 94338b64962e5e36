// Package main provides a local HTTP server for development and testing.
// It feeds attendance documents posted over HTTP through the same notifier
// and logging path the DynamoDB stream Lambda uses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"attendance-notifier/internal/config"
	"attendance-notifier/internal/handlers"
	"attendance-notifier/internal/models"
	"attendance-notifier/internal/notifier"
	"attendance-notifier/internal/utils"
)

// Server holds all dependencies
type Server struct {
	notifier *notifier.Notifier
	health   *handlers.HealthHandler
	logger   *zap.Logger
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	n, err := handlers.NewNotifier(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create notifier: %v (set MESSAGING_PROVIDER=stub to run without Twilio)", err)
	}

	server := &Server{
		notifier: n,
		health:   handlers.NewHealthHandlerWithConfig(cfg),
		logger:   utils.GetLogger(),
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)

	log.Printf("Attendance Notifier dev server")
	log.Printf("Health: http://localhost:%s/health", cfg.Port)
	log.Printf("Attendance: POST http://localhost:%s/api/attendance", cfg.Port)

	if err := http.ListenAndServe(addr, c.Handler(server.routes())); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/health", s.healthHandler)
	mux.HandleFunc("/api/attendance", s.attendanceHandler)
	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	report, status := s.health.Check()
	writeJSON(w, status, Response{
		Success: status == http.StatusOK,
		Data:    report,
	})
}

// attendanceHandler simulates a "record created" event for one document.
func (s *Server) attendanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, Response{
			Success: false,
			Error:   "Method not allowed",
		})
		return
	}

	var doc models.AttendanceDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid JSON in request body",
		})
		return
	}

	outcome := s.notifier.Notify(r.Context(), doc.ToEvent())
	handlers.LogOutcome(s.logger, outcome)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: string(outcome.Status),
		Data:    outcome,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
