package engine

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/streamweld/streamweld/internal/mq"
	"github.com/streamweld/streamweld/pkg/health"
)

type Server struct {
	engine          *Engine
	router          *mux.Router
	topicHandler    *TopicHandlers
	sinkHandler     *SinkHandlers
	settingsHandler *SettingsHandlers
	middleware      *Middleware
}

func NewServer(engine *Engine) *Server {
	s := &Server{
		engine:          engine,
		router:          mux.NewRouter(),
		topicHandler:    NewTopicHandlers(engine),
		sinkHandler:     NewSinkHandlers(engine),
		settingsHandler: NewSettingsHandlers(engine),
		middleware:      NewMiddleware(engine),
	}
	s.setupRoutes()
	s.setupMiddleware()
	return s
}

func (s *Server) setupMiddleware() {
	// CORS middleware
	s.router.Use(s.middleware.CORSMiddleware)

	// Request ID and logging middleware
	s.router.Use(s.middleware.RequestIDMiddleware)
	s.router.Use(s.middleware.LoggingMiddleware)
}

func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Topic management proxy
	topics := api.PathPrefix("/topics").Subrouter()
	topics.HandleFunc("", s.topicHandler.ProxyMethod).Methods(http.MethodPost)
	topics.HandleFunc("/consumer-auth", s.topicHandler.QueryConsumerAuth).Methods(http.MethodGet)
	topics.HandleFunc("/config", s.topicHandler.QueryTopicConfig).Methods(http.MethodGet)

	// Sink schema provisioning
	sinks := api.PathPrefix("/sinks/{engine}").Subrouter()
	sinks.HandleFunc("/databases", s.sinkHandler.CreateDatabase).Methods(http.MethodPost)
	sinks.HandleFunc("/tables", s.sinkHandler.CreateTable).Methods(http.MethodPost)
	sinks.HandleFunc("/tables/columns", s.sinkHandler.AddColumns).Methods(http.MethodPost)
	sinks.HandleFunc("/tables/columns/list", s.sinkHandler.GetColumns).Methods(http.MethodPost)

	// Runtime settings
	api.HandleFunc("/settings", s.settingsHandler.GetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.settingsHandler.UpdateSettings).Methods(http.MethodPut)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checker := s.engine.Health()
	status := checker.GetOverallStatus()

	httpStatus := http.StatusOK
	if status == health.StatusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, httpStatus, map[string]interface{}{
		"status":       status,
		"checks":       checker.GetAllChecks(),
		"last_healthy": checker.GetLastHealthyTime(),
		"metrics":      s.engine.GetMetrics(),
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// writeJSONResponse writes data as a JSON response body.
func writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes a JSON error envelope.
func writeErrorResponse(w http.ResponseWriter, status int, errMsg, message string) {
	writeJSONResponse(w, status, map[string]string{
		"error":   errMsg,
		"message": message,
	})
}

// writeResult writes an mq.Result envelope with HTTP 200, mirroring how the
// cluster master reports operation failures in-band.
func writeResult(w http.ResponseWriter, result *mq.Result) {
	writeJSONResponse(w, http.StatusOK, result)
}
