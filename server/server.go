// Package server exposes the gateway and the conversational agent over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	gatewayx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/gateway"
)

type Config struct {
	ListenAddr      string        `envconfig:"LISTEN_ADDR" split_words:"true" default:":3001"`
	AllowedOrigin   string        `envconfig:"ALLOWED_ORIGIN" split_words:"true" default:"*"`
	QueryTimeout    time.Duration `envconfig:"QUERY_TIMEOUT" split_words:"true" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

type Server struct {
	router *chi.Mux
	gw     *gatewayx.Gateway
	agent  *orchestrator.Orchestrator
	cfg    Config
	now    func() time.Time
}

func New(cfg Config, gw *gatewayx.Gateway, agent *orchestrator.Orchestrator) *Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		router: r,
		gw:     gw,
		agent:  agent,
		cfg:    cfg,
		now:    time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/mcp", s.handleMCP)
	s.router.Post("/api/agent/query", s.handleAgentQuery)
	s.router.Post("/api/agent/query/stream", s.handleAgentQueryStream)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UnixMilli(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("write response failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := contractx.CodeOf(err)
	writeJSON(w, contractx.HTTPStatusOf(code), map[string]any{
		"error": map[string]string{
			"message": err.Error(),
			"code":    code,
		},
	})
}
