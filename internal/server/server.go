// Package server exposes the combat engine and blocking search over HTTP
// and websocket.
package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/magiccombat/combat-server-go/internal/blocking"
	"github.com/magiccombat/combat-server-go/internal/combat"
	"github.com/magiccombat/combat-server-go/internal/config"
	"github.com/magiccombat/combat-server-go/internal/repository"
)

// Server handles combat API requests. The repository is optional; without
// it the scenario endpoints report 503.
type Server struct {
	logger    *zap.Logger
	sim       *combat.Simulator
	searchCfg config.SearchConfig
	repo      *repository.ScenarioRepository
}

// New creates a server.
func New(logger *zap.Logger, searchCfg config.SearchConfig, repo *repository.ScenarioRepository) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:    logger,
		sim:       combat.NewSimulator(logger),
		searchCfg: searchCfg,
		repo:      repo,
	}
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/resolve", s.handleResolve)
	mux.HandleFunc("/api/optimal-blocks", s.handleOptimalBlocks)
	mux.HandleFunc("/api/scenarios", s.handleScenarios)
	mux.HandleFunc("/ws/search", s.handleSearchSocket)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// tieBreak maps the configured tie-break name to the search policy.
func (s *Server) tieBreak(name string) blocking.TieBreak {
	if name == "" {
		name = s.searchCfg.TieBreak
	}
	if name == "most" {
		return blocking.PreferMostPlayerDamage
	}
	return blocking.PreferLeastPlayerDamage
}
