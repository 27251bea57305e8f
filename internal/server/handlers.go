package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/magiccombat/combat-server-go/internal/blocking"
	"github.com/magiccombat/combat-server-go/internal/combat"
	"github.com/magiccombat/combat-server-go/internal/scenario"
)

// ResolveRequest is the body of POST /api/resolve.
type ResolveRequest struct {
	Attackers    []scenario.CreatureSnapshot `json:"attackers"`
	Blockers     []scenario.CreatureSnapshot `json:"blockers"`
	Blocks       []int                       `json:"blocks"`
	DamageOrder  []DamageOrderEntry          `json:"damage_order,omitempty"`
	AttackerLife int                         `json:"attacker_life,omitempty"`
	DefenderLife int                         `json:"defender_life,omitempty"`
}

// DamageOrderEntry fixes one attacker's damage-assignment order.
type DamageOrderEntry struct {
	Attacker int   `json:"attacker"`
	Blockers []int `json:"blockers"`
}

// ResolveResponse reports one resolution outcome.
type ResolveResponse struct {
	DamageToPlayers    map[string]int `json:"damage_to_players"`
	Lifegain           map[string]int `json:"lifegain"`
	CreaturesDestroyed []string       `json:"creatures_destroyed"`
	PlayersLost        []string       `json:"players_lost"`
}

// SearchRequest is the body of POST /api/optimal-blocks and of the
// websocket search endpoint.
type SearchRequest struct {
	Attackers     []scenario.CreatureSnapshot `json:"attackers"`
	Blockers      []scenario.CreatureSnapshot `json:"blockers"`
	AttackerLife  int                         `json:"attacker_life,omitempty"`
	DefenderLife  int                         `json:"defender_life,omitempty"`
	MaxIterations int                         `json:"max_iterations,omitempty"`
	TieBreak      string                      `json:"tie_break,omitempty"`
}

// SearchResponse reports the chosen assignment.
type SearchResponse struct {
	Blocks     []int           `json:"blocks"`
	Score      combat.Score    `json:"score"`
	Result     ResolveResponse `json:"result"`
	Evaluated  int             `json:"evaluated"`
	Pruned     int             `json:"pruned"`
	Iterations int             `json:"iterations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeCreatures(snaps []scenario.CreatureSnapshot) ([]*combat.Creature, error) {
	out := make([]*combat.Creature, 0, len(snaps))
	for _, snap := range snaps {
		c, err := snap.Creature()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func resolveResponse(result *combat.CombatResult) ResolveResponse {
	resp := ResolveResponse{
		DamageToPlayers: result.DamageToPlayers,
		Lifegain:        result.Lifegain,
		PlayersLost:     result.PlayersLost,
	}
	for _, c := range result.CreaturesDestroyed {
		resp.CreaturesDestroyed = append(resp.CreaturesDestroyed, c.Name)
	}
	return resp
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	attackers, err := decodeCreatures(req.Attackers)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	blockers, err := decodeCreatures(req.Blockers)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	order := make(combat.DamageOrder)
	for _, entry := range req.DamageOrder {
		order[entry.Attacker] = entry.Blockers
	}
	attackerLife, defenderLife := req.AttackerLife, req.DefenderLife
	if attackerLife == 0 {
		attackerLife = combat.DefaultStartingLife
	}
	if defenderLife == 0 {
		defenderLife = combat.DefaultStartingLife
	}

	result, err := s.sim.Resolve(attackers, blockers, combat.Assignment{Blocks: req.Blocks},
		combat.WithDamageOrder(order),
		combat.WithStartingLife(attackerLife, defenderLife),
	)
	switch {
	case combat.IsIllegalAssignment(err):
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	case combat.IsContractViolation(err):
		s.writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		s.logger.Error("resolve failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resolveResponse(result))
}

func (s *Server) newSearcher(req SearchRequest, opts ...blocking.SearchOption) *blocking.Searcher {
	maxIter := req.MaxIterations
	if maxIter <= 0 || maxIter > s.searchCfg.MaxIterations {
		maxIter = s.searchCfg.MaxIterations
	}
	attackerLife, defenderLife := req.AttackerLife, req.DefenderLife
	if attackerLife == 0 {
		attackerLife = combat.DefaultStartingLife
	}
	if defenderLife == 0 {
		defenderLife = combat.DefaultStartingLife
	}
	base := []blocking.SearchOption{
		blocking.WithMaxIterations(maxIter),
		blocking.WithTieBreak(s.tieBreak(req.TieBreak)),
		blocking.WithStartingLife(attackerLife, defenderLife),
	}
	return blocking.NewSearcher(s.logger, append(base, opts...)...)
}

func (s *Server) handleOptimalBlocks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	attackers, err := decodeCreatures(req.Attackers)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	blockers, err := decodeCreatures(req.Blockers)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	best, err := s.newSearcher(req).FindOptimalBlocks(attackers, blockers)
	switch {
	case err == blocking.ErrIterationLimit:
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	case combat.IsContractViolation(err):
		s.writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		s.logger.Error("search failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SearchResponse{
		Blocks:     best.Assignment.Blocks,
		Score:      best.Score,
		Result:     resolveResponse(best.Result),
		Evaluated:  best.Evaluated,
		Pruned:     best.Pruned,
		Iterations: best.Iterations,
	})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.repo == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("scenario storage not configured"))
		return
	}
	if id := r.URL.Query().Get("id"); id != "" {
		solved, err := s.repo.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeJSON(w, http.StatusOK, solved)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	solved, err := s.repo.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing scenarios", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, solved)
}
