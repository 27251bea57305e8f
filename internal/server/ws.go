package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/magiccombat/combat-server-go/internal/blocking"
	"github.com/magiccombat/combat-server-go/internal/combat"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSMessage is the envelope for all websocket traffic on /ws/search.
// Type is "candidate", "result", or "error".
type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// CandidateMessage reports one evaluated assignment while a search runs.
type CandidateMessage struct {
	Blocks []int        `json:"blocks"`
	Score  combat.Score `json:"score"`
	Best   bool         `json:"best"`
}

// handleSearchSocket upgrades the connection, reads one search request,
// streams every evaluated candidate back as it is scored, and finishes
// with the chosen assignment.
func (s *Server) handleSearchSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var req SearchRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.wsError(conn, "reading search request: "+err.Error())
		return
	}
	attackers, err := decodeCreatures(req.Attackers)
	if err != nil {
		s.wsError(conn, err.Error())
		return
	}
	blockers, err := decodeCreatures(req.Blockers)
	if err != nil {
		s.wsError(conn, err.Error())
		return
	}

	searcher := s.newSearcher(req, blocking.WithProgress(func(cand blocking.Candidate) {
		msg := WSMessage{Type: "candidate", Data: CandidateMessage{
			Blocks: cand.Assignment.Blocks,
			Score:  cand.Score,
			Best:   cand.Best,
		}}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("websocket write failed", zap.Error(err))
		}
	}))

	best, err := searcher.FindOptimalBlocks(attackers, blockers)
	if err != nil {
		s.wsError(conn, err.Error())
		return
	}
	final := WSMessage{Type: "result", Data: SearchResponse{
		Blocks:     best.Assignment.Blocks,
		Score:      best.Score,
		Result:     resolveResponse(best.Result),
		Evaluated:  best.Evaluated,
		Pruned:     best.Pruned,
		Iterations: best.Iterations,
	}}
	if err := conn.WriteJSON(final); err != nil {
		s.logger.Debug("websocket write failed", zap.Error(err))
	}
}

func (s *Server) wsError(conn *websocket.Conn, reason string) {
	if err := conn.WriteJSON(WSMessage{Type: "error", Data: reason}); err != nil {
		s.logger.Debug("websocket write failed", zap.Error(err))
	}
}
