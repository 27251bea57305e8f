package blocking

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/magiccombat/combat-server-go/internal/combat"
)

// ErrIterationLimit is returned when a search exceeds its simulation
// budget.
var ErrIterationLimit = errors.New("blocking: simulation iteration budget exceeded")

// TieBreak selects how value-equivalent damage orderings are broken.
type TieBreak int

const (
	// PreferLeastPlayerDamage breaks ties toward the ordering that deals
	// the least damage to the defending player.
	PreferLeastPlayerDamage TieBreak = iota
	// PreferMostPlayerDamage breaks ties the other way.
	PreferMostPlayerDamage
)

// Evaluator scores a combat result from the defender's perspective; lower
// scores are better for the defender.
type Evaluator func(result *combat.CombatResult, attackerPlayer, defenderPlayer string) combat.Score

// DefaultEvaluator is net material value destroyed, then count, then mana
// value, with player damage as the final tie-break penalty.
func DefaultEvaluator(result *combat.CombatResult, attackerPlayer, defenderPlayer string) combat.Score {
	return result.Score(attackerPlayer, defenderPlayer)
}

const defaultMaxIterations = 100000

// Searcher explores the legal assignment space and returns the assignment
// that is best for the defender under an adversarial attacker. A Searcher
// is a pure function of its inputs: two calls with identical inputs yield
// identical output. It is not safe for concurrent use.
type Searcher struct {
	logger        *zap.Logger
	sim           *combat.Simulator
	eval          Evaluator
	tieBreak      TieBreak
	maxIterations int
	attackerLife  int
	defenderLife  int
	progress      func(Candidate)

	iterations int
}

// SearchOption configures a Searcher.
type SearchOption func(*Searcher)

// WithEvaluator replaces the default evaluation function.
func WithEvaluator(eval Evaluator) SearchOption {
	return func(s *Searcher) { s.eval = eval }
}

// WithTieBreak sets the damage-ordering tie-break policy.
func WithTieBreak(tb TieBreak) SearchOption {
	return func(s *Searcher) { s.tieBreak = tb }
}

// WithMaxIterations bounds the number of combat resolutions one search may
// run.
func WithMaxIterations(n int) SearchOption {
	return func(s *Searcher) { s.maxIterations = n }
}

// WithStartingLife sets the players' life totals for every evaluation.
func WithStartingLife(attacker, defender int) SearchOption {
	return func(s *Searcher) {
		s.attackerLife = attacker
		s.defenderLife = defender
	}
}

// WithProgress registers a callback invoked after each evaluated
// candidate.
func WithProgress(fn func(Candidate)) SearchOption {
	return func(s *Searcher) { s.progress = fn }
}

// Candidate reports one evaluated assignment to a progress callback.
type Candidate struct {
	Assignment combat.Assignment
	Score      combat.Score
	Best       bool
}

// SearchResult is the outcome of FindOptimalBlocks.
type SearchResult struct {
	Assignment combat.Assignment
	Order      combat.DamageOrder
	Result     *combat.CombatResult
	Score      combat.Score
	Evaluated  int
	Pruned     int
	Iterations int
}

// NewSearcher creates a searcher. A nil logger disables logging.
func NewSearcher(logger *zap.Logger, opts ...SearchOption) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Searcher{
		logger:        logger,
		sim:           combat.NewSimulator(logger),
		eval:          DefaultEvaluator,
		tieBreak:      PreferLeastPlayerDamage,
		maxIterations: defaultMaxIterations,
		attackerLife:  combat.DefaultStartingLife,
		defenderLife:  combat.DefaultStartingLife,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Searcher) tick() error {
	s.iterations++
	if s.iterations > s.maxIterations {
		return ErrIterationLimit
	}
	return nil
}

// FindOptimalBlocks enumerates legal assignments, evaluates each with the
// attacker choosing its damage orders adversarially, and returns the
// assignment with the best defender score. "No blocks" is always a
// candidate and wins when it dominates. Candidates whose best possible
// outcome cannot beat the incumbent are skipped without simulation.
func (s *Searcher) FindOptimalBlocks(attackers, blockers []*combat.Creature) (*SearchResult, error) {
	s.iterations = 0
	gen := NewGenerator(attackers, blockers)

	var best *SearchResult
	evaluated := 0
	pruned := 0

	for {
		assign, ok := gen.Next()
		if !ok {
			break
		}
		if best != nil && !s.optimisticScore(attackers, assign).Less(best.Score) {
			pruned++
			continue
		}
		cand, err := s.evaluate(attackers, blockers, assign)
		if err != nil {
			if combat.IsIllegalAssignment(err) {
				// The generator's pruning should make this unreachable,
				// but an illegal candidate is recoverable by contract.
				continue
			}
			return nil, err
		}
		evaluated++
		isBest := best == nil || cand.Score.Less(best.Score)
		if s.progress != nil {
			s.progress(Candidate{Assignment: cand.Assignment, Score: cand.Score, Best: isBest})
		}
		if isBest {
			best = cand
		}
	}

	if best == nil {
		return nil, contractErr("no legal assignment produced a result")
	}
	best.Evaluated = evaluated
	best.Pruned = pruned
	best.Iterations = s.iterations
	s.logger.Debug("blocking search finished",
		zap.Int("evaluated", evaluated),
		zap.Int("pruned", pruned),
		zap.Int("iterations", s.iterations),
		zap.Int("destroyed", len(best.Result.CreaturesDestroyed)),
	)
	return best, nil
}

func contractErr(reason string) error {
	return &combat.ContractError{Reason: reason}
}

// evaluate resolves one candidate assignment on scratch clones, with each
// multi-blocked attacker's damage order chosen by whoever controls it.
func (s *Searcher) evaluate(attackers, blockers []*combat.Creature, assign combat.Assignment) (*SearchResult, error) {
	order := make(combat.DamageOrder)
	for ai := range attackers {
		group := assign.BlockersOf(ai)
		if len(group) < 2 {
			continue
		}
		chosen, err := s.chooseDamageOrder(attackers, blockers, group, ai)
		if err != nil {
			return nil, err
		}
		order[ai] = chosen
	}

	if err := s.tick(); err != nil {
		return nil, err
	}
	atks := cloneAll(attackers)
	blks := cloneAll(blockers)
	result, err := s.sim.Resolve(atks, blks, assign,
		combat.WithDamageOrder(order),
		combat.WithStartingLife(s.attackerLife, s.defenderLife),
	)
	if err != nil {
		return nil, err
	}

	attackerPlayer := controllerOf(attackers, "attacker")
	defenderPlayer := controllerOf(blockers, "defender")
	return &SearchResult{
		Assignment: assign,
		Order:      order,
		Result:     result,
		Score:      s.eval(result, attackerPlayer, defenderPlayer),
	}, nil
}

// optimisticScore is an admissible bound on how well the assignment could
// possibly score for the defender: every blocked attacker destroyed,
// nothing of the defender's lost, and an unbeatable life component.
// Destroyed creatures are valued with combat bonuses applied, so a blocked
// attacker counts at its bushido/rampage-inflated value; anything less and
// the bound could undercut a real outcome and prune the optimum.
func (s *Searcher) optimisticScore(attackers []*combat.Creature, assign combat.Assignment) combat.Score {
	score := combat.Score{LifeDiff: math.MinInt32}
	counts := make([]int, len(attackers))
	for _, choice := range assign.Blocks {
		if choice != combat.NoBlock {
			counts[choice]++
		}
	}
	for ai, n := range counts {
		if n == 0 {
			continue
		}
		attacker := attackers[ai]
		bonus := 2 * attacker.Abilities.Value(combat.AbilityBushido)
		if n > 1 {
			bonus += 2 * attacker.Abilities.Value(combat.AbilityRampage) * (n - 1)
		}
		score.ValueDiff -= attacker.Value() + float64(bonus)
		score.CountDiff--
		score.ManaDiff -= attacker.ManaValue()
	}
	return score
}

func cloneAll(creatures []*combat.Creature) []*combat.Creature {
	out := make([]*combat.Creature, len(creatures))
	for i, c := range creatures {
		out[i] = c.Clone()
		out[i].ClearCombatState()
		out[i].Tapped = c.Tapped
	}
	return out
}

func controllerOf(creatures []*combat.Creature, fallback string) string {
	if len(creatures) > 0 {
		return creatures[0].Controller
	}
	return fallback
}
