// Package scenario generates and serializes combat scenarios: attacker
// and blocker sets drawn from a card pool, plus player life totals.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/magiccombat/combat-server-go/internal/cards"
	"github.com/magiccombat/combat-server-go/internal/combat"
)

// Default player labels used by generated scenarios.
const (
	AttackerPlayer = "attacker"
	DefenderPlayer = "defender"
)

// Scenario is one combat setup ready for resolution or search.
type Scenario struct {
	ID             string
	AttackerPlayer string
	DefenderPlayer string
	Attackers      []*combat.Creature
	Blockers       []*combat.Creature
	AttackerLife   int
	DefenderLife   int
}

// Generator draws random scenarios from a card pool. The same seed and
// pool always produce the same sequence of scenarios.
type Generator struct {
	rng  *rand.Rand
	pool []cards.Card
}

// NewGenerator creates a seeded generator over the pool.
func NewGenerator(seed int64, pool []cards.Card) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), pool: pool}
}

// Scenario draws the requested number of attackers and blockers. Cards
// that cannot be converted (unsupported keywords, variable stats) are
// redrawn; after too many failed draws the pool is considered unusable.
func (g *Generator) Scenario(nAttackers, nBlockers int) (*Scenario, error) {
	attackers, err := g.draw(nAttackers, AttackerPlayer)
	if err != nil {
		return nil, err
	}
	blockers, err := g.draw(nBlockers, DefenderPlayer)
	if err != nil {
		return nil, err
	}
	return &Scenario{
		ID:             uuid.NewString(),
		AttackerPlayer: AttackerPlayer,
		DefenderPlayer: DefenderPlayer,
		Attackers:      attackers,
		Blockers:       blockers,
		AttackerLife:   combat.DefaultStartingLife,
		DefenderLife:   combat.DefaultStartingLife,
	}, nil
}

func (g *Generator) draw(n int, controller string) ([]*combat.Creature, error) {
	if len(g.pool) == 0 && n > 0 {
		return nil, fmt.Errorf("scenario: empty card pool")
	}
	out := make([]*combat.Creature, 0, n)
	attempts := 0
	for len(out) < n {
		attempts++
		if attempts > 50*(n+1) {
			return nil, fmt.Errorf("scenario: pool has too few usable cards (drew %d of %d)", len(out), n)
		}
		card := g.pool[g.rng.Intn(len(g.pool))]
		creature, err := card.Creature(controller)
		if err != nil {
			continue
		}
		creature.ID = uuid.NewString()
		out = append(out, creature)
	}
	return out, nil
}
