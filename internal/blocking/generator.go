// Package blocking enumerates legal block assignments and searches them
// for the one that is best for the defending side.
package blocking

import (
	"github.com/magiccombat/combat-server-go/internal/combat"
)

// Generator lazily enumerates the legal block assignments for a set of
// attackers and candidate blockers. It never materializes the full
// (attackers+1)^blockers product: per-blocker choices are pruned by
// CanBlock up front and assignments are produced one at a time from an
// odometer over the surviving choices. The sequence is deterministic and
// restartable via Reset.
type Generator struct {
	attackers []*combat.Creature
	blockers  []*combat.Creature
	// choices[bi] lists the legal options for blocker bi: NoBlock first,
	// then the attacker indices it may block.
	choices [][]int
	idx     []int
	done    bool
}

// NewGenerator builds a generator. Candidate blockers are expected to be
// pre-filtered to creatures controlled by the defender; tapped creatures
// are kept but only ever assigned NoBlock.
func NewGenerator(attackers, blockers []*combat.Creature) *Generator {
	choices := make([][]int, len(blockers))
	for bi, b := range blockers {
		opts := []int{combat.NoBlock}
		if !b.Tapped {
			for ai, a := range attackers {
				if combat.CanBlock(a, b) {
					opts = append(opts, ai)
				}
			}
		}
		choices[bi] = opts
	}
	return &Generator{
		attackers: attackers,
		blockers:  blockers,
		choices:   choices,
		idx:       make([]int, len(blockers)),
	}
}

// Reset rewinds the generator to the first assignment.
func (g *Generator) Reset() {
	for i := range g.idx {
		g.idx[i] = 0
	}
	g.done = false
}

// Next returns the next legal assignment. The first assignment is always
// all-NoBlock. The second return is false once the space is exhausted.
func (g *Generator) Next() (combat.Assignment, bool) {
	for !g.done {
		assign := g.current()
		g.advance()
		if g.groupsLegal(assign) {
			return assign, true
		}
	}
	return combat.Assignment{}, false
}

func (g *Generator) current() combat.Assignment {
	assign := combat.NewAssignment(len(g.blockers))
	for bi, pos := range g.idx {
		assign.Blocks[bi] = g.choices[bi][pos]
	}
	return assign
}

func (g *Generator) advance() {
	for i := len(g.idx) - 1; i >= 0; i-- {
		g.idx[i]++
		if g.idx[i] < len(g.choices[i]) {
			return
		}
		g.idx[i] = 0
	}
	g.done = true
}

// groupsLegal applies the group-level rules that pairwise pruning cannot
// catch: a menace attacker blocked by exactly one creature.
func (g *Generator) groupsLegal(assign combat.Assignment) bool {
	counts := make([]int, len(g.attackers))
	for _, choice := range assign.Blocks {
		if choice != combat.NoBlock {
			counts[choice]++
		}
	}
	for ai, n := range counts {
		if n == 1 && g.attackers[ai].Abilities.Has(combat.AbilityMenace) {
			return false
		}
	}
	return true
}
