package combat

// Assignment maps each blocker (by index into the blocker slice) to the
// attacker it blocks (by index into the attacker slice), or NoBlock.
// Attackers with no entry are unblocked. Blocker order within an
// attacker's group follows blocker input order unless a DamageOrder says
// otherwise.
type Assignment struct {
	Blocks []int
}

// NoBlock marks a blocker that stays out of combat.
const NoBlock = -1

// NewAssignment returns an all-NoBlock assignment for n blockers.
func NewAssignment(n int) Assignment {
	blocks := make([]int, n)
	for i := range blocks {
		blocks[i] = NoBlock
	}
	return Assignment{Blocks: blocks}
}

// Clone returns an independent copy.
func (a Assignment) Clone() Assignment {
	blocks := make([]int, len(a.Blocks))
	copy(blocks, a.Blocks)
	return Assignment{Blocks: blocks}
}

// BlockersOf returns the blocker indices assigned to attacker ai, in
// blocker input order.
func (a Assignment) BlockersOf(ai int) []int {
	var out []int
	for bi, choice := range a.Blocks {
		if choice == ai {
			out = append(out, bi)
		}
	}
	return out
}

// HasBlocks reports whether any blocker is assigned.
func (a Assignment) HasBlocks() bool {
	for _, choice := range a.Blocks {
		if choice != NoBlock {
			return true
		}
	}
	return false
}

// DamageOrder overrides the damage-assignment order for multi-blocked
// attackers: attacker index to its blocker indices in the order damage is
// assigned. Attackers without an entry use blocker input order.
type DamageOrder map[int][]int

// CombatResult is the immutable outcome of one combat resolution.
type CombatResult struct {
	DamageToPlayers    map[string]int
	Lifegain           map[string]int
	CreaturesDestroyed []*Creature
	PlayersLost        []string
	Assignment         Assignment
}

// Score is the defender-perspective evaluation of a CombatResult. Fields
// are ordered lexicographically and lower values are better for the
// defending player.
type Score struct {
	// Lost is 1 if the defender lost the game.
	Lost int
	// ValueDiff is heuristic creature value destroyed, defender minus
	// attacker.
	ValueDiff float64
	// CountDiff is creatures destroyed, defender minus attacker.
	CountDiff int
	// ManaDiff is mana value destroyed, defender minus attacker.
	ManaDiff int
	// LifeDiff is net life change against the defender, including
	// lifelink on both sides.
	LifeDiff int
}

// Less reports whether s is a strictly better outcome for the defender
// than o.
func (s Score) Less(o Score) bool {
	if s.Lost != o.Lost {
		return s.Lost < o.Lost
	}
	if s.ValueDiff != o.ValueDiff {
		return s.ValueDiff < o.ValueDiff
	}
	if s.CountDiff != o.CountDiff {
		return s.CountDiff < o.CountDiff
	}
	if s.ManaDiff != o.ManaDiff {
		return s.ManaDiff < o.ManaDiff
	}
	return s.LifeDiff < o.LifeDiff
}

// MaterialEqual reports whether two scores agree on everything except the
// life component. Used for damage-order tie-breaking.
func (s Score) MaterialEqual(o Score) bool {
	return s.Lost == o.Lost &&
		s.ValueDiff == o.ValueDiff &&
		s.CountDiff == o.CountDiff &&
		s.ManaDiff == o.ManaDiff
}

// Score evaluates the result from the defender's perspective.
func (r *CombatResult) Score(attackerPlayer, defenderPlayer string) Score {
	var s Score
	for _, p := range r.PlayersLost {
		if p == defenderPlayer {
			s.Lost = 1
		}
	}
	for _, c := range r.CreaturesDestroyed {
		switch c.Controller {
		case defenderPlayer:
			s.ValueDiff += c.Value()
			s.CountDiff++
			s.ManaDiff += c.ManaValue()
		case attackerPlayer:
			s.ValueDiff -= c.Value()
			s.CountDiff--
			s.ManaDiff -= c.ManaValue()
		}
	}
	s.LifeDiff = r.DamageToPlayers[defenderPlayer] - r.DamageToPlayers[attackerPlayer] +
		r.Lifegain[attackerPlayer] - r.Lifegain[defenderPlayer]
	return s
}
