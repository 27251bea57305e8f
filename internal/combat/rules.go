package combat

// Pure keyword-ability predicates over one or two creatures. These never
// mutate their arguments; the simulator applies their results.

// CanBlock reports whether blocker may legally be assigned to attacker,
// considering the pairwise keyword gates: flying (needs flying or reach)
// and protection from a color the blocker has. Group-level rules (menace)
// live in GroupCanBlock. Tapped/eligibility is an external precondition
// checked by the simulator.
func CanBlock(attacker, blocker *Creature) bool {
	if attacker.has(AbilityFlying) && !blocker.has(AbilityFlying) && !blocker.has(AbilityReach) {
		return false
	}
	if attacker.Abilities.Protection().Intersects(blocker.Colors) {
		return false
	}
	return true
}

// GroupCanBlock reports whether the full blocker group is legal for the
// attacker: every member passes CanBlock and menace attackers have either
// zero or at least two blockers.
func GroupCanBlock(attacker *Creature, blockers []*Creature) bool {
	if attacker.has(AbilityMenace) && len(blockers) == 1 {
		return false
	}
	for _, b := range blockers {
		if !CanBlock(attacker, b) {
			return false
		}
	}
	return true
}

// LethalDamageNeeded returns the minimum damage source must assign to
// target before moving on to the next blocker: remaining toughness after
// already-marked damage, floored at 1 when the source has deathtouch.
// Returns 0 if the target is already dealt lethal damage.
func LethalDamageNeeded(target, source *Creature) int {
	remaining := target.EffectiveToughness() - target.DamageMarked
	if remaining <= 0 {
		return 0
	}
	if source.has(AbilityDeathtouch) {
		return 1
	}
	return remaining
}

// AttackerCombatBonus computes the pre-damage bonus for a blocked
// attacker: bushido N for becoming blocked plus rampage N per blocker
// beyond the first.
func AttackerCombatBonus(attacker *Creature, blockers []*Creature) (dp, dt int) {
	if len(blockers) == 0 {
		return 0, 0
	}
	if n := attacker.Abilities.Value(AbilityBushido); n > 0 {
		dp += n
		dt += n
	}
	if n := attacker.Abilities.Value(AbilityRampage); n > 0 && len(blockers) > 1 {
		extra := n * (len(blockers) - 1)
		dp += extra
		dt += extra
	}
	return dp, dt
}

// BlockerCombatBonus computes the pre-damage bonus for a blocker: bushido
// N for blocking, minus flanking N when the attacker has flanking and the
// blocker does not.
func BlockerCombatBonus(blocker, attacker *Creature) (dp, dt int) {
	if n := blocker.Abilities.Value(AbilityBushido); n > 0 {
		dp += n
		dt += n
	}
	if n := attacker.Abilities.Value(AbilityFlanking); n > 0 && !blocker.has(AbilityFlanking) {
		dp -= n
		dt -= n
	}
	return dp, dt
}

// DefenderOrdersDamage reports whether damage-assignment order control for
// the attacker belongs to the defending player: true when any blocker in
// the group has banding.
func DefenderOrdersDamage(blockers []*Creature) bool {
	for _, b := range blockers {
		if b.has(AbilityBanding) {
			return true
		}
	}
	return false
}
