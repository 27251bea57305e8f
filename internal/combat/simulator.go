package combat

import (
	"go.uber.org/zap"
)

// phase is the resolution state machine. A resolution moves strictly
// forward: Unvalidated -> Validated -> FirstStrikeSubstep ->
// RegularSubstep -> Resolved. There are no retries at this layer; callers
// re-invoke fresh for each candidate assignment.
type phase int

const (
	phaseUnvalidated phase = iota
	phaseValidated
	phaseFirstStrikeSubstep
	phaseRegularSubstep
	phaseResolved
)

// DefaultStartingLife is assumed for both players when the caller supplies
// no life totals.
const DefaultStartingLife = 20

// ResolveOption configures a single Resolve invocation.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	order        DamageOrder
	attackerLife int
	defenderLife int
}

// WithDamageOrder fixes the attacker's damage-assignment order among
// multiple blockers. Attackers without an entry assign in blocker input
// order.
func WithDamageOrder(order DamageOrder) ResolveOption {
	return func(c *resolveConfig) { c.order = order }
}

// WithStartingLife sets the players' life totals so the result can report
// game losses.
func WithStartingLife(attacker, defender int) ResolveOption {
	return func(c *resolveConfig) {
		c.attackerLife = attacker
		c.defenderLife = defender
	}
}

// Simulator resolves a single combat phase for an already-chosen block
// assignment. It mutates the creatures it is given for the duration of
// the resolution; callers that evaluate multiple assignments clone first.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator creates a simulator. A nil logger disables logging.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// resolution carries the scratch state of one Resolve call.
type resolution struct {
	phase     phase
	attackers []*Creature
	blockers  []*Creature
	// blockedBy holds, per attacker, its blocker indices in damage
	// assignment order. Index-based per the arena design: creatures never
	// reference each other directly.
	blockedBy [][]int

	attackerPlayer string
	defenderPlayer string

	playerDamage map[string]int
	lifegain     map[string]int
	life         map[string]int
	playersLost  []string
	destroyed    []*Creature
}

type pendingDamage struct {
	target *Creature // nil means the damage goes to player
	player string
	amount int
	source *Creature
}

// Resolve validates the assignment and runs the damage state machine,
// returning the immutable result. Illegal assignments come back as an
// IllegalAssignmentError; malformed input as a ContractError.
func (s *Simulator) Resolve(attackers, blockers []*Creature, assign Assignment, opts ...ResolveOption) (*CombatResult, error) {
	cfg := resolveConfig{
		attackerLife: DefaultStartingLife,
		defenderLife: DefaultStartingLife,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &resolution{
		phase:          phaseUnvalidated,
		attackers:      attackers,
		blockers:       blockers,
		attackerPlayer: playerName(attackers, "attacker"),
		defenderPlayer: playerName(blockers, "defender"),
		playerDamage:   make(map[string]int),
		lifegain:       make(map[string]int),
		life:           make(map[string]int),
	}
	r.life[r.attackerPlayer] = cfg.attackerLife
	r.life[r.defenderPlayer] = cfg.defenderLife

	if err := r.validateContract(assign, cfg.order); err != nil {
		return nil, err
	}
	r.buildGroups(assign, cfg.order)
	if err := r.validateLegality(assign); err != nil {
		return nil, err
	}
	r.phase = phaseValidated

	r.tapAttackers()
	r.applyCombatBonuses()
	r.checkDestruction()
	r.checkPlayersLost()

	if r.anyFirstOrDoubleStrike() {
		r.phase = phaseFirstStrikeSubstep
		r.runSubstep(true)
		s.logger.Debug("first strike sub-step resolved",
			zap.Int("destroyed", len(r.destroyed)),
		)
	}

	r.phase = phaseRegularSubstep
	r.runSubstep(false)
	r.phase = phaseResolved

	result := &CombatResult{
		DamageToPlayers:    r.playerDamage,
		Lifegain:           r.lifegain,
		CreaturesDestroyed: r.destroyed,
		PlayersLost:        r.playersLost,
		Assignment:         assign.Clone(),
	}
	s.logger.Debug("combat resolved",
		zap.Int("attackers", len(attackers)),
		zap.Int("blockers", len(blockers)),
		zap.Int("destroyed", len(result.CreaturesDestroyed)),
		zap.Int("defender_damage", result.DamageToPlayers[r.defenderPlayer]),
	)
	return result, nil
}

func playerName(creatures []*Creature, fallback string) string {
	if len(creatures) > 0 {
		return creatures[0].Controller
	}
	return fallback
}

func (r *resolution) validateContract(assign Assignment, order DamageOrder) error {
	if len(assign.Blocks) != len(r.blockers) {
		return contractf("assignment covers %d blockers, have %d", len(assign.Blocks), len(r.blockers))
	}
	seen := make(map[*Creature]bool, len(r.attackers)+len(r.blockers))
	seenIDs := make(map[string]bool, len(r.attackers)+len(r.blockers))
	for _, c := range append(append([]*Creature{}, r.attackers...), r.blockers...) {
		if c == nil {
			return contractf("nil creature reference")
		}
		if seen[c] {
			return contractf("creature %s referenced twice", c.Name)
		}
		seen[c] = true
		if c.ID != "" {
			if seenIDs[c.ID] {
				return contractf("creature ID %s referenced twice", c.ID)
			}
			seenIDs[c.ID] = true
		}
		if c.Power < 0 {
			return contractf("creature %s has negative power", c.Name)
		}
		if c.Toughness <= 0 {
			return contractf("creature %s has non-positive toughness", c.Name)
		}
	}
	for bi, choice := range assign.Blocks {
		if choice != NoBlock && (choice < 0 || choice >= len(r.attackers)) {
			return contractf("blocker %d assigned to unknown attacker %d", bi, choice)
		}
	}
	for ai, blockerOrder := range order {
		if ai < 0 || ai >= len(r.attackers) {
			return contractf("damage order for unknown attacker %d", ai)
		}
		assigned := assign.BlockersOf(ai)
		if len(blockerOrder) != len(assigned) {
			return contractf("damage order for attacker %d has %d entries, group has %d", ai, len(blockerOrder), len(assigned))
		}
		inGroup := make(map[int]bool, len(assigned))
		for _, bi := range assigned {
			inGroup[bi] = true
		}
		dup := make(map[int]bool, len(blockerOrder))
		for _, bi := range blockerOrder {
			if !inGroup[bi] || dup[bi] {
				return contractf("damage order for attacker %d is not a permutation of its blockers", ai)
			}
			dup[bi] = true
		}
	}
	return nil
}

func (r *resolution) buildGroups(assign Assignment, order DamageOrder) {
	r.blockedBy = make([][]int, len(r.attackers))
	for ai := range r.attackers {
		if custom, ok := order[ai]; ok {
			r.blockedBy[ai] = append([]int{}, custom...)
			continue
		}
		r.blockedBy[ai] = assign.BlockersOf(ai)
	}
}

func (r *resolution) validateLegality(assign Assignment) error {
	for bi, choice := range assign.Blocks {
		if choice == NoBlock {
			continue
		}
		if r.blockers[bi].Tapped {
			return illegalf("tapped creature %s cannot block", r.blockers[bi].Name)
		}
	}
	for ai, group := range r.blockedBy {
		attacker := r.attackers[ai]
		if attacker.has(AbilityMenace) && len(group) == 1 {
			return illegalf("menace creature %s blocked by fewer than two", attacker.Name)
		}
		for _, bi := range group {
			if !CanBlock(attacker, r.blockers[bi]) {
				return illegalf("%s cannot block %s", r.blockers[bi].Name, attacker.Name)
			}
		}
	}
	return nil
}

func (r *resolution) tapAttackers() {
	for _, atk := range r.attackers {
		atk.Attacking = true
		if !atk.has(AbilityVigilance) {
			atk.Tapped = true
		}
	}
}

// applyCombatBonuses applies bushido, flanking, and rampage once, before
// any damage sub-step and before lethal-damage calculations.
func (r *resolution) applyCombatBonuses() {
	for _, c := range r.attackers {
		c.tempPower, c.tempToughness = 0, 0
	}
	for _, c := range r.blockers {
		c.tempPower, c.tempToughness = 0, 0
	}
	for ai, group := range r.blockedBy {
		attacker := r.attackers[ai]
		members := make([]*Creature, len(group))
		for i, bi := range group {
			members[i] = r.blockers[bi]
		}
		dp, dt := AttackerCombatBonus(attacker, members)
		attacker.tempPower += dp
		attacker.tempToughness += dt
		for _, b := range members {
			bdp, bdt := BlockerCombatBonus(b, attacker)
			b.tempPower += bdp
			b.tempToughness += bdt
		}
	}
}

func (r *resolution) anyFirstOrDoubleStrike() bool {
	for _, c := range r.attackers {
		if !c.destroyed && c.hasFirstOrDoubleStrike() {
			return true
		}
	}
	for _, c := range r.blockers {
		if !c.destroyed && c.hasFirstOrDoubleStrike() {
			return true
		}
	}
	return false
}

// runSubstep computes every creature's damage from pre-sub-step state and
// applies it simultaneously, then checks destruction and player losses.
// The simultaneity is what lets two creatures trade lethal damage in the
// same sub-step.
func (r *resolution) runSubstep(firstStrike bool) {
	var pendings []pendingDamage
	for ai, attacker := range r.attackers {
		if attacker.destroyed {
			continue
		}
		group := r.blockedBy[ai]
		alive := make([]int, 0, len(group))
		for _, bi := range group {
			if !r.blockers[bi].destroyed {
				alive = append(alive, bi)
			}
		}

		if len(group) == 0 {
			// Unblocked: damage goes to the defending player.
			if attacker.dealsDamageInStep(firstStrike) && attacker.EffectivePower() > 0 {
				pendings = append(pendings, pendingDamage{
					player: r.defenderPlayer,
					amount: attacker.EffectivePower(),
					source: attacker,
				})
			}
			continue
		}

		if len(alive) == 0 {
			// Blocked but every blocker already died. Only trample lets
			// the damage through; being blocked is not undone by the
			// blockers' destruction.
			if attacker.dealsDamageInStep(firstStrike) && attacker.has(AbilityTrample) && attacker.EffectivePower() > 0 {
				pendings = append(pendings, pendingDamage{
					player: r.defenderPlayer,
					amount: attacker.EffectivePower(),
					source: attacker,
				})
			}
		} else if attacker.dealsDamageInStep(firstStrike) {
			pendings = append(pendings, r.assignAttackerDamage(attacker, alive)...)
		}

		// Blockers strike back at the attacker.
		for _, bi := range alive {
			blocker := r.blockers[bi]
			if blocker.dealsDamageInStep(firstStrike) && blocker.EffectivePower() > 0 {
				pendings = append(pendings, pendingDamage{
					target: attacker,
					amount: blocker.EffectivePower(),
					source: blocker,
				})
			}
		}
	}

	r.applyDamage(pendings)
	r.checkDestruction()
	r.checkPlayersLost()
}

// assignAttackerDamage walks the attacker's blockers in damage order,
// assigning at least lethal damage to each before moving on. Whatever
// remains after all blockers have lethal tramples through, if the
// attacker has trample.
func (r *resolution) assignAttackerDamage(attacker *Creature, alive []int) []pendingDamage {
	var pendings []pendingDamage
	remaining := attacker.EffectivePower()
	for _, bi := range alive {
		if remaining <= 0 {
			break
		}
		blocker := r.blockers[bi]
		lethal := LethalDamageNeeded(blocker, attacker)
		dmg := lethal
		if dmg > remaining {
			dmg = remaining
		}
		if dmg > 0 {
			pendings = append(pendings, pendingDamage{
				target: blocker,
				amount: dmg,
				source: attacker,
			})
			remaining -= dmg
		}
	}
	if remaining > 0 && attacker.has(AbilityTrample) {
		pendings = append(pendings, pendingDamage{
			player: r.defenderPlayer,
			amount: remaining,
			source: attacker,
		})
	}
	return pendings
}

func (r *resolution) applyDamage(pendings []pendingDamage) {
	for _, p := range pendings {
		if p.amount <= 0 {
			continue
		}
		if p.target != nil {
			p.target.MarkDamage(p.amount)
			if p.source.has(AbilityDeathtouch) {
				p.target.damagedByDeathtouch = true
			}
		} else {
			r.playerDamage[p.player] += p.amount
			r.life[p.player] -= p.amount
		}
		if p.source.has(AbilityLifelink) {
			r.lifegain[p.source.Controller] += p.amount
			r.life[p.source.Controller] += p.amount
		}
	}
}

// checkDestruction applies state-based destruction: marked damage at or
// above effective toughness, any deathtouch damage, or effective
// toughness of zero. Indestructible prevents the damage cases but not
// zero toughness.
func (r *resolution) checkDestruction() {
	check := func(c *Creature) {
		if c.destroyed {
			return
		}
		if c.EffectiveToughness() <= 0 {
			c.destroyed = true
			r.destroyed = append(r.destroyed, c)
			return
		}
		if c.has(AbilityIndestructible) {
			return
		}
		if c.DamageMarked >= c.EffectiveToughness() || c.damagedByDeathtouch {
			c.destroyed = true
			r.destroyed = append(r.destroyed, c)
		}
	}
	for _, c := range r.attackers {
		check(c)
	}
	for _, c := range r.blockers {
		check(c)
	}
}

func (r *resolution) checkPlayersLost() {
	for _, player := range []string{r.attackerPlayer, r.defenderPlayer} {
		if r.life[player] > 0 {
			continue
		}
		already := false
		for _, p := range r.playersLost {
			if p == player {
				already = true
				break
			}
		}
		if !already {
			r.playersLost = append(r.playersLost, player)
		}
	}
}
