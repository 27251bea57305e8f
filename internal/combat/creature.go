package combat

import (
	"fmt"
	"strconv"
	"strings"
)

// Creature is the mutable, combat-scoped representation of a creature.
// The engine owns a creature for the duration of one resolution; block
// relationships are kept as indices inside the simulator, never as
// pointers between creatures, so cloning a creature set is a plain copy.
type Creature struct {
	ID         string
	Name       string
	Power      int
	Toughness  int
	Controller string
	ManaCost   string
	Colors     ColorSet
	Abilities  AbilitySet
	Tapped     bool

	// Combat-scoped state, reset by ClearCombatState.
	Attacking    bool
	DamageMarked int

	tempPower           int
	tempToughness       int
	damagedByDeathtouch bool
	destroyed           bool
}

// EffectivePower is base power plus temporary combat bonuses, floored at 0.
func (c *Creature) EffectivePower() int {
	p := c.Power + c.tempPower
	if p < 0 {
		return 0
	}
	return p
}

// EffectiveToughness is base toughness plus temporary combat bonuses,
// floored at 0.
func (c *Creature) EffectiveToughness() int {
	t := c.Toughness + c.tempToughness
	if t < 0 {
		return 0
	}
	return t
}

// Destroyed reports whether the creature has been destroyed this
// resolution.
func (c *Creature) Destroyed() bool {
	return c.destroyed
}

// MarkDamage marks damage on the creature. Damage is monotonic within a
// resolution; negative amounts are a caller defect.
func (c *Creature) MarkDamage(amount int) {
	if amount < 0 {
		panic(fmt.Sprintf("combat: negative damage %d on %s", amount, c.Name))
	}
	c.DamageMarked += amount
}

// Heal removes all marked damage and the deathtouch flag.
func (c *Creature) Heal() {
	c.DamageMarked = 0
	c.damagedByDeathtouch = false
}

// ClearCombatState returns the creature to its pre-combat state: no
// marked damage, not attacking, untapped, no temporary bonuses, not
// destroyed. Required before reusing a creature across independent
// resolutions.
func (c *Creature) ClearCombatState() {
	c.Heal()
	c.Attacking = false
	c.Tapped = false
	c.tempPower = 0
	c.tempToughness = 0
	c.destroyed = false
}

// Clone returns an independent copy, including combat-scoped state.
func (c *Creature) Clone() *Creature {
	out := *c
	out.Abilities = c.Abilities.Clone()
	return &out
}

// ManaValue is the numeric mana value computed from the mana cost string,
// e.g. "{2}{G}{G}" has mana value 4. X counts as zero.
func (c *Creature) ManaValue() int {
	total := 0
	cost := c.ManaCost
	for {
		open := strings.IndexByte(cost, '{')
		if open < 0 {
			break
		}
		close := strings.IndexByte(cost[open:], '}')
		if close < 0 {
			break
		}
		symbol := cost[open+1 : open+close]
		cost = cost[open+close+1:]
		if n, err := strconv.Atoi(symbol); err == nil {
			total += n
			continue
		}
		if symbol != "X" {
			total++
		}
	}
	return total
}

// Value is the heuristic combat value used by the evaluation function:
// effective power plus effective toughness plus keyword weight.
func (c *Creature) Value() float64 {
	return float64(c.EffectivePower()+c.EffectiveToughness()) + c.Abilities.weight()
}

func (c *Creature) String() string {
	return fmt.Sprintf("%s (%d/%d)", c.Name, c.Power, c.Toughness)
}

func (c *Creature) has(kind AbilityKind) bool {
	return c.Abilities.Has(kind)
}

func (c *Creature) hasFirstOrDoubleStrike() bool {
	return c.has(AbilityFirstStrike) || c.has(AbilityDoubleStrike)
}

// dealsDamageInStep reports whether the creature deals combat damage in
// the given sub-step. Double strike deals damage in both.
func (c *Creature) dealsDamageInStep(firstStrike bool) bool {
	if firstStrike {
		return c.hasFirstOrDoubleStrike()
	}
	return !c.has(AbilityFirstStrike) || c.has(AbilityDoubleStrike)
}
