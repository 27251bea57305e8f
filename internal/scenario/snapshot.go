package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/magiccombat/combat-server-go/internal/combat"
)

// CreatureSnapshot is the JSON form of a creature, used for datasets and
// the service API.
type CreatureSnapshot struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Power      int               `json:"power"`
	Toughness  int               `json:"toughness"`
	Controller string            `json:"controller"`
	ManaCost   string            `json:"mana_cost,omitempty"`
	Colors     []string          `json:"colors,omitempty"`
	Abilities  []AbilitySnapshot `json:"abilities,omitempty"`
	Tapped     bool              `json:"tapped,omitempty"`
}

// AbilitySnapshot is one keyword ability in JSON form.
type AbilitySnapshot struct {
	Kind string   `json:"kind"`
	N    int      `json:"n,omitempty"`
	From []string `json:"from,omitempty"`
}

// Snapshot is the JSON form of a full scenario.
type Snapshot struct {
	ID           string             `json:"id"`
	AttackerLife int                `json:"attacker_life"`
	DefenderLife int                `json:"defender_life"`
	Attackers    []CreatureSnapshot `json:"attackers"`
	Blockers     []CreatureSnapshot `json:"blockers"`
}

var allColors = []combat.ColorSet{
	combat.ColorWhite,
	combat.ColorBlue,
	combat.ColorBlack,
	combat.ColorRed,
	combat.ColorGreen,
}

func colorNames(set combat.ColorSet) []string {
	var names []string
	for _, c := range allColors {
		if set.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

func parseColorNames(names []string) (combat.ColorSet, error) {
	var set combat.ColorSet
	for _, name := range names {
		c := combat.ParseColor(name)
		if c == 0 {
			return 0, fmt.Errorf("unknown color %q", name)
		}
		set |= c
	}
	return set, nil
}

// SnapshotCreature converts a creature into its JSON form. Combat-scoped
// state other than tapped is not captured; snapshots describe the setup,
// not a mid-resolution state.
func SnapshotCreature(c *combat.Creature) CreatureSnapshot {
	snap := CreatureSnapshot{
		ID:         c.ID,
		Name:       c.Name,
		Power:      c.Power,
		Toughness:  c.Toughness,
		Controller: c.Controller,
		ManaCost:   c.ManaCost,
		Colors:     colorNames(c.Colors),
		Tapped:     c.Tapped,
	}
	for _, ability := range c.Abilities.Sorted() {
		snap.Abilities = append(snap.Abilities, AbilitySnapshot{
			Kind: ability.Kind.String(),
			N:    ability.N,
			From: colorNames(ability.From),
		})
	}
	return snap
}

// Creature converts the snapshot back into a combat creature.
func (s CreatureSnapshot) Creature() (*combat.Creature, error) {
	colors, err := parseColorNames(s.Colors)
	if err != nil {
		return nil, fmt.Errorf("creature %s: %w", s.Name, err)
	}
	abilities := combat.NewAbilitySet()
	for _, a := range s.Abilities {
		kind, ok := combat.ParseAbilityKind(a.Kind)
		if !ok {
			return nil, fmt.Errorf("creature %s: unknown ability %q", s.Name, a.Kind)
		}
		from, err := parseColorNames(a.From)
		if err != nil {
			return nil, fmt.Errorf("creature %s: %w", s.Name, err)
		}
		abilities.Add(combat.Ability{Kind: kind, N: a.N, From: from})
	}
	return &combat.Creature{
		ID:         s.ID,
		Name:       s.Name,
		Power:      s.Power,
		Toughness:  s.Toughness,
		Controller: s.Controller,
		ManaCost:   s.ManaCost,
		Colors:     colors,
		Abilities:  abilities,
		Tapped:     s.Tapped,
	}, nil
}

// Encode serializes a scenario to JSON.
func Encode(sc *Scenario) ([]byte, error) {
	snap := Snapshot{
		ID:           sc.ID,
		AttackerLife: sc.AttackerLife,
		DefenderLife: sc.DefenderLife,
	}
	for _, c := range sc.Attackers {
		snap.Attackers = append(snap.Attackers, SnapshotCreature(c))
	}
	for _, c := range sc.Blockers {
		snap.Blockers = append(snap.Blockers, SnapshotCreature(c))
	}
	return json.Marshal(snap)
}

// Decode deserializes a scenario from JSON.
func Decode(data []byte) (*Scenario, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	sc := &Scenario{
		ID:             snap.ID,
		AttackerPlayer: AttackerPlayer,
		DefenderPlayer: DefenderPlayer,
		AttackerLife:   snap.AttackerLife,
		DefenderLife:   snap.DefenderLife,
	}
	for _, cs := range snap.Attackers {
		c, err := cs.Creature()
		if err != nil {
			return nil, err
		}
		sc.Attackers = append(sc.Attackers, c)
	}
	for _, cs := range snap.Blockers {
		c, err := cs.Creature()
		if err != nil {
			return nil, err
		}
		sc.Blockers = append(sc.Blockers, c)
	}
	if len(sc.Attackers) > 0 {
		sc.AttackerPlayer = sc.Attackers[0].Controller
	}
	if len(sc.Blockers) > 0 {
		sc.DefenderPlayer = sc.Blockers[0].Controller
	}
	return sc, nil
}
