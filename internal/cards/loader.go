// Package cards loads a Scryfall french-vanilla card dump and converts
// cards into combat creatures. Cards whose keywords fall outside the
// engine's closed ability set are skipped.
package cards

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/magiccombat/combat-server-go/internal/combat"
)

// Card is one record of the card dump, matching the fields the Scryfall
// export keeps for french-vanilla creatures.
type Card struct {
	Name       string   `json:"name"`
	ManaCost   string   `json:"mana_cost"`
	Power      string   `json:"power"`
	Toughness  string   `json:"toughness"`
	OracleText string   `json:"oracle_text"`
	Keywords   []string `json:"keywords"`
}

// Load reads a JSON card dump from disk.
func Load(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening card dump: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a JSON array of cards.
func Decode(r io.Reader) ([]Card, error) {
	var cards []Card
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("decoding card dump: %w", err)
	}
	return cards, nil
}

// Creature converts the card into a combat creature for the given
// controller. Cards with variable stats or unsupported keywords return an
// error.
func (c Card) Creature(controller string) (*combat.Creature, error) {
	power, err := strconv.Atoi(c.Power)
	if err != nil {
		return nil, fmt.Errorf("card %s: power %q is not numeric", c.Name, c.Power)
	}
	toughness, err := strconv.Atoi(c.Toughness)
	if err != nil {
		return nil, fmt.Errorf("card %s: toughness %q is not numeric", c.Name, c.Toughness)
	}
	if power < 0 || toughness <= 0 {
		return nil, fmt.Errorf("card %s: stats %d/%d out of range", c.Name, power, toughness)
	}

	abilities := combat.NewAbilitySet()
	for _, kw := range c.Keywords {
		ability, err := parseKeyword(kw, c.OracleText)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", c.Name, err)
		}
		abilities.Add(ability)
	}
	if prot := parseProtection(c.OracleText); prot != 0 {
		abilities.Add(combat.ProtectionFrom(prot))
	}

	return &combat.Creature{
		Name:       c.Name,
		Power:      power,
		Toughness:  toughness,
		Controller: controller,
		ManaCost:   c.ManaCost,
		Colors:     parseColors(c.ManaCost),
		Abilities:  abilities,
	}, nil
}

// Creatures converts every usable card, logging and skipping the rest.
func Creatures(cards []Card, controller string, logger *zap.Logger) []*combat.Creature {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]*combat.Creature, 0, len(cards))
	for _, card := range cards {
		creature, err := card.Creature(controller)
		if err != nil {
			logger.Debug("skipping card", zap.String("card", card.Name), zap.Error(err))
			continue
		}
		out = append(out, creature)
	}
	return out
}
