package cards

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/magiccombat/combat-server-go/internal/combat"
)

// Scryfall keyword names for the closed ability set. "Protection" appears
// in the keywords list but its colors live in the oracle text.
var booleanKeywords = map[string]combat.AbilityKind{
	"Flying":         combat.AbilityFlying,
	"Reach":          combat.AbilityReach,
	"Menace":         combat.AbilityMenace,
	"Vigilance":      combat.AbilityVigilance,
	"First strike":   combat.AbilityFirstStrike,
	"Double strike":  combat.AbilityDoubleStrike,
	"Deathtouch":     combat.AbilityDeathtouch,
	"Trample":        combat.AbilityTrample,
	"Lifelink":       combat.AbilityLifelink,
	"Indestructible": combat.AbilityIndestructible,
	"Banding":        combat.AbilityBanding,
}

// Keywords whose rules text carries a numeric value, e.g. "Bushido 2".
// Flanking has no printed number but stacks when repeated.
var valuedKeywords = map[string]combat.AbilityKind{
	"Bushido": combat.AbilityBushido,
	"Rampage": combat.AbilityRampage,
}

var (
	protectionRE = regexp.MustCompile(`(?i)protection from ([^.,\n]+)`)
	manaSymbolRE = regexp.MustCompile(`\{([^{}]+)\}`)
)

func parseKeyword(name, oracleText string) (combat.Ability, error) {
	if kind, ok := booleanKeywords[name]; ok {
		return combat.Keyword(kind), nil
	}
	if kind, ok := valuedKeywords[name]; ok {
		return combat.Valued(kind, parseValue(oracleText, name)), nil
	}
	if name == "Flanking" {
		return combat.Valued(combat.AbilityFlanking, 1), nil
	}
	if name == "Protection" {
		// Colors come from parseProtection; the keyword alone adds nothing.
		return combat.ProtectionFrom(0), nil
	}
	return combat.Ability{}, fmt.Errorf("unsupported keyword %q", name)
}

// parseValue extracts the number following keyword in the oracle text,
// defaulting to 1 when absent.
func parseValue(text, keyword string) int {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(keyword) + `\s*(\d+)`)
	if m := re.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 1
}

// parseProtection collects colors from "protection from ..." clauses,
// including "protection from X and from Y".
func parseProtection(text string) combat.ColorSet {
	var colors combat.ColorSet
	for _, m := range protectionRE.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], "and from") {
			colors |= combat.ParseColor(strings.TrimSpace(part))
		}
	}
	return colors
}

// parseColors derives the card's colors from its mana cost symbols,
// handling hybrid symbols like {W/U}.
func parseColors(manaCost string) combat.ColorSet {
	var colors combat.ColorSet
	for _, m := range manaSymbolRE.FindAllStringSubmatch(manaCost, -1) {
		for _, part := range strings.Split(m[1], "/") {
			switch part {
			case "W":
				colors |= combat.ColorWhite
			case "U":
				colors |= combat.ColorBlue
			case "B":
				colors |= combat.ColorBlack
			case "R":
				colors |= combat.ColorRed
			case "G":
				colors |= combat.ColorGreen
			}
		}
	}
	return colors
}
