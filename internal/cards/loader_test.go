package cards

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/magiccombat/combat-server-go/internal/combat"
)

const sampleDump = `[
  {
    "name": "Grizzly Bears",
    "mana_cost": "{1}{G}",
    "power": "2",
    "toughness": "2",
    "oracle_text": "",
    "keywords": []
  },
  {
    "name": "Ronin Houndmaster",
    "mana_cost": "{2}{R}",
    "power": "2",
    "toughness": "2",
    "oracle_text": "Haste\nBushido 2 (Whenever this creature blocks or becomes blocked, it gets +2/+2 until end of turn.)",
    "keywords": ["Bushido"]
  },
  {
    "name": "White Knight",
    "mana_cost": "{W}{W}",
    "power": "2",
    "toughness": "2",
    "oracle_text": "First strike\nProtection from black",
    "keywords": ["First strike", "Protection"]
  },
  {
    "name": "Azorius Guildmage",
    "mana_cost": "{W/U}{W/U}",
    "power": "2",
    "toughness": "2",
    "oracle_text": "",
    "keywords": []
  },
  {
    "name": "Tarmogoyf",
    "mana_cost": "{1}{G}",
    "power": "*",
    "toughness": "1+*",
    "oracle_text": "",
    "keywords": []
  },
  {
    "name": "Goblin Guide",
    "mana_cost": "{R}",
    "power": "2",
    "toughness": "2",
    "oracle_text": "Haste",
    "keywords": ["Haste"]
  }
]`

func TestDecode(t *testing.T) {
	cards, err := Decode(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(cards) != 6 {
		t.Fatalf("decoded %d cards, want 6", len(cards))
	}
}

func TestCardCreature(t *testing.T) {
	cards, err := Decode(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	byName := make(map[string]Card, len(cards))
	for _, c := range cards {
		byName[c.Name] = c
	}

	t.Run("vanilla", func(t *testing.T) {
		c, err := byName["Grizzly Bears"].Creature("bob")
		if err != nil {
			t.Fatalf("conversion failed: %v", err)
		}
		if c.Power != 2 || c.Toughness != 2 || c.Controller != "bob" {
			t.Errorf("got %+v", c)
		}
		if c.Colors != combat.ColorGreen {
			t.Errorf("colors = %v, want green", c.Colors)
		}
	})

	t.Run("bushido value from oracle text", func(t *testing.T) {
		// Haste in the keyword list would reject the card; the dump keeps
		// only the supported keywords there.
		c, err := byName["Ronin Houndmaster"].Creature("bob")
		if err != nil {
			t.Fatalf("conversion failed: %v", err)
		}
		if got := c.Abilities.Value(combat.AbilityBushido); got != 2 {
			t.Errorf("bushido = %d, want 2", got)
		}
	})

	t.Run("protection colors from oracle text", func(t *testing.T) {
		c, err := byName["White Knight"].Creature("bob")
		if err != nil {
			t.Fatalf("conversion failed: %v", err)
		}
		if !c.Abilities.Has(combat.AbilityFirstStrike) {
			t.Error("missing first strike")
		}
		if got := c.Abilities.Protection(); got != combat.ColorBlack {
			t.Errorf("protection = %v, want black", got)
		}
	})

	t.Run("hybrid mana colors", func(t *testing.T) {
		c, err := byName["Azorius Guildmage"].Creature("bob")
		if err != nil {
			t.Fatalf("conversion failed: %v", err)
		}
		if c.Colors != combat.ColorWhite|combat.ColorBlue {
			t.Errorf("colors = %v, want white/blue", c.Colors)
		}
	})

	t.Run("variable stats rejected", func(t *testing.T) {
		if _, err := byName["Tarmogoyf"].Creature("bob"); err == nil {
			t.Error("variable power should not convert")
		}
	})

	t.Run("unsupported keyword rejected", func(t *testing.T) {
		if _, err := byName["Goblin Guide"].Creature("bob"); err == nil {
			t.Error("haste is outside the closed ability set")
		}
	})
}

func TestCreaturesSkipsUnusable(t *testing.T) {
	cards, err := Decode(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	creatures := Creatures(cards, "bob", zaptest.NewLogger(t))
	// Tarmogoyf and Goblin Guide drop out.
	if len(creatures) != 4 {
		t.Errorf("converted %d creatures, want 4", len(creatures))
	}
}

func TestParseProtectionMultipleColors(t *testing.T) {
	got := parseProtection("Protection from red and from green")
	if got != combat.ColorRed|combat.ColorGreen {
		t.Errorf("parsed %v, want red/green", got)
	}
}
