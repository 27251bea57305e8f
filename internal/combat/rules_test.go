package combat

import "testing"

func TestCanBlock(t *testing.T) {
	tests := []struct {
		name     string
		attacker *Creature
		blocker  *Creature
		want     bool
	}{
		{
			"vanilla vs vanilla",
			attacker("Hill Giant", 3, 3),
			blocker("Grizzly Bears", 2, 2),
			true,
		},
		{
			"flyer vs ground",
			attacker("Wind Drake", 2, 2, Keyword(AbilityFlying)),
			blocker("Grizzly Bears", 2, 2),
			false,
		},
		{
			"flyer vs flyer",
			attacker("Wind Drake", 2, 2, Keyword(AbilityFlying)),
			blocker("Cloud Sprite", 1, 1, Keyword(AbilityFlying)),
			true,
		},
		{
			"flyer vs reach",
			attacker("Wind Drake", 2, 2, Keyword(AbilityFlying)),
			blocker("Giant Spider", 2, 4, Keyword(AbilityReach)),
			true,
		},
		{
			"protection from blocker's color",
			attacker("White Knight", 2, 2, ProtectionFrom(ColorBlack)),
			func() *Creature {
				b := blocker("Black Knight", 2, 2)
				b.Colors = ColorBlack
				return b
			}(),
			false,
		},
		{
			"protection from other color",
			attacker("White Knight", 2, 2, ProtectionFrom(ColorBlack)),
			func() *Creature {
				b := blocker("Grizzly Bears", 2, 2)
				b.Colors = ColorGreen
				return b
			}(),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanBlock(tt.attacker, tt.blocker); got != tt.want {
				t.Errorf("CanBlock = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupCanBlockMenace(t *testing.T) {
	menace := attacker("Boggart Brute", 3, 2, Keyword(AbilityMenace))
	one := []*Creature{blocker("Grizzly Bears", 2, 2)}
	two := append(one, blocker("Runeclaw Bear", 2, 2))

	if GroupCanBlock(menace, one) {
		t.Error("one blocker on menace should be illegal")
	}
	if !GroupCanBlock(menace, two) {
		t.Error("two blockers on menace should be legal")
	}
	if !GroupCanBlock(menace, nil) {
		t.Error("menace unblocked should be legal")
	}
}

func TestLethalDamageNeeded(t *testing.T) {
	vanilla := attacker("Hill Giant", 3, 3)
	deathtoucher := attacker("Typhoid Rats", 1, 1, Keyword(AbilityDeathtouch))

	target := blocker("Hulking Cyclops", 5, 5)
	if got := LethalDamageNeeded(target, vanilla); got != 5 {
		t.Errorf("lethal to fresh 5/5 = %d, want 5", got)
	}
	if got := LethalDamageNeeded(target, deathtoucher); got != 1 {
		t.Errorf("deathtouch lethal = %d, want 1", got)
	}

	target.MarkDamage(3)
	if got := LethalDamageNeeded(target, vanilla); got != 2 {
		t.Errorf("lethal to damaged 5/5 = %d, want 2", got)
	}
	target.MarkDamage(2)
	if got := LethalDamageNeeded(target, vanilla); got != 0 {
		t.Errorf("lethal to dead 5/5 = %d, want 0", got)
	}
}

func TestCombatBonuses(t *testing.T) {
	bushido := attacker("Ronin Houndmaster", 2, 2, Valued(AbilityBushido, 2))
	rampage := attacker("Craw Giant", 6, 4, Valued(AbilityRampage, 2))
	group := []*Creature{blocker("A", 1, 1), blocker("B", 1, 1), blocker("C", 1, 1)}

	if dp, dt := AttackerCombatBonus(bushido, nil); dp != 0 || dt != 0 {
		t.Errorf("unblocked bushido bonus = +%d/+%d, want +0/+0", dp, dt)
	}
	if dp, dt := AttackerCombatBonus(bushido, group[:1]); dp != 2 || dt != 2 {
		t.Errorf("blocked bushido 2 bonus = +%d/+%d, want +2/+2", dp, dt)
	}
	// Rampage 2 with three blockers: two beyond the first.
	if dp, dt := AttackerCombatBonus(rampage, group); dp != 4 || dt != 4 {
		t.Errorf("rampage 2 x3 blockers = +%d/+%d, want +4/+4", dp, dt)
	}

	flanker := attacker("Cavalry Master", 2, 2, Valued(AbilityFlanking, 1))
	plain := blocker("Grizzly Bears", 2, 2)
	if dp, dt := BlockerCombatBonus(plain, flanker); dp != -1 || dt != -1 {
		t.Errorf("flanked blocker bonus = %+d/%+d, want -1/-1", dp, dt)
	}
	counterFlanker := blocker("Rival Cavalry", 2, 2, Valued(AbilityFlanking, 1))
	if dp, dt := BlockerCombatBonus(counterFlanker, flanker); dp != 0 || dt != 0 {
		t.Errorf("flanking blocker bonus = %+d/%+d, want +0/+0", dp, dt)
	}
}

func TestDefenderOrdersDamage(t *testing.T) {
	plain := []*Creature{blocker("Grizzly Bears", 2, 2)}
	if DefenderOrdersDamage(plain) {
		t.Error("no banding should leave order with the attacker")
	}
	withBand := append(plain, blocker("Benalish Hero", 1, 1, Keyword(AbilityBanding)))
	if !DefenderOrdersDamage(withBand) {
		t.Error("banding blocker should give the defender order control")
	}
}
