package combat

import "strings"

// Color is a bitmask of the five colors. A ColorSet is any OR-combination
// of them; the zero value is colorless.
type ColorSet uint8

const (
	ColorWhite ColorSet = 1 << iota
	ColorBlue
	ColorBlack
	ColorRed
	ColorGreen
)

var colorNames = []struct {
	color ColorSet
	name  string
}{
	{ColorWhite, "white"},
	{ColorBlue, "blue"},
	{ColorBlack, "black"},
	{ColorRed, "red"},
	{ColorGreen, "green"},
}

// Has reports whether every color in other is present in the set.
func (s ColorSet) Has(other ColorSet) bool {
	return s&other == other
}

// Intersects reports whether the two sets share any color.
func (s ColorSet) Intersects(other ColorSet) bool {
	return s&other != 0
}

func (s ColorSet) String() string {
	if s == 0 {
		return "colorless"
	}
	parts := make([]string, 0, 5)
	for _, c := range colorNames {
		if s.Has(c.color) {
			parts = append(parts, c.name)
		}
	}
	return strings.Join(parts, "/")
}

// ParseColor returns the color named by s, or 0 if s names no color.
func ParseColor(s string) ColorSet {
	for _, c := range colorNames {
		if strings.EqualFold(s, c.name) {
			return c.color
		}
	}
	return 0
}

// AbilityKind enumerates the closed set of keyword abilities the engine
// understands. Adding a kind requires updating every switch over
// AbilityKind; there are deliberately no default-and-ignore paths.
type AbilityKind int

const (
	AbilityFlying AbilityKind = iota
	AbilityReach
	AbilityMenace
	AbilityVigilance
	AbilityFirstStrike
	AbilityDoubleStrike
	AbilityDeathtouch
	AbilityTrample
	AbilityLifelink
	AbilityIndestructible
	AbilityBanding
	AbilityBushido
	AbilityFlanking
	AbilityRampage
	AbilityProtection

	numAbilityKinds
)

func (k AbilityKind) String() string {
	switch k {
	case AbilityFlying:
		return "flying"
	case AbilityReach:
		return "reach"
	case AbilityMenace:
		return "menace"
	case AbilityVigilance:
		return "vigilance"
	case AbilityFirstStrike:
		return "first strike"
	case AbilityDoubleStrike:
		return "double strike"
	case AbilityDeathtouch:
		return "deathtouch"
	case AbilityTrample:
		return "trample"
	case AbilityLifelink:
		return "lifelink"
	case AbilityIndestructible:
		return "indestructible"
	case AbilityBanding:
		return "banding"
	case AbilityBushido:
		return "bushido"
	case AbilityFlanking:
		return "flanking"
	case AbilityRampage:
		return "rampage"
	case AbilityProtection:
		return "protection"
	}
	return "unknown"
}

// ParseAbilityKind is the inverse of AbilityKind.String. The second return
// is false if s names no known ability.
func ParseAbilityKind(s string) (AbilityKind, bool) {
	for k := AbilityKind(0); k < numAbilityKinds; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, true
		}
	}
	return 0, false
}

// Valued reports whether the kind carries a numeric parameter.
func (k AbilityKind) Valued() bool {
	switch k {
	case AbilityBushido, AbilityFlanking, AbilityRampage:
		return true
	case AbilityFlying, AbilityReach, AbilityMenace, AbilityVigilance,
		AbilityFirstStrike, AbilityDoubleStrike, AbilityDeathtouch,
		AbilityTrample, AbilityLifelink, AbilityIndestructible,
		AbilityBanding, AbilityProtection:
		return false
	}
	return false
}

// Ability is one tagged keyword variant on a creature. N is meaningful
// only for valued kinds (bushido, flanking, rampage); From only for
// protection.
type Ability struct {
	Kind AbilityKind
	N    int
	From ColorSet
}

// Keyword builds a plain boolean ability.
func Keyword(kind AbilityKind) Ability {
	return Ability{Kind: kind}
}

// Valued builds a parameterized ability such as bushido 2.
func Valued(kind AbilityKind, n int) Ability {
	return Ability{Kind: kind, N: n}
}

// ProtectionFrom builds a protection ability covering the given colors.
func ProtectionFrom(colors ColorSet) Ability {
	return Ability{Kind: AbilityProtection, From: colors}
}

// AbilitySet holds at most one ability per kind. Repeated valued abilities
// stack their parameters (two instances of flanking become flanking 2);
// repeated protections union their colors.
type AbilitySet map[AbilityKind]Ability

// NewAbilitySet builds a set from the given abilities.
func NewAbilitySet(abilities ...Ability) AbilitySet {
	s := make(AbilitySet, len(abilities))
	for _, a := range abilities {
		s.Add(a)
	}
	return s
}

// Add merges an ability into the set.
func (s AbilitySet) Add(a Ability) {
	existing, ok := s[a.Kind]
	if !ok {
		if a.Kind.Valued() && a.N == 0 {
			a.N = 1
		}
		s[a.Kind] = a
		return
	}
	existing.N += a.N
	existing.From |= a.From
	s[a.Kind] = existing
}

// Has reports whether the set contains the kind.
func (s AbilitySet) Has(kind AbilityKind) bool {
	_, ok := s[kind]
	return ok
}

// Value returns the numeric parameter for a valued kind, 0 if absent.
func (s AbilitySet) Value(kind AbilityKind) int {
	return s[kind].N
}

// Protection returns the colors this set protects against.
func (s AbilitySet) Protection() ColorSet {
	return s[AbilityProtection].From
}

// Sorted returns the abilities in kind order, for deterministic
// serialization and display.
func (s AbilitySet) Sorted() []Ability {
	out := make([]Ability, 0, len(s))
	for k := AbilityKind(0); k < numAbilityKinds; k++ {
		if a, ok := s[k]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns an independent copy of the set.
func (s AbilitySet) Clone() AbilitySet {
	out := make(AbilitySet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// weight is the keyword's contribution to the creature value heuristic:
// half a point per boolean keyword, double strike counted twice, valued
// keywords a full point per level.
func (s AbilitySet) weight() float64 {
	var w float64
	for k, a := range s {
		switch k {
		case AbilityDoubleStrike:
			w += 1.0
		case AbilityBushido, AbilityFlanking, AbilityRampage:
			w += float64(a.N)
		case AbilityFlying, AbilityReach, AbilityMenace, AbilityVigilance,
			AbilityFirstStrike, AbilityDeathtouch, AbilityTrample,
			AbilityLifelink, AbilityIndestructible, AbilityBanding,
			AbilityProtection:
			w += 0.5
		}
	}
	return w
}
