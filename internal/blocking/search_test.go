package blocking

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/magiccombat/combat-server-go/internal/combat"
)

func TestFindOptimalBlocksTakesTheTrade(t *testing.T) {
	bears := atk("Grizzly Bears", 2, 2)
	bears.ManaCost = "{1}{G}"
	ogre := atk("Gray Ogre", 4, 4)
	ogre.ManaCost = "{2}{R}"
	attackers := []*combat.Creature{bears, ogre}

	counterBears := blk("Runeclaw Bear", 2, 2)
	counterBears.ManaCost = "{1}{G}"
	squire := blk("Squire", 1, 1)
	squire.ManaCost = "{1}{W}"
	blockers := []*combat.Creature{counterBears, squire}

	s := NewSearcher(zaptest.NewLogger(t))
	best, err := s.FindOptimalBlocks(attackers, blockers)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// Trading the 2/2s and eating the 4/4 beats every chump block.
	want := []int{0, combat.NoBlock}
	for i, choice := range best.Assignment.Blocks {
		if choice != want[i] {
			t.Fatalf("best assignment %v, want %v", best.Assignment.Blocks, want)
		}
	}
	if best.Score.Lost != 0 || best.Score.ValueDiff != 0 {
		t.Errorf("trade score = %+v, want no material loss", best.Score)
	}
	if best.Score.LifeDiff != 4 {
		t.Errorf("life component = %d, want 4 (the unblocked ogre)", best.Score.LifeDiff)
	}
}

func TestFindOptimalBlocksPrefersNoBlocks(t *testing.T) {
	attackers := []*combat.Creature{atk("Typhoid Rats", 2, 2, combat.Keyword(combat.AbilityDeathtouch))}
	blockers := []*combat.Creature{blk("Serra Angel", 4, 4, combat.Keyword(combat.AbilityFlying))}

	s := NewSearcher(zaptest.NewLogger(t))
	best, err := s.FindOptimalBlocks(attackers, blockers)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// Blocking trades the angel for a deathtoucher; taking two damage is
	// cheaper.
	if best.Assignment.HasBlocks() {
		t.Fatalf("expected no blocks, got %v", best.Assignment.Blocks)
	}
	if best.Score.LifeDiff != 2 {
		t.Errorf("life component = %d, want 2", best.Score.LifeDiff)
	}
}

func TestFindOptimalBlocksChumpsToSurvive(t *testing.T) {
	attackers := []*combat.Creature{atk("Hill Giant", 3, 3), atk("Gray Ogre", 3, 3)}
	blockers := []*combat.Creature{blk("Squire", 1, 1)}

	s := NewSearcher(zaptest.NewLogger(t),
		WithStartingLife(20, 5),
	)
	best, err := s.FindOptimalBlocks(attackers, blockers)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// Unblocked damage is 6 against 5 life; any chump saves the game and
	// survival dominates every material component.
	if best.Score.Lost != 0 {
		t.Fatalf("defender should survive, score %+v", best.Score)
	}
	if !best.Assignment.HasBlocks() {
		t.Errorf("survival requires a chump block, got %v", best.Assignment.Blocks)
	}
}

// Destroying a bushido attacker scores at its bonus-inflated value, so the
// pruning bound must account for the bonus too. Here two candidates destroy
// the same bushido attacker but only the lifelink blocker also gains life;
// an uninflated bound would discard that candidate unevaluated because its
// optimistic value cannot reach the incumbent's inflated ValueDiff.
func TestFindOptimalBlocksPruneRespectsCombatBonuses(t *testing.T) {
	attackers := []*combat.Creature{
		atk("Ronin Houndmaster", 2, 2, combat.Valued(combat.AbilityBushido, 2)),
		atk("Wind Drake", 3, 3, combat.Keyword(combat.AbilityFlying)),
	}
	blockers := []*combat.Creature{
		blk("Rhox Faithmender", 5, 5, combat.Keyword(combat.AbilityLifelink)),
		blk("Hulking Cyclops", 5, 5),
	}

	s := NewSearcher(zaptest.NewLogger(t))
	best, err := s.FindOptimalBlocks(attackers, blockers)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	want := []int{0, combat.NoBlock}
	for i, choice := range best.Assignment.Blocks {
		if choice != want[i] {
			t.Fatalf("best assignment %v, want %v (lifelink blocker takes the trade)",
				best.Assignment.Blocks, want)
		}
	}
	// Five lifelink damage against the unblocked drake's three.
	if best.Score.LifeDiff != -2 {
		t.Errorf("life component = %d, want -2", best.Score.LifeDiff)
	}
}

// With rampage the inflation grows with the group size. An early double
// block destroys the giant at its rampage-inflated value; the later double
// block through the lifelink blocker is material-equal but gains five
// life, and survives only if the bound inflates the same way.
func TestFindOptimalBlocksPruneRespectsRampage(t *testing.T) {
	attackers := []*combat.Creature{
		atk("Craw Giant", 3, 3, combat.Valued(combat.AbilityRampage, 2)),
	}
	blockers := []*combat.Creature{
		blk("Rhox Faithmender", 5, 6, combat.Keyword(combat.AbilityLifelink)),
		blk("Hulking Cyclops", 5, 6),
		blk("Iron Golem", 5, 6),
	}

	s := NewSearcher(zaptest.NewLogger(t))
	best, err := s.FindOptimalBlocks(attackers, blockers)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best.Assignment.Blocks[0] != 0 {
		t.Errorf("best assignment %v, want the lifelink blocker in", best.Assignment.Blocks)
	}
	if best.Score.LifeDiff != -5 {
		t.Errorf("life component = %d, want -5 (the lifelink hit)", best.Score.LifeDiff)
	}
}

func TestFindOptimalBlocksIterationLimit(t *testing.T) {
	attackers := []*combat.Creature{atk("Grizzly Bears", 2, 2)}
	blockers := []*combat.Creature{blk("Runeclaw Bear", 2, 2)}

	s := NewSearcher(zaptest.NewLogger(t), WithMaxIterations(1))
	_, err := s.FindOptimalBlocks(attackers, blockers)
	if !errors.Is(err, ErrIterationLimit) {
		t.Fatalf("got %v, want ErrIterationLimit", err)
	}
}

func TestFindOptimalBlocksProgress(t *testing.T) {
	attackers := []*combat.Creature{atk("Grizzly Bears", 2, 2)}
	blockers := []*combat.Creature{blk("Runeclaw Bear", 2, 2)}

	var seen []Candidate
	s := NewSearcher(zaptest.NewLogger(t),
		WithProgress(func(c Candidate) { seen = append(seen, c) }),
	)
	best, err := s.FindOptimalBlocks(attackers, blockers)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(seen) != best.Evaluated {
		t.Errorf("progress reported %d candidates, evaluated %d", len(seen), best.Evaluated)
	}
	if len(seen) == 0 || !seen[0].Best {
		t.Error("first evaluated candidate is always the incumbent")
	}
}

// The search never mutates its inputs: the caller's creatures come back
// untouched no matter how many candidates were simulated.
func TestFindOptimalBlocksLeavesInputsAlone(t *testing.T) {
	bears := atk("Grizzly Bears", 2, 2)
	rat := blk("Typhoid Rats", 1, 1, combat.Keyword(combat.AbilityDeathtouch))

	s := NewSearcher(zaptest.NewLogger(t))
	if _, err := s.FindOptimalBlocks([]*combat.Creature{bears}, []*combat.Creature{rat}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if bears.DamageMarked != 0 || bears.Destroyed() || bears.Tapped {
		t.Errorf("attacker mutated by search: %+v", bears)
	}
	if rat.DamageMarked != 0 || rat.Destroyed() {
		t.Errorf("blocker mutated by search: %+v", rat)
	}
}

func TestChooseDamageOrderAdversarial(t *testing.T) {
	attackers := []*combat.Creature{atk("Hill Giant", 4, 4)}
	blockers := []*combat.Creature{blk("Trained Armodon", 3, 3), blk("Grizzly Bears", 2, 2)}

	// Four power covers lethal for only one of the two blockers, so the
	// order decides which one dies.
	s := NewSearcher(zaptest.NewLogger(t))
	order, err := s.chooseDamageOrder(attackers, blockers, []int{0, 1}, 0)
	if err != nil {
		t.Fatalf("order choice failed: %v", err)
	}
	// The attacker controls the order and prefers destroying the 3/3.
	if order[0] != 0 {
		t.Errorf("adversarial order = %v, want the 3/3 first", order)
	}
}

func TestChooseDamageOrderBanding(t *testing.T) {
	attackers := []*combat.Creature{atk("Hill Giant", 4, 4)}
	blockers := []*combat.Creature{
		blk("Trained Armodon", 3, 3),
		blk("Benalish Hero", 2, 2, combat.Keyword(combat.AbilityBanding)),
	}

	s := NewSearcher(zaptest.NewLogger(t))
	order, err := s.chooseDamageOrder(attackers, blockers, []int{0, 1}, 0)
	if err != nil {
		t.Fatalf("order choice failed: %v", err)
	}
	// Banding hands order control to the defender, who sacrifices the
	// cheaper creature.
	if order[0] != 1 {
		t.Errorf("banding order = %v, want the banding 2/2 first", order)
	}
}

func TestForEachPermutation(t *testing.T) {
	var count int
	forEachPermutation([]int{0, 1, 2}, func([]int) bool {
		count++
		return true
	})
	if count != 6 {
		t.Errorf("3 items produced %d permutations, want 6", count)
	}

	count = 0
	forEachPermutation([]int{0, 1, 2}, func([]int) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("early stop visited %d permutations, want 2", count)
	}
}
