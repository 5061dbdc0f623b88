package groupsys

import (
	"testing"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/idalloc"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

func newAgentAt(x, y float64) *agent.Agent {
	a := &agent.Agent{
		Position: mathutil.Vector2{X: x, Y: y},
		GroupID:  idalloc.UngroupedID,
		Traits:   agent.DefaultTraits(),
		Alive:    true,
	}
	return a
}

func distancesFrom(center *agent.Agent, neighbors []*agent.Agent) ([]mathutil.Vector2, []float64) {
	offsets := make([]mathutil.Vector2, len(neighbors))
	distSq := make([]float64, len(neighbors))
	for i, n := range neighbors {
		off := n.Position.Sub(center.Position)
		offsets[i] = off
		distSq[i] = off.LengthSquared()
	}
	return offsets, distSq
}

// TestLoyaltyExtendsDetachTimer implements scenario S3: two agents in
// the same group, a partner outside the detach radius so the close
// count stays below threshold, but loyalty > 1 stretches the
// effective detach duration beyond one tick.
func TestLoyaltyExtendsDetachTimer(t *testing.T) {
	cfg := config.DefaultConfig().Feedback
	cfg.GroupDetachRadius = 3.0
	cfg.GroupDetachCloseNeighborThreshold = 1
	cfg.GroupDetachAfterSeconds = 1.0

	a := newAgentAt(0, 0)
	a.GroupID = 5
	a.Traits.Loyalty = 1.3
	partner := newAgentAt(10, 0) // well outside detach radius
	partner.GroupID = 5

	neighbors := []*agent.Agent{partner}
	offsets, distSq := distancesFrom(a, neighbors)

	alloc := idalloc.New()
	registry := NewRegistry()
	rng := simrng.NewStream(1)
	groupSizes := map[int]int{5: 2}

	UpdateMembership(a, neighbors, offsets, distSq, groupSizes, cfg, alloc, registry, rng, true, 1.0)

	if a.GroupLonelySeconds != 1.0 {
		t.Fatalf("lonely seconds = %v, want 1.0", a.GroupLonelySeconds)
	}
	if a.GroupID != 5 {
		t.Fatalf("group id = %v, want still 5 (loyalty should prevent detach this tick)", a.GroupID)
	}
}

// TestSplitRecruitsNearestAlliesAndAppliesCooldown implements scenario
// S4: three collinear agents in the same group with split parameters
// forced to fire deterministically.
func TestSplitRecruitsNearestAlliesAndAppliesCooldown(t *testing.T) {
	cfg := config.DefaultConfig().Feedback
	cfg.GroupSplitNeighborThreshold = 0
	cfg.GroupSplitStressThreshold = 0
	cfg.GroupSplitSizeStressWeight = 0
	cfg.GroupSplitChance = 1.0
	cfg.GroupSplitChanceMax = 1.0
	cfg.GroupSplitSizeBonusPerNeighbor = 0
	cfg.GroupSplitNewGroupChance = 1.0
	cfg.GroupSplitRecruitmentCount = 2
	cfg.GroupMergeCooldownSeconds = 2.0
	cfg.GroupDetachAfterSeconds = 1e9 // keep detach from interfering
	cfg.GroupAdoptionChance = 0       // keep adoption from interfering

	a := newAgentAt(0, 0)
	a.GroupID = 5
	n1 := newAgentAt(0.4, 0)
	n1.GroupID = 5
	n2 := newAgentAt(0.8, 0)
	n2.GroupID = 5

	neighbors := []*agent.Agent{n1, n2}
	offsets, distSq := distancesFrom(a, neighbors)

	alloc := idalloc.New()
	registry := NewRegistry()
	rng := simrng.NewStream(1)
	groupSizes := map[int]int{5: 3}

	UpdateMembership(a, neighbors, offsets, distSq, groupSizes, cfg, alloc, registry, rng, true, 0.1)

	if a.GroupID == 5 {
		t.Fatalf("agent should have founded a new group, still in 5")
	}
	if a.GroupCooldown != 2.0 {
		t.Fatalf("group cooldown after split = %v, want 2.0", a.GroupCooldown)
	}
	if n1.GroupID != a.GroupID && n2.GroupID != a.GroupID {
		t.Fatalf("at least one of the two closest allies should have been recruited into %d", a.GroupID)
	}
}

func TestUngroupedAgentFormsGroupAboveThreshold(t *testing.T) {
	cfg := config.DefaultConfig().Feedback
	cfg.GroupFormationNeighborThreshold = 2
	cfg.GroupFormationChance = 1.0

	a := newAgentAt(0, 0)
	n1 := newAgentAt(0.5, 0)
	n2 := newAgentAt(-0.5, 0)
	neighbors := []*agent.Agent{n1, n2}
	offsets, distSq := distancesFrom(a, neighbors)

	alloc := idalloc.New()
	registry := NewRegistry()
	rng := simrng.NewStream(1)

	UpdateMembership(a, neighbors, offsets, distSq, map[int]int{}, cfg, alloc, registry, rng, true, 0.1)

	if a.GroupID == idalloc.UngroupedID {
		t.Fatalf("agent should have founded a group")
	}
	if n1.GroupID != a.GroupID || n2.GroupID != a.GroupID {
		t.Fatalf("formation should adopt nearby ungrouped neighbors into the new group")
	}
	if _, found := registry.BaseOf(a.GroupID); !found {
		t.Fatalf("new group should have a registered base")
	}
}

func TestFormationRespectsWarmupViaCanFormGroupsFlag(t *testing.T) {
	cfg := config.DefaultConfig().Feedback
	cfg.GroupFormationNeighborThreshold = 1
	cfg.GroupFormationChance = 1.0

	a := newAgentAt(0, 0)
	n1 := newAgentAt(0.5, 0)
	neighbors := []*agent.Agent{n1}
	offsets, distSq := distancesFrom(a, neighbors)

	alloc := idalloc.New()
	registry := NewRegistry()
	rng := simrng.NewStream(1)

	UpdateMembership(a, neighbors, offsets, distSq, map[int]int{}, cfg, alloc, registry, rng, false, 0.1)

	if a.GroupID != idalloc.UngroupedID {
		t.Fatalf("formation should not occur while canFormGroups is false (warmup)")
	}
}

func TestRegistryFirstWriteWins(t *testing.T) {
	r := NewRegistry()
	p1 := mathutil.Vector2{X: 1, Y: 1}
	p2 := mathutil.Vector2{X: 9, Y: 9}
	r.RegisterBase(7, p1)
	r.RegisterBase(7, p2)
	got, _ := r.BaseOf(7)
	if got != p1 {
		t.Fatalf("base = %v, want first-written %v", got, p1)
	}
}

func TestRegistryPruneRemovesInactiveGroups(t *testing.T) {
	r := NewRegistry()
	r.RegisterBase(1, mathutil.Vector2{X: 0, Y: 0})
	r.RegisterBase(2, mathutil.Vector2{X: 5, Y: 5})
	r.Prune(map[int]bool{1: true})
	if _, found := r.BaseOf(2); found {
		t.Fatalf("group 2 base should have been pruned")
	}
	if _, found := r.BaseOf(1); !found {
		t.Fatalf("group 1 base should remain")
	}
}
