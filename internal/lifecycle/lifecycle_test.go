package lifecycle

import (
	"testing"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/environment"
	"github.com/GoCodeAlone/terrarium/internal/fields"
	"github.com/GoCodeAlone/terrarium/internal/groupsys"
	"github.com/GoCodeAlone/terrarium/internal/idalloc"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

func newTestAgent(id int, x, y float64) *agent.Agent {
	return &agent.Agent{
		ID:       id,
		GroupID:  idalloc.UngroupedID,
		Position: mathutil.Vector2{X: x, Y: y},
		Traits:   agent.DefaultTraits(),
		Alive:    true,
	}
}

func newStreams(seed uint64) Streams {
	return Streams{
		Main:       simrng.NewStream(seed),
		Trait:      simrng.NewTraitStream(seed),
		Appearance: simrng.NewAppearanceStream(seed),
	}
}

// TestDiseaseKillProducesFoodDeposit implements scenario S2: a single
// agent with local_density_soft_cap=0 and
// disease_probability_per_neighbor=1.0, forced into a dense neighbor
// count, must die this tick and leave a pending food-from-death
// deposit at its cell.
func TestDiseaseKillProducesFoodDeposit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Feedback.LocalDensitySoftCap = 0
	cfg.Feedback.DiseaseProbabilityPerNeighbor = 1.0
	cfg.Environment.FoodFromDeath = 3.5

	a := newTestAgent(1, 10, 10)
	neighbors := make([]*agent.Agent, 100)
	distSq := make([]float64, 100)
	for i := range neighbors {
		neighbors[i] = newTestAgent(100+i, 10, 10)
	}

	env := environment.New(cfg.CellSize, cfg.WorldSize, cfg.Environment)
	pending := fields.NewPendingEvents()
	alloc := idalloc.New()
	registry := groupsys.NewRegistry()
	streams := newStreams(99)

	out := Apply(a, neighbors, distSq, env, pending, &cfg, alloc, registry, streams, 1, 0, map[int]bool{}, true, 1.0)

	if !out.Died {
		t.Fatalf("agent should have died from disease")
	}
	if a.Alive {
		t.Fatalf("agent.Alive should be false after death")
	}
	if out.Child != nil {
		t.Fatalf("a disease kill must produce no birth")
	}
	key := env.CellKeyOf(a.Position)
	env.ConsumeFood(key, env.SampleFood(key)) // a new cell starts at 0.8*max; empty it so only the deposit remains
	pending.Flush(env)
	if v := env.PeekFood(key); v != cfg.Environment.FoodFromDeath {
		t.Fatalf("food at death cell = %v, want %v", v, cfg.Environment.FoodFromDeath)
	}
}

func TestReproductionProducesChildWithinEnergyBudget(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InitialPopulation = 20
	cfg.Feedback.ReproductionBaseChance = 1.0
	cfg.Feedback.DensityReproductionPenalty = 1.0
	cfg.Feedback.DensityReproductionSlope = 0
	cfg.Feedback.GroupReproductionMinFactor = 1.0
	cfg.Feedback.GroupReproductionPenaltyPerAlly = 0

	a := newTestAgent(1, 50, 50)
	a.Energy = 5 * cfg.Species.ReproductionEnergyThreshold
	a.Age = cfg.Species.AdultAge + 5

	mate := newTestAgent(2, 50.2, 50)
	mate.Energy = 5 * cfg.Species.ReproductionEnergyThreshold
	mate.Age = cfg.Species.AdultAge + 5

	neighbors := []*agent.Agent{mate}
	distSq := []float64{0.04}

	env := environment.New(cfg.CellSize, cfg.WorldSize, cfg.Environment)
	pending := fields.NewPendingEvents()
	alloc := idalloc.New()
	registry := groupsys.NewRegistry()
	streams := newStreams(7)
	paired := map[int]bool{}

	out := Apply(a, neighbors, distSq, env, pending, &cfg, alloc, registry, streams, 2, 0, paired, true, 0.1)

	if out.Child == nil {
		t.Fatalf("expected a child to be produced")
	}
	if !paired[a.ID] {
		t.Fatalf("parent should be marked paired")
	}
	if out.Child.Age != 0 {
		t.Fatalf("child age = %v, want 0", out.Child.Age)
	}
	if out.Child.Energy <= 0 {
		t.Fatalf("child energy should be positive, got %v", out.Child.Energy)
	}
}

func TestHazardMortalityDepositsFood(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Feedback.BaseDeathProbabilityPerSecond = 1.0 // guarantees h*dt >= 1
	cfg.Environment.FoodFromDeath = 2.0

	a := newTestAgent(1, 20, 20)
	env := environment.New(cfg.CellSize, cfg.WorldSize, cfg.Environment)
	pending := fields.NewPendingEvents()
	alloc := idalloc.New()
	registry := groupsys.NewRegistry()
	streams := newStreams(1)

	out := Apply(a, nil, nil, env, pending, &cfg, alloc, registry, streams, 1, 0, map[int]bool{}, true, 1.0)

	if !out.Died {
		t.Fatalf("agent should have died from hazard mortality")
	}
}

func TestTerminalDeathAtMaxAge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Feedback.BaseDeathProbabilityPerSecond = 0
	cfg.Feedback.AgeDeathProbabilityPerSecond = 0
	cfg.Feedback.DensityDeathProbabilityPerNeighborPerSecond = 0

	a := newTestAgent(1, 20, 20)
	a.Age = cfg.Species.MaxAge
	env := environment.New(cfg.CellSize, cfg.WorldSize, cfg.Environment)
	pending := fields.NewPendingEvents()
	alloc := idalloc.New()
	registry := groupsys.NewRegistry()
	streams := newStreams(1)

	out := Apply(a, nil, nil, env, pending, &cfg, alloc, registry, streams, 1, 0, map[int]bool{}, true, 1.0)
	if !out.Died {
		t.Fatalf("agent at max age should die")
	}
}

func TestFeedConsumesFromCellAndClampsAtAvailable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Environment.FoodConsumptionRate = 10.0
	cfg.Feedback.BaseDeathProbabilityPerSecond = 0
	cfg.Feedback.AgeDeathProbabilityPerSecond = 0
	cfg.Feedback.DensityDeathProbabilityPerNeighborPerSecond = 0

	a := newTestAgent(1, 20, 20)
	a.Energy = 1.0
	env := environment.New(cfg.CellSize, cfg.WorldSize, cfg.Environment)
	key := env.CellKeyOf(a.Position)
	env.ConsumeFood(key, env.SampleFood(key)) // a new cell starts at 0.8*max; empty it first
	env.AddFood(key, 0.5)
	pending := fields.NewPendingEvents()
	alloc := idalloc.New()
	registry := groupsys.NewRegistry()
	streams := newStreams(1)

	Apply(a, nil, nil, env, pending, &cfg, alloc, registry, streams, 1, 0, map[int]bool{}, true, 0.1)

	if v := env.PeekFood(key); v != 0 {
		t.Fatalf("cell should be fully consumed (only 0.5 was available), got %v", v)
	}
}
