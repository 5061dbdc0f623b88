package steering

import (
	"math"
	"testing"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/groupsys"
	"github.com/GoCodeAlone/terrarium/internal/idalloc"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

func newTestAgent(x, y float64) *agent.Agent {
	return &agent.Agent{
		Position: mathutil.Vector2{X: x, Y: y},
		GroupID:  idalloc.UngroupedID,
		Traits:   agent.DefaultTraits(),
		Alive:    true,
	}
}

func TestFleeTriggersOnHighDangerLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.Energy = cfg.Species.ReproductionEnergyThreshold // avoid seeking-food override paths
	fields := Fields{DangerLevel: 0.9, DangerGradient: mathutil.Vector2{X: 1, Y: 0}}
	registry := groupsys.NewRegistry()
	rng := simrng.NewStream(1)

	desired, sensed := ComputeDesiredVelocity(a, nil, nil, nil, fields, &cfg, registry, rng, 0.02)

	if !sensed {
		t.Fatalf("expected sensed danger = true at danger level 0.9")
	}
	if desired.X >= 0 {
		t.Fatalf("desired velocity should point away from positive-X danger gradient, got %v", desired)
	}
	if a.State != agent.Flee {
		t.Fatalf("state = %v, want Flee", a.State)
	}
}

func TestFleeTriggersOnNearbyIntergroupNeighbor(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.GroupID = 1
	a.Energy = cfg.Species.ReproductionEnergyThreshold
	rival := newTestAgent(51, 50)
	rival.GroupID = 2
	neighbors := []*agent.Agent{rival}
	offsets := []mathutil.Vector2{{X: 1, Y: 0}}
	distSq := []float64{1.0}
	fields := Fields{DangerLevel: 0}
	registry := groupsys.NewRegistry()
	rng := simrng.NewStream(1)

	_, sensed := ComputeDesiredVelocity(a, neighbors, offsets, distSq, fields, &cfg, registry, rng, 0.02)
	if !sensed {
		t.Fatalf("expected flee from a rival-group neighbor within 2 units")
	}
}

func TestDominantSeekingFoodWhenLowEnergy(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.Energy = 0.1 * cfg.Species.ReproductionEnergyThreshold
	fields := Fields{FoodGradient: mathutil.Vector2{X: 2, Y: 0}}
	registry := groupsys.NewRegistry()
	rng := simrng.NewStream(1)

	desired, sensed := ComputeDesiredVelocity(a, nil, nil, nil, fields, &cfg, registry, rng, 0.02)
	if sensed {
		t.Fatalf("should not flee with zero danger and no rivals")
	}
	if a.State != agent.SeekingFood {
		t.Fatalf("state = %v, want SeekingFood", a.State)
	}
	if desired.X <= 0 {
		t.Fatalf("desired velocity should move toward positive food gradient, got %v", desired)
	}
}

func TestDominantSeekingMateWhenWellFedAdult(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.Energy = 2 * cfg.Species.ReproductionEnergyThreshold
	a.Age = cfg.Species.AdultAge + 1
	fields := Fields{}
	registry := groupsys.NewRegistry()
	rng := simrng.NewStream(1)

	_, sensed := ComputeDesiredVelocity(a, nil, nil, nil, fields, &cfg, registry, rng, 0.02)
	if sensed {
		t.Fatalf("should not flee")
	}
	if a.State != agent.SeekingMate {
		t.Fatalf("state = %v, want SeekingMate", a.State)
	}
}

func TestGroupBaseAttractionDeadZone(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.GroupID = 7
	registry := groupsys.NewRegistry()
	registry.RegisterBase(7, mathutil.Vector2{X: 50.5, Y: 50}) // well within dead zone
	feedback := cfg.Feedback

	result := addGroupBaseAttraction(mathutil.Zero, a, feedback, cfg.Species.BaseSpeed, registry)
	if result != mathutil.Zero {
		t.Fatalf("attraction inside dead zone should be zero, got %v", result)
	}
}

func TestGroupBaseAttractionFullStrengthBeyondSoftRadius(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.GroupID = 7
	registry := groupsys.NewRegistry()
	far := cfg.Feedback.GroupBaseSoftRadius + 5
	registry.RegisterBase(7, mathutil.Vector2{X: 50 + far, Y: 50})
	feedback := cfg.Feedback

	result := addGroupBaseAttraction(mathutil.Zero, a, feedback, cfg.Species.BaseSpeed, registry)
	wantLen := cfg.Species.BaseSpeed * feedback.GroupBaseAttractionWeight
	if math.Abs(result.Length()-wantLen) > 1e-9 {
		t.Fatalf("attraction beyond soft radius should be full strength %v, got %v", wantLen, result.Length())
	}
}

func TestSeparationClampAndClosestScale(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.GroupID = idalloc.UngroupedID
	feedback := cfg.Feedback
	feedback.MinSeparationDistance = 1.0
	feedback.MinSeparationWeight = 2.0
	feedback.OtherGroupSeparationWeight = 1.0

	neighbor := newTestAgent(50.1, 50)
	neighbors := []*agent.Agent{neighbor}
	offsets := []mathutil.Vector2{{X: 0.1, Y: 0}}
	distSq := []float64{0.01}

	baseSpeed := cfg.Species.BaseSpeed
	result := addSeparation(mathutil.Zero, a, neighbors, offsets, distSq, feedback, baseSpeed)
	if result.X >= 0 {
		t.Fatalf("separation should push away from an adjacent neighbor (negative X), got %v", result)
	}
	if result.Length() > baseSpeed*1.4*3.5*4+1e-6 {
		t.Fatalf("separation should stay within clamp*scale bound, got length %v", result.Length())
	}
}

func TestShouldRecomputeGatesByStride(t *testing.T) {
	if !ShouldRecompute(10, 3, 4, 300, 100) {
		t.Fatalf("below population threshold should always recompute")
	}
	if !ShouldRecompute(8, 0, 4, 50, 400) {
		t.Fatalf("tick+id=8 divisible by stride 4 should recompute")
	}
	if ShouldRecompute(9, 0, 4, 50, 400) {
		t.Fatalf("tick+id=9 not divisible by stride 4 should not recompute")
	}
}

func TestIntegrateClampsAccelerationAndVelocity(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(50, 50)
	a.Velocity = mathutil.Vector2{X: 0, Y: 0}
	desired := mathutil.Vector2{X: 1000, Y: 0}

	Integrate(a, desired, nil, nil, nil, cfg.Species, cfg.Feedback, cfg.WorldSize, cfg.TimeStep)

	maxV := cfg.Species.BaseSpeed * a.Traits.Speed
	if a.Velocity.Length() > maxV+1e-9 {
		t.Fatalf("velocity %v exceeds clamp %v", a.Velocity.Length(), maxV)
	}
}

func TestIntegrateBoundaryReflection(t *testing.T) {
	cfg := config.DefaultConfig()
	a := newTestAgent(0.05, 50)
	a.Velocity = mathutil.Vector2{X: -5, Y: 0}

	Integrate(a, mathutil.Vector2{X: -5, Y: 0}, nil, nil, nil, cfg.Species, cfg.Feedback, cfg.WorldSize, 1.0)

	if a.Position.X < 0 || a.Position.X > cfg.WorldSize {
		t.Fatalf("position after reflection out of bounds: %v", a.Position)
	}
	if a.Velocity.X <= 0 {
		t.Fatalf("velocity X should have flipped sign after reflecting off the low edge, got %v", a.Velocity.X)
	}
}
