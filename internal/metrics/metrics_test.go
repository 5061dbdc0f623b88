package metrics

import (
	"testing"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/environment"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
)

func TestNewAgentViewClampsSize(t *testing.T) {
	cfg := config.DefaultConfig()
	a := &agent.Agent{
		ID:       3,
		Position: mathutil.Vector2{X: 1, Y: 2},
		Velocity: mathutil.Vector2{X: 3, Y: 4},
		Energy:   1000,
		Age:      1000,
		Alive:    true,
		State:    agent.Wander,
		Traits:   agent.DefaultTraits(),
	}

	view := NewAgentView(a, cfg.Species)

	if view.Size != 1.0 {
		t.Fatalf("size = %v, want clamped to 1.0", view.Size)
	}
	if view.Speed != 5 {
		t.Fatalf("speed = %v, want 5", view.Speed)
	}
	if view.AppearanceSeed != a.ID {
		t.Fatalf("appearance seed = %v, want agent id %v", view.AppearanceSeed, a.ID)
	}
	if view.Importance != 1.0 {
		t.Fatalf("importance = %v, want 1.0", view.Importance)
	}
	if view.Phase != "loop" {
		t.Fatalf("phase = %v, want loop for an alive agent", view.Phase)
	}
}

func TestNewAgentViewPhaseEndWhenDead(t *testing.T) {
	cfg := config.DefaultConfig()
	a := &agent.Agent{Alive: false, Traits: agent.DefaultTraits()}

	view := NewAgentView(a, cfg.Species)
	if view.Phase != "end" {
		t.Fatalf("phase = %v, want end for a dead agent", view.Phase)
	}
}

func TestNewAgentViewSizeFloor(t *testing.T) {
	cfg := config.DefaultConfig()
	a := &agent.Agent{Age: 0, Energy: 0, Alive: true, Traits: agent.DefaultTraits()}

	view := NewAgentView(a, cfg.Species)
	if view.Size < 0.1 {
		t.Fatalf("size = %v, should never fall below the 0.1 floor", view.Size)
	}
}

func TestNewSnapshotMetadataTickRate(t *testing.T) {
	cfg := config.DefaultConfig()
	meta := NewSnapshotMetadata(&cfg)
	want := 1.0 / cfg.TimeStep
	if meta.TickRate != want {
		t.Fatalf("tick rate = %v, want %v", meta.TickRate, want)
	}
	if meta.Seed != cfg.Seed {
		t.Fatalf("seed = %v, want %v", meta.Seed, cfg.Seed)
	}
	if meta.ConfigVersion != cfg.ConfigVersion {
		t.Fatalf("config version = %v, want %v", meta.ConfigVersion, cfg.ConfigVersion)
	}
}

func TestNewSnapshotMetadataZeroTimeStepYieldsZeroTickRate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TimeStep = 0
	meta := NewSnapshotMetadata(&cfg)
	if meta.TickRate != 0 {
		t.Fatalf("tick rate = %v, want 0 for a zero time step", meta.TickRate)
	}
}

func TestNewFieldsViewExportsAtMostOneGroupPerCell(t *testing.T) {
	cfg := config.DefaultConfig()
	env := environment.New(cfg.CellSize, cfg.WorldSize, cfg.Environment)
	key := env.CellKeyOf(mathutil.Vector2{X: 10, Y: 10})
	env.AddPheromone(key, 1, 2.0)
	env.AddPheromone(key, 2, 5.0)

	view := NewFieldsView(env)
	if len(view.Pheromones.Cells) != 1 {
		t.Fatalf("expected exactly one cell, got %d", len(view.Pheromones.Cells))
	}
	if view.Pheromones.Cells[0].Group != 2 {
		t.Fatalf("expected the stronger group 2 to win, got group %d", view.Pheromones.Cells[0].Group)
	}
	if view.Food.Resolution != env.Resolution() {
		t.Fatalf("food resolution = %v, want %v", view.Food.Resolution, env.Resolution())
	}
}
