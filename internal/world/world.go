// Package world implements the top-level tick orchestrator: it wires
// the spatial index, environment, steering, group, lifecycle, and
// metrics packages together behind New/Reset/Step/Snapshot.
package world

import (
	"fmt"
	"math"
	"time"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/environment"
	"github.com/GoCodeAlone/terrarium/internal/fields"
	"github.com/GoCodeAlone/terrarium/internal/groupsys"
	"github.com/GoCodeAlone/terrarium/internal/idalloc"
	"github.com/GoCodeAlone/terrarium/internal/lifecycle"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/metrics"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
	"github.com/GoCodeAlone/terrarium/internal/spatial"
	"github.com/GoCodeAlone/terrarium/internal/steering"
)

// World owns every agent and field in the simulation and drives one
// fixed-timestep tick at a time. It exposes exactly the surface a
// driver needs: New, Reset, Step, Snapshot, Population, LatestMetrics.
type World struct {
	cfg config.Config

	alloc    *idalloc.Allocator
	spatial  *spatial.Grid
	env      *environment.Grid
	registry *groupsys.Registry
	pending  *fields.PendingEvents
	climate  *fields.ClimateNoise
	envAccum *fields.Accumulator

	mainStream       *simrng.Stream
	climateStream    *simrng.Stream
	appearanceStream *simrng.Stream
	traitStream      *simrng.Stream

	agents []*agent.Agent

	cellOffsets     []spatial.Offset
	offsetsRadius   float64
	offsetsCellSize float64

	neighborBuf []*agent.Agent
	offsetBuf   []mathutil.Vector2
	distSqBuf   []float64

	elapsed       float64
	latestMetrics metrics.TickMetrics
}

// New validates cfg and constructs a fully bootstrapped World, or
// returns the first configuration error found.
func New(cfg config.Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world: invalid configuration: %w", err)
	}
	w := &World{cfg: cfg}
	w.Reset()
	return w, nil
}

// Reset rebuilds every substructure from scratch and re-bootstraps the
// population, rewinding all four RNG streams to their seed-derived
// initial states.
func (w *World) Reset() {
	cfg := w.cfg
	w.alloc = idalloc.New()
	w.spatial = spatial.New(cfg.CellSize)
	w.env = environment.New(cfg.CellSize, cfg.WorldSize, cfg.Environment)
	w.registry = groupsys.NewRegistry()
	w.pending = fields.NewPendingEvents()
	w.mainStream = simrng.NewStream(cfg.Seed)
	w.climateStream = simrng.NewClimateStream(cfg.Seed)
	w.appearanceStream = simrng.NewAppearanceStream(cfg.Seed)
	w.traitStream = simrng.NewTraitStream(cfg.Seed)
	w.climate = fields.NewClimateNoise(cfg.Environment, w.climateStream)
	w.envAccum = fields.NewAccumulator(cfg.EnvironmentTickInterval)
	w.elapsed = 0
	w.latestMetrics = metrics.TickMetrics{}
	w.cellOffsets = nil
	w.offsetsRadius = -1
	w.offsetsCellSize = -1

	w.agents = make([]*agent.Agent, 0, cfg.InitialPopulation)
	for i := 0; i < cfg.InitialPopulation; i++ {
		w.agents = append(w.agents, w.bootstrapAgent())
	}
}

func (w *World) bootstrapAgent() *agent.Agent {
	cfg := w.cfg
	traits := agent.SampleInitialTraits(cfg.Evolution, w.traitStream)

	age := math.Min(cfg.Species.AdultAge, cfg.Species.MaxAge/2)
	if cfg.Species.InitialAgeMax > 0 {
		age = w.mainStream.NextRange(cfg.Species.InitialAgeMin, cfg.Species.InitialAgeMax)
	}

	energy := cfg.Species.ReproductionEnergyThreshold * cfg.Species.InitialEnergyFractionOfThreshold
	position := mathutil.Vector2{
		X: w.mainStream.NextRange(0, cfg.WorldSize),
		Y: w.mainStream.NextRange(0, cfg.WorldSize),
	}
	speedLimit := agent.SpeedLimit(traits, cfg.Species.BaseSpeed)
	velocity := w.mainStream.NextUnitCircle().Scale(speedLimit * 0.3)

	return &agent.Agent{
		ID:          w.alloc.NextAgentID(),
		Generation:  0,
		GroupID:     idalloc.UngroupedID,
		LineageID:   w.alloc.NextLineageID(),
		Position:    position,
		Velocity:    velocity,
		Heading:     velocity.Heading(),
		Energy:      energy,
		Age:         age,
		State:       agent.Idle,
		Alive:       true,
		Traits:      traits,
		TraitsDirty: true,
		Appearance:  agent.Appearance{H: cfg.Appearance.BaseH, S: cfg.Appearance.BaseS, L: cfg.Appearance.BaseL},
	}
}

// Population returns the current live agent count.
func (w *World) Population() int {
	return len(w.agents)
}

// LatestMetrics returns the metrics produced by the most recent Step.
func (w *World) LatestMetrics() metrics.TickMetrics {
	return w.latestMetrics
}

func (w *World) refreshCellOffsets() {
	if w.offsetsRadius == w.cfg.Species.VisionRadius && w.offsetsCellSize == w.cfg.CellSize {
		return
	}
	w.cellOffsets = w.spatial.BuildNeighborCellOffsets(w.cfg.Species.VisionRadius)
	w.offsetsRadius = w.cfg.Species.VisionRadius
	w.offsetsCellSize = w.cfg.CellSize
}

// Step advances the simulation by exactly one fixed timestep and
// returns the resulting TickMetrics.
func (w *World) Step(tick uint64) metrics.TickMetrics {
	start := time.Now()
	cfg := w.cfg
	dt := cfg.TimeStep

	w.pending.Clear()
	w.refreshCellOffsets()

	w.spatial.Clear()
	groupSizes := make(map[int]int)
	for _, a := range w.agents {
		w.spatial.Insert(a)
		if a.GroupID != idalloc.UngroupedID {
			groupSizes[a.GroupID]++
		}
	}

	population := len(w.agents)
	w.elapsed += dt
	canFormGroups := w.elapsed >= cfg.Feedback.GroupFormationWarmupSeconds

	lifecycleStreams := lifecycle.Streams{Main: w.mainStream, Trait: w.traitStream, Appearance: w.appearanceStream}
	paired := make(map[int]bool)

	visionRadiusSq := cfg.Species.VisionRadius * cfg.Species.VisionRadius

	var births []*agent.Agent
	deaths := 0
	neighborChecks := 0
	energySum := 0.0
	ageSum := 0.0
	ungrouped := 0
	groupsSeen := make(map[int]bool)

	for _, a := range w.agents {
		if !a.Alive {
			continue
		}
		if a.TraitsDirty {
			a.Traits = agent.ClampTraits(a.Traits, cfg.Evolution)
			a.TraitsDirty = false
		}

		n := w.spatial.CollectNeighbors(a.Position, w.cellOffsets, visionRadiusSq, a.ID, &w.neighborBuf, &w.offsetBuf, &w.distSqBuf)
		neighborChecks += n

		if steering.ShouldRecompute(tick, a.ID, cfg.Feedback.GroupUpdateStride, cfg.Feedback.GroupUpdatePopulationThreshold, population) {
			groupsys.UpdateMembership(a, w.neighborBuf, w.offsetBuf, w.distSqBuf, groupSizes, cfg.Feedback, w.alloc, w.registry, w.mainStream, canFormGroups, dt)
		}

		var desired mathutil.Vector2
		var sensed bool
		if steering.ShouldRecompute(tick, a.ID, cfg.Feedback.SteeringUpdateStride, cfg.Feedback.SteeringUpdatePopulationThreshold, population) {
			sampled := steering.SampleFields(a, w.env)
			desired, sensed = steering.ComputeDesiredVelocity(a, w.neighborBuf, w.offsetBuf, w.distSqBuf, sampled, &cfg, w.registry, w.mainStream, dt)
			a.LastDesired = desired
			a.LastSensedDanger = sensed
		} else {
			desired = a.LastDesired
			sensed = a.LastSensedDanger
		}

		steering.Integrate(a, desired, w.neighborBuf, w.offsetBuf, w.distSqBuf, cfg.Species, cfg.Feedback, cfg.WorldSize, dt)

		a.Age += dt

		out := lifecycle.Apply(a, w.neighborBuf, w.distSqBuf, w.env, w.pending, &cfg, w.alloc, w.registry, lifecycleStreams, population, len(births), paired, canFormGroups, dt)
		if out.Child != nil {
			births = append(births, out.Child)
		}
		if out.Died {
			deaths++
		}

		if sensed || a.State == agent.Flee {
			key := w.env.CellKeyOf(a.Position)
			w.pending.AddDanger(key, cfg.Environment.DangerPulseOnFlee)
		}

		if a.Alive {
			energySum += a.Energy
			ageSum += a.Age
			if a.GroupID == idalloc.UngroupedID {
				ungrouped++
			} else {
				groupsSeen[a.GroupID] = true
			}
		}
	}

	survivors := w.agents[:0]
	for _, a := range w.agents {
		if a.Alive {
			survivors = append(survivors, a)
		}
	}
	w.agents = append(survivors, births...)

	activeGroups := make(map[int]bool, len(groupsSeen))
	for gid := range groupsSeen {
		activeGroups[gid] = true
	}
	for _, child := range births {
		if child.GroupID != idalloc.UngroupedID {
			activeGroups[child.GroupID] = true
		}
	}
	w.registry.Prune(activeGroups)

	w.pending.Flush(w.env)
	w.envAccum.TickEnvironment(w.env, w.climate, activeGroups, dt)

	alive := len(w.agents)
	avgEnergy := 0.0
	avgAge := 0.0
	if alive > 0 {
		avgEnergy = energySum / float64(alive)
		avgAge = ageSum / float64(alive)
	}

	w.latestMetrics = metrics.TickMetrics{
		Tick:           tick,
		Population:     alive,
		Births:         len(births),
		Deaths:         deaths,
		AverageEnergy:  avgEnergy,
		AverageAge:     avgAge,
		Groups:         len(activeGroups),
		NeighborChecks: neighborChecks,
		Ungrouped:      ungrouped,
		TickDurationMs: float64(time.Since(start)) / float64(time.Millisecond),
	}
	return w.latestMetrics
}

// Snapshot returns the full external export of the current state at
// the given tick.
func (w *World) Snapshot(tick uint64) metrics.Snapshot {
	views := make([]metrics.AgentView, 0, len(w.agents))
	for _, a := range w.agents {
		if a.Alive {
			views = append(views, metrics.NewAgentView(a, w.cfg.Species))
		}
	}
	return metrics.Snapshot{
		Tick:     tick,
		Metrics:  w.latestMetrics,
		Agents:   views,
		World:    metrics.WorldView{Size: w.cfg.WorldSize},
		Metadata: metrics.NewSnapshotMetadata(&w.cfg),
		Fields:   metrics.NewFieldsView(w.env),
	}
}
