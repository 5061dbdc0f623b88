// Package lifecycle implements the per-agent per-tick metabolism,
// stress/disease, feeding, pair reproduction, and mortality rules.
package lifecycle

import (
	"math"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/environment"
	"github.com/GoCodeAlone/terrarium/internal/fields"
	"github.com/GoCodeAlone/terrarium/internal/groupsys"
	"github.com/GoCodeAlone/terrarium/internal/idalloc"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

// Outcome reports what happened to an agent during one lifecycle
// application: whether it died, and the child it produced, if any.
type Outcome struct {
	Died  bool
	Child *agent.Agent
}

// Streams bundles the three RNG streams the lifecycle system draws
// from. The climate stream is never used here.
type Streams struct {
	Main       *simrng.Stream
	Trait      *simrng.Stream
	Appearance *simrng.Stream
}

// Apply runs the full per-tick lifecycle for agent a: metabolism,
// stress/disease, feeding, reproduction, hazard mortality, and
// terminal death. neighbors/distSq must be a's vision-radius
// neighbors, in stable order. paired tracks agent ids that have
// already reproduced this tick; Apply adds to it when a pairs.
func Apply(
	a *agent.Agent,
	neighbors []*agent.Agent,
	distSq []float64,
	env *environment.Grid,
	pending *fields.PendingEvents,
	root *config.Config,
	alloc *idalloc.Allocator,
	registry *groupsys.Registry,
	streams Streams,
	population int,
	pendingBirths int,
	paired map[int]bool,
	canFormGroups bool,
	dt float64,
) Outcome {
	species := root.Species
	feedback := root.Feedback

	metabMultiplier := agent.MetabolismMultiplier(a.Traits)
	speedCost := a.Velocity.Length() * 0.05 * metabMultiplier
	m := (species.MetabolismPerSecond*metabMultiplier + speedCost) * dt
	if a.Energy > species.EnergySoftCap {
		excess := a.Energy - species.EnergySoftCap
		m += excess * species.HighEnergyMetabolismSlope * dt * metabMultiplier
	}
	neighborCount := len(neighbors)
	a.Energy -= m + a.Stress*dt + float64(neighborCount)*feedback.StressDrainPerNeighbor*dt

	if neighborCount > feedback.LocalDensitySoftCap {
		a.Stress += 0.1 * dt
		resist := agent.DiseaseResistance(a.Traits)
		risk := float64(neighborCount) * feedback.DiseaseProbabilityPerNeighbor * dt / resist
		if streams.Main.NextFloat() < risk {
			return kill(a, env, pending, root)
		}
	} else {
		a.Stress = math.Max(0, a.Stress-0.05*dt)
	}

	key := env.CellKeyOf(a.Position)
	eaten := math.Min(root.Environment.FoodConsumptionRate*dt, env.PeekFood(key))
	if eaten > 0 {
		env.ConsumeFood(key, eaten)
		a.Energy += eaten
	}

	var child *agent.Agent
	if root.InitialPopulation >= 10 &&
		a.Energy > species.ReproductionEnergyThreshold &&
		a.Age > species.AdultAge &&
		population+pendingBirths < root.MaxPopulation &&
		!paired[a.ID] {
		if mate := findMate(a, neighbors, distSq, species, paired); mate != nil {
			child = tryReproduce(a, mate, neighbors, env, pending, root, alloc, registry, streams, paired, canFormGroups)
		}
	}

	h := feedback.BaseDeathProbabilityPerSecond +
		a.Age*feedback.AgeDeathProbabilityPerSecond +
		float64(neighborCount)*feedback.DensityDeathProbabilityPerNeighborPerSecond
	if streams.Main.NextFloat() < math.Min(1, h*dt) {
		out := kill(a, env, pending, root)
		out.Child = child
		return out
	}

	if a.Energy <= 0 || a.Age >= species.MaxAge {
		out := kill(a, env, pending, root)
		out.Child = child
		return out
	}

	return Outcome{Child: child}
}

func kill(a *agent.Agent, env *environment.Grid, pending *fields.PendingEvents, root *config.Config) Outcome {
	a.Alive = false
	key := env.CellKeyOf(a.Position)
	pending.AddFood(key, root.Environment.FoodFromDeath)
	return Outcome{Died: true}
}

// findMate scans neighbors for the nearest eligible mate, breaking
// ties by lower agent id.
func findMate(a *agent.Agent, neighbors []*agent.Agent, distSq []float64, species config.SpeciesConfig, paired map[int]bool) *agent.Agent {
	var best *agent.Agent
	bestDist := math.MaxFloat64
	for i, n := range neighbors {
		if !n.Alive || paired[n.ID] || n.ID == a.ID {
			continue
		}
		if n.Energy <= species.ReproductionEnergyThreshold || n.Age <= species.AdultAge {
			continue
		}
		d := distSq[i]
		if d < bestDist || (d == bestDist && best != nil && n.ID < best.ID) {
			bestDist = d
			best = n
		}
	}
	return best
}

// densityFactor is 1.0 under the soft cap; past it, the configured
// penalty is the starting point that further erodes toward zero as
// local density grows.
func densityFactor(neighborCount int, feedback config.FeedbackConfig) float64 {
	excess := float64(neighborCount - feedback.LocalDensitySoftCap)
	if excess <= 0 {
		return 1.0
	}
	factor := feedback.DensityReproductionPenalty - excess*feedback.DensityReproductionSlope
	return mathutil.Clamp(factor, 0, 1)
}

func groupFactor(a *agent.Agent, neighbors []*agent.Agent, feedback config.FeedbackConfig) float64 {
	if a.GroupID == idalloc.UngroupedID {
		return 1.0
	}
	same := 0
	for _, n := range neighbors {
		if n.GroupID == a.GroupID {
			same++
		}
	}
	factor := 1 - float64(same)*feedback.GroupReproductionPenaltyPerAlly
	return math.Max(feedback.GroupReproductionMinFactor, factor)
}

func tryReproduce(
	a, mate *agent.Agent,
	neighbors []*agent.Agent,
	env *environment.Grid,
	pending *fields.PendingEvents,
	root *config.Config,
	alloc *idalloc.Allocator,
	registry *groupsys.Registry,
	streams Streams,
	paired map[int]bool,
	canFormGroups bool,
) *agent.Agent {
	feedback := root.Feedback
	density := densityFactor(len(neighbors), feedback)
	group := groupFactor(a, neighbors, feedback)
	traitFactor := math.Sqrt(agent.ReproductionFactor(a.Traits) * agent.ReproductionFactor(mate.Traits))
	chance := mathutil.Clamp(feedback.ReproductionBaseChance*density*group*traitFactor, 0, 1)

	if streams.Main.NextFloat() >= chance {
		return nil
	}

	paired[a.ID] = true
	paired[mate.ID] = true

	species := root.Species
	aCost := a.Energy*0.25 + species.BirthEnergyCost*0.5
	mateCost := mate.Energy*0.25 + species.BirthEnergyCost*0.5
	childEnergy := a.Energy*0.25 + mate.Energy*0.25
	a.Energy -= aCost
	mate.Energy -= mateCost

	childTraits := agent.InheritTraits(a.Traits, mate.Traits, root.Evolution, streams.Trait)
	childAppearance := agent.InheritAppearance(a.Appearance, mate.Appearance, root.Appearance, streams.Appearance)

	childGroup := a.GroupID
	if a.GroupID != mate.GroupID {
		if streams.Main.NextFloat() < 0.5 {
			childGroup = a.GroupID
		} else {
			childGroup = mate.GroupID
		}
	}
	parentsWereUngrouped := a.GroupID == idalloc.UngroupedID && mate.GroupID == idalloc.UngroupedID

	childPosition := a.Position.Add(mate.Position).Scale(0.5)

	newGroup, mutated := mutateGroup(childGroup, canFormGroups, childPosition, childTraits.Founder, streams.Main, alloc, registry, feedback)
	if mutated {
		childGroup = newGroup
		if parentsWereUngrouped {
			groupsys.SetGroup(a, childGroup, feedback)
			groupsys.SetGroup(mate, childGroup, feedback)
		}
	}

	childLineage := a.LineageID
	if streams.Main.NextFloat() < 0.5 {
		childLineage = mate.LineageID
	}
	if streams.Main.NextFloat() < root.Evolution.LineageMutationChance {
		childLineage = alloc.NextLineageID()
	}

	speedLimit := agent.SpeedLimit(childTraits, species.BaseSpeed)
	childVelocity := a.Velocity.Add(mate.Velocity).Scale(0.5).ClampLength(speedLimit)
	offsetMag := math.Max(0.5, feedback.MinSeparationDistance)
	childPosition = childPosition.Add(streams.Main.NextUnitCircle().Scale(offsetMag))

	child := &agent.Agent{
		ID:         alloc.NextAgentID(),
		Generation: max(a.Generation, mate.Generation) + 1,
		GroupID:    childGroup,
		LineageID:  childLineage,
		Position:   childPosition,
		Velocity:   childVelocity,
		Energy:     childEnergy,
		Age:        0,
		State:      agent.Idle,
		Alive:      true,
		Traits:     childTraits,
		Appearance: childAppearance,
	}

	if childGroup != idalloc.UngroupedID {
		key := env.CellKeyOf(childPosition)
		pending.AddPheromone(key, childGroup, root.Environment.PheromoneDepositOnBirth)
	}

	return child
}

func mutateGroup(groupID int, canCreate bool, position mathutil.Vector2, founder float64, rng *simrng.Stream, alloc *idalloc.Allocator, registry *groupsys.Registry, feedback config.FeedbackConfig) (int, bool) {
	if !canCreate {
		return groupID, false
	}
	var chance float64
	if groupID == idalloc.UngroupedID {
		chance = mathutil.Clamp(feedback.GroupBirthSeedChance*founder, 0, 1)
	} else {
		chance = mathutil.Clamp(feedback.GroupMutationChance*founder, 0, 1)
	}
	if rng.NextFloat() < chance {
		newGroup := alloc.NextGroupID()
		registry.RegisterBase(newGroup, position)
		return newGroup, true
	}
	return groupID, false
}
