// Package steering computes each agent's desired velocity for a tick
// (flee composition, dominant-behavior selection, and the fixed-order
// additive bias stack) and integrates it into a new position.
package steering

import (
	"math"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/environment"
	"github.com/GoCodeAlone/terrarium/internal/groupsys"
	"github.com/GoCodeAlone/terrarium/internal/idalloc"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

const (
	fleeThresholdSq   = 1e-3
	intergroupFleeDSq = 4.0 // "within 2 units"
)

// Fields bundles the environment samples a steering computation needs
// at the agent's current cell: food available, danger level, and the
// three field gradients.
type Fields struct {
	FoodHere          float64
	DangerLevel       float64
	FoodGradient      mathutil.Vector2
	PheromoneGradient mathutil.Vector2
	DangerGradient    mathutil.Vector2
}

// SampleFields reads the environment grid at a's current cell.
func SampleFields(a *agent.Agent, env *environment.Grid) Fields {
	key := env.CellKeyOf(a.Position)
	f := Fields{
		FoodHere:       env.PeekFood(key),
		DangerLevel:    env.SampleDanger(key),
		FoodGradient:   env.FoodGradient(key),
		DangerGradient: env.DangerGradient(key),
	}
	if a.GroupID != idalloc.UngroupedID {
		f.PheromoneGradient = env.PheromoneGradient(key, a.GroupID)
	}
	return f
}

// ShouldRecompute implements the shared stride-optimization gate used
// by both the steering and group-membership updates: below the
// population threshold, or with a stride of 1, every tick recomputes.
func ShouldRecompute(tick uint64, agentID int, stride int, populationThreshold int, population int) bool {
	if stride <= 1 || population <= populationThreshold {
		return true
	}
	return (tick+uint64(agentID))%uint64(stride) == 0
}

// ComputeDesiredVelocity implements the full bias stack of the
// steering system, returning the desired velocity and whether danger
// was sensed (flee composition was taken).
func ComputeDesiredVelocity(
	a *agent.Agent,
	neighbors []*agent.Agent,
	offsets []mathutil.Vector2,
	distSq []float64,
	fields Fields,
	root *config.Config,
	registry *groupsys.Registry,
	rng *simrng.Stream,
	dt float64,
) (mathutil.Vector2, bool) {
	species := root.Species
	feedback := root.Feedback
	baseSpeed := species.BaseSpeed

	nearIntergroup := false
	for i, n := range neighbors {
		if n.GroupID != a.GroupID && distSq[i] <= intergroupFleeDSq {
			nearIntergroup = true
			break
		}
	}

	if fields.DangerLevel > 0.1 || nearIntergroup {
		flee := computeFlee(a, neighbors, offsets, distSq, fields, baseSpeed, rng)
		if flee.LengthSquared() > fleeThresholdSq {
			a.State = agent.Flee
			flee = blendAllyInfluence(flee, a, neighbors, offsets, distSq, feedback, baseSpeed)
			flee = addBoundaryAvoidance(flee, a.Position, root)
			return flee, true
		}
	}

	desired, state := selectDominant(a, neighbors, offsets, fields, root, baseSpeed, dt, rng)
	a.State = state

	desired = addPersonalSpace(desired, neighbors, offsets, distSq, feedback, baseSpeed)
	desired = addIntergroupAvoidance(desired, a, neighbors, offsets, distSq, feedback, baseSpeed)
	desired = addGroupSeek(desired, a, neighbors, offsets, distSq, feedback, baseSpeed, registry)
	desired = addSeparation(desired, a, neighbors, offsets, distSq, feedback, baseSpeed)
	desired = addAlignment(desired, a, neighbors, baseSpeed)
	desired = addGroupCohesion(desired, a, neighbors, offsets, distSq, feedback, baseSpeed)
	desired = addGroupBaseAttraction(desired, a, feedback, baseSpeed, registry)
	desired = addBoundaryAvoidance(desired, a.Position, root)
	desired = desired.Sub(fields.DangerGradient.Normalize().Scale(baseSpeed * 0.2))

	return desired, false
}

func computeFlee(a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, fields Fields, baseSpeed float64, rng *simrng.Stream) mathutil.Vector2 {
	dangerLevel := math.Min(1, fields.DangerLevel)
	awayFromDanger := fields.DangerGradient.Normalize()
	if awayFromDanger.LengthSquared() < 1e-10 {
		awayFromDanger = rng.NextUnitCircle()
	}
	flee := awayFromDanger.Scale(-1).Scale(baseSpeed * dangerLevel)

	for i, n := range neighbors {
		if n.GroupID != a.GroupID && distSq[i] <= intergroupFleeDSq {
			away := offsets[i].Normalize().Scale(-1).Scale(baseSpeed)
			flee = flee.Add(away)
		}
	}
	return flee
}

// blendAllyInfluence mixes in a fraction of cohesion/alignment with
// allies, the fraction shrinking as flee strength grows (keep =
// max(0, 1 - 0.7*flee_strength)); separation is always applied at
// full strength, exempt from the keep fraction, and all three use
// their own hardcoded coefficients distinct from the normal-path bias
// weights.
func blendAllyInfluence(flee mathutil.Vector2, a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig, baseSpeed float64) mathutil.Vector2 {
	if a.GroupID == idalloc.UngroupedID || len(neighbors) == 0 {
		return flee
	}
	fleeStrength := math.Min(1, flee.Length()/math.Max(1e-6, baseSpeed))
	keep := math.Max(0, 1-0.7*fleeStrength)

	result := flee
	if keep > 0 {
		result = result.Add(cohesionDirection(a, neighbors, offsets, distSq, feedback).Scale(baseSpeed * 0.8 * keep))
		result = result.Add(alignmentDirection(a, neighbors).Scale(baseSpeed * 0.5 * keep))
	}
	result = result.Add(separationBias(a, neighbors, offsets, distSq, feedback).Scale(baseSpeed * 0.7))
	return result
}

// cohesionDirection returns the normalized average offset toward
// same-group neighbors within the cohesion radius, unscaled by any
// weight or base speed.
func cohesionDirection(a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig) mathutil.Vector2 {
	if a.GroupID == idalloc.UngroupedID {
		return mathutil.Zero
	}
	radius := feedback.GroupCohesionRadius
	radiusSq := radius * radius
	sum := mathutil.Zero
	count := 0
	for i, n := range neighbors {
		if n.GroupID == a.GroupID && distSq[i] <= radiusSq {
			sum = sum.Add(offsets[i])
			count++
		}
	}
	if count == 0 {
		return mathutil.Zero
	}
	return sum.Scale(1 / float64(count)).Normalize()
}

// alignmentDirection returns the normalized average velocity of
// same-group neighbors, unscaled by any weight or base speed.
func alignmentDirection(a *agent.Agent, neighbors []*agent.Agent) mathutil.Vector2 {
	if a.GroupID == idalloc.UngroupedID {
		return mathutil.Zero
	}
	sum := mathutil.Zero
	count := 0
	for _, n := range neighbors {
		if n.GroupID == a.GroupID {
			sum = sum.Add(n.Velocity)
			count++
		}
	}
	if count == 0 {
		return mathutil.Zero
	}
	return sum.Scale(1 / float64(count)).Normalize()
}

// separationBias returns the accumulated, closest-neighbor-boosted,
// length-clamped (3.5) separation push away from neighbors, unscaled
// by base speed.
func separationBias(a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig) mathutil.Vector2 {
	if len(neighbors) == 0 {
		return mathutil.Zero
	}
	sum := mathutil.Zero
	closestSq := math.MaxFloat64
	minSep := feedback.MinSeparationDistance
	minSepSq := minSep * minSep
	for i, n := range neighbors {
		d2 := distSq[i]
		if d2 < closestSq {
			closestSq = d2
		}
		weight := feedback.OtherGroupSeparationWeight
		if a.GroupID != idalloc.UngroupedID && n.GroupID == a.GroupID {
			weight = feedback.AllySeparationWeight
		}
		push := offsets[i].Scale(-1).Scale(weight / math.Max(d2, 0.1))
		sum = sum.Add(push)
		if minSep > 0 && d2 < minSepSq {
			s := (minSepSq - d2) / minSepSq
			extra := offsets[i].Normalize().Scale(-1).Scale(s * s * feedback.MinSeparationWeight)
			sum = sum.Add(extra)
		}
	}
	sum = sum.ClampLength(3.5)
	if minSep > 0 && closestSq < minSepSq {
		closestDist := math.Sqrt(closestSq)
		scale := math.Min(4, math.Max(1, minSep/math.Max(closestDist, 1e-6)))
		sum = sum.Scale(scale)
	}
	return sum
}

// selectDominant implements the dominant-behavior selection: the
// agent is either hungry/standing on abundant food (SEEKING_FOOD),
// ready to breed (SEEKING_MATE), or idling (WANDER).
func selectDominant(a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, fields Fields, root *config.Config, baseSpeed, dt float64, rng *simrng.Stream) (mathutil.Vector2, agent.State) {
	species := root.Species
	foodPerCell := root.Environment.FoodPerCell

	if a.Energy < 0.6*species.ReproductionEnergyThreshold || fields.FoodHere > 0.5*foodPerCell {
		foodDir := fields.FoodGradient.Normalize().Scale(baseSpeed * 0.4)
		wander := wanderComponent(a, species, dt, rng).Scale(baseSpeed * 0.25)
		return foodDir.Add(wander), agent.SeekingFood
	}

	if a.Energy > species.ReproductionEnergyThreshold && a.Age > species.AdultAge {
		sum := mathutil.Zero
		for i := range neighbors {
			sum = sum.Add(offsets[i])
		}
		cohesion := mathutil.Zero
		if len(neighbors) > 0 {
			cohesion = sum.Scale(1 / float64(len(neighbors))).Normalize().Scale(baseSpeed * 0.8)
		}
		pher := fields.PheromoneGradient.Normalize().Scale(baseSpeed * 0.25)
		return cohesion.Add(pher), agent.SeekingMate
	}

	wander := wanderComponent(a, species, dt, rng).Scale(baseSpeed * species.WanderJitter)
	pher := fields.PheromoneGradient.Normalize().Scale(baseSpeed * 0.15)
	return wander.Add(pher), agent.Wander
}

// wanderComponent redraws the agent's wander direction whenever its
// timer has elapsed, otherwise decaying the timer by dt.
func wanderComponent(a *agent.Agent, species config.SpeciesConfig, dt float64, rng *simrng.Stream) mathutil.Vector2 {
	a.WanderTime -= dt
	if a.WanderTime <= 0 || a.WanderDir.LengthSquared() < 1e-12 {
		a.WanderDir = rng.NextUnitCircle()
		a.WanderTime = species.WanderRefreshSeconds
	}
	return a.WanderDir
}

func addPersonalSpace(desired mathutil.Vector2, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig, baseSpeed float64) mathutil.Vector2 {
	r := feedback.PersonalSpaceRadius
	if r <= 0 {
		return desired
	}
	rSq := r * r
	sum := mathutil.Zero
	count := 0
	for i := range neighbors {
		if distSq[i] < rSq && distSq[i] > 1e-12 {
			d := math.Sqrt(distSq[i])
			push := offsets[i].Normalize().Scale(-1).Scale(1 - d/r)
			sum = sum.Add(push)
			count++
		}
	}
	if count == 0 {
		return desired
	}
	avg := sum.Scale(1 / float64(count))
	bias := avg.Normalize().Scale(baseSpeed * feedback.PersonalSpaceWeight)
	return desired.Add(bias)
}

func addIntergroupAvoidance(desired mathutil.Vector2, a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig, baseSpeed float64) mathutil.Vector2 {
	if a.GroupID == idalloc.UngroupedID {
		return desired
	}
	radius := feedback.OtherGroupAvoidRadius
	if radius <= 0 {
		return desired
	}
	radiusSq := radius * radius
	sum := mathutil.Zero
	count := 0
	for i, n := range neighbors {
		if n.GroupID != idalloc.UngroupedID && n.GroupID != a.GroupID && distSq[i] < radiusSq && distSq[i] > 1e-12 {
			d := math.Sqrt(distSq[i])
			push := offsets[i].Normalize().Scale(-1).Scale(1 - d/radius)
			sum = sum.Add(push)
			count++
		}
	}
	if count == 0 {
		return desired
	}
	avg := sum.Scale(1 / float64(count))
	weight := feedback.OtherGroupAvoidWeight * a.Traits.Territoriality
	bias := avg.Normalize().Scale(baseSpeed * weight)
	return desired.Add(bias)
}

func addGroupSeek(desired mathutil.Vector2, a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig, baseSpeed float64, registry *groupsys.Registry) mathutil.Vector2 {
	if a.GroupID != idalloc.UngroupedID || feedback.GroupSeekWeight <= 0 {
		return desired
	}
	radius := feedback.GroupSeekRadius
	if radius <= 0 {
		return desired
	}
	sum := mathutil.Zero
	has := false
	if baseGroup, found := registry.NearestWithin(a.Position, radius); found {
		if basePos, ok := registry.BaseOf(baseGroup); ok {
			dir := basePos.Sub(a.Position)
			if dir.LengthSquared() > 1e-12 {
				sum = sum.Add(dir.Normalize())
				has = true
			}
		}
	}
	radiusSq := radius * radius
	for i, n := range neighbors {
		if n.GroupID != idalloc.UngroupedID && distSq[i] < radiusSq && distSq[i] > 1e-12 {
			d := math.Sqrt(distSq[i])
			falloff := 1 - d/radius
			sum = sum.Add(offsets[i].Normalize().Scale(falloff))
			has = true
		}
	}
	if !has {
		return desired
	}
	bias := sum.Normalize().Scale(baseSpeed * feedback.GroupSeekWeight)
	return desired.Add(bias)
}

// addSeparation applies the separation push at the normal-path scale
// (base_speed * 1.4), matching the ground-truth call site rather than
// folding the scale into the push itself.
func addSeparation(desired mathutil.Vector2, a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig, baseSpeed float64) mathutil.Vector2 {
	bias := separationBias(a, neighbors, offsets, distSq, feedback)
	return desired.Add(bias.Scale(baseSpeed * 1.4))
}

func addAlignment(desired mathutil.Vector2, a *agent.Agent, neighbors []*agent.Agent, baseSpeed float64) mathutil.Vector2 {
	bias := alignmentDirection(a, neighbors).Scale(baseSpeed * 0.3 * a.Traits.Sociality)
	return desired.Add(bias)
}

// addGroupCohesion scales by AllyCohesionWeight, which stands in for
// the product of a base group-cohesion weight and an ally multiplier:
// this tree keeps a single configured weight for same-group cohesion.
func addGroupCohesion(desired mathutil.Vector2, a *agent.Agent, neighbors []*agent.Agent, offsets []mathutil.Vector2, distSq []float64, feedback config.FeedbackConfig, baseSpeed float64) mathutil.Vector2 {
	bias := cohesionDirection(a, neighbors, offsets, distSq, feedback).Scale(baseSpeed * feedback.AllyCohesionWeight * a.Traits.Sociality)
	return desired.Add(bias)
}

func addGroupBaseAttraction(desired mathutil.Vector2, a *agent.Agent, feedback config.FeedbackConfig, baseSpeed float64, registry *groupsys.Registry) mathutil.Vector2 {
	if a.GroupID == idalloc.UngroupedID {
		return desired
	}
	basePos, found := registry.BaseOf(a.GroupID)
	if !found {
		return desired
	}
	offset := basePos.Sub(a.Position)
	d2 := offset.LengthSquared()
	dead := feedback.GroupBaseDeadZone
	soft := feedback.GroupBaseSoftRadius
	deadSq := dead * dead
	softSq := soft * soft
	if d2 <= deadSq {
		return desired
	}
	t := 1.0
	if softSq > deadSq {
		t = mathutil.Clamp((d2-deadSq)/(softSq-deadSq), 0, 1)
	}
	strength := t * t
	bias := offset.Normalize().Scale(baseSpeed * feedback.GroupBaseAttractionWeight * strength)
	return desired.Add(bias)
}

// addBoundaryAvoidance pushes inward near a world edge and blends the
// desired vector toward the pure inward direction as proximity grows.
func addBoundaryAvoidance(desired mathutil.Vector2, position mathutil.Vector2, root *config.Config) mathutil.Vector2 {
	margin := root.BoundaryMargin
	if margin <= 0 {
		return desired
	}
	worldSize := root.WorldSize
	push := mathutil.Zero
	proximity := 0.0

	if position.X < margin {
		mag := 1 - position.X/margin
		push.X += mag
		if mag > proximity {
			proximity = mag
		}
	} else if position.X > worldSize-margin {
		mag := 1 - (worldSize-position.X)/margin
		push.X -= mag
		if mag > proximity {
			proximity = mag
		}
	}
	if position.Y < margin {
		mag := 1 - position.Y/margin
		push.Y += mag
		if mag > proximity {
			proximity = mag
		}
	} else if position.Y > worldSize-margin {
		mag := 1 - (worldSize-position.Y)/margin
		push.Y -= mag
		if mag > proximity {
			proximity = mag
		}
	}

	if push.LengthSquared() < 1e-12 {
		return desired
	}
	inward := push.Scale(root.Species.BaseSpeed * root.BoundaryAvoidanceWeight)
	result := desired.Add(inward)
	turn := math.Min(1, proximity*root.BoundaryTurnWeight)
	if turn <= 0 {
		return result
	}
	pureInward := push.Normalize().Scale(result.Length())
	return result.Scale(1 - turn).Add(pureInward.Scale(turn))
}

// Integrate applies the per-tick integration phase: acceleration and
// velocity clamping, position update, overlap resolution, boundary
// reflection, and heading update.
func Integrate(
	a *agent.Agent,
	desired mathutil.Vector2,
	neighbors []*agent.Agent,
	offsets []mathutil.Vector2,
	distSq []float64,
	species config.SpeciesConfig,
	feedback config.FeedbackConfig,
	worldSize float64,
	dt float64,
) {
	accel := desired.Sub(a.Velocity).ClampLength(species.MaxAcceleration)
	a.Velocity = a.Velocity.Add(accel.Scale(dt)).ClampLength(species.BaseSpeed * a.Traits.Speed)
	a.Position = a.Position.Add(a.Velocity.Scale(dt))

	minSep := feedback.MinSeparationDistance
	if minSep > 0 && len(neighbors) > 0 {
		minSepSq := minSep * minSep
		push := mathutil.Zero
		count := 0
		for i := range neighbors {
			d2 := distSq[i]
			if d2 < minSepSq && d2 > 1e-12 {
				d := math.Sqrt(d2)
				overlap := minSep - d
				dir := offsets[i].Normalize().Scale(-1)
				push = push.Add(dir.Scale(overlap))
				count++
			}
		}
		if count > 0 {
			avg := push.Scale(1 / float64(count)).ClampLength(minSep * 0.5)
			a.Position = a.Position.Add(avg)
		}
	}

	for a.Position.X < 0 || a.Position.X > worldSize || a.Position.Y < 0 || a.Position.Y > worldSize {
		if a.Position.X < 0 {
			a.Position.X = -a.Position.X
			a.Velocity.X = -a.Velocity.X
		} else if a.Position.X > worldSize {
			a.Position.X = 2*worldSize - a.Position.X
			a.Velocity.X = -a.Velocity.X
		}
		if a.Position.Y < 0 {
			a.Position.Y = -a.Position.Y
			a.Velocity.Y = -a.Velocity.Y
		} else if a.Position.Y > worldSize {
			a.Position.Y = 2*worldSize - a.Position.Y
			a.Velocity.Y = -a.Velocity.Y
		}
	}

	if a.Velocity.LengthSquared() > 1e-8 {
		a.Heading = a.Velocity.Heading()
	}
	a.LastDesired = desired
}
