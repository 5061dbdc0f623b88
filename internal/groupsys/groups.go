// Package groupsys implements the group membership state machine:
// formation, adoption, detachment, switching, and splitting, plus the
// group-base (founding location) registry.
package groupsys

import (
	"math"
	"sort"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/idalloc"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

// Registry is the world-owned map from group id to founding location.
type Registry struct {
	bases map[int]mathutil.Vector2
}

// NewRegistry returns an empty group-base registry.
func NewRegistry() *Registry {
	return &Registry{bases: make(map[int]mathutil.Vector2)}
}

// Reset empties the registry.
func (r *Registry) Reset() {
	r.bases = make(map[int]mathutil.Vector2)
}

// RegisterBase records position as groupID's base, first-write-wins.
func (r *Registry) RegisterBase(groupID int, position mathutil.Vector2) {
	if _, exists := r.bases[groupID]; !exists {
		r.bases[groupID] = position
	}
}

// BaseOf returns groupID's founding location, if registered.
func (r *Registry) BaseOf(groupID int) (mathutil.Vector2, bool) {
	pos, ok := r.bases[groupID]
	return pos, ok
}

// Bases returns every registered group id, for diagnostics and testing.
// Callers must not mutate the returned map.
func (r *Registry) Bases() map[int]mathutil.Vector2 {
	return r.bases
}

// Prune removes every group base whose group id is not in activeGroups.
func (r *Registry) Prune(activeGroups map[int]bool) {
	for gid := range r.bases {
		if !activeGroups[gid] {
			delete(r.bases, gid)
		}
	}
}

// NearestWithin returns the nearest registered base within radius of
// position, if any.
func (r *Registry) NearestWithin(position mathutil.Vector2, radius float64) (int, bool) {
	radiusSq := radius * radius
	bestGroup := idalloc.UngroupedID
	bestDistSq := math.MaxFloat64
	found := false
	for gid, base := range r.bases {
		d := base.Sub(position).LengthSquared()
		if d <= radiusSq && d < bestDistSq {
			bestDistSq = d
			bestGroup = gid
			found = true
		}
	}
	return bestGroup, found
}

// DecayCooldown reduces an agent's group cooldown by dt, floored at 0.
func DecayCooldown(a *agent.Agent, dt float64) {
	a.GroupCooldown = math.Max(0, a.GroupCooldown-dt)
}

// SetGroup assigns newGroup to a, resetting its loneliness timer and,
// for a non-UNGROUPED destination, applying the merge cooldown.
func SetGroup(a *agent.Agent, newGroup int, cfg config.FeedbackConfig) {
	a.GroupLonelySeconds = 0
	if newGroup != idalloc.UngroupedID && cfg.GroupMergeCooldownSeconds > 0 {
		a.GroupCooldown = math.Max(a.GroupCooldown, cfg.GroupMergeCooldownSeconds)
	}
	a.GroupID = newGroup
}

func score(count int, kinBias float64, kinCount int) float64 {
	return float64(count) + (kinBias-1)*float64(kinCount)
}

// majorityGroup returns the neighboring group with the highest
// count+(kinBias-1)*kinCount score, excluding exclude, and the winning
// group's raw neighbor count.
func majorityGroup(a *agent.Agent, neighbors []*agent.Agent, exclude int) (int, int) {
	counts := make(map[int]int)
	kinCounts := make(map[int]int)
	for _, n := range neighbors {
		if n.GroupID == idalloc.UngroupedID || n.GroupID == exclude {
			continue
		}
		counts[n.GroupID]++
		if n.LineageID == a.LineageID {
			kinCounts[n.GroupID]++
		}
	}
	bestGroup := idalloc.UngroupedID
	bestScore := -1.0
	bestCount := 0
	// iterate group ids in ascending order for deterministic tie-breaks
	ids := make([]int, 0, len(counts))
	for gid := range counts {
		ids = append(ids, gid)
	}
	sort.Ints(ids)
	for _, gid := range ids {
		s := score(counts[gid], a.Traits.KinBias, kinCounts[gid])
		if s > bestScore {
			bestScore = s
			bestGroup = gid
			bestCount = counts[gid]
		}
	}
	return bestGroup, bestCount
}

// recruitSplitNeighbors returns up to count of the closest neighbors
// that were in oldGroup, sorted by distance.
func recruitSplitNeighbors(neighbors []*agent.Agent, distSq []float64, oldGroup int, count int) []*agent.Agent {
	type candidate struct {
		a *agent.Agent
		d float64
	}
	var candidates []candidate
	for i, n := range neighbors {
		if n.GroupID == oldGroup {
			candidates = append(candidates, candidate{a: n, d: distSq[i]})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].d < candidates[j].d })
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	out := make([]*agent.Agent, len(candidates))
	for i, c := range candidates {
		out[i] = c.a
	}
	return out
}

// UpdateMembership runs the full per-agent group state machine for one
// tick: cooldown decay, loneliness/detach/switch, formation, adoption,
// base-seeking, and splitting.
func UpdateMembership(
	a *agent.Agent,
	neighbors []*agent.Agent,
	offsets []mathutil.Vector2,
	distSq []float64,
	groupSizes map[int]int,
	cfg config.FeedbackConfig,
	alloc *idalloc.Allocator,
	registry *Registry,
	rng *simrng.Stream,
	canFormGroups bool,
	dt float64,
) {
	DecayCooldown(a, dt)

	originalGroup := a.GroupID

	if a.GroupID == idalloc.UngroupedID {
		a.GroupLonelySeconds = 0
	} else {
		close := 0
		detachRadiusSq := cfg.GroupDetachRadius * cfg.GroupDetachRadius
		for i := range neighbors {
			if distSq[i] <= detachRadiusSq {
				close++
			}
		}
		if close >= cfg.GroupDetachCloseNeighborThreshold {
			a.GroupLonelySeconds = 0
		} else {
			a.GroupLonelySeconds += dt
		}
		effectiveDetach := cfg.GroupDetachAfterSeconds * a.Traits.Loyalty
		if a.GroupLonelySeconds >= effectiveDetach {
			candidate, candidateCount := majorityGroup(a, neighbors, a.GroupID)
			switchChance := math.Min(1, cfg.GroupSwitchChance/math.Max(0.1, a.Traits.Loyalty))
			switch {
			case candidate != idalloc.UngroupedID && candidateCount >= cfg.GroupAdoptionNeighborThreshold && rng.NextFloat() < switchChance:
				SetGroup(a, candidate, cfg)
			case canFormGroups && rng.NextFloat() < mathutil.Clamp(cfg.GroupDetachNewGroupChance*a.Traits.Founder, 0, 1):
				newGroup := alloc.NextGroupID()
				registry.RegisterBase(newGroup, a.Position)
				SetGroup(a, newGroup, cfg)
			default:
				SetGroup(a, idalloc.UngroupedID, cfg)
			}
			a.GroupLonelySeconds = 0
		}
	}

	if canFormGroups && a.GroupID == idalloc.UngroupedID {
		ungroupedCount := 0
		for _, n := range neighbors {
			if n.GroupID == idalloc.UngroupedID {
				ungroupedCount++
			}
		}
		if ungroupedCount >= cfg.GroupFormationNeighborThreshold && rng.NextFloat() < cfg.GroupFormationChance {
			newGroup := alloc.NextGroupID()
			registry.RegisterBase(newGroup, a.Position)
			SetGroup(a, newGroup, cfg)
			adopted := 0
			maxAdopt := cfg.GroupFormationNeighborThreshold + 2
			for _, n := range neighbors {
				if adopted >= maxAdopt {
					break
				}
				if n.GroupID == idalloc.UngroupedID {
					SetGroup(n, newGroup, cfg)
					adopted++
				}
			}
		}
	}

	if a.GroupCooldown <= 0 && a.GroupID == originalGroup {
		sameCount := 0
		if a.GroupID != idalloc.UngroupedID {
			for _, n := range neighbors {
				if n.GroupID == a.GroupID {
					sameCount++
				}
			}
		}
		guardBlocks := a.GroupID != idalloc.UngroupedID && sameCount >= cfg.GroupAdoptionGuardMinAllies
		if !guardBlocks {
			candidate, candidateCount := majorityGroup(a, neighbors, a.GroupID)
			if candidate != idalloc.UngroupedID {
				size := groupSizes[candidate]
				if size < 1 {
					size = 1
				}
				effectiveThreshold := cfg.GroupAdoptionNeighborThreshold
				if size < effectiveThreshold {
					effectiveThreshold = size
				}
				if candidateCount >= effectiveThreshold {
					chance := cfg.GroupAdoptionChance * (1 + cfg.GroupSmallGroupBonus/float64(size)) * a.Traits.Sociality
					if a.GroupID != idalloc.UngroupedID {
						chance /= math.Max(0.1, a.Traits.Loyalty)
					}
					chance = mathutil.Clamp(chance, 0, 1)
					if rng.NextFloat() < chance {
						SetGroup(a, candidate, cfg)
					}
				}
			}
		}
	}

	if a.GroupID == idalloc.UngroupedID {
		if baseGroup, found := registry.NearestWithin(a.Position, 1.5*cfg.GroupSeekRadius); found {
			if rng.NextFloat() < cfg.GroupAdoptionChance {
				SetGroup(a, baseGroup, cfg)
			}
		}
	}

	if a.GroupID != idalloc.UngroupedID && a.GroupID == originalGroup {
		same := 0
		for _, n := range neighbors {
			if n.GroupID == a.GroupID {
				same++
			}
		}
		if same >= cfg.GroupSplitNeighborThreshold {
			stressTerm := a.Stress + float64(same)*cfg.GroupSplitSizeStressWeight
			if stressTerm >= cfg.GroupSplitStressThreshold {
				excess := same - cfg.GroupSplitNeighborThreshold
				splitChance := mathutil.Clamp(
					cfg.GroupSplitChance+float64(excess)*cfg.GroupSplitSizeBonusPerNeighbor,
					0, cfg.GroupSplitChanceMax)
				if rng.NextFloat() < splitChance {
					oldGroup := a.GroupID
					if canFormGroups && rng.NextFloat() < mathutil.Clamp(cfg.GroupSplitNewGroupChance*a.Traits.Founder, 0, 1) {
						newGroup := alloc.NextGroupID()
						registry.RegisterBase(newGroup, a.Position)
						SetGroup(a, newGroup, cfg)
						recruits := recruitSplitNeighbors(neighbors, distSq, oldGroup, cfg.GroupSplitRecruitmentCount)
						for _, r := range recruits {
							SetGroup(r, newGroup, cfg)
						}
					} else {
						SetGroup(a, idalloc.UngroupedID, cfg)
					}
				}
			}
		}
	}
}
