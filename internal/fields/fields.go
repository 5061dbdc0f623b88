// Package fields accumulates per-tick field events (food drops on
// death, danger pulses on flee, pheromone deposits on birth), flushes
// them into the environment grid, and drives the environment's own
// sub-tick cadence including the climate-noise food regen multiplier.
package fields

import (
	"math"

	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/environment"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

type pheromoneEventKey struct {
	cell    environment.CellKey
	groupID int
}

// PendingEvents holds the per-tick accumulators. Multiple events on the
// same key within a tick are merged by addition before flush.
type PendingEvents struct {
	food      map[environment.CellKey]float64
	danger    map[environment.CellKey]float64
	pheromone map[pheromoneEventKey]float64
}

// NewPendingEvents returns an empty set of accumulators.
func NewPendingEvents() *PendingEvents {
	return &PendingEvents{
		food:      make(map[environment.CellKey]float64),
		danger:    make(map[environment.CellKey]float64),
		pheromone: make(map[pheromoneEventKey]float64),
	}
}

// Clear empties every accumulator, keeping the maps allocated.
func (p *PendingEvents) Clear() {
	for k := range p.food {
		delete(p.food, k)
	}
	for k := range p.danger {
		delete(p.danger, k)
	}
	for k := range p.pheromone {
		delete(p.pheromone, k)
	}
}

// AddFood queues a food deposit at key.
func (p *PendingEvents) AddFood(key environment.CellKey, amount float64) {
	p.food[key] += amount
}

// AddDanger queues a danger pulse at key.
func (p *PendingEvents) AddDanger(key environment.CellKey, amount float64) {
	p.danger[key] += amount
}

// AddPheromone queues a pheromone deposit at (key, groupID).
func (p *PendingEvents) AddPheromone(key environment.CellKey, groupID int, amount float64) {
	p.pheromone[pheromoneEventKey{cell: key, groupID: groupID}] += amount
}

// Flush applies every accumulated event into grid, then clears.
func (p *PendingEvents) Flush(grid *environment.Grid) {
	for key, amount := range p.food {
		grid.AddFood(key, amount)
	}
	for key, amount := range p.danger {
		grid.AddDanger(key, amount)
	}
	for key, amount := range p.pheromone {
		grid.AddPheromone(key.cell, key.groupID, amount)
	}
	p.Clear()
}

// ClimateNoise drives the food regen multiplier: a target is redrawn
// from the climate RNG stream every interval seconds and the
// multiplier is exponentially smoothed toward it.
type ClimateNoise struct {
	cfg        config.EnvironmentConfig
	stream     *simrng.Stream
	target     float64
	current    float64
	sinceDraw  float64
	hasSampled bool
}

// NewClimateNoise constructs a climate-noise driver with an initial
// draw already taken so the first tick has a defined multiplier.
func NewClimateNoise(cfg config.EnvironmentConfig, stream *simrng.Stream) *ClimateNoise {
	n := &ClimateNoise{cfg: cfg, stream: stream, current: 1.0, target: 1.0}
	n.drawTarget()
	return n
}

func (n *ClimateNoise) active() bool {
	return n.cfg.FoodRegenNoiseAmplitude > 0 && n.cfg.FoodRegenNoiseIntervalSeconds > 0
}

func (n *ClimateNoise) drawTarget() {
	if !n.active() {
		n.target = 1.0
		return
	}
	lo := maxFloat(0, 1-n.cfg.FoodRegenNoiseAmplitude)
	hi := 1 + n.cfg.FoodRegenNoiseAmplitude
	n.target = n.stream.NextRange(lo, hi)
	n.sinceDraw = 0
	n.hasSampled = true
}

// Update advances the multiplier by dt seconds and returns its new
// value, clamped to [1-amplitude, 1+amplitude] (floored at 0).
func (n *ClimateNoise) Update(dt float64) float64 {
	if !n.active() {
		n.current = 1.0
		return n.current
	}
	n.sinceDraw += dt
	if !n.hasSampled || n.sinceDraw >= n.cfg.FoodRegenNoiseIntervalSeconds {
		n.drawTarget()
	}
	smooth := n.cfg.FoodRegenNoiseSmoothSeconds
	if smooth <= 0 {
		n.current = n.target
	} else {
		alpha := 1 - math.Exp(-dt/smooth)
		n.current += (n.target - n.current) * alpha
	}
	lo := maxFloat(0, 1-n.cfg.FoodRegenNoiseAmplitude)
	hi := 1 + n.cfg.FoodRegenNoiseAmplitude
	if n.current < lo {
		n.current = lo
	}
	if n.current > hi {
		n.current = hi
	}
	return n.current
}

// Accumulator drains accumulated simulation time in fixed envDt chunks,
// letting the environment sub-tick run at its own cadence while still
// being driven by the world clock.
type Accumulator struct {
	envDt       float64
	accumulated float64
}

// NewAccumulator constructs an accumulator draining in chunks of envDt.
func NewAccumulator(envDt float64) *Accumulator {
	return &Accumulator{envDt: envDt}
}

// TickEnvironment accumulates dt of simulation time and drains it in
// envDt chunks, each chunk pruning stale pheromones, updating the
// climate noise multiplier, and advancing the environment grid.
func (a *Accumulator) TickEnvironment(grid *environment.Grid, noise *ClimateNoise, activeGroups map[int]bool, dt float64) {
	a.accumulated += dt
	for a.accumulated >= a.envDt {
		grid.PrunePheromones(activeGroups)
		mult := noise.Update(a.envDt)
		grid.SetFoodRegenMultiplier(mult)
		grid.Tick(a.envDt)
		a.accumulated -= a.envDt
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
