// Package environment implements the per-cell food, pheromone, and
// danger fields: lazy cell instantiation, orthogonal diffusion and
// decay, regeneration toward per-cell maxima under a climate-noise
// multiplier, and gradient sampling for steering.
package environment

import (
	"math"

	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
)

// CellKey identifies one cell of the environment grid. Distinct from
// spatial.CellKey: this key is always clamped into [0, maxIndex-1] on
// both axes, since the environment grid has a fixed finite extent.
type CellKey struct {
	X int
	Y int
}

type pheromoneKey struct {
	cell    CellKey
	groupID int
}

// FoodCell is one lazily-instantiated food cell.
type FoodCell struct {
	Value float64
	Max   float64
	Regen float64
}

// Grid holds the food, pheromone, and danger fields.
type Grid struct {
	cellSize        float64
	worldSize       float64
	maxIndex        int
	cfg             config.EnvironmentConfig
	food            map[CellKey]*FoodCell
	pheromone       map[pheromoneKey]float64
	danger          map[CellKey]float64
	regenMultiplier float64
}

// New constructs a grid sized to cover [0, worldSize] with cells of
// side cellSize.
func New(cellSize, worldSize float64, cfg config.EnvironmentConfig) *Grid {
	maxIndex := int(math.Ceil(worldSize / cellSize))
	if maxIndex < 1 {
		maxIndex = 1
	}
	return &Grid{
		cellSize:        cellSize,
		worldSize:       worldSize,
		maxIndex:        maxIndex,
		cfg:             cfg,
		food:            make(map[CellKey]*FoodCell),
		pheromone:       make(map[pheromoneKey]float64),
		danger:          make(map[CellKey]float64),
		regenMultiplier: 1.0,
	}
}

// Reset clears every field back to empty.
func (g *Grid) Reset() {
	g.food = make(map[CellKey]*FoodCell)
	g.pheromone = make(map[pheromoneKey]float64)
	g.danger = make(map[CellKey]float64)
	g.regenMultiplier = 1.0
}

func (g *Grid) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= g.maxIndex {
		return g.maxIndex - 1
	}
	return i
}

// CellKeyOf clamps position into [0, worldSize] on both axes and
// returns the clamped cell index.
func (g *Grid) CellKeyOf(position mathutil.Vector2) CellKey {
	x := mathutil.Clamp(position.X, 0, g.worldSize)
	y := mathutil.Clamp(position.Y, 0, g.worldSize)
	return CellKey{
		X: g.clampIndex(int(math.Floor(x / g.cellSize))),
		Y: g.clampIndex(int(math.Floor(y / g.cellSize))),
	}
}

// AddKey returns the neighbor of key offset by (dx, dy), clamped to the
// grid extent. Stepping off the edge samples the edge cell itself -
// this is the gradient boundary policy.
func (g *Grid) AddKey(key CellKey, dx, dy int) CellKey {
	return CellKey{X: g.clampIndex(key.X + dx), Y: g.clampIndex(key.Y + dy)}
}

func (g *Grid) patchFor(key CellKey) *config.ResourcePatchConfig {
	cx := (float64(key.X) + 0.5) * g.cellSize
	cy := (float64(key.Y) + 0.5) * g.cellSize
	for i := range g.cfg.ResourcePatches {
		p := &g.cfg.ResourcePatches[i]
		dx := cx - p.PositionX
		dy := cy - p.PositionY
		if dx*dx+dy*dy <= p.Radius*p.Radius {
			return p
		}
	}
	return nil
}

func (g *Grid) newFoodCell(key CellKey) *FoodCell {
	max := g.cfg.FoodPerCell
	regen := g.cfg.FoodRegenPerSecond
	initial := math.Min(max, 0.8*max)
	if patch := g.patchFor(key); patch != nil {
		max = patch.ResourcePerCell
		regen = patch.RegenPerSecond
		initial = patch.InitialResource
	}
	return &FoodCell{Value: initial, Max: max, Regen: regen}
}

// SampleFood creates the cell if needed and returns its current value.
func (g *Grid) SampleFood(key CellKey) float64 {
	cell, ok := g.food[key]
	if !ok {
		cell = g.newFoodCell(key)
		g.food[key] = cell
	}
	return cell.Value
}

// PeekFood returns the cell's value, or 0 if it does not yet exist,
// without creating it.
func (g *Grid) PeekFood(key CellKey) float64 {
	if cell, ok := g.food[key]; ok {
		return cell.Value
	}
	return 0
}

// ConsumeFood subtracts amt from the cell, clamped at 0, creating the
// cell first if needed.
func (g *Grid) ConsumeFood(key CellKey, amt float64) {
	cell, ok := g.food[key]
	if !ok {
		cell = g.newFoodCell(key)
		g.food[key] = cell
	}
	cell.Value = math.Max(0, cell.Value-amt)
}

// AddFood increases the cell's value, clamped at its max, creating the
// cell first if needed.
func (g *Grid) AddFood(key CellKey, amt float64) {
	cell, ok := g.food[key]
	if !ok {
		cell = g.newFoodCell(key)
		g.food[key] = cell
	}
	cell.Value = math.Min(cell.Max, cell.Value+amt)
}

// SamplePheromone returns 0 for a missing entry.
func (g *Grid) SamplePheromone(key CellKey, groupID int) float64 {
	return g.pheromone[pheromoneKey{cell: key, groupID: groupID}]
}

// AddPheromone increments the (cell, group) entry.
func (g *Grid) AddPheromone(key CellKey, groupID int, amt float64) {
	g.pheromone[pheromoneKey{cell: key, groupID: groupID}] += amt
}

// SampleDanger returns 0 for a missing entry.
func (g *Grid) SampleDanger(key CellKey) float64 {
	return g.danger[key]
}

// AddDanger increments the cell's danger value.
func (g *Grid) AddDanger(key CellKey, amt float64) {
	g.danger[key] += amt
}

// SetFoodRegenMultiplier installs the climate-noise multiplier applied
// to food regeneration during the next Tick.
func (g *Grid) SetFoodRegenMultiplier(mult float64) {
	g.regenMultiplier = mult
}

// FoodGradient returns (right-left, up-down) using the four orthogonal
// neighbor cells of key, with boundary cells sampling themselves.
func (g *Grid) FoodGradient(key CellKey) mathutil.Vector2 {
	right := g.PeekFood(g.AddKey(key, 1, 0))
	left := g.PeekFood(g.AddKey(key, -1, 0))
	up := g.PeekFood(g.AddKey(key, 0, 1))
	down := g.PeekFood(g.AddKey(key, 0, -1))
	return mathutil.Vector2{X: right - left, Y: up - down}
}

// PheromoneGradient is the pheromone analogue of FoodGradient.
func (g *Grid) PheromoneGradient(key CellKey, groupID int) mathutil.Vector2 {
	right := g.SamplePheromone(g.AddKey(key, 1, 0), groupID)
	left := g.SamplePheromone(g.AddKey(key, -1, 0), groupID)
	up := g.SamplePheromone(g.AddKey(key, 0, 1), groupID)
	down := g.SamplePheromone(g.AddKey(key, 0, -1), groupID)
	return mathutil.Vector2{X: right - left, Y: up - down}
}

// DangerGradient is the danger analogue of FoodGradient.
func (g *Grid) DangerGradient(key CellKey) mathutil.Vector2 {
	right := g.SampleDanger(g.AddKey(key, 1, 0))
	left := g.SampleDanger(g.AddKey(key, -1, 0))
	up := g.SampleDanger(g.AddKey(key, 0, 1))
	down := g.SampleDanger(g.AddKey(key, 0, -1))
	return mathutil.Vector2{X: right - left, Y: up - down}
}

const dropThreshold = 1e-4

// Tick advances the environment by dt seconds: food regen, then
// diffusion+decay of food, danger, and pheromone using the same
// 4-neighbor orthogonal scheme.
func (g *Grid) Tick(dt float64) {
	g.regenFood(dt)
	g.diffuseFood(dt)
	g.diffuseDanger(dt)
	g.diffusePheromone(dt)
}

func (g *Grid) regenFood(dt float64) {
	for _, cell := range g.food {
		cell.Value = math.Min(cell.Max, cell.Value+cell.Regen*g.regenMultiplier*dt)
	}
}

func (g *Grid) diffuseFood(dt float64) {
	if len(g.food) == 0 {
		return
	}
	type delta struct {
		key   CellKey
		value float64
	}
	var deltas []delta
	for key, cell := range g.food {
		decayed := cell.Value * math.Max(0, 1-g.cfg.FoodDecayRate*dt)
		spread := decayed * math.Min(1, g.cfg.FoodDiffusionRate*dt)
		cell.Value = decayed - spread
		if spread <= 0 {
			continue
		}
		share := spread / 4
		deltas = append(deltas,
			delta{g.AddKey(key, 1, 0), share},
			delta{g.AddKey(key, -1, 0), share},
			delta{g.AddKey(key, 0, 1), share},
			delta{g.AddKey(key, 0, -1), share},
		)
	}
	for _, d := range deltas {
		g.AddFood(d.key, d.value)
	}
	for key, cell := range g.food {
		if cell.Value < dropThreshold {
			delete(g.food, key)
		}
	}
}

func (g *Grid) diffuseDanger(dt float64) {
	if len(g.danger) == 0 {
		return
	}
	decayRate := g.cfg.DangerDecayRate
	diffusionRate := g.cfg.DangerDiffusionRate
	type delta struct {
		key   CellKey
		value float64
	}
	var deltas []delta
	for key, value := range g.danger {
		decayed := value * math.Max(0, 1-decayRate*dt)
		spread := decayed * math.Min(1, diffusionRate*dt)
		g.danger[key] = decayed - spread
		if spread <= 0 {
			continue
		}
		share := spread / 4
		deltas = append(deltas,
			delta{g.AddKey(key, 1, 0), share},
			delta{g.AddKey(key, -1, 0), share},
			delta{g.AddKey(key, 0, 1), share},
			delta{g.AddKey(key, 0, -1), share},
		)
	}
	for _, d := range deltas {
		g.danger[d.key] += d.value
	}
	for key, value := range g.danger {
		if value < 1e-5 {
			delete(g.danger, key)
		}
	}
}

func (g *Grid) diffusePheromone(dt float64) {
	if len(g.pheromone) == 0 {
		return
	}
	decayRate := g.cfg.PheromoneDecayRate
	diffusionRate := g.cfg.PheromoneDiffusionRate
	type delta struct {
		key   pheromoneKey
		value float64
	}
	var deltas []delta
	for key, value := range g.pheromone {
		decayed := value * math.Max(0, 1-decayRate*dt)
		spread := decayed * math.Min(1, diffusionRate*dt)
		g.pheromone[key] = decayed - spread
		if spread <= 0 {
			continue
		}
		share := spread / 4
		deltas = append(deltas,
			delta{pheromoneKey{g.AddKey(key.cell, 1, 0), key.groupID}, share},
			delta{pheromoneKey{g.AddKey(key.cell, -1, 0), key.groupID}, share},
			delta{pheromoneKey{g.AddKey(key.cell, 0, 1), key.groupID}, share},
			delta{pheromoneKey{g.AddKey(key.cell, 0, -1), key.groupID}, share},
		)
	}
	for _, d := range deltas {
		g.pheromone[d.key] += d.value
	}
	for key, value := range g.pheromone {
		if value < 1e-5 {
			delete(g.pheromone, key)
		}
	}
}

// PrunePheromones removes every pheromone entry whose group id is not
// present in activeGroups.
func (g *Grid) PrunePheromones(activeGroups map[int]bool) {
	for key := range g.pheromone {
		if !activeGroups[key.groupID] {
			delete(g.pheromone, key)
		}
	}
}

// TotalFood returns the sum of every food cell's value, used by the
// mass-conservation test property.
func (g *Grid) TotalFood() float64 {
	total := 0.0
	for _, cell := range g.food {
		total += cell.Value
	}
	return total
}

// FoodCells returns a snapshot-ready copy of every food cell's
// (x, y, value) in cell coordinates.
func (g *Grid) FoodCells() []FoodCellExport {
	out := make([]FoodCellExport, 0, len(g.food))
	for key, cell := range g.food {
		out = append(out, FoodCellExport{X: key.X, Y: key.Y, Value: cell.Value})
	}
	return out
}

// FoodCellExport is one cell of the exported food field.
type FoodCellExport struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Value float64 `json:"value"`
}

// StrongestPheromonePerCell returns, for every cell holding at least one
// pheromone entry, only the strongest group's value - matching the
// snapshot contract's "at most one group per cell" export rule.
func (g *Grid) StrongestPheromonePerCell() []PheromoneCellExport {
	best := make(map[CellKey]PheromoneCellExport)
	for key, value := range g.pheromone {
		if current, ok := best[key.cell]; !ok || value > current.Value {
			best[key.cell] = PheromoneCellExport{X: key.cell.X, Y: key.cell.Y, Value: value, Group: key.groupID}
		}
	}
	out := make([]PheromoneCellExport, 0, len(best))
	for _, v := range best {
		out = append(out, v)
	}
	return out
}

// PheromoneCellExport is one cell of the exported pheromone field.
type PheromoneCellExport struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Value float64 `json:"value"`
	Group int     `json:"group"`
}

// Resolution returns the number of cells along one axis.
func (g *Grid) Resolution() int {
	return g.maxIndex
}

// CellSize returns the configured cell size.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}
