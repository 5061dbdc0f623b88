// Package spatial implements the uniform-cell bucketed spatial index
// used for agent neighbor queries.
package spatial

import (
	"math"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
)

// CellKey identifies one bucket of the grid.
type CellKey struct {
	X int
	Y int
}

// Offset is a precomputed (dx, dy) cell-offset pair.
type Offset struct {
	DX int
	DY int
}

// Grid is a uniform-cell bucketed spatial index over agent positions.
type Grid struct {
	cellSize   float64
	buckets    map[CellKey][]*agent.Agent
	activeKeys []CellKey
}

// New constructs an empty grid with the given cell size.
func New(cellSize float64) *Grid {
	return &Grid{
		cellSize: cellSize,
		buckets:  make(map[CellKey][]*agent.Agent),
	}
}

// BuildNeighborCellOffsets precomputes the square offset pattern
// spanning ceil(radius/cellSize) cells in each direction.
func (g *Grid) BuildNeighborCellOffsets(radius float64) []Offset {
	cellRange := int(math.Ceil(radius / g.cellSize))
	offsets := make([]Offset, 0, (2*cellRange+1)*(2*cellRange+1))
	for dx := -cellRange; dx <= cellRange; dx++ {
		for dy := -cellRange; dy <= cellRange; dy++ {
			offsets = append(offsets, Offset{DX: dx, DY: dy})
		}
	}
	return offsets
}

// Clear empties every previously active bucket while preserving their
// allocated capacity, then forgets which buckets were active.
func (g *Grid) Clear() {
	for _, key := range g.activeKeys {
		if bucket, ok := g.buckets[key]; ok {
			g.buckets[key] = bucket[:0]
		}
	}
	g.activeKeys = g.activeKeys[:0]
}

// CellKeyOf returns the cell key containing position, clamped
// defensively to a non-negative index so an out-of-bounds position
// (a programmer bug per the design notes) never panics.
func (g *Grid) CellKeyOf(position mathutil.Vector2) CellKey {
	x := int(math.Floor(position.X / g.cellSize))
	y := int(math.Floor(position.Y / g.cellSize))
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return CellKey{X: x, Y: y}
}

// Insert places a into the bucket containing its current position.
func (g *Grid) Insert(a *agent.Agent) {
	key := g.CellKeyOf(a.Position)
	bucket, ok := g.buckets[key]
	if !ok {
		g.activeKeys = append(g.activeKeys, key)
	} else if len(bucket) == 0 {
		g.activeKeys = append(g.activeKeys, key)
	}
	g.buckets[key] = append(bucket, a)
}

// CollectNeighbors fills outAgents, outOffsets, and outDistSq (all
// caller-owned, reused across calls) with every agent within radiusSq
// of position, using the precomputed cell offset pattern. excludeID, if
// non-negative, is skipped. Returns the number of neighbors found.
func (g *Grid) CollectNeighbors(
	position mathutil.Vector2,
	cellOffsets []Offset,
	radiusSq float64,
	excludeID int,
	outAgents *[]*agent.Agent,
	outOffsets *[]mathutil.Vector2,
	outDistSq *[]float64,
) int {
	*outAgents = (*outAgents)[:0]
	*outOffsets = (*outOffsets)[:0]
	if outDistSq != nil {
		*outDistSq = (*outDistSq)[:0]
	}
	base := g.CellKeyOf(position)
	for _, off := range cellOffsets {
		key := CellKey{X: base.X + off.DX, Y: base.Y + off.DY}
		bucket, ok := g.buckets[key]
		if !ok {
			continue
		}
		for _, other := range bucket {
			if other.ID == excludeID {
				continue
			}
			offsetX := other.Position.X - position.X
			offsetY := other.Position.Y - position.Y
			distSq := offsetX*offsetX + offsetY*offsetY
			if distSq <= radiusSq {
				*outAgents = append(*outAgents, other)
				*outOffsets = append(*outOffsets, mathutil.Vector2{X: offsetX, Y: offsetY})
				if outDistSq != nil {
					*outDistSq = append(*outDistSq, distSq)
				}
			}
		}
	}
	return len(*outAgents)
}
