package spatial

import (
	"testing"

	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
)

func TestInsertAndCollectNeighbors(t *testing.T) {
	g := New(2.0)
	a1 := &agent.Agent{ID: 1, Position: mathutil.Vector2{X: 1, Y: 1}}
	a2 := &agent.Agent{ID: 2, Position: mathutil.Vector2{X: 1.5, Y: 1}}
	a3 := &agent.Agent{ID: 3, Position: mathutil.Vector2{X: 50, Y: 50}}
	g.Insert(a1)
	g.Insert(a2)
	g.Insert(a3)

	offsets := g.BuildNeighborCellOffsets(5.0)
	var outAgents []*agent.Agent
	var outOffsets []mathutil.Vector2
	var outDist []float64
	n := g.CollectNeighbors(a1.Position, offsets, 25.0, a1.ID, &outAgents, &outOffsets, &outDist)
	if n != 1 {
		t.Fatalf("expected 1 neighbor (a2), got %d", n)
	}
	if outAgents[0].ID != 2 {
		t.Fatalf("expected neighbor id 2, got %d", outAgents[0].ID)
	}
}

func TestClearPreservesCapacityButEmptiesBuckets(t *testing.T) {
	g := New(2.0)
	a1 := &agent.Agent{ID: 1, Position: mathutil.Vector2{X: 1, Y: 1}}
	g.Insert(a1)
	g.Clear()
	if c := cap(g.buckets[g.CellKeyOf(a1.Position)]); c == 0 {
		t.Fatalf("expected Clear to keep the bucket's capacity, got cap %d", c)
	}
	offsets := g.BuildNeighborCellOffsets(5.0)
	var outAgents []*agent.Agent
	var outOffsets []mathutil.Vector2
	n := g.CollectNeighbors(a1.Position, offsets, 25.0, -1, &outAgents, &outOffsets, nil)
	if n != 0 {
		t.Fatalf("expected 0 neighbors after Clear, got %d", n)
	}
}

func TestCellKeyOfClampsNegative(t *testing.T) {
	g := New(2.0)
	key := g.CellKeyOf(mathutil.Vector2{X: -5, Y: -5})
	if key.X < 0 || key.Y < 0 {
		t.Fatalf("CellKeyOf should clamp to non-negative, got %+v", key)
	}
}
