// Package metrics defines the per-tick aggregate metrics and the
// richer snapshot payload exported to an external driver.
package metrics

import (
	"github.com/GoCodeAlone/terrarium/internal/agent"
	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/environment"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
)

// TickMetrics is the lightweight value returned by every step, cheap
// enough to compute and compare on every tick.
type TickMetrics struct {
	Tick            uint64  `json:"tick"`
	Population      int     `json:"population"`
	Births          int     `json:"births"`
	Deaths          int     `json:"deaths"`
	AverageEnergy   float64 `json:"average_energy"`
	AverageAge      float64 `json:"average_age"`
	Groups          int     `json:"groups"`
	NeighborChecks  int     `json:"neighbor_checks"`
	Ungrouped       int     `json:"ungrouped"`
	TickDurationMs  float64 `json:"tick_duration_ms"`
}

// AgentView is one alive agent's exported state, matching the snapshot
// contract's field list.
type AgentView struct {
	ID              int     `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	VX              float64 `json:"vx"`
	VY              float64 `json:"vy"`
	Group           int     `json:"group"`
	BehaviorState   string  `json:"behavior_state"`
	Phase           string  `json:"phase"`
	Age             float64 `json:"age"`
	Energy          float64 `json:"energy"`
	Size            float64 `json:"size"`
	IsAlive         bool    `json:"is_alive"`
	Speed           float64 `json:"speed"`
	Heading         float64 `json:"heading"`
	LineageID       int     `json:"lineage_id"`
	Generation      int     `json:"generation"`
	TraitSpeed      float64 `json:"trait_speed"`
	AppearanceH     float64 `json:"appearance_h"`
	AppearanceS     float64 `json:"appearance_s"`
	AppearanceL     float64 `json:"appearance_l"`
	AppearanceSeed  int     `json:"appearance_seed"`
	Importance      float64 `json:"importance"`
}

// NewAgentView derives one agent's exported view. size is clamped to
// [0.1, 1.0] and grows with both maturity and energy relative to the
// reproduction threshold.
func NewAgentView(a *agent.Agent, species config.SpeciesConfig) AgentView {
	maturity := 0.0
	if species.AdultAge > 0 {
		maturity = mathutil.Clamp(a.Age/species.AdultAge, 0, 1)
	}
	energyFrac := 0.0
	if species.ReproductionEnergyThreshold > 0 {
		energyFrac = mathutil.Clamp(a.Energy/species.ReproductionEnergyThreshold, 0, 1)
	}
	size := mathutil.Clamp(0.1+0.9*(0.5*maturity+0.5*energyFrac), 0.1, 1.0)

	phase := "loop"
	if !a.Alive {
		phase = "end"
	}

	return AgentView{
		ID:             a.ID,
		X:              a.Position.X,
		Y:              a.Position.Y,
		VX:             a.Velocity.X,
		VY:             a.Velocity.Y,
		Group:          a.GroupID,
		BehaviorState:  string(a.State),
		Phase:          phase,
		Age:            a.Age,
		Energy:         a.Energy,
		Size:           size,
		IsAlive:        a.Alive,
		Speed:          a.Velocity.Length(),
		Heading:        a.Heading,
		LineageID:      a.LineageID,
		Generation:     a.Generation,
		TraitSpeed:     a.Traits.Speed,
		AppearanceH:    a.Appearance.H,
		AppearanceS:    a.Appearance.S,
		AppearanceL:    a.Appearance.L,
		AppearanceSeed: a.ID,
		Importance:     1.0,
	}
}

// FoodFieldView is the exported food field.
type FoodFieldView struct {
	Cells      []environment.FoodCellExport `json:"cells"`
	Resolution int                          `json:"resolution"`
	CellSize   float64                      `json:"cell_size"`
}

// PheromoneFieldView is the exported pheromone field, at most one
// (strongest) group per cell.
type PheromoneFieldView struct {
	Cells      []environment.PheromoneCellExport `json:"cells"`
	Resolution int                               `json:"resolution"`
	CellSize   float64                           `json:"cell_size"`
}

// FieldsView bundles every exported field.
type FieldsView struct {
	Food       FoodFieldView      `json:"food"`
	Pheromones PheromoneFieldView `json:"pheromones"`
}

// WorldView reports the world's static extent.
type WorldView struct {
	Size float64 `json:"size"`
}

// SnapshotMetadata carries the run's static identity alongside every
// snapshot so a driver can label it without holding onto the config.
type SnapshotMetadata struct {
	WorldSize     float64 `json:"world_size"`
	SimDt         float64 `json:"sim_dt"`
	TickRate      float64 `json:"tick_rate"`
	Seed          uint64  `json:"seed"`
	ConfigVersion string  `json:"config_version"`
}

// NewSnapshotMetadata derives the metadata block from the root config.
// TickRate is 1/sim_dt, or 0 if sim_dt is non-positive.
func NewSnapshotMetadata(root *config.Config) SnapshotMetadata {
	rate := 0.0
	if root.TimeStep > 0 {
		rate = 1.0 / root.TimeStep
	}
	return SnapshotMetadata{
		WorldSize:     root.WorldSize,
		SimDt:         root.TimeStep,
		TickRate:      rate,
		Seed:          root.Seed,
		ConfigVersion: root.ConfigVersion,
	}
}

// Snapshot is the full per-tick export: metrics, every alive agent,
// world extent, static metadata, and the environment fields.
type Snapshot struct {
	Tick     uint64           `json:"tick"`
	Metrics  TickMetrics      `json:"metrics"`
	Agents   []AgentView      `json:"agents"`
	World    WorldView        `json:"world"`
	Metadata SnapshotMetadata `json:"metadata"`
	Fields   FieldsView       `json:"fields"`
}

// NewFieldsView reads the environment grid's current food and
// pheromone cells into their export form.
func NewFieldsView(env *environment.Grid) FieldsView {
	return FieldsView{
		Food: FoodFieldView{
			Cells:      env.FoodCells(),
			Resolution: env.Resolution(),
			CellSize:   env.CellSize(),
		},
		Pheromones: PheromoneFieldView{
			Cells:      env.StrongestPheromonePerCell(),
			Resolution: env.Resolution(),
			CellSize:   env.CellSize(),
		},
	}
}
