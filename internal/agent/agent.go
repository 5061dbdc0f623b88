// Package agent defines the per-organism data model: behavior state,
// evolvable traits, appearance, and the Agent record itself.
package agent

import "github.com/GoCodeAlone/terrarium/internal/mathutil"

// State is the agent's current dominant behavior.
type State string

// The five recognized behavior states.
const (
	Idle        State = "Idle"
	SeekingFood State = "SeekingFood"
	SeekingMate State = "SeekingMate"
	Flee        State = "Flee"
	Wander      State = "Wander"
)

// Traits holds the bounded, evolvable parameters that differentiate
// agents from the species baseline.
type Traits struct {
	Speed             float64
	Metabolism        float64
	DiseaseResistance float64
	Fertility         float64
	Sociality         float64
	Territoriality    float64
	Loyalty           float64
	Founder           float64
	KinBias           float64
}

// DefaultTraits returns the neutral (all-1.0) trait set used before any
// evolutionary drift has occurred.
func DefaultTraits() Traits {
	return Traits{
		Speed: 1, Metabolism: 1, DiseaseResistance: 1, Fertility: 1,
		Sociality: 1, Territoriality: 1, Loyalty: 1, Founder: 1, KinBias: 1,
	}
}

// Appearance is an HSL color: hue in [0,360), saturation and lightness
// in [0,1].
type Appearance struct {
	H float64
	S float64
	L float64
}

// Agent is a single organism. It is exclusively owned by the world;
// every other structure (spatial grid buckets, neighbor buffers) holds
// a reference that does not outlive the tick.
type Agent struct {
	ID         int
	Generation int
	GroupID    int
	LineageID  int

	Position mathutil.Vector2
	Velocity mathutil.Vector2
	Heading  float64

	Energy float64
	Age    float64

	State State
	Alive bool
	Stress float64

	GroupLonelySeconds float64
	GroupCooldown      float64

	WanderDir  mathutil.Vector2
	WanderTime float64

	LastDesired     mathutil.Vector2
	LastSensedDanger bool

	Traits      Traits
	TraitsDirty bool

	Appearance Appearance
}
