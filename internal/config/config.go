// Package config defines the typed, validated configuration tree consumed
// by the simulation core. Loading configuration from text formats (YAML,
// JSON files, flags) is an external driver concern; this package only
// defines the recognized options and their defaults.
package config

import "fmt"

// SpeciesConfig holds the per-species tuning parameters shared by every
// agent before trait evolution is applied.
type SpeciesConfig struct {
	BaseSpeed                        float64 `json:"base_speed"`                            // cruising speed before trait/behavior scaling
	MaxAcceleration                  float64 `json:"max_acceleration"`                       // turning/acceleration ceiling
	VisionRadius                     float64 `json:"vision_radius"`                          // neighbor query radius
	MetabolismPerSecond               float64 `json:"metabolism_per_second"`                  // baseline energy drain per second
	BirthEnergyCost                   float64 `json:"birth_energy_cost"`                      // birth energy cost; each parent pays half of it
	ReproductionEnergyThreshold       float64 `json:"reproduction_energy_threshold"`          // minimum energy to become a mate candidate
	AdultAge                          float64 `json:"adult_age"`                              // age at which an agent may reproduce
	InitialAgeMin                     float64 `json:"initial_age_min"`                        // lower bound of bootstrap age sampling
	InitialAgeMax                     float64 `json:"initial_age_max"`                        // upper bound of bootstrap age sampling
	MaxAge                            float64 `json:"max_age"`                                // age at which an agent dies of old age
	WanderJitter                      float64 `json:"wander_jitter"`                          // wander direction strength when idle
	WanderRefreshSeconds              float64 `json:"wander_refresh_seconds"`                 // how often the wander direction is redrawn
	InitialEnergyFractionOfThreshold  float64 `json:"initial_energy_fraction_of_threshold"`   // bootstrap energy as a fraction of the reproduction threshold
	EnergySoftCap                     float64 `json:"energy_soft_cap"`                        // energy level above which extra metabolism kicks in
	HighEnergyMetabolismSlope         float64 `json:"high_energy_metabolism_slope"`           // extra metabolism rate per unit of energy above the soft cap
}

// ResourcePatchConfig describes a region of the world with food
// parameters that override the environment defaults.
type ResourcePatchConfig struct {
	PositionX        float64 `json:"position_x"`         // patch center, x
	PositionY        float64 `json:"position_y"`         // patch center, y
	Radius           float64 `json:"radius"`              // patch radius in world units
	ResourcePerCell  float64 `json:"resource_per_cell"`   // per-cell food ceiling inside the patch
	RegenPerSecond   float64 `json:"regen_per_second"`    // per-cell regen rate inside the patch
	InitialResource  float64 `json:"initial_resource"`    // per-cell starting value inside the patch
}

// EnvironmentConfig holds the food/danger/pheromone field parameters.
type EnvironmentConfig struct {
	FoodPerCell                     float64               `json:"food_per_cell"`                        // default per-cell food ceiling
	FoodRegenPerSecond               float64               `json:"food_regen_per_second"`                 // default per-cell regen rate
	FoodConsumptionRate              float64               `json:"food_consumption_rate"`                 // max food an agent can eat per second
	FoodDiffusionRate                float64               `json:"food_diffusion_rate"`                   // orthogonal food diffusion rate
	FoodDecayRate                    float64               `json:"food_decay_rate"`                       // food decay (spoilage) rate
	FoodFromDeath                    float64               `json:"food_from_death"`                       // food deposited at a death's cell
	FoodRegenNoiseAmplitude          float64               `json:"food_regen_noise_amplitude"`            // climate noise amplitude around 1.0
	FoodRegenNoiseIntervalSeconds    float64               `json:"food_regen_noise_interval_seconds"`     // interval between new climate noise targets
	FoodRegenNoiseSmoothSeconds      float64               `json:"food_regen_noise_smooth_seconds"`       // exponential smoothing time constant toward the target
	DangerDiffusionRate              float64               `json:"danger_diffusion_rate"`                 // danger field diffusion rate
	DangerDecayRate                  float64               `json:"danger_decay_rate"`                     // danger field decay rate
	DangerPulseOnFlee                float64               `json:"danger_pulse_on_flee"`                   // danger deposited by a fleeing/sensing agent
	PheromoneDiffusionRate           float64               `json:"pheromone_diffusion_rate"`              // pheromone field diffusion rate
	PheromoneDecayRate                float64               `json:"pheromone_decay_rate"`                   // pheromone field decay rate
	PheromoneDepositOnBirth           float64               `json:"pheromone_deposit_on_birth"`             // pheromone deposited at a birth's cell
	ResourcePatches                   []ResourcePatchConfig `json:"resource_patches"`                       // additional food patches overriding defaults
}

// FeedbackConfig holds the density, disease, hazard, and group tuning
// parameters that feed back into population dynamics.
type FeedbackConfig struct {
	LocalDensitySoftCap                            int     `json:"local_density_soft_cap"`                               // neighbor count above which density penalties begin
	DensityReproductionPenalty                     float64 `json:"density_reproduction_penalty"`                         // base reproduction multiplier under high density
	DensityReproductionSlope                       float64 `json:"density_reproduction_slope"`                           // per-excess-neighbor reproduction penalty slope
	ReproductionBaseChance                         float64 `json:"reproduction_base_chance"`                             // base per-tick reproduction roll
	StressDrainPerNeighbor                         float64 `json:"stress_drain_per_neighbor"`                            // energy drained per neighbor per second from stress
	DiseaseProbabilityPerNeighbor                  float64 `json:"disease_probability_per_neighbor"`                     // disease risk contributed per dense neighbor per second
	BaseDeathProbabilityPerSecond                  float64 `json:"base_death_probability_per_second"`                    // flat hazard death rate
	AgeDeathProbabilityPerSecond                   float64 `json:"age_death_probability_per_second"`                     // per-age-unit hazard death rate
	DensityDeathProbabilityPerNeighborPerSecond    float64 `json:"density_death_probability_per_neighbor_per_second"`    // per-neighbor hazard death rate

	GroupFormationWarmupSeconds       float64 `json:"group_formation_warmup_seconds"`        // simulation time before any group may form
	GroupFormationNeighborThreshold   int     `json:"group_formation_neighbor_threshold"`    // ungrouped neighbors required to seed a group
	GroupFormationChance              float64 `json:"group_formation_chance"`                // per-tick formation roll once threshold is met
	GroupAdoptionNeighborThreshold    int     `json:"group_adoption_neighbor_threshold"`     // majority-group neighbor count required to adopt
	GroupAdoptionChance               float64 `json:"group_adoption_chance"`                 // base per-tick adoption roll
	GroupAdoptionGuardMinAllies       int     `json:"group_adoption_guard_min_allies"`       // allies already present that block re-adoption consideration
	GroupSmallGroupBonus              float64 `json:"group_small_group_bonus"`               // adoption-chance bonus divided by group size
	GroupSplitNeighborThreshold       int     `json:"group_split_neighbor_threshold"`        // same-group neighbor count required to consider splitting
	GroupSplitChance                  float64 `json:"group_split_chance"`                    // base per-tick split roll
	GroupSplitChanceMax               float64 `json:"group_split_chance_max"`                // ceiling on the split roll after size bonus
	GroupSplitSizeBonusPerNeighbor    float64 `json:"group_split_size_bonus_per_neighbor"`   // split-chance bonus per neighbor above the threshold
	GroupSplitNewGroupChance          float64 `json:"group_split_new_group_chance"`          // chance a successful split founds a new group rather than going ungrouped
	GroupSplitStressThreshold         float64 `json:"group_split_stress_threshold"`          // stress level (plus neighbor term) required to consider splitting
	GroupSplitSizeStressWeight        float64 `json:"group_split_size_stress_weight"`        // per-neighbor contribution to the split stress term
	GroupSplitRecruitmentCount        int     `json:"group_split_recruitment_count"`         // closest allies recruited into a new split group
	GroupBirthSeedChance              float64 `json:"group_birth_seed_chance"`               // chance an ungrouped birth seeds a new group
	GroupMutationChance               float64 `json:"group_mutation_chance"`                 // chance a grouped birth founds a splinter group
	GroupDetachNewGroupChance         float64 `json:"group_detach_new_group_chance"`         // chance a detach founds a new group instead of going ungrouped
	GroupCohesionRadius               float64 `json:"group_cohesion_radius"`                 // radius within which same-group neighbors contribute cohesion
	GroupDetachRadius                 float64 `json:"group_detach_radius"`                   // radius used for the "close neighbor" loneliness check
	GroupDetachCloseNeighborThreshold int     `json:"group_detach_close_neighbor_threshold"` // close neighbors required to reset the loneliness timer
	GroupDetachAfterSeconds           float64 `json:"group_detach_after_seconds"`            // base loneliness duration before detach/switch is considered
	GroupSwitchChance                 float64 `json:"group_switch_chance"`                   // base chance of switching to a stronger neighboring group on detach
	GroupMergeCooldownSeconds         float64 `json:"group_merge_cooldown_seconds"`          // cooldown applied whenever an agent newly joins a group
	GroupReproductionPenaltyPerAlly   float64 `json:"group_reproduction_penalty_per_ally"`   // reproduction penalty per same-group neighbor
	GroupReproductionMinFactor        float64 `json:"group_reproduction_min_factor"`         // floor on the group reproduction factor

	PersonalSpaceRadius          float64 `json:"personal_space_radius"`            // radius of the personal-space bias
	PersonalSpaceWeight          float64 `json:"personal_space_weight"`            // weight of the personal-space bias
	MinSeparationDistance        float64 `json:"min_separation_distance"`          // distance below which an extra separation push applies
	MinSeparationWeight          float64 `json:"min_separation_weight"`            // weight of the extra separation push
	AllyCohesionWeight           float64 `json:"ally_cohesion_weight"`             // cohesion weight multiplier for same-group neighbors
	OtherGroupCohesionWeight     float64 `json:"other_group_cohesion_weight"`      // unused cohesion weight multiplier reserved for other-group neighbors
	AllySeparationWeight         float64 `json:"ally_separation_weight"`           // separation weight for same-group neighbors
	OtherGroupSeparationWeight   float64 `json:"other_group_separation_weight"`    // separation weight for other-group (and ungrouped) neighbors
	OtherGroupAvoidRadius        float64 `json:"other_group_avoid_radius"`         // radius of the intergroup-avoidance bias
	OtherGroupAvoidWeight        float64 `json:"other_group_avoid_weight"`         // weight of the intergroup-avoidance bias
	GroupBaseAttractionWeight    float64 `json:"group_base_attraction_weight"`     // weight of the group-base attraction bias
	GroupBaseSoftRadius          float64 `json:"group_base_soft_radius"`           // radius at which group-base attraction reaches full strength
	GroupBaseDeadZone            float64 `json:"group_base_dead_zone"`             // radius within which group-base attraction is zero
	GroupSeekRadius              float64 `json:"group_seek_radius"`                // radius within which an ungrouped agent seeks a known group base
	GroupSeekWeight              float64 `json:"group_seek_weight"`                // weight of the group-seek bias

	GroupUpdateStride                   int `json:"group_update_stride"`                    // group-membership update stride under load
	GroupUpdatePopulationThreshold       int `json:"group_update_population_threshold"`      // population above which the group-update stride engages
	SteeringUpdateStride                 int `json:"steering_update_stride"`                 // steering recompute stride under load
	SteeringUpdatePopulationThreshold     int `json:"steering_update_population_threshold"`   // population above which the steering-update stride engages
}

// EvolutionClampConfig bounds one evolvable trait.
type EvolutionClampConfig struct {
	Lo float64 `json:"lo"` // minimum allowed value after clamping
	Hi float64 `json:"hi"` // maximum allowed value after clamping
}

// EvolutionConfig controls trait inheritance, mutation, and clamping.
type EvolutionConfig struct {
	Enabled                bool    `json:"enabled"`                   // whether trait mutation is applied at all
	MutationStrength        float64 `json:"mutation_strength"`         // uniform perturbation magnitude applied on mutation
	TraitMutationChance      float64 `json:"trait_mutation_chance"`     // per-gene mutation roll
	LineageMutationChance    float64 `json:"lineage_mutation_chance"`   // chance a child is assigned a fresh lineage id

	SpeedWeight             float64 `json:"speed_weight"`
	MetabolismWeight         float64 `json:"metabolism_weight"`
	DiseaseResistanceWeight   float64 `json:"disease_resistance_weight"`
	FertilityWeight          float64 `json:"fertility_weight"`
	SocialityWeight          float64 `json:"sociality_weight"`
	TerritorialityWeight      float64 `json:"territoriality_weight"`
	LoyaltyWeight            float64 `json:"loyalty_weight"`
	FounderWeight            float64 `json:"founder_weight"`
	KinBiasWeight            float64 `json:"kin_bias_weight"`

	SpeedClamp             EvolutionClampConfig `json:"speed_clamp"`
	MetabolismClamp         EvolutionClampConfig `json:"metabolism_clamp"`
	DiseaseResistanceClamp   EvolutionClampConfig `json:"disease_resistance_clamp"`
	FertilityClamp          EvolutionClampConfig `json:"fertility_clamp"`
	SocialityClamp          EvolutionClampConfig `json:"sociality_clamp"`
	TerritorialityClamp      EvolutionClampConfig `json:"territoriality_clamp"`
	LoyaltyClamp            EvolutionClampConfig `json:"loyalty_clamp"`
	FounderClamp            EvolutionClampConfig `json:"founder_clamp"`
	KinBiasClamp            EvolutionClampConfig `json:"kin_bias_clamp"`
}

// AppearanceConfig controls the initial and inherited HSL appearance.
type AppearanceConfig struct {
	BaseH             float64  `json:"base_h"`               // bootstrap hue, degrees
	BaseS             float64  `json:"base_s"`               // bootstrap saturation
	BaseL             float64  `json:"base_l"`                // bootstrap lightness
	MutationChance    float64  `json:"mutation_chance"`       // chance a child's appearance mutates
	MutationDeltaH    float64  `json:"mutation_delta_h"`      // max hue perturbation, degrees
	MutationDeltaS    float64  `json:"mutation_delta_s"`      // max saturation perturbation
	MutationDeltaL    float64  `json:"mutation_delta_l"`      // max lightness perturbation
	BiasHGroupDeg     *float64 `json:"bias_h_group_deg,omitempty"` // optional hue offset, degrees, added on every appearance mutation; the same offset applies whatever the child's group
}

// Config is the root, validated configuration value consumed by
// World::new.
type Config struct {
	TimeStep                    float64 `json:"time_step"`                     // fixed simulation timestep, seconds
	EnvironmentTickInterval      float64 `json:"environment_tick_interval"`     // environment sub-tick interval, seconds
	InitialPopulation            int     `json:"initial_population"`            // bootstrap population size
	MaxPopulation                int     `json:"max_population"`                // hard population ceiling
	WorldSize                    float64 `json:"world_size"`                    // world side length
	BoundaryMargin                float64 `json:"boundary_margin"`               // distance from an edge at which boundary avoidance engages
	BoundaryAvoidanceWeight       float64 `json:"boundary_avoidance_weight"`     // weight of the boundary-avoidance bias
	BoundaryTurnWeight            float64 `json:"boundary_turn_weight"`          // how strongly the desired vector is blended toward inward near a boundary
	CellSize                      float64 `json:"cell_size"`                     // spatial grid and environment grid cell size
	Seed                          uint64  `json:"seed"`                           // base RNG seed
	ConfigVersion                 string  `json:"config_version"`                // opaque version tag surfaced in snapshots

	Species     SpeciesConfig     `json:"species"`
	Environment EnvironmentConfig `json:"environment"`
	Feedback    FeedbackConfig    `json:"feedback"`
	Evolution   EvolutionConfig   `json:"evolution"`
	Appearance  AppearanceConfig  `json:"appearance"`
}

// DefaultConfig returns the canonical defaults named by the design notes.
func DefaultConfig() Config {
	return Config{
		TimeStep:                 1.0 / 50.0,
		EnvironmentTickInterval:  0.25,
		InitialPopulation:        120,
		MaxPopulation:            700,
		WorldSize:                100.0,
		BoundaryMargin:           5.0,
		BoundaryAvoidanceWeight:  1.0,
		BoundaryTurnWeight:       0.5,
		CellSize:                 2.5,
		Seed:                     1337,
		ConfigVersion:            "v1",
		Species: SpeciesConfig{
			BaseSpeed:                       6.0,
			MaxAcceleration:                 20.0,
			VisionRadius:                    8.0,
			MetabolismPerSecond:             0.8,
			BirthEnergyCost:                 8.0,
			ReproductionEnergyThreshold:     12.0,
			AdultAge:                        20.0,
			InitialAgeMin:                   0.0,
			InitialAgeMax:                   0.0,
			MaxAge:                          80.0,
			WanderJitter:                    0.45,
			WanderRefreshSeconds:            2.0,
			InitialEnergyFractionOfThreshold: 0.8,
			EnergySoftCap:                   20.0,
			HighEnergyMetabolismSlope:        0.015,
		},
		Environment: EnvironmentConfig{
			FoodPerCell:                  10.0,
			FoodRegenPerSecond:           0.5,
			FoodConsumptionRate:          5.0,
			FoodDiffusionRate:            0.0,
			FoodDecayRate:                0.0,
			FoodFromDeath:                3.0,
			FoodRegenNoiseAmplitude:      0.0,
			FoodRegenNoiseIntervalSeconds: 30.0,
			FoodRegenNoiseSmoothSeconds:   10.0,
			DangerDiffusionRate:          2.0,
			DangerDecayRate:              1.0,
			DangerPulseOnFlee:            1.0,
			PheromoneDiffusionRate:       0.1,
			PheromoneDecayRate:           0.0,
			PheromoneDepositOnBirth:      4.0,
			ResourcePatches:              nil,
		},
		Feedback: FeedbackConfig{
			LocalDensitySoftCap:                         15,
			DensityReproductionPenalty:                  0.6,
			DensityReproductionSlope:                     0.02,
			ReproductionBaseChance:                        0.3,
			StressDrainPerNeighbor:                        0.01,
			DiseaseProbabilityPerNeighbor:                  0.002,
			BaseDeathProbabilityPerSecond:                  0.0005,
			AgeDeathProbabilityPerSecond:                   0.00015,
			DensityDeathProbabilityPerNeighborPerSecond:     0.0001,

			GroupFormationWarmupSeconds:     0.0,
			GroupFormationNeighborThreshold: 5,
			GroupFormationChance:            0.02,
			GroupAdoptionNeighborThreshold:  2,
			GroupAdoptionChance:             0.05,
			GroupAdoptionGuardMinAllies:     3,
			GroupSmallGroupBonus:            1.0,
			GroupSplitNeighborThreshold:     10,
			GroupSplitChance:                0.0015,
			GroupSplitChanceMax:             0.05,
			GroupSplitSizeBonusPerNeighbor:  0.0005,
			GroupSplitNewGroupChance:        0.7,
			GroupSplitStressThreshold:       0.4,
			GroupSplitSizeStressWeight:      0.01,
			GroupSplitRecruitmentCount:      2,
			GroupBirthSeedChance:            0.35,
			GroupMutationChance:             0.05,
			GroupDetachNewGroupChance:       0.3,
			GroupCohesionRadius:             6.0,
			GroupDetachRadius:               3.0,
			GroupDetachCloseNeighborThreshold: 3,
			GroupDetachAfterSeconds:         5.0,
			GroupSwitchChance:               0.2,
			GroupMergeCooldownSeconds:       2.0,
			GroupReproductionPenaltyPerAlly: 0.05,
			GroupReproductionMinFactor:      0.2,

			PersonalSpaceRadius:        1.5,
			PersonalSpaceWeight:        0.6,
			MinSeparationDistance:      0.8,
			MinSeparationWeight:        1.0,
			AllyCohesionWeight:         0.8,
			OtherGroupCohesionWeight:   0.0,
			AllySeparationWeight:       1.0,
			OtherGroupSeparationWeight: 1.4,
			OtherGroupAvoidRadius:      3.0,
			OtherGroupAvoidWeight:      1.0,
			GroupBaseAttractionWeight:  0.5,
			GroupBaseSoftRadius:        10.0,
			GroupBaseDeadZone:          2.0,
			GroupSeekRadius:            12.0,
			GroupSeekWeight:            0.6,

			GroupUpdateStride:                 1,
			GroupUpdatePopulationThreshold:    300,
			SteeringUpdateStride:              1,
			SteeringUpdatePopulationThreshold: 300,
		},
		Evolution: EvolutionConfig{
			Enabled:             true,
			MutationStrength:    0.1,
			TraitMutationChance: 0.1,
			LineageMutationChance: 0.02,

			SpeedWeight:           1.0,
			MetabolismWeight:       1.0,
			DiseaseResistanceWeight: 1.0,
			FertilityWeight:        1.0,
			SocialityWeight:        1.0,
			TerritorialityWeight:   1.0,
			LoyaltyWeight:          1.0,
			FounderWeight:          1.0,
			KinBiasWeight:          1.0,

			SpeedClamp:             EvolutionClampConfig{Lo: 0.5, Hi: 1.5},
			MetabolismClamp:         EvolutionClampConfig{Lo: 0.5, Hi: 1.5},
			DiseaseResistanceClamp:   EvolutionClampConfig{Lo: 0.5, Hi: 1.5},
			FertilityClamp:          EvolutionClampConfig{Lo: 0.5, Hi: 1.5},
			SocialityClamp:          EvolutionClampConfig{Lo: 0.0, Hi: 2.0},
			TerritorialityClamp:     EvolutionClampConfig{Lo: 0.0, Hi: 2.0},
			LoyaltyClamp:            EvolutionClampConfig{Lo: 0.5, Hi: 2.0},
			FounderClamp:            EvolutionClampConfig{Lo: 0.0, Hi: 2.0},
			KinBiasClamp:            EvolutionClampConfig{Lo: 1.0, Hi: 3.0},
		},
		Appearance: AppearanceConfig{
			BaseH:          50.0,
			BaseS:          1.0,
			BaseL:          0.83,
			MutationChance: 0.2,
			MutationDeltaH: 20.0,
			MutationDeltaS: 0.1,
			MutationDeltaL: 0.1,
			BiasHGroupDeg:  nil,
		},
	}
}

// Validate reports the first configuration error found, eagerly,
// following the style of a typed config guarding engine construction.
func (c *Config) Validate() error {
	if c.TimeStep <= 0 {
		return fmt.Errorf("time step must be positive")
	}
	if c.EnvironmentTickInterval <= 0 {
		return fmt.Errorf("environment tick interval must be positive")
	}
	if c.InitialPopulation < 0 {
		return fmt.Errorf("initial population must not be negative")
	}
	if c.MaxPopulation <= 0 {
		return fmt.Errorf("max population must be positive")
	}
	if c.InitialPopulation > c.MaxPopulation {
		return fmt.Errorf("initial population must not exceed max population")
	}
	if c.WorldSize <= 0 {
		return fmt.Errorf("world size must be positive")
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive")
	}
	if c.Species.VisionRadius < 0 {
		return fmt.Errorf("vision radius must not be negative")
	}
	if c.Species.MaxAge <= 0 {
		return fmt.Errorf("max age must be positive")
	}
	if c.Species.InitialAgeMin > c.Species.InitialAgeMax {
		return fmt.Errorf("initial age min must not exceed initial age max")
	}
	if c.Environment.FoodPerCell < 0 {
		return fmt.Errorf("food per cell must not be negative")
	}
	if c.Environment.FoodDiffusionRate < 0 || c.Environment.DangerDiffusionRate < 0 || c.Environment.PheromoneDiffusionRate < 0 {
		return fmt.Errorf("diffusion rates must not be negative")
	}
	if c.Environment.FoodDecayRate < 0 || c.Environment.DangerDecayRate < 0 || c.Environment.PheromoneDecayRate < 0 {
		return fmt.Errorf("decay rates must not be negative")
	}
	if c.BoundaryAvoidanceWeight < 0 || c.BoundaryTurnWeight < 0 {
		return fmt.Errorf("boundary weights must not be negative")
	}
	f := c.Feedback
	for _, w := range []float64{
		f.PersonalSpaceWeight, f.MinSeparationWeight, f.AllyCohesionWeight,
		f.OtherGroupCohesionWeight, f.AllySeparationWeight, f.OtherGroupSeparationWeight,
		f.OtherGroupAvoidWeight, f.GroupBaseAttractionWeight, f.GroupSeekWeight,
	} {
		if w < 0 {
			return fmt.Errorf("steering weights must not be negative")
		}
	}
	for _, clamp := range c.allClamps() {
		if clamp.Lo > clamp.Hi {
			return fmt.Errorf("trait clamp range has lo greater than hi")
		}
	}
	return nil
}

func (c *Config) allClamps() []EvolutionClampConfig {
	e := c.Evolution
	return []EvolutionClampConfig{
		e.SpeedClamp, e.MetabolismClamp, e.DiseaseResistanceClamp,
		e.FertilityClamp, e.SocialityClamp, e.TerritorialityClamp,
		e.LoyaltyClamp, e.FounderClamp, e.KinBiasClamp,
	}
}
