package agent

import (
	"math"

	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/mathutil"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

// ClampTraits restricts every gene in t to its configured [lo,hi] range.
func ClampTraits(t Traits, evo config.EvolutionConfig) Traits {
	return Traits{
		Speed:             mathutil.Clamp(t.Speed, evo.SpeedClamp.Lo, evo.SpeedClamp.Hi),
		Metabolism:        mathutil.Clamp(t.Metabolism, evo.MetabolismClamp.Lo, evo.MetabolismClamp.Hi),
		DiseaseResistance: mathutil.Clamp(t.DiseaseResistance, evo.DiseaseResistanceClamp.Lo, evo.DiseaseResistanceClamp.Hi),
		Fertility:         mathutil.Clamp(t.Fertility, evo.FertilityClamp.Lo, evo.FertilityClamp.Hi),
		Sociality:         mathutil.Clamp(t.Sociality, evo.SocialityClamp.Lo, evo.SocialityClamp.Hi),
		Territoriality:    mathutil.Clamp(t.Territoriality, evo.TerritorialityClamp.Lo, evo.TerritorialityClamp.Hi),
		Loyalty:           mathutil.Clamp(t.Loyalty, evo.LoyaltyClamp.Lo, evo.LoyaltyClamp.Hi),
		Founder:           mathutil.Clamp(t.Founder, evo.FounderClamp.Lo, evo.FounderClamp.Hi),
		KinBias:           mathutil.Clamp(t.KinBias, evo.KinBiasClamp.Lo, evo.KinBiasClamp.Hi),
	}
}

// SampleInitialTraits draws a fresh trait set from the trait RNG stream,
// one uniform draw per gene within its configured clamp range.
func SampleInitialTraits(evo config.EvolutionConfig, stream *simrng.Stream) Traits {
	return Traits{
		Speed:             stream.NextRange(evo.SpeedClamp.Lo, evo.SpeedClamp.Hi),
		Metabolism:        stream.NextRange(evo.MetabolismClamp.Lo, evo.MetabolismClamp.Hi),
		DiseaseResistance: stream.NextRange(evo.DiseaseResistanceClamp.Lo, evo.DiseaseResistanceClamp.Hi),
		Fertility:         stream.NextRange(evo.FertilityClamp.Lo, evo.FertilityClamp.Hi),
		Sociality:         stream.NextRange(evo.SocialityClamp.Lo, evo.SocialityClamp.Hi),
		Territoriality:    stream.NextRange(evo.TerritorialityClamp.Lo, evo.TerritorialityClamp.Hi),
		Loyalty:           stream.NextRange(evo.LoyaltyClamp.Lo, evo.LoyaltyClamp.Hi),
		Founder:           stream.NextRange(evo.FounderClamp.Lo, evo.FounderClamp.Hi),
		KinBias:           stream.NextRange(evo.KinBiasClamp.Lo, evo.KinBiasClamp.Hi),
	}
}

// InheritTraits averages two parents' traits gene-by-gene, then
// independently mutates each gene with probability
// evo.TraitMutationChance by a uniform perturbation scaled by the
// gene's mutation weight, and clamps the result.
func InheritTraits(a, b Traits, evo config.EvolutionConfig, stream *simrng.Stream) Traits {
	avg := Traits{
		Speed:             (a.Speed + b.Speed) / 2,
		Metabolism:        (a.Metabolism + b.Metabolism) / 2,
		DiseaseResistance: (a.DiseaseResistance + b.DiseaseResistance) / 2,
		Fertility:         (a.Fertility + b.Fertility) / 2,
		Sociality:         (a.Sociality + b.Sociality) / 2,
		Territoriality:    (a.Territoriality + b.Territoriality) / 2,
		Loyalty:           (a.Loyalty + b.Loyalty) / 2,
		Founder:           (a.Founder + b.Founder) / 2,
		KinBias:           (a.KinBias + b.KinBias) / 2,
	}
	if !evo.Enabled {
		return ClampTraits(avg, evo)
	}
	mutate := func(value, weight float64) float64 {
		if stream.NextFloat() >= evo.TraitMutationChance {
			return value
		}
		delta := stream.NextRange(-evo.MutationStrength, evo.MutationStrength) * weight
		return value + delta
	}
	mutated := Traits{
		Speed:             mutate(avg.Speed, evo.SpeedWeight),
		Metabolism:        mutate(avg.Metabolism, evo.MetabolismWeight),
		DiseaseResistance: mutate(avg.DiseaseResistance, evo.DiseaseResistanceWeight),
		Fertility:         mutate(avg.Fertility, evo.FertilityWeight),
		Sociality:         mutate(avg.Sociality, evo.SocialityWeight),
		Territoriality:    mutate(avg.Territoriality, evo.TerritorialityWeight),
		Loyalty:           mutate(avg.Loyalty, evo.LoyaltyWeight),
		Founder:           mutate(avg.Founder, evo.FounderWeight),
		KinBias:           mutate(avg.KinBias, evo.KinBiasWeight),
	}
	return ClampTraits(mutated, evo)
}

// SpeedLimit returns the agent's speed ceiling given its speed trait.
func SpeedLimit(t Traits, baseSpeed float64) float64 {
	return baseSpeed * t.Speed
}

// MetabolismMultiplier returns the clamp(metabolism*(0.6+0.4*speed),
// 0.2, 2.5) factor applied to baseline metabolism.
func MetabolismMultiplier(t Traits) float64 {
	return mathutil.Clamp(t.Metabolism*(0.6+0.4*t.Speed), 0.2, 2.5)
}

// DiseaseResistance returns the trait's contribution to the lifecycle's
// disease-risk denominator, clamped to [0.25, 4.0].
func DiseaseResistance(t Traits) float64 {
	return mathutil.Clamp(t.DiseaseResistance, 0.25, 4.0)
}

// ReproductionFactor returns the clamp(fertility*(0.7+0.3/max(0.5,
// resist))*(0.8+0.2/max(0.6,speed)), 0.35, 1.5) factor used by pair
// reproduction chance.
func ReproductionFactor(t Traits) float64 {
	resistTerm := 0.7 + 0.3/math.Max(0.5, t.DiseaseResistance)
	speedTerm := 0.8 + 0.2/math.Max(0.6, t.Speed)
	return mathutil.Clamp(t.Fertility*resistTerm*speedTerm, 0.35, 1.5)
}

// InheritAppearance computes a child's appearance from two parents: a
// circular mean of hue, averaged saturation and lightness, with an
// optional mutation pass.
func InheritAppearance(a, b Appearance, cfg config.AppearanceConfig, stream *simrng.Stream) Appearance {
	hue := circularMeanDeg(a.H, b.H)
	sat := mathutil.Clamp((a.S+b.S)/2, 0, 1)
	light := mathutil.Clamp((a.L+b.L)/2, 0, 1)
	if stream.NextFloat() < cfg.MutationChance {
		bias := 0.0
		if cfg.BiasHGroupDeg != nil {
			bias = *cfg.BiasHGroupDeg
		}
		hue = math.Mod(hue+bias+stream.NextRange(-cfg.MutationDeltaH, cfg.MutationDeltaH)+360, 360)
		sat = mathutil.Clamp(sat+stream.NextRange(-cfg.MutationDeltaS, cfg.MutationDeltaS), 0, 1)
		light = mathutil.Clamp(light+stream.NextRange(-cfg.MutationDeltaL, cfg.MutationDeltaL), 0, 1)
	}
	return Appearance{H: hue, S: sat, L: light}
}

func circularMeanDeg(a, b float64) float64 {
	toRad := math.Pi / 180
	ax, ay := math.Cos(a*toRad), math.Sin(a*toRad)
	bx, by := math.Cos(b*toRad), math.Sin(b*toRad)
	mx, my := (ax+bx)/2, (ay+by)/2
	if mx == 0 && my == 0 {
		return a
	}
	deg := math.Atan2(my, mx) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
