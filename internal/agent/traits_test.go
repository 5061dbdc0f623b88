package agent

import (
	"testing"

	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/simrng"
)

func TestClampTraitsRestrictsRange(t *testing.T) {
	evo := config.DefaultConfig().Evolution
	traits := Traits{Speed: 99, Metabolism: -99}
	got := ClampTraits(traits, evo)
	if got.Speed != evo.SpeedClamp.Hi {
		t.Errorf("Speed = %v, want clamp hi %v", got.Speed, evo.SpeedClamp.Hi)
	}
	if got.Metabolism != evo.MetabolismClamp.Lo {
		t.Errorf("Metabolism = %v, want clamp lo %v", got.Metabolism, evo.MetabolismClamp.Lo)
	}
}

func TestInheritTraitsAveragesWhenDisabled(t *testing.T) {
	evo := config.DefaultConfig().Evolution
	evo.Enabled = false
	a := Traits{Speed: 1.0, Metabolism: 1.0, DiseaseResistance: 1.0, Fertility: 1.0, Sociality: 1.0, Territoriality: 1.0, Loyalty: 1.0, Founder: 1.0, KinBias: 1.0}
	b := Traits{Speed: 1.4, Metabolism: 1.0, DiseaseResistance: 1.0, Fertility: 1.0, Sociality: 1.0, Territoriality: 1.0, Loyalty: 1.0, Founder: 1.0, KinBias: 1.0}
	stream := simrng.NewStream(1)
	got := InheritTraits(a, b, evo, stream)
	if got.Speed != 1.2 {
		t.Errorf("Speed = %v, want 1.2 (pure average, mutation disabled)", got.Speed)
	}
}

func TestMetabolismMultiplierBounds(t *testing.T) {
	extreme := Traits{Metabolism: 100, Speed: 100}
	if m := MetabolismMultiplier(extreme); m != 2.5 {
		t.Errorf("MetabolismMultiplier = %v, want 2.5 ceiling", m)
	}
	low := Traits{Metabolism: 0, Speed: 0}
	if m := MetabolismMultiplier(low); m != 0.2 {
		t.Errorf("MetabolismMultiplier = %v, want 0.2 floor", m)
	}
}

func TestReproductionFactorBounds(t *testing.T) {
	high := Traits{Fertility: 100, DiseaseResistance: 100, Speed: 100}
	if f := ReproductionFactor(high); f != 1.5 {
		t.Errorf("ReproductionFactor = %v, want 1.5 ceiling", f)
	}
}

func TestCircularMeanWrapsCorrectly(t *testing.T) {
	got := circularMeanDeg(350, 10)
	if got > 1 && got < 359 {
		t.Errorf("circularMeanDeg(350,10) = %v, want near 0/360", got)
	}
}
