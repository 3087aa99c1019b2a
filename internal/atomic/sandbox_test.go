package atomic

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func TestParsePair(t *testing.T) {
	for _, p := range Pairs() {
		got, err := ParsePair(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePair("xenon-xenon")
	assert.True(t, errors.Is(err, ErrUnknownPair))
}

func TestMixedPairUsesLorentzBerthelot(t *testing.T) {
	s := NewSandbox(NeonArgon)
	assert.InDelta(t, (Neon.Sigma+Argon.Sigma)/2, s.Sigma(), 1e-9)
	assert.InDelta(t, math.Sqrt(Neon.Epsilon*Argon.Epsilon), s.Epsilon(), 1e-9)
}

func TestResetStartsVibrating(t *testing.T) {
	s := NewSandbox(NeonNeon)
	assert.Equal(t, Vibrating, s.BondingState())
	assert.Less(t, s.TotalEnergy(), 0.0)
}

func TestCapturedAtomSettlesIntoBond(t *testing.T) {
	s := NewSandbox(ArgonArgon)
	start := s.TotalEnergy()
	sawBonded := false
	for i := 0; i < 60*40; i++ {
		s.Step(frame)
		if s.BondingState() == Bonded {
			sawBonded = true
		}
		require.NotEqual(t, Unbonded, s.BondingState(), "frame %d", i)
	}
	assert.True(t, sawBonded)
	assert.Less(t, s.TotalEnergy(), start)
}

func TestRepelledAtomEscapes(t *testing.T) {
	s := NewSandbox(NeonNeon)
	s.Drag(0.95 * s.Sigma())
	s.Release()
	e0 := s.TotalEnergy()
	require.Equal(t, Unbonded, s.BondingState())

	for i := 0; i < 600; i++ {
		s.Step(frame)
	}

	assert.Greater(t, s.Separation(), 3*s.Sigma())
	assert.Equal(t, Unbonded, s.BondingState())
	assert.InDelta(t, e0, s.TotalEnergy(), 0.01*e0)
}

func TestDragFloorsSeparation(t *testing.T) {
	s := NewSandbox(OxygenOxygen)
	s.Drag(0)
	assert.InDelta(t, Oxygen.Sigma/8, s.Separation(), 1e-9)

	before := s.Separation()
	s.Step(frame)
	assert.Equal(t, before, s.Separation(), "dragged atom must not move")
}

func TestPause(t *testing.T) {
	s := NewSandbox(NeonNeon)
	s.SetPaused(true)
	x := s.Separation()
	s.Step(frame)
	assert.Equal(t, x, s.Separation())
	assert.Zero(t, s.Time())
}

func TestStepDropsLongFrames(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
		runs bool
	}{
		{"nominal frame", frame, true},
		{"longest frame", MaxFrameDuration, true},
		{"stalled frame", 1000, false},
		{"negative", -frame, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSandbox(NeonNeon)
			s.Step(tt.dt)
			if tt.runs {
				assert.Greater(t, s.Time(), 0.0)
			} else {
				assert.Zero(t, s.Time())
			}
		})
	}
}

func TestAdjustableClamps(t *testing.T) {
	s := NewSandbox(AdjustablePair)
	s.SetAdjustable(1000, 1)
	assert.Equal(t, MaxAdjustableSigma, s.Sigma())
	assert.Equal(t, MinAdjustableEpsilon, s.Epsilon())

	n := NewSandbox(NeonNeon)
	n.SetAdjustable(400, 400)
	assert.Equal(t, Neon.Sigma, n.Sigma())
}

func TestForcesBalanceAtMinimum(t *testing.T) {
	s := NewSandbox(NeonNeon)
	s.Drag(s.Sigma() * math.Pow(2, 1.0/6))
	att, rep := s.Forces()
	assert.InDelta(t, att, rep, 1e-9)
}
